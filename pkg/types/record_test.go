package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayRecordUnmarshalShapes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind RecordKind
		wantLen  int
		wantErr  error
	}{
		{
			name:     "legacy shape with note",
			input:    `{"sentimento":"alegria","nota":"x"}`,
			wantKind: RecordLegacy,
			wantLen:  1,
		},
		{
			name:     "legacy shape without note",
			input:    `{"sentimento":"medo"}`,
			wantKind: RecordLegacy,
			wantLen:  1,
		},
		{
			name:     "modern shape",
			input:    `{"registros":[{"horario":"08:00","sentimento":"alegria","nota":null},{"horario":"21:30","sentimento":"tedio","nota":"long day"}]}`,
			wantKind: RecordModern,
			wantLen:  2,
		},
		{
			name:     "registros wins over sentimento",
			input:    `{"sentimento":"raiva","registros":[]}`,
			wantKind: RecordModern,
			wantLen:  0,
		},
		{
			name:    "neither shape",
			input:   `{"foo":"bar"}`,
			wantErr: ErrInvalidData,
		},
		{
			name:    "not an object",
			input:   `[1,2]`,
			wantErr: ErrInvalidData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec DayRecord
			err := json.Unmarshal([]byte(tt.input), &rec)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, rec.Kind)
			assert.Equal(t, tt.wantLen, rec.Len())
		})
	}
}

func TestDayRecordMarshalKeepsShape(t *testing.T) {
	legacy := NewLegacyRecord("alegria", NotePtr("x"))
	data, err := json.Marshal(legacy)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sentimento":"alegria","nota":"x"}`, string(data))

	modern := DayRecord{Kind: RecordModern, Entries: []Entry{{TimeOfDay: "09:00", Feeling: "medo"}}}
	data, err = json.Marshal(modern)
	require.NoError(t, err)
	assert.JSONEq(t, `{"registros":[{"horario":"09:00","sentimento":"medo","nota":null}]}`, string(data))

	empty := DayRecord{Kind: RecordModern}
	data, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"registros":[]}`, string(data))
}

func TestDayRecordMigrated(t *testing.T) {
	legacy := NewLegacyRecord("alegria", NotePtr("x"))

	modern := legacy.Migrated()
	assert.Equal(t, RecordModern, modern.Kind)
	require.Len(t, modern.Entries, 1)
	assert.Equal(t, LegacyTimeOfDay, modern.Entries[0].TimeOfDay)
	assert.Equal(t, "x", modern.Entries[0].NoteText())

	// The source is untouched.
	assert.True(t, legacy.IsLegacy())
	assert.Equal(t, "", legacy.Entries[0].TimeOfDay)

	again := modern.Migrated()
	assert.Equal(t, modern, again)
}

func TestDayRecordInsertIsStable(t *testing.T) {
	rec := DayRecord{Kind: RecordModern}
	rec.Insert(Entry{TimeOfDay: "09:00", Feeling: "alegria"})
	rec.Insert(Entry{TimeOfDay: "08:00", Feeling: "medo"})
	rec.Insert(Entry{TimeOfDay: "09:00", Feeling: "raiva"})
	rec.Insert(Entry{TimeOfDay: "07:15", Feeling: "tedio"})

	var got []string
	for _, e := range rec.Entries {
		got = append(got, e.TimeOfDay+" "+e.Feeling)
	}
	assert.Equal(t, []string{"07:15 tedio", "08:00 medo", "09:00 alegria", "09:00 raiva"}, got)
}

func TestDayRecordRemoveAt(t *testing.T) {
	rec := DayRecord{Kind: RecordModern, Entries: []Entry{
		{TimeOfDay: "08:00", Feeling: "medo"},
		{TimeOfDay: "09:00", Feeling: "alegria"},
		{TimeOfDay: "09:00", Feeling: "raiva"},
	}}
	original := rec.Clone()

	assert.Equal(t, 2, rec.RemoveAt("09:00"))
	assert.Equal(t, []Entry{{TimeOfDay: "08:00", Feeling: "medo"}}, rec.Entries)
	assert.Equal(t, 0, rec.RemoveAt("23:59"))
	assert.Len(t, original.Entries, 3)
}

func TestDayRecordCloneIsDeep(t *testing.T) {
	rec := DayRecord{Kind: RecordModern, Entries: []Entry{{TimeOfDay: "08:00", Feeling: "medo", Note: NotePtr("a")}}}
	cp := rec.Clone()
	*cp.Entries[0].Note = "b"
	cp.Entries[0].Feeling = "raiva"
	assert.Equal(t, "a", rec.Entries[0].NoteText())
	assert.Equal(t, "medo", rec.Entries[0].Feeling)
}

func TestStoreRoundTrip(t *testing.T) {
	original := Store{
		"2024-01-01": NewLegacyRecord("alegria", NotePtr("new year")),
		"2024-01-02": NewLegacyRecord("tedio", nil),
		"2024-03-10": {Kind: RecordModern, Entries: []Entry{
			{TimeOfDay: "08:00", Feeling: "ansiedade"},
			{TimeOfDay: "19:45", Feeling: "alegria", Note: NotePtr("dinner")},
		}},
	}

	data, err := EncodeStore(original)
	require.NoError(t, err)

	decoded, err := DecodeStore(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeStoreEmptyInput(t *testing.T) {
	for _, in := range []string{"", "  \n", "null", "{}"} {
		s, err := DecodeStore([]byte(in))
		require.NoError(t, err, "input %q", in)
		assert.NotNil(t, s)
		assert.Empty(t, s)
	}
}

func TestDecodeStoreDropsEmptyDays(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantDates []string
	}{
		{
			name:      "empty modern day dropped",
			input:     `{"2024-03-10":{"registros":[]},"2024-03-11":{"registros":[{"horario":"08:00","sentimento":"medo","nota":null}]}}`,
			wantDates: []string{"2024-03-11"},
		},
		{
			name:      "only empty days",
			input:     `{"2024-03-10":{"registros":[]}}`,
			wantDates: []string{},
		},
		{
			name:      "legacy day kept",
			input:     `{"2024-01-01":{"sentimento":"alegria","nota":null},"2024-01-02":{"registros":[]}}`,
			wantDates: []string{"2024-01-01"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := DecodeStore([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantDates, s.Dates())
			assert.Equal(t, len(tt.wantDates), len(s))
		})
	}
}

func TestDecodeStoreSortsModernEntries(t *testing.T) {
	input := `{"2024-03-10":{"registros":[
		{"horario":"09:00","sentimento":"alegria","nota":null},
		{"horario":"08:00","sentimento":"medo","nota":null},
		{"horario":"09:00","sentimento":"raiva","nota":"later"}
	]}}`

	s, err := DecodeStore([]byte(input))
	require.NoError(t, err)

	rec := s["2024-03-10"]
	require.Equal(t, RecordModern, rec.Kind)
	assert.Equal(t, []Entry{
		{TimeOfDay: "08:00", Feeling: "medo"},
		{TimeOfDay: "09:00", Feeling: "alegria"},
		{TimeOfDay: "09:00", Feeling: "raiva", Note: NotePtr("later")},
	}, rec.Entries)
}

func TestStoreHelpers(t *testing.T) {
	s := Store{
		"2024-05-01": NewLegacyRecord("alegria", nil),
		"2023-12-31": {Kind: RecordModern, Entries: []Entry{{TimeOfDay: "08:00", Feeling: "medo"}, {TimeOfDay: "09:00", Feeling: "medo"}}},
		"2024-01-15": NewLegacyRecord("raiva", nil),
	}

	assert.Equal(t, []string{"2023-12-31", "2024-01-15", "2024-05-01"}, s.Dates())
	assert.Equal(t, 4, s.TotalEntries())

	year := s.Filter("2024")
	assert.Len(t, year, 2)
	assert.Contains(t, year, "2024-05-01")
	assert.NotContains(t, year, "2023-12-31")
}

func TestNotePtr(t *testing.T) {
	assert.Nil(t, NotePtr(""))
	assert.Nil(t, NotePtr("   "))
	require.NotNil(t, NotePtr(" hi "))
	assert.Equal(t, "hi", *NotePtr(" hi "))
}
