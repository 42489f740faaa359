package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Entry is one occurrence of a feeling on a day. Note is nil when absent.
type Entry struct {
	TimeOfDay string  `json:"horario"`
	Feeling   string  `json:"sentimento"`
	Note      *string `json:"nota"`
}

// NoteText returns the note or the empty string.
func (e Entry) NoteText() string {
	if e.Note == nil {
		return ""
	}
	return *e.Note
}

// NotePtr returns nil for an empty (after trimming) note.
func NotePtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// DatedEntry is an Entry together with the date it belongs to.
type DatedEntry struct {
	Date string `json:"data"`
	Entry
}

// RecordKind tags the persisted shape of a DayRecord.
type RecordKind int

// Record kinds.
const (
	RecordModern RecordKind = iota
	RecordLegacy
)

func (k RecordKind) String() string {
	switch k {
	case RecordModern:
		return "modern"
	case RecordLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("RecordKind(%d)", int(k))
	}
}

// DayRecord holds the entries of one calendar date. A legacy record holds
// exactly one entry whose TimeOfDay is empty; a modern record keeps its
// entries sorted ascending by TimeOfDay.
type DayRecord struct {
	Kind    RecordKind
	Entries []Entry
}

// NewLegacyRecord returns a legacy record for one feeling and optional note.
func NewLegacyRecord(feeling string, note *string) DayRecord {
	return DayRecord{
		Kind:    RecordLegacy,
		Entries: []Entry{{Feeling: feeling, Note: note}},
	}
}

// IsLegacy reports whether the record still has the legacy shape.
func (d DayRecord) IsLegacy() bool { return d.Kind == RecordLegacy }

// Len returns the number of entries.
func (d DayRecord) Len() int { return len(d.Entries) }

// Migrated returns the modern form of d. A legacy entry gets
// LegacyTimeOfDay; a modern record is returned as a copy.
func (d DayRecord) Migrated() DayRecord {
	out := d.Clone()
	if !d.IsLegacy() {
		return out
	}
	out.Kind = RecordModern
	for i := range out.Entries {
		out.Entries[i].TimeOfDay = LegacyTimeOfDay
	}
	return out
}

// Insert appends e and re-sorts entries by time of day. Entries with equal
// times keep insertion order. Insert must only be called on modern records.
func (d *DayRecord) Insert(e Entry) {
	d.Entries = append(d.Entries, e)
	sort.SliceStable(d.Entries, func(i, j int) bool {
		return d.Entries[i].TimeOfDay < d.Entries[j].TimeOfDay
	})
}

// RemoveAt deletes every entry whose time equals timeOfDay and returns how
// many were removed.
func (d *DayRecord) RemoveAt(timeOfDay string) int {
	kept := d.Entries[:0:0]
	for _, e := range d.Entries {
		if e.TimeOfDay != timeOfDay {
			kept = append(kept, e)
		}
	}
	removed := len(d.Entries) - len(kept)
	d.Entries = kept
	return removed
}

// Clone returns a deep copy of d.
func (d DayRecord) Clone() DayRecord {
	out := DayRecord{Kind: d.Kind, Entries: make([]Entry, len(d.Entries))}
	for i, e := range d.Entries {
		if e.Note != nil {
			n := *e.Note
			e.Note = &n
		}
		out.Entries[i] = e
	}
	return out
}

type legacyRecordJSON struct {
	Feeling string  `json:"sentimento"`
	Note    *string `json:"nota"`
}

type modernRecordJSON struct {
	Entries []Entry `json:"registros"`
}

// anyRecordJSON decodes either shape so the kind is decided in one place.
type anyRecordJSON struct {
	Feeling *string  `json:"sentimento"`
	Note    *string  `json:"nota"`
	Entries *[]Entry `json:"registros"`
}

// MarshalJSON writes the record in the shape its Kind names.
func (d DayRecord) MarshalJSON() ([]byte, error) {
	if d.IsLegacy() {
		if len(d.Entries) != 1 {
			return nil, fmt.Errorf("%w: legacy record with %d entries", ErrInvalidData, len(d.Entries))
		}
		return json.Marshal(legacyRecordJSON{Feeling: d.Entries[0].Feeling, Note: d.Entries[0].Note})
	}
	entries := d.Entries
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(modernRecordJSON{Entries: entries})
}

// UnmarshalJSON detects the legacy or modern shape. A "registros" list wins
// when both are present; its entries are stable-sorted by time of day.
func (d *DayRecord) UnmarshalJSON(data []byte) error {
	var raw anyRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: day record: %v", ErrInvalidData, err)
	}
	switch {
	case raw.Entries != nil:
		entries := *raw.Entries
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].TimeOfDay < entries[j].TimeOfDay
		})
		*d = DayRecord{Kind: RecordModern, Entries: entries}
	case raw.Feeling != nil:
		*d = NewLegacyRecord(*raw.Feeling, raw.Note)
	default:
		return fmt.Errorf("%w: day record has neither registros nor sentimento", ErrInvalidData)
	}
	return nil
}

// Store maps date keys (YYYY-MM-DD) to day records.
type Store map[string]DayRecord

// Dates returns the date keys in ascending order.
func (s Store) Dates() []string {
	dates := make([]string, 0, len(s))
	for d := range s {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// TotalEntries counts entries across legacy and modern days.
func (s Store) TotalEntries() int {
	n := 0
	for _, rec := range s {
		n += rec.Len()
	}
	return n
}

// Clone returns a deep copy of s. The result is never nil.
func (s Store) Clone() Store {
	out := make(Store, len(s))
	for d, rec := range s {
		out[d] = rec.Clone()
	}
	return out
}

// Filter returns the days whose date key starts with prefix.
func (s Store) Filter(prefix string) Store {
	out := make(Store)
	for d, rec := range s {
		if strings.HasPrefix(d, prefix) {
			out[d] = rec.Clone()
		}
	}
	return out
}

// DecodeStore parses a persisted store. Empty input yields an empty store.
// Days holding no entries are dropped; a stored day always has one.
func DecodeStore(data []byte) (Store, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Store{}, nil
	}
	var s Store
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode store: %w", err)
	}
	if s == nil {
		s = Store{}
	}
	for date, rec := range s {
		if rec.Len() == 0 {
			delete(s, date)
		}
	}
	return s, nil
}

// EncodeStore serializes a store with two-space indentation and sorted
// date keys.
func EncodeStore(s Store) ([]byte, error) {
	if s == nil {
		s = Store{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode store: %w", err)
	}
	return data, nil
}

// DecodeCatalog parses a persisted catalog.
func DecodeCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	return c, nil
}

// EncodeCatalog serializes a catalog with two-space indentation.
func EncodeCatalog(c Catalog) ([]byte, error) {
	raw, err := c.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}
