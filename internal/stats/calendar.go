package stats

import (
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/moodlog/pkg/types"
)

// EmptyColor fills days with no record.
const EmptyColor = "#ebedf0"

// Cell is one day of the heat-map grid. Weekday runs 0 (Monday) to 6
// (Sunday); Week is the grid column.
type Cell struct {
	Date     string `json:"data"`
	Week     int    `json:"semana"`
	Weekday  int    `json:"dia_semana"`
	Recorded bool   `json:"registrado"`
	Feeling  string `json:"sentimento,omitempty"`
	Color    string `json:"cor"`
	Entries  int    `json:"registros"`
	Summary  string `json:"resumo"`
}

// MonthLabel marks the column where a month starts.
type MonthLabel struct {
	Week  int        `json:"semana"`
	Month time.Month `json:"mes"`
	Year  int        `json:"ano"`
}

// Abbrev returns the three-letter English month name.
func (m MonthLabel) Abbrev() string {
	return m.Month.String()[:3]
}

// Calendar is the bucketed grid for a date range.
type Calendar struct {
	Start  string       `json:"inicio"`
	End    string       `json:"fim"`
	Weeks  int          `json:"semanas"`
	Cells  []Cell       `json:"dias"`
	Months []MonthLabel `json:"meses"`
}

// CalendarBuckets places every date from numWeeks*7 days before end up to
// end, inclusive, on the grid. The column advances after each Sunday. A
// recorded day takes the color of its most frequent feeling; ties go to the
// feeling of the earliest entry.
func CalendarBuckets(store types.Store, cat types.Catalog, numWeeks int, end time.Time) (Calendar, error) {
	if numWeeks <= 0 {
		return Calendar{}, &types.ValidationError{Field: "weeks", Value: strconv.Itoa(numWeeks), Reason: "must be positive"}
	}

	// Walk in UTC so daylight saving changes never skip or repeat a day.
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	first := last.AddDate(0, 0, -7*numWeeks)

	cal := Calendar{
		Start:  first.Format(types.DateLayout),
		End:    last.Format(types.DateLayout),
		Cells:  make([]Cell, 0, 7*numWeeks+1),
		Months: []MonthLabel{},
	}

	week := 0
	var lastMonth time.Month
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		weekday := mondayIndex(d.Weekday())

		if d.Day() <= 7 && d.Month() != lastMonth {
			cal.Months = append(cal.Months, MonthLabel{Week: week, Month: d.Month(), Year: d.Year()})
			lastMonth = d.Month()
		}

		date := d.Format(types.DateLayout)
		cell := Cell{Date: date, Week: week, Weekday: weekday, Color: EmptyColor}
		if rec, ok := store[date]; ok && rec.Len() > 0 {
			f, err := dominantFeeling(date, rec, cat)
			if err != nil {
				return Calendar{}, err
			}
			summary, err := DaySummary(date, rec, cat)
			if err != nil {
				return Calendar{}, err
			}
			cell.Recorded = true
			cell.Feeling = f.Name
			cell.Color = f.Color
			cell.Entries = rec.Len()
			cell.Summary = summary
		} else {
			cell.Summary = date + ": " + noRecordText
		}
		cal.Cells = append(cal.Cells, cell)

		if weekday == 6 {
			week++
		}
	}

	cal.Weeks = cal.Cells[len(cal.Cells)-1].Week + 1
	return cal, nil
}

// mondayIndex maps time.Weekday to 0=Monday..6=Sunday.
func mondayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}

// dominantFeeling picks the most frequent feeling of a day.
func dominantFeeling(date string, rec types.DayRecord, cat types.Catalog) (types.Feeling, error) {
	counts := make(map[string]int, rec.Len())
	for _, e := range rec.Entries {
		counts[e.Feeling]++
	}
	best := ""
	for _, e := range rec.Entries {
		if best == "" || counts[e.Feeling] > counts[best] {
			best = e.Feeling
		}
	}
	f, ok := cat.Get(best)
	if !ok {
		return types.Feeling{}, &types.UnknownFeelingError{Name: best, Date: date}
	}
	return f, nil
}

const noRecordText = "Sem registro"

// DaySummary returns the tooltip text for a day. A record with no entries
// reads as an unrecorded day.
func DaySummary(date string, rec types.DayRecord, cat types.Catalog) (string, error) {
	if rec.Len() == 0 {
		return date + ": " + noRecordText, nil
	}

	parts := make([]string, 0, rec.Len())
	for _, e := range rec.Entries {
		f, ok := cat.Get(e.Feeling)
		if !ok {
			return "", &types.UnknownFeelingError{Name: e.Feeling, Date: date}
		}
		var b strings.Builder
		if !rec.IsLegacy() {
			b.WriteString(e.TimeOfDay)
			b.WriteByte(' ')
		}
		b.WriteString(f.Emoji)
		b.WriteByte(' ')
		b.WriteString(f.Label())
		if note := e.NoteText(); note != "" {
			b.WriteString(" - ")
			b.WriteString(note)
		}
		parts = append(parts, b.String())
	}
	return date + ": " + strings.Join(parts, "; "), nil
}
