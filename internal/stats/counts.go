// Package stats derives read-only summaries from a journal snapshot:
// per-feeling counts and the day grid behind the calendar heat-map.
package stats

import (
	"math"
	"sort"

	"github.com/mesh-intelligence/moodlog/pkg/types"
)

// FeelingCount is one row of the feeling ranking.
type FeelingCount struct {
	Feeling    string  `json:"sentimento"`
	Emoji      string  `json:"emoji"`
	Color      string  `json:"cor"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Label returns the capitalized feeling name.
func (c FeelingCount) Label() string {
	return types.Feeling{Name: c.Feeling}.Label()
}

// Summary is the feeling ranking for a store.
type Summary struct {
	TotalDays    int            `json:"total_dias"`
	TotalEntries int            `json:"total_registros"`
	Counts       []FeelingCount `json:"estatisticas"`
}

// Empty reports whether the summary covers no entries.
func (s Summary) Empty() bool { return s.TotalEntries == 0 }

// FeelingCounts ranks feelings by how many entries name them. Legacy and
// modern days count alike. Ties keep the order in which feelings are first
// met walking dates ascending and entries in stored order. A feeling absent
// from the catalog is an error.
func FeelingCounts(store types.Store, cat types.Catalog) (Summary, error) {
	sum := Summary{
		TotalDays: len(store),
		Counts:    []FeelingCount{},
	}

	index := make(map[string]int)
	for _, date := range store.Dates() {
		for _, e := range store[date].Entries {
			i, seen := index[e.Feeling]
			if !seen {
				f, ok := cat.Get(e.Feeling)
				if !ok {
					return Summary{}, &types.UnknownFeelingError{Name: e.Feeling, Date: date}
				}
				i = len(sum.Counts)
				index[e.Feeling] = i
				sum.Counts = append(sum.Counts, FeelingCount{Feeling: f.Name, Emoji: f.Emoji, Color: f.Color})
			}
			sum.Counts[i].Count++
			sum.TotalEntries++
		}
	}

	if sum.TotalEntries == 0 {
		sum.TotalDays = 0
		return sum, nil
	}

	for i := range sum.Counts {
		sum.Counts[i].Percentage = percentage(sum.Counts[i].Count, sum.TotalEntries)
	}
	sort.SliceStable(sum.Counts, func(i, j int) bool {
		return sum.Counts[i].Count > sum.Counts[j].Count
	})
	return sum, nil
}

// percentage returns 100*part/total rounded to one decimal.
func percentage(part, total int) float64 {
	return math.Round(1000*float64(part)/float64(total)) / 10
}
