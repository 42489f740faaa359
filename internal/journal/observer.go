package journal

import (
	"github.com/mesh-intelligence/moodlog/internal/log"
	"github.com/mesh-intelligence/moodlog/pkg/types"
)

// Observer is told about changes after they are persisted. Errors are
// logged and never fail the journal operation.
type Observer interface {
	EntryAdded(entry types.DatedEntry) error
	EntryDeleted(res DeleteResult) error
}

func (j *Journal) notifyAdded(entry types.DatedEntry) {
	for _, o := range j.observers {
		if err := o.EntryAdded(entry); err != nil {
			j.logger.Warn("observer failed", log.NewFields().
				WithOperation(log.OpAdd).
				WithEntry(entry.Date, entry.TimeOfDay, entry.Feeling).
				WithError(err).
				ToSlice()...)
		}
	}
}

func (j *Journal) notifyDeleted(res DeleteResult) {
	for _, o := range j.observers {
		if err := o.EntryDeleted(res); err != nil {
			j.logger.Warn("observer failed", log.NewFields().
				WithOperation(log.OpDelete).
				WithEntry(res.Date, res.TimeOfDay, "").
				WithError(err).
				ToSlice()...)
		}
	}
}
