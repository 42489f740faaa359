// Package events publishes journal changes to an AMQP topic exchange so
// other tools can follow the journal without reading its storage.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/moodlog/internal/journal"
	"github.com/mesh-intelligence/moodlog/pkg/types"
)

// Event types, also used as routing keys.
const (
	TypeEntryRecorded = "entry.recorded"
	TypeEntryDeleted  = "entry.deleted"
)

// Event is the message body.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Date      string    `json:"data"`
	TimeOfDay string    `json:"horario,omitempty"`
	Feeling   string    `json:"sentimento,omitempty"`
	Note      *string   `json:"nota,omitempty"`
	Removed   int       `json:"removidos,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordedEvent describes an added entry.
func NewRecordedEvent(e types.DatedEntry, at time.Time) Event {
	return Event{
		ID:        newID(),
		Type:      TypeEntryRecorded,
		Date:      e.Date,
		TimeOfDay: e.TimeOfDay,
		Feeling:   e.Feeling,
		Note:      e.Note,
		Timestamp: at.UTC(),
	}
}

// NewDeletedEvent describes a delete. TimeOfDay is empty when the whole
// day was removed on request.
func NewDeletedEvent(res journal.DeleteResult, at time.Time) Event {
	return Event{
		ID:        newID(),
		Type:      TypeEntryDeleted,
		Date:      res.Date,
		TimeOfDay: res.TimeOfDay,
		Removed:   len(res.Removed),
		Timestamp: at.UTC(),
	}
}

// ToJSON encodes the event.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// eventFromJSON decodes an event body.
func eventFromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
