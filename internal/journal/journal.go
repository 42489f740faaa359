// Package journal owns the daily record store: reads, inserts, deletes and
// the one-time migration of legacy single-entry days.
//
// Every operation loads the store from the KV, works on that private copy
// and saves the whole store only when the operation succeeds. Writes are
// serialized by a single mutex so concurrent callers never lose updates.
package journal

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mesh-intelligence/moodlog/internal/log"
	"github.com/mesh-intelligence/moodlog/pkg/types"
)

// FeelingLookup resolves feeling names. *catalog.Service satisfies it.
type FeelingLookup interface {
	Get(name string) (types.Feeling, error)
}

// Journal is the record store service.
type Journal struct {
	mu        sync.RWMutex
	kv        types.KV
	feelings  FeelingLookup
	clock     types.Clock
	logger    *log.Logger
	observers []Observer
}

// Option configures a Journal.
type Option func(*Journal)

// WithClock sets the clock used for default dates and times.
func WithClock(c types.Clock) Option {
	return func(j *Journal) { j.clock = c }
}

// WithLogger sets the journal logger.
func WithLogger(l *log.Logger) Option {
	return func(j *Journal) { j.logger = l.WithComponent(log.ComponentJournal) }
}

// WithObserver registers an observer for committed changes.
func WithObserver(o Observer) Option {
	return func(j *Journal) { j.observers = append(j.observers, o) }
}

// New returns a journal persisting through kv and validating feelings with
// feelings.
func New(kv types.KV, feelings FeelingLookup, opts ...Option) *Journal {
	j := &Journal{
		kv:       kv,
		feelings: feelings,
		clock:    types.SystemClock,
		logger:   log.Discard(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// AddEntryInput describes an entry to record. Empty Date and TimeOfDay
// default to the clock's current local date and time.
type AddEntryInput struct {
	Date      string
	TimeOfDay string
	Feeling   string
	Note      string
}

// DeleteResult describes what DeleteEntry removed.
type DeleteResult struct {
	Date        string        `json:"data"`
	TimeOfDay   string        `json:"horario,omitempty"`
	Removed     []types.Entry `json:"removidos"`
	DateRemoved bool          `json:"data_removida"`
}

// GetAll returns a snapshot of every day.
func (j *Journal) GetAll() (types.Store, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.load()
}

// GetDay returns the record for date.
func (j *Journal) GetDay(date string) (types.DayRecord, error) {
	if err := types.ValidateDate(date); err != nil {
		return types.DayRecord{}, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	store, err := j.load()
	if err != nil {
		return types.DayRecord{}, err
	}
	rec, ok := store[date]
	if !ok {
		return types.DayRecord{}, fmt.Errorf("no record for %s: %w", date, types.ErrNotFound)
	}
	return rec, nil
}

// GetYear returns the days whose keys start with year.
func (j *Journal) GetYear(year int) (types.Store, error) {
	prefix, err := types.FormatYear(year)
	if err != nil {
		return nil, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	store, err := j.load()
	if err != nil {
		return nil, err
	}
	return store.Filter(prefix), nil
}

// AddEntry records a feeling. A legacy day is migrated before the new entry
// is inserted; entries stay ordered by time of day.
func (j *Journal) AddEntry(in AddEntryInput) (types.DatedEntry, error) {
	if _, err := j.feelings.Get(in.Feeling); err != nil {
		return types.DatedEntry{}, err
	}

	now := j.clock.Now()
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = now.Format(types.DateLayout)
	} else if err := types.ValidateDate(date); err != nil {
		return types.DatedEntry{}, err
	}
	timeOfDay := strings.TrimSpace(in.TimeOfDay)
	if timeOfDay == "" {
		timeOfDay = now.Format(types.TimeLayout)
	} else if err := types.ValidateTimeOfDay(timeOfDay); err != nil {
		return types.DatedEntry{}, err
	}

	entry := types.Entry{
		TimeOfDay: timeOfDay,
		Feeling:   in.Feeling,
		Note:      types.NotePtr(in.Note),
	}

	j.mu.Lock()
	store, err := j.load()
	if err != nil {
		j.mu.Unlock()
		return types.DatedEntry{}, err
	}

	rec, ok := store[date]
	switch {
	case !ok:
		rec = types.DayRecord{Kind: types.RecordModern}
	case rec.IsLegacy():
		rec = rec.Migrated()
		j.logger.Info("migrated legacy day", log.FieldDate, date)
	}
	rec.Insert(entry)
	store[date] = rec

	if err := j.save(store); err != nil {
		j.mu.Unlock()
		return types.DatedEntry{}, err
	}
	j.mu.Unlock()

	added := types.DatedEntry{Date: date, Entry: entry}
	j.logger.Info("entry added", log.NewFields().
		WithOperation(log.OpAdd).
		WithEntry(date, timeOfDay, in.Feeling).
		ToSlice()...)
	j.notifyAdded(added)
	return added, nil
}

// DeleteEntry removes entries from date. An empty timeOfDay removes the
// whole day, and so does any delete on a legacy day. A day left with no
// entries is removed.
func (j *Journal) DeleteEntry(date, timeOfDay string) (DeleteResult, error) {
	if err := types.ValidateDate(date); err != nil {
		return DeleteResult{}, err
	}
	timeOfDay = strings.TrimSpace(timeOfDay)
	if timeOfDay != "" {
		if err := types.ValidateTimeOfDay(timeOfDay); err != nil {
			return DeleteResult{}, err
		}
	}

	j.mu.Lock()
	store, err := j.load()
	if err != nil {
		j.mu.Unlock()
		return DeleteResult{}, err
	}

	rec, ok := store[date]
	if !ok {
		j.mu.Unlock()
		return DeleteResult{}, fmt.Errorf("no record for %s: %w", date, types.ErrNotFound)
	}

	res := DeleteResult{Date: date, TimeOfDay: timeOfDay}
	if timeOfDay == "" || rec.IsLegacy() {
		res.Removed = rec.Entries
		res.DateRemoved = true
		delete(store, date)
	} else {
		for _, e := range rec.Entries {
			if e.TimeOfDay == timeOfDay {
				res.Removed = append(res.Removed, e)
			}
		}
		if rec.RemoveAt(timeOfDay) == 0 {
			j.mu.Unlock()
			return DeleteResult{}, fmt.Errorf("no entry at %s on %s: %w", timeOfDay, date, types.ErrNotFound)
		}
		if rec.Len() == 0 {
			delete(store, date)
			res.DateRemoved = true
		} else {
			store[date] = rec
		}
	}

	if err := j.save(store); err != nil {
		j.mu.Unlock()
		return DeleteResult{}, err
	}
	j.mu.Unlock()

	j.logger.Info("entry deleted", log.NewFields().
		WithOperation(log.OpDelete).
		WithEntry(date, timeOfDay, "").
		ToSlice()...)
	j.notifyDeleted(res)
	return res, nil
}

// load decodes the persisted store. The caller holds j.mu.
func (j *Journal) load() (types.Store, error) {
	data, ok, err := j.kv.Load(types.KeyRecords)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	if !ok {
		return types.Store{}, nil
	}
	store, err := types.DecodeStore(data)
	if err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}
	return store, nil
}

// save persists the whole store. The caller holds j.mu for writing.
func (j *Journal) save(store types.Store) error {
	data, err := types.EncodeStore(store)
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	if err := j.kv.Save(types.KeyRecords, data); err != nil {
		return fmt.Errorf("saving records: %w", err)
	}
	return nil
}
