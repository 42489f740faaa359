package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/moodlog/internal/catalog"
	"github.com/mesh-intelligence/moodlog/internal/journal"
	"github.com/mesh-intelligence/moodlog/internal/memory"
	"github.com/mesh-intelligence/moodlog/pkg/types"
)

var at = time.Date(2024, 3, 10, 21, 45, 0, 0, time.UTC)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	declared   []string
	published  []published
	declareErr error
	publishErr error
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error {
	f.declared = append(f.declared, name+":"+kind)
	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	f.published = append(f.published, published{exchange, key, msg})
	return f.publishErr
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestRecordedEventJSON(t *testing.T) {
	note := "sol"
	ev := NewRecordedEvent(types.DatedEntry{
		Date:  "2024-03-10",
		Entry: types.Entry{TimeOfDay: "09:00", Feeling: "alegria", Note: &note},
	}, at)

	data, err := ev.ToJSON()
	require.NoError(t, err)

	back, err := eventFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, TypeEntryRecorded, back.Type)
	assert.Equal(t, "2024-03-10", back.Date)
	assert.Equal(t, "09:00", back.TimeOfDay)
	assert.Equal(t, "alegria", back.Feeling)
	assert.Equal(t, "sol", *back.Note)
	assert.NotEmpty(t, back.ID)
	assert.True(t, at.Equal(back.Timestamp))

	assert.Contains(t, string(data), `"sentimento":"alegria"`)
	assert.NotContains(t, string(data), "removidos")
}

func TestDeletedEvent(t *testing.T) {
	ev := NewDeletedEvent(journal.DeleteResult{
		Date:        "2024-03-10",
		Removed:     []types.Entry{{Feeling: "medo"}, {Feeling: "raiva"}},
		DateRemoved: true,
	}, at)
	assert.Equal(t, TypeEntryDeleted, ev.Type)
	assert.Equal(t, 2, ev.Removed)
	assert.Empty(t, ev.TimeOfDay)
}

func TestEventDecodeInvalid(t *testing.T) {
	_, err := eventFromJSON([]byte("{"))
	assert.Error(t, err)
}

func TestPublisherDeclaresTopicExchange(t *testing.T) {
	ch := &fakeChannel{}
	_, err := newPublisher(ch, nil, "", types.FixedClock(at), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultExchange + ":topic"}, ch.declared)

	ch = &fakeChannel{declareErr: errors.New("denied")}
	_, err = newPublisher(ch, nil, "x", types.FixedClock(at), nil)
	assert.ErrorContains(t, err, "denied")
}

func TestPublisherAsJournalObserver(t *testing.T) {
	ch := &fakeChannel{}
	pub, err := newPublisher(ch, nil, "moods", types.FixedClock(at), nil)
	require.NoError(t, err)

	kv := memory.New()
	j := journal.New(kv, catalog.New(kv), journal.WithClock(types.FixedClock(at)), journal.WithObserver(pub))

	_, err = j.AddEntry(journal.AddEntryInput{Feeling: "nostalgia", Note: "fotos antigas"})
	require.NoError(t, err)
	_, err = j.DeleteEntry("2024-03-10", "")
	require.NoError(t, err)

	require.Len(t, ch.published, 2)

	add := ch.published[0]
	assert.Equal(t, "moods", add.exchange)
	assert.Equal(t, TypeEntryRecorded, add.key)
	assert.Equal(t, "application/json", add.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, add.msg.DeliveryMode)
	ev, err := eventFromJSON(add.msg.Body)
	require.NoError(t, err)
	assert.Equal(t, "nostalgia", ev.Feeling)
	assert.Equal(t, "21:45", ev.TimeOfDay)
	assert.Equal(t, ev.ID, add.msg.MessageId)

	del := ch.published[1]
	assert.Equal(t, TypeEntryDeleted, del.key)
}

func TestPublishErrorDoesNotFailJournal(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("connection reset")}
	pub, err := newPublisher(ch, nil, "", types.FixedClock(at), nil)
	require.NoError(t, err)

	assert.ErrorContains(t, pub.EntryAdded(types.DatedEntry{Date: "2024-03-10"}), "connection reset")

	kv := memory.New()
	j := journal.New(kv, catalog.New(kv), journal.WithObserver(pub))
	_, err = j.AddEntry(journal.AddEntryInput{Date: "2024-03-10", TimeOfDay: "10:00", Feeling: "alegria"})
	assert.NoError(t, err)
}

func TestPublisherClose(t *testing.T) {
	ch := &fakeChannel{}
	pub, err := newPublisher(ch, nil, "", types.FixedClock(at), nil)
	require.NoError(t, err)
	require.NoError(t, pub.Close())
	assert.True(t, ch.closed)
}
