package events

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/mesh-intelligence/moodlog/internal/journal"
	"github.com/mesh-intelligence/moodlog/internal/log"
	"github.com/mesh-intelligence/moodlog/pkg/types"
)

// DefaultExchange is used when no exchange name is configured.
const DefaultExchange = "moodlog.events"

// publishTimeout bounds each publish.
const publishTimeout = 5 * time.Second

// channel is the part of *amqp091.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher sends journal events to a topic exchange. It implements
// journal.Observer.
type Publisher struct {
	ch       channel
	conn     io.Closer
	exchange string
	clock    types.Clock
	logger   *log.Logger
}

var _ journal.Observer = (*Publisher)(nil)

// Dial connects to url and declares the exchange.
func Dial(url, exchange string, logger *log.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := newPublisher(ch, conn, exchange, types.SystemClock, logger)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return p, nil
}

func newPublisher(ch channel, conn io.Closer, exchange string, clock types.Clock, logger *log.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if logger == nil {
		logger = log.Discard()
	}
	err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{
		ch:       ch,
		conn:     conn,
		exchange: exchange,
		clock:    clock,
		logger:   logger.WithComponent(log.ComponentEvents),
	}, nil
}

// EntryAdded publishes an entry.recorded event.
func (p *Publisher) EntryAdded(e types.DatedEntry) error {
	return p.publish(NewRecordedEvent(e, p.clock.Now()))
}

// EntryDeleted publishes an entry.deleted event.
func (p *Publisher) EntryDeleted(res journal.DeleteResult) error {
	return p.publish(NewDeletedEvent(res, p.clock.Now()))
}

func (p *Publisher) publish(ev Event) error {
	body, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(
		ctx,
		p.exchange, // exchange
		ev.Type,    // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    ev.ID,
			Type:         ev.Type,
			Timestamp:    ev.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}

	p.logger.Debug("event published",
		log.FieldEventID, ev.ID,
		log.FieldRoutingKey, ev.Type,
		log.FieldDate, ev.Date)
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
