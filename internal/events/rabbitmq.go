package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const publishTimeout = 3 * time.Second

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher publishes JSON envelopes to a durable topic exchange. A
// channel or connection that has gone away is reopened on the next publish.
type RabbitPublisher struct {
	mu        sync.Mutex
	open      func() (channel, error)
	ch        channel
	closeConn func() error
	logger    zerolog.Logger
}

// NewRabbitPublisher dials url, opens a channel and declares the events
// exchange.
func NewRabbitPublisher(url string, logger zerolog.Logger) (*RabbitPublisher, error) {
	d := &dialer{url: url}
	p, err := newRabbitPublisher(d.channel, logger)
	if err != nil {
		_ = d.close()
		return nil, err
	}
	p.closeConn = d.close
	return p, nil
}

func newRabbitPublisher(open func() (channel, error), logger zerolog.Logger) (*RabbitPublisher, error) {
	p := &RabbitPublisher{
		open:   open,
		logger: logger.With().Str("component", "events").Logger(),
	}
	if err := p.reopen(); err != nil {
		return nil, err
	}
	return p, nil
}

// dialer owns the AMQP connection and redials it once it has closed.
type dialer struct {
	url  string
	conn *amqp.Connection
}

func (d *dialer) channel() (channel, error) {
	if d.conn == nil || d.conn.IsClosed() {
		conn, err := amqp.Dial(d.url)
		if err != nil {
			return nil, fmt.Errorf("dial rabbitmq: %w", err)
		}
		d.conn = conn
	}
	ch, err := d.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return ch, nil
}

func (d *dialer) close() error {
	if d.conn == nil || d.conn.IsClosed() {
		return nil
	}
	return d.conn.Close()
}

// reopen replaces the channel. Callers hold p.mu, except the constructor.
func (p *RabbitPublisher) reopen() error {
	ch, err := p.open()
	if err != nil {
		return err
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("declare exchange %s: %w", Exchange, err)
	}
	p.ch = ch
	return nil
}

func (p *RabbitPublisher) discard() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
}

// PublishOrderPlaced publishes an order.placed event keyed by the order id.
func (p *RabbitPublisher) PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error {
	env := newEnvelope("OrderPlaced", ev.OrderID.String(), ev)
	return p.publish(ctx, OrderPlacedRoutingKey, env.EventID, env)
}

// PublishOrderStatusChanged publishes an order.status_changed event.
func (p *RabbitPublisher) PublishOrderStatusChanged(ctx context.Context, ev OrderStatusChanged) error {
	env := newEnvelope("OrderStatusChanged", ev.OrderID.String(), ev)
	return p.publish(ctx, OrderStatusChangedRoutingKey, env.EventID, env)
}

func (p *RabbitPublisher) publish(ctx context.Context, routingKey, eventID string, env any) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", routingKey, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    eventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	// amqp channels are not safe for concurrent publishes.
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.send(pubCtx, routingKey, msg)
	if errors.Is(err, amqp.ErrClosed) {
		p.logger.Warn().Str("routing_key", routingKey).Msg("amqp channel closed, reopening")
		p.discard()
		err = p.send(pubCtx, routingKey, msg)
	}
	if err != nil {
		if errors.Is(err, amqp.ErrClosed) {
			p.discard()
		}
		p.logger.Error().Err(err).Str("routing_key", routingKey).Msg("failed to publish event")
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	p.logger.Debug().
		Str("routing_key", routingKey).
		Str("event_id", eventID).
		Msg("event published")
	return nil
}

func (p *RabbitPublisher) send(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	if p.ch == nil {
		if err := p.reopen(); err != nil {
			return err
		}
	}
	return p.ch.PublishWithContext(ctx, Exchange, routingKey, false, false, msg)
}

// Close closes the channel and the connection behind it.
func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.ch != nil {
		err = p.ch.Close()
		p.ch = nil
	}
	if p.closeConn != nil {
		if cerr := p.closeConn(); err == nil {
			err = cerr
		}
	}
	return err
}
