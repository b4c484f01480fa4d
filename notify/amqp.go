package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPConfig configures the event publisher
type AMQPConfig struct {
	URL      string
	Exchange string
}

// AMQPSink publishes events to a topic exchange with routing key
// "<entityType>.<kind>". The connection is re-dialed after it drops.
type AMQPSink struct {
	cfg AMQPConfig

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPSink dials the broker and declares the exchange.
func NewAMQPSink(cfg AMQPConfig) (*AMQPSink, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("amqp: url is required")
	}
	if cfg.Exchange == "" {
		return nil, fmt.Errorf("amqp: exchange is required")
	}
	s := &AMQPSink{cfg: cfg}
	if _, err := s.channel(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *AMQPSink) Name() string { return "amqp" }

// channel returns an open channel, reconnecting if needed. Callers hold no lock.
func (s *AMQPSink) channel() (*amqp.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil && !s.conn.IsClosed() && s.ch != nil && !s.ch.IsClosed() {
		return s.ch, nil
	}
	s.closeLocked()

	conn, err := amqp.Dial(s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("amqp: failed to dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: failed to open a channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		s.cfg.Exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: failed to declare exchange '%s': %w", s.cfg.Exchange, err)
	}
	s.conn, s.ch = conn, ch
	return ch, nil
}

// RoutingKey is the topic an event is published under
func RoutingKey(event Event) string {
	return event.EntityType + "." + string(event.Kind)
}

func (s *AMQPSink) Deliver(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("amqp: encode event: %w", err)
	}
	ch, err := s.channel()
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx,
		s.cfg.Exchange,
		RoutingKey(event),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID + ":" + event.OccurredAt.Format(time.RFC3339Nano),
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("amqp: failed to publish message: %w", err)
	}
	return nil
}

// Close releases the channel and connection
func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *AMQPSink) closeLocked() error {
	var firstErr error
	if s.ch != nil {
		if err := s.ch.Close(); err != nil && err != amqp.ErrClosed {
			firstErr = err
		}
		s.ch = nil
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil && err != amqp.ErrClosed && firstErr == nil {
			firstErr = err
		}
		s.conn = nil
	}
	return firstErr
}
