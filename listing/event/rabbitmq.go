package event

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samujjwal/rental-sub006/data/config"
	"github.com/samujjwal/rental-sub006/logging/logger"
)

// RabbitSubscriber consumes events from a queue bound to a topic exchange.
type RabbitSubscriber struct {
	conn   *amqp.Connection
	conf   *config.RabbitMQ
	logger *logger.Logger
	ch     *amqp.Channel
}

// NewRabbitSubscriber declares the exchange and queue on conn.
func NewRabbitSubscriber(conn *amqp.Connection, conf *config.RabbitMQ, l *logger.Logger) (*RabbitSubscriber, error) {
	if conn == nil || conn.IsClosed() {
		return nil, errors.New("rabbitmq connection is not available")
	}
	if l == nil {
		l = logger.Nop()
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	s := &RabbitSubscriber{conn: conn, conf: conf, logger: l, ch: ch}
	if err := s.declare(); err != nil {
		_ = ch.Close()
		return nil, err
	}
	return s, nil
}

func (s *RabbitSubscriber) declare() error {
	err := s.ch.ExchangeDeclare(
		s.conf.Exchange, // name
		"topic",         // type
		true,            // durable
		false,           // auto-delete
		false,           // internal
		false,           // no-wait
		nil,             // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	q, err := s.ch.QueueDeclare(
		s.conf.Queue, // name
		true,         // durable
		false,        // delete when unused
		false,        // exclusive
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := s.ch.QueueBind(q.Name, s.conf.RoutingKey, s.conf.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	if err := s.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	return nil
}

// Run consumes with manual acks until ctx is done or the channel closes.
// Failed deliveries are requeued once; malformed ones are dropped.
func (s *RabbitSubscriber) Run(ctx context.Context, handle func(context.Context, []byte) error) error {
	msgs, err := s.ch.ConsumeWithContext(ctx, s.conf.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("rabbitmq delivery channel closed")
			}
			s.settle(ctx, d, handle(ctx, d.Body))
		}
	}
}

func (s *RabbitSubscriber) settle(ctx context.Context, d amqp.Delivery, err error) {
	var ackErr error
	switch {
	case err == nil, errors.Is(err, ErrMalformed):
		ackErr = d.Ack(false)
	default:
		ackErr = d.Nack(false, !d.Redelivered)
	}
	if ackErr != nil {
		s.logger.Warn(ctx, "failed to settle delivery", "error", ackErr)
	}
}

// Close closes the channel. The connection is owned by the caller.
func (s *RabbitSubscriber) Close() error {
	if s.ch == nil || s.ch.IsClosed() {
		return nil
	}
	if err := s.ch.Close(); err != nil {
		return fmt.Errorf("failed to close channel: %w", err)
	}
	return nil
}
