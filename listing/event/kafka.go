package event

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/samujjwal/rental-sub006/ctxutil"
	"github.com/samujjwal/rental-sub006/data/config"
	"github.com/samujjwal/rental-sub006/logging/logger"
	"github.com/segmentio/kafka-go"
)

// KafkaSubscriber reads events from a consumer group and commits each
// message once handled. Malformed messages are committed and skipped.
type KafkaSubscriber struct {
	reader *kafka.Reader
	logger *logger.Logger
}

// NewKafkaSubscriber creates a group reader for conf.Topic.
func NewKafkaSubscriber(conf *config.Kafka, l *logger.Logger) (*KafkaSubscriber, error) {
	if conf == nil || len(conf.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	if l == nil {
		l = logger.Nop()
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        conf.Brokers,
		GroupID:        conf.ConsumerGroup,
		Topic:          conf.Topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        500 * time.Millisecond,
		StartOffset:    kafka.FirstOffset,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 5 * time.Second,
		Logger: kafka.LoggerFunc(func(msg string, args ...any) {
			l.Debugf(context.Background(), "kafka: "+msg, args...)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			l.Errorf(context.Background(), "kafka: "+msg, args...)
		}),
	})
	return &KafkaSubscriber{reader: reader, logger: l}, nil
}

// Run fetches messages until ctx is cancelled or the reader is closed.
// A message whose handling failed is not committed and is redelivered
// after a rebalance or restart.
func (s *KafkaSubscriber) Run(ctx context.Context, handle func(context.Context, []byte) error) error {
	for {
		m, err := s.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			s.logger.Warn(ctx, "kafka fetch failed", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		if err := handle(ctx, m.Value); err != nil && !errors.Is(err, ErrMalformed) {
			s.logger.Warnf(ctx, "kafka: leaving partition %d offset %d uncommitted: %v", m.Partition, m.Offset, err)
			continue
		}

		commitCtx, cancel := ctxutil.WithAsyncContext(ctx, 30*time.Second)
		if err := s.reader.CommitMessages(commitCtx, m); err != nil {
			s.logger.Warn(ctx, "kafka commit failed", "offset", m.Offset, "error", err)
		}
		cancel()
	}
}

// Close closes the reader.
func (s *KafkaSubscriber) Close() error {
	if err := s.reader.Close(); err != nil {
		return fmt.Errorf("failed to close kafka reader: %w", err)
	}
	return nil
}
