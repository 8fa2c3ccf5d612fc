// Package kafkaqueue implements queue.Backend over
// github.com/twmb/franz-go (kgo), adapted from the project's
// kafka/consumer.go consume loop and extended with the produce side the
// generic Backend contract needs.
package kafkaqueue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/adred-codev/envelopes/internal/obslog"
	"github.com/adred-codev/envelopes/internal/queue"
	"github.com/rs/zerolog"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Config holds connection parameters for a Backend.
type Config struct {
	Brokers       []string
	ConsumerGroup string
	Topic         string
}

// Backend is a queue.Backend backed by a single Kafka/Redpanda topic.
type Backend struct {
	client *kgo.Client
	topic  string
	logger zerolog.Logger

	wg sync.WaitGroup
}

// New creates a franz-go client configured to produce and consume the
// configured topic.
func New(cfg Config, logger zerolog.Logger) (*Backend, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafkaqueue: at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafkaqueue: topic is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.ConsumerGroup),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtEnd()),
		kgo.FetchMaxWait(500*time.Millisecond),
		kgo.FetchMinBytes(1),
		kgo.FetchMaxBytes(10*1024*1024),
		kgo.SessionTimeout(30*time.Second),
		kgo.RebalanceTimeout(60*time.Second),
		kgo.OnPartitionsAssigned(func(_ context.Context, _ *kgo.Client, assigned map[string][]int32) {
			logger.Info().Interface("partitions", assigned).Msg("kafka partitions assigned")
		}),
		kgo.OnPartitionsRevoked(func(_ context.Context, _ *kgo.Client, revoked map[string][]int32) {
			logger.Info().Interface("partitions", revoked).Msg("kafka partitions revoked")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("kafkaqueue: create client: %w", err)
	}

	obslog.RecordQueueConnected("kafka", true)
	return &Backend{client: client, topic: cfg.Topic, logger: logger}, nil
}

// Publish produces msg's body to the configured topic, waiting for the
// broker's acknowledgment.
func (b *Backend) Publish(ctx context.Context, msg queue.Message) error {
	record := &kgo.Record{Topic: b.topic, Value: []byte(msg.Body)}

	var produceErr error
	var wg sync.WaitGroup
	wg.Add(1)
	b.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		produceErr = err
		wg.Done()
	})
	wg.Wait()

	if produceErr != nil {
		return fmt.Errorf("kafkaqueue: produce: %w", produceErr)
	}
	obslog.RecordPublished("kafka")
	return nil
}

// Subscribe polls the configured topic and delivers each record to
// handler until ctx is cancelled.
func (b *Backend) Subscribe(ctx context.Context, handler queue.Handler) error {
	b.wg.Add(1)
	defer b.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		fetches := b.client.PollFetches(ctx)
		if ctx.Err() != nil {
			return nil
		}

		fetches.EachError(func(_ string, _ int32, err error) {
			obslog.RecordError(obslog.ErrorTypeQueue, obslog.SeverityWarning)
			b.logger.Error().Err(err).Msg("kafka fetch error")
		})

		fetches.EachRecord(func(record *kgo.Record) {
			obslog.RecordReceived("kafka")
			if err := handler(ctx, queue.Message{Body: string(record.Value)}); err != nil {
				obslog.RecordError(obslog.ErrorTypeQueue, obslog.SeverityWarning)
				b.logger.Error().Err(err).Str("topic", record.Topic).Msg("handler failed")
			}
		})
	}
}

// Close waits for in-flight work and closes the client.
func (b *Backend) Close() error {
	b.wg.Wait()
	b.client.Close()
	obslog.RecordQueueConnected("kafka", false)
	return nil
}

var _ queue.Backend = (*Backend)(nil)
