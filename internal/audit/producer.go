package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"seatly/pkg/logger"

	"github.com/IBM/sarama"
)

// Recorder is the contract the booking core uses to report transition
// attempts to the external logging/observability collaborator
type Recorder interface {
	RecordTransition(ctx context.Context, event TransitionEvent) error
	Close() error
}

// KafkaRecorderConfig contains configuration for the Kafka audit recorder
type KafkaRecorderConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultKafkaRecorderConfig returns a default recorder configuration
func DefaultKafkaRecorderConfig() *KafkaRecorderConfig {
	return &KafkaRecorderConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "booking-transitions",
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

// KafkaRecorder publishes transition events to Kafka
type KafkaRecorder struct {
	producer sarama.SyncProducer
	config   *KafkaRecorderConfig
	log      *logger.Logger
}

// NewKafkaRecorder creates a Kafka-backed audit recorder
func NewKafkaRecorder(config *KafkaRecorderConfig, log *logger.Logger) (*KafkaRecorder, error) {
	if config == nil {
		config = DefaultKafkaRecorderConfig()
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keyed by booking id keeps per-booking event order
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaRecorder{
		producer: producer,
		config:   config,
		log:      log,
	}, nil
}

// RecordTransition publishes a single transition event
func (kr *KafkaRecorder) RecordTransition(ctx context.Context, event TransitionEvent) error {
	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal transition event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     kr.config.Topic,
		Key:       sarama.StringEncoder(event.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := kr.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send transition event to Kafka: %w", err)
	}

	kr.log.Debug("transition event published",
		slog.String("topic", kr.config.Topic),
		slog.Int64("partition", int64(partition)),
		slog.Int64("offset", offset),
		slog.String("booking_id", event.BookingID.String()),
	)
	return nil
}

// Close shuts down the underlying producer
func (kr *KafkaRecorder) Close() error {
	return kr.producer.Close()
}

// LogRecorder writes transition events to the application log. Used when
// Kafka is disabled and as the fallback recorder in tests.
type LogRecorder struct {
	log *logger.Logger
}

func NewLogRecorder(log *logger.Logger) *LogRecorder {
	return &LogRecorder{log: log}
}

func (lr *LogRecorder) RecordTransition(ctx context.Context, event TransitionEvent) error {
	lr.log.InfoContext(ctx, "booking transition",
		slog.String("booking_id", event.BookingID.String()),
		slog.String("from_status", event.FromStatus),
		slog.String("to_status", event.ToStatus),
		slog.String("outcome", string(event.Outcome)),
		slog.String("reason", event.Reason),
	)
	return nil
}

func (lr *LogRecorder) Close() error {
	return nil
}
