package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/config"
)

// KafkaForwarder copies domain events onto a Kafka topic for downstream
// consumers. It is subscribed to the bus like any other handler. Messages
// are keyed by aggregate so the events of one PR stay ordered.
type KafkaForwarder struct {
	producer   sarama.SyncProducer
	topic      string
	eventTypes []string
	logger     *zap.Logger
}

// NewSaramaProducer creates a synchronous producer from configuration
func NewSaramaProducer(cfg *config.KafkaConfig) (sarama.SyncProducer, error) {
	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Producer.Return.Successes = true
	sc.Producer.Retry.Max = 3
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return producer, nil
}

// NewKafkaForwarder creates a forwarder. Empty eventTypes forwards every event.
func NewKafkaForwarder(producer sarama.SyncProducer, topic string, logger *zap.Logger, eventTypes ...string) *KafkaForwarder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaForwarder{
		producer:   producer,
		topic:      topic,
		eventTypes: eventTypes,
		logger:     logger,
	}
}

// EventTypes implements shared.EventHandler
func (f *KafkaForwarder) EventTypes() []string {
	return f.eventTypes
}

// Handle sends the event as a JSON message
func (f *KafkaForwarder) Handle(ctx context.Context, event shared.DomainEvent) error {
	ctx, span := otel.Tracer("wms/event").Start(ctx, "kafka.publish "+event.EventType(),
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", f.topic),
			attribute.String("event.type", event.EventType()),
			attribute.String("event.id", event.EventID().String()),
		),
	)
	defer span.End()

	body, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal failed")
		return fmt.Errorf("failed to marshal %s: %w", event.EventType(), err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(event.EventType())},
		{Key: []byte("event_id"), Value: []byte(event.EventID().String())},
		{Key: []byte("aggregate_type"), Value: []byte(event.AggregateType())},
	}
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   f.topic,
		Key:     sarama.StringEncoder(event.AggregateType() + ":" + strconv.FormatInt(event.AggregateID(), 10)),
		Value:   sarama.ByteEncoder(body),
		Headers: headers,
	}
	partition, offset, err := f.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return fmt.Errorf("failed to send %s to Kafka: %w", event.EventType(), err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	f.logger.Debug("Event forwarded to Kafka",
		zap.String("event_type", event.EventType()),
		zap.String("topic", f.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

// Close closes the producer
func (f *KafkaForwarder) Close() error {
	return f.producer.Close()
}

var _ shared.EventHandler = (*KafkaForwarder)(nil)
