package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"

	"github.com/admin/astro-api/internal/domain"
)

const eventTypeReadingCreated = "reading.created"

// Producer публикует события о чтениях, реализует kafka.IReadingEventProducer
type Producer struct {
	producer sarama.SyncProducer
	cfg      *Config
	log      *slog.Logger
}

// NewProducer создаёт новый Kafka producer
func NewProducer(cfg *Config, log *slog.Logger) (*Producer, error) {
	config := cfg.SaramaConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(cfg.GetBrokers(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("kafka producer created",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
	)

	return newProducer(producer, cfg, log), nil
}

func newProducer(producer sarama.SyncProducer, cfg *Config, log *slog.Logger) *Producer {
	return &Producer{
		producer: producer,
		cfg:      cfg,
		log:      log,
	}
}

// PublishReadingCreated ключ сообщения равен ID чтения
func (p *Producer) PublishReadingCreated(ctx context.Context, event domain.ReadingCreatedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal reading event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.cfg.Topic,
		Key:   sarama.StringEncoder(event.ID),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventTypeReadingCreated)},
			{Key: []byte("sign"), Value: []byte(event.Sign)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.log.Debug("kafka send failed",
			"error", err,
			"topic", p.cfg.Topic,
			"key", event.ID,
		)
		return fmt.Errorf("kafka send failed [topic=%s, key=%s]: %w", p.cfg.Topic, event.ID, err)
	}

	p.log.Debug("reading event sent to kafka",
		"topic", p.cfg.Topic,
		"partition", partition,
		"offset", offset,
		"key", event.ID,
	)

	return nil
}

// Close закрывает producer
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	p.log.Info("kafka producer closed")
	return nil
}
