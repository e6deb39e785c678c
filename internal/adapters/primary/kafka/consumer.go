package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	kafkaAdapter "github.com/admin/astro-api/internal/adapters/secondary/kafka"
	"github.com/admin/astro-api/internal/domain"
	kafkaPorts "github.com/admin/astro-api/internal/ports/kafka"
)

// transientRetryDelay пауза перед повторным чтением после временной ошибки
const transientRetryDelay = 5 * time.Second

// Consumer реализация Kafka consumer
type Consumer struct {
	consumer sarama.ConsumerGroup
	cfg      *kafkaAdapter.Config
	handler  kafkaPorts.MessageHandler
	log      *slog.Logger
}

// NewConsumer создаёт новый Kafka consumer
func NewConsumer(cfg *kafkaAdapter.Config, handler kafkaPorts.MessageHandler, log *slog.Logger) (*Consumer, error) {
	config := cfg.SaramaConfig()
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	consumer, err := sarama.NewConsumerGroup(cfg.GetBrokers(), cfg.ConsumerGroup, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	log.Info("kafka consumer created",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
		"consumer_group", cfg.ConsumerGroup,
	)

	return &Consumer{
		consumer: consumer,
		cfg:      cfg,
		handler:  handler,
		log:      log,
	}, nil
}

// Start блокируется до отмены ctx; Consume возвращается при каждой ребалансировке
func (c *Consumer) Start(ctx context.Context) error {
	handler := &consumerGroupHandler{
		handler:    c.handler,
		log:        c.log,
		topic:      c.cfg.Topic,
		retryDelay: transientRetryDelay,
	}

	for {
		if err := c.consumer.Consume(ctx, []string{c.cfg.Topic}, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			c.log.Error("error from consumer",
				"error", err,
				"topic", c.cfg.Topic,
			)
			return fmt.Errorf("consumer error: %w", err)
		}

		if ctx.Err() != nil {
			c.log.Info("kafka consumer stopping", "topic", c.cfg.Topic)
			return nil
		}
	}
}

// Close закрывает consumer
func (c *Consumer) Close() error {
	if err := c.consumer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka consumer: %w", err)
	}
	c.log.Info("kafka consumer closed", "topic", c.cfg.Topic)
	return nil
}

// consumerGroupHandler реализует sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	handler    kafkaPorts.MessageHandler
	log        *slog.Logger
	topic      string
	retryDelay time.Duration
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	h.log.Info("kafka consumer group session setup", "topic", h.topic)
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	h.log.Info("kafka consumer group session cleanup", "topic", h.topic)
	return nil
}

// ConsumeClaim коммитит успешно обработанные сообщения и бизнес-ошибки:
// повтор невалидного запроса ничего не изменит.
// На временной ошибке claim завершается без MarkMessage: sarama закрывает сессию,
// Start переподключается и группа читает партицию с последнего закоммиченного offset.
func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case <-session.Context().Done():
			return nil
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if message == nil {
				continue
			}

			key := string(message.Key)

			if err := h.handler.HandleMessage(session.Context(), key, message.Value); err != nil {
				if !domain.IsBusinessError(err) {
					h.log.Error("failed to handle kafka message",
						"error", err,
						"topic", message.Topic,
						"key", key,
						"partition", message.Partition,
						"offset", message.Offset,
					)
					h.waitRetry(session.Context())
					return fmt.Errorf("failed to handle message at offset %d: %w", message.Offset, err)
				}
			}

			session.MarkMessage(message, "")
		}
	}
}

func (h *consumerGroupHandler) waitRetry(ctx context.Context) {
	if h.retryDelay <= 0 {
		return
	}
	timer := time.NewTimer(h.retryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
