package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admin/astro-api/internal/domain"
	"github.com/admin/astro-api/internal/pkg/logger"
)

func TestProducer_PublishReadingCreated(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	p := newProducer(sp, &Config{Topic: "reading_events"}, logger.NewNop())

	event := domain.ReadingCreatedEvent{
		ID:        "0b7c3f1e-1111-4a4a-9a9a-000000000001",
		Sign:      domain.SignLeo,
		Scope:     "daily",
		Date:      "2024-01-01",
		CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	}

	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got domain.ReadingCreatedEvent
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.ID != event.ID || got.Sign != event.Sign || got.Date != event.Date || !got.CreatedAt.Equal(event.CreatedAt) {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	require.NoError(t, p.PublishReadingCreated(context.Background(), event))
	require.NoError(t, p.Close())
}

func TestProducer_PublishReadingCreated_Fails(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	p := newProducer(sp, &Config{Topic: "reading_events"}, logger.NewNop())

	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := p.PublishReadingCreated(context.Background(), domain.ReadingCreatedEvent{ID: "x", Sign: domain.SignLeo})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	assert.Contains(t, err.Error(), "topic=reading_events")
	require.NoError(t, p.Close())
}

func TestConfig_GetBrokers(t *testing.T) {
	assert.Equal(t, []string{"localhost:9092"}, (&Config{}).GetBrokers())
	assert.Equal(t, []string{"a:9092", "b:9092"}, (&Config{Brokers: "a:9092, b:9092"}).GetBrokers())
}

func TestConfig_SaramaConfig(t *testing.T) {
	plain := (&Config{}).SaramaConfig()
	assert.False(t, plain.Net.SASL.Enable)

	sasl := (&Config{
		SecurityProtocol: "SASL_SSL",
		SASLMechanism:    "SCRAM-SHA-256",
		SASLUsername:     "u",
		SASLPassword:     "p",
	}).SaramaConfig()
	assert.True(t, sasl.Net.SASL.Enable)
	assert.True(t, sasl.Net.TLS.Enable)
	assert.Equal(t, sarama.SASLMechanism(sarama.SASLTypeSCRAMSHA256), sasl.Net.SASL.Mechanism)
}

func TestKafkaConfigs_Load(t *testing.T) {
	t.Setenv("TEST_KAFKA_0_NAME", ReadingEventsName)
	t.Setenv("TEST_KAFKA_0_CONFIG_TOPIC", "reading_events")
	t.Setenv("TEST_KAFKA_1_NAME", HoroscopeRequestsName)
	t.Setenv("TEST_KAFKA_1_CONFIG_TOPIC", "horoscope_requests")
	t.Setenv("TEST_KAFKA_1_CONFIG_CONSUMER_GROUP", "astro-api")

	kc := KafkaConfigs{Count: 2}
	require.NoError(t, kc.Load("TEST"))

	require.NotNil(t, kc.Find(ReadingEventsName))
	assert.Equal(t, "reading_events", kc.Find(ReadingEventsName).Topic)
	assert.Equal(t, "astro-api", kc.Find(HoroscopeRequestsName).ConsumerGroup)
	assert.Nil(t, kc.Find("unknown"))
}
