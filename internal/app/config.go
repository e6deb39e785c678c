package app

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	server "github.com/admin/astro-api/internal/adapters/primary/http"
	alerterAdapter "github.com/admin/astro-api/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/admin/astro-api/internal/adapters/secondary/kafka"
	"github.com/admin/astro-api/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/astro-api/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/admin/astro-api/internal/adapters/secondary/storage/s3"
	"github.com/admin/astro-api/internal/pkg/logger"
	"github.com/admin/astro-api/internal/usecases/horoscope"
)

type Config struct {
	Postgres *pg.Config                `envconfig:"POSTGRES"`
	Log      *logger.Config            `envconfig:"LOG"`
	Server   *server.Config            `envconfig:"APISERVER"`
	Redis    *redisAdapter.Config      `envconfig:"REDIS"`
	Kafka    kafkaAdapter.KafkaConfigs `envconfig:"KAFKA"`
	S3       *s3Adapter.Config         `envconfig:"S3"`
	Readings horoscope.Config          `envconfig:"READINGS"`
	Jobs     JobsConfig                `envconfig:"JOBS"`
	Alerter  *alerterAdapter.Config    `envconfig:"ALERTER"`
}

// JobsConfig настройки планировщика
type JobsConfig struct {
	Enabled bool            `envconfig:"ENABLED" default:"true"`
	Retries []time.Duration `envconfig:"RETRIES" default:"1m,10m,30m"`
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	// envconfig не умеет определять размер слайса, подключения Kafka грузим вручную
	if err := cfg.Kafka.Load(envPrefix); err != nil {
		return nil, fmt.Errorf("failed to load kafka config: %w", err)
	}

	return cfg, nil
}
