package horoscope

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/admin/astro-api/internal/pkg/metrics"
	"github.com/admin/astro-api/internal/ports/cache"
	"github.com/admin/astro-api/internal/ports/kafka"
	"github.com/admin/astro-api/internal/ports/repository"
	"github.com/admin/astro-api/internal/ports/storage"
)

type Config struct {
	ListLimit    int           `envconfig:"LIST_LIMIT" default:"50"`
	MaxListLimit int           `envconfig:"MAX_LIST_LIMIT" default:"200"`
	CacheTTL     time.Duration `envconfig:"CACHE_TTL" default:"1m"`
	ArchiveLimit int           `envconfig:"ARCHIVE_LIMIT" default:"10000"`
}

func (c Config) withDefaults() Config {
	if c.ListLimit <= 0 {
		c.ListLimit = 50
	}
	if c.MaxListLimit <= 0 {
		c.MaxListLimit = 200
	}
	if c.MaxListLimit < c.ListLimit {
		c.MaxListLimit = c.ListLimit
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = time.Minute
	}
	if c.ArchiveLimit <= 0 {
		c.ArchiveLimit = 10000
	}
	return c
}

// Service генерация гороскопов и работа с сохранёнными чтениями.
// Cache, Events, Archive и Metrics опциональны и могут быть nil.
type Service struct {
	ReadingRepo repository.IReadingRepo
	Cache       cache.Cache
	Events      kafka.IReadingEventProducer
	Archive     storage.IObjectStorage
	Metrics     *metrics.Metrics
	Cfg         Config
	Now         func() time.Time
	Log         *slog.Logger

	// cacheEpoch растёт при каждой инвалидации; список из хранилища
	// кладётся в кэш, только если за время чтения эпоха не сменилась
	cacheEpoch atomic.Uint64
}

func New(
	readingRepo repository.IReadingRepo,
	cacheClient cache.Cache,
	events kafka.IReadingEventProducer,
	archive storage.IObjectStorage,
	m *metrics.Metrics,
	cfg Config,
	log *slog.Logger,
) *Service {
	return &Service{
		ReadingRepo: readingRepo,
		Cache:       cacheClient,
		Events:      events,
		Archive:     archive,
		Metrics:     m,
		Cfg:         cfg.withDefaults(),
		Now:         time.Now,
		Log:         log,
	}
}
