package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	server "github.com/admin/astro-api/internal/adapters/primary/http"
	astroController "github.com/admin/astro-api/internal/adapters/primary/http/controllers/astro"
	diagnosticsController "github.com/admin/astro-api/internal/adapters/primary/http/controllers/diagnostics"
	healthcheckController "github.com/admin/astro-api/internal/adapters/primary/http/controllers/healthcheck"
	metricsController "github.com/admin/astro-api/internal/adapters/primary/http/controllers/metrics"
	kafkaConsumerAdapter "github.com/admin/astro-api/internal/adapters/primary/kafka"
	kafkaHandlers "github.com/admin/astro-api/internal/adapters/primary/kafka/handlers"
	alerterAdapter "github.com/admin/astro-api/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/admin/astro-api/internal/adapters/secondary/kafka"
	"github.com/admin/astro-api/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/astro-api/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/astro-api/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/admin/astro-api/internal/adapters/secondary/storage/s3"
	"github.com/admin/astro-api/internal/pkg/metrics"
	"github.com/admin/astro-api/internal/ports/cache"
	"github.com/admin/astro-api/internal/ports/kafka"
	"github.com/admin/astro-api/internal/ports/persistence"
	"github.com/admin/astro-api/internal/ports/service"
	"github.com/admin/astro-api/internal/ports/storage"
	readingRepo "github.com/admin/astro-api/internal/repository/reading"
	jobScheduler "github.com/admin/astro-api/internal/services/jobs"
	"github.com/admin/astro-api/internal/usecases/diagnostics"
	"github.com/admin/astro-api/internal/usecases/horoscope"
)

type Dependencies struct {
	DB             *sqlx.DB // nil для in-memory хранилища
	Store          persistence.IDocumentStore
	HTTPServer     *http.Server
	KafkaProducer  *kafkaAdapter.Producer
	KafkaConsumers map[string]*kafkaConsumerAdapter.Consumer
	Cache          cache.Cache
	JobScheduler   *jobScheduler.Scheduler
}

// initDependencies инициализирует все зависимости приложения
func (a *App) initDependencies(ctx context.Context) (*Dependencies, error) {
	db, store, err := a.initStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	m := metrics.New()
	ext := a.initExternalServices(ctx)

	horoscopeService := horoscope.New(
		readingRepo.New(store, a.Log),
		ext.Cache,   // может быть nil
		ext.Events,  // может быть nil
		ext.Archive, // может быть nil
		m,
		a.Cfg.Readings,
		a.Log,
	)

	deps := &Dependencies{
		DB:             db,
		Store:          store,
		HTTPServer:     a.initHTTP(store, horoscopeService, m),
		KafkaProducer:  ext.producer,
		KafkaConsumers: a.initKafkaConsumers(horoscopeService),
		Cache:          ext.Cache,
		JobScheduler:   a.initJobScheduler(horoscopeService, ext.Archive, ext.Alerter),
	}

	return deps, nil
}

// initStore Postgres, если задан POSTGRES_HOST, иначе in-memory
func (a *App) initStore(ctx context.Context) (*sqlx.DB, persistence.IDocumentStore, error) {
	if !a.Cfg.Postgres.IsConfigured() {
		a.Log.Warn("postgres is not configured, readings are kept in memory")
		return nil, inmemory.NewDocumentStore(), nil
	}

	db, err := a.initPostgres(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	return db, pg.NewDocumentStore(pg.NewDB(db), a.Cfg.Postgres.Database), nil
}

// initPostgres инициализирует подключение к PostgreSQL и запускает миграции
func (a *App) initPostgres(ctx context.Context) (*sqlx.DB, error) {
	db, err := a.Cfg.Postgres.NewConnection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a.Log.Info("postgres connected successfully", "addr", a.Cfg.Postgres.Addr())

	if err := pg.RunMigrations(ctx, db, a.Log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// externalServices опциональные внешние сервисы; nil-интерфейс означает "выключено"
type externalServices struct {
	Cache   cache.Cache
	Events  kafka.IReadingEventProducer
	Archive storage.IObjectStorage
	Alerter service.IAlerterService

	producer *kafkaAdapter.Producer
}

// initExternalServices ошибки подключения не фатальны: сервис работает без кэша, событий и архива
func (a *App) initExternalServices(ctx context.Context) *externalServices {
	services := &externalServices{}

	if a.Cfg.Redis.IsConfigured() {
		redisClient, err := a.Cfg.Redis.NewConnection(ctx)
		if err != nil {
			a.Log.Warn("failed to init redis cache, continuing without cache", "error", err)
		} else {
			services.Cache = redisAdapter.NewClient(redisClient)
			a.Log.Info("redis cache connected successfully")
		}
	}

	if producerCfg := a.Cfg.Kafka.Find(kafkaAdapter.ReadingEventsName); producerCfg != nil && producerCfg.Topic != "" {
		producer, err := kafkaAdapter.NewProducer(producerCfg, a.Log)
		if err != nil {
			a.Log.Warn("failed to create kafka producer, reading events disabled", "error", err)
		} else {
			services.producer = producer
			services.Events = producer
		}
	}

	if a.Cfg.S3.IsConfigured() {
		minioClient, err := a.Cfg.S3.NewClient(ctx)
		if err != nil {
			a.Log.Warn("failed to init s3 client, readings archive disabled", "error", err)
		} else {
			services.Archive = s3Adapter.NewClient(minioClient, a.Cfg.S3.Bucket, a.Cfg.S3.Prefix, a.Log)
			a.Log.Info("s3 archive storage connected", "bucket", a.Cfg.S3.Bucket)
		}
	}

	if a.Cfg.Alerter.IsConfigured() {
		services.Alerter = alerterAdapter.NewClient(a.Cfg.Alerter, a.Log)
	}

	return services
}

// initKafkaConsumers создаёт consumers для подключений с consumer group
func (a *App) initKafkaConsumers(horoscopeService *horoscope.Service) map[string]*kafkaConsumerAdapter.Consumer {
	consumers := make(map[string]*kafkaConsumerAdapter.Consumer)

	for _, kafkaCfg := range a.Cfg.Kafka.List {
		if kafkaCfg.Config.ConsumerGroup == "" {
			continue
		}

		handler := a.createHandlerForTopic(kafkaCfg.Name, horoscopeService)
		if handler == nil {
			a.Log.Warn("no handler for kafka topic, skipping consumer", "name", kafkaCfg.Name)
			continue
		}

		consumer, err := kafkaConsumerAdapter.NewConsumer(kafkaCfg.Config, handler, a.Log)
		if err != nil {
			a.Log.Warn("failed to create kafka consumer", "error", err, "name", kafkaCfg.Name)
			continue
		}
		consumers[kafkaCfg.Name] = consumer
	}

	return consumers
}

// createHandlerForTopic создаёт handler для указанного подключения Kafka
func (a *App) createHandlerForTopic(name string, horoscopeService *horoscope.Service) kafka.MessageHandler {
	switch name {
	case kafkaAdapter.HoroscopeRequestsName:
		return kafkaHandlers.NewHoroscopeRequestHandler(horoscopeService, a.Log)
	default:
		return nil
	}
}

// initHTTP инициализирует HTTP сервер и контроллеры
func (a *App) initHTTP(
	store persistence.IDocumentStore,
	horoscopeService *horoscope.Service,
	m *metrics.Metrics,
) *http.Server {
	diagnosticsService := diagnostics.New(
		store,
		a.Cfg.Postgres.IsConfigured(),
		a.Cfg.Postgres.IsConfigured() && a.Cfg.Postgres.Database != "",
		a.Log,
	)

	controllers := []server.Controller{
		diagnosticsController.New(diagnosticsService, a.Log),
		healthcheckController.New(store, a.Log),
		astroController.New(horoscopeService, a.Log),
		metricsController.New(m),
	}

	return server.NewHTTPServer(a.Cfg.Server, a.Log, m, controllers...)
}

// initJobScheduler архивная джоба регистрируется только при настроенном S3
func (a *App) initJobScheduler(
	horoscopeService *horoscope.Service,
	archive storage.IObjectStorage,
	alerterSvc service.IAlerterService,
) *jobScheduler.Scheduler {
	if !a.Cfg.Jobs.Enabled {
		a.Log.Info("job scheduler disabled")
		return nil
	}

	scheduler := jobScheduler.NewScheduler(a.Log, a.Cfg.Jobs.Retries, alerterSvc)

	if archive != nil {
		scheduler.Register(jobScheduler.NewReadingsArchiver(horoscopeService, a.Log))
		a.Log.Info("readings archiver job registered")
	}

	return scheduler
}
