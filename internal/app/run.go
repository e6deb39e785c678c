package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func (a *App) runServices(ctx context.Context, deps *Dependencies) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.Info("starting http server",
			"host", a.Cfg.Server.Host,
			"port", a.Cfg.Server.Port,
			"store", deps.Store.Name(),
		)

		err := deps.HTTPServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	for name, consumer := range deps.KafkaConsumers {
		g.Go(func() error {
			a.Log.Info("starting kafka consumer", "name", name)
			return consumer.Start(gCtx)
		})
	}

	if deps.JobScheduler != nil {
		g.Go(func() error {
			return deps.JobScheduler.Start(gCtx)
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.Log.Info("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := deps.HTTPServer.Shutdown(shutdownCtx); err != nil {
			a.Log.Error("failed to shutdown http server", "error", err)
		}

		for name, consumer := range deps.KafkaConsumers {
			if err := consumer.Close(); err != nil {
				a.Log.Error("failed to close kafka consumer", "error", err, "name", name)
			}
		}

		if deps.KafkaProducer != nil {
			if err := deps.KafkaProducer.Close(); err != nil {
				a.Log.Error("failed to close kafka producer", "error", err)
			}
		}

		if deps.Cache != nil {
			if err := deps.Cache.Close(); err != nil {
				a.Log.Error("failed to close cache", "error", err)
			}
		}

		if deps.DB != nil {
			if err := deps.DB.Close(); err != nil {
				a.Log.Error("failed to close database", "error", err)
			}
		}

		a.Log.Info("application shutdown completed")
		return nil
	})

	if err := g.Wait(); err != nil {
		a.Log.Error("application error", "error", err)
		return err
	}

	return nil
}
