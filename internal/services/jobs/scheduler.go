package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/admin/astro-api/internal/ports/jobs"
	"github.com/admin/astro-api/internal/ports/service"
)

// DefaultRetries now + 1m + 10m + 30m
var DefaultRetries = []time.Duration{
	1 * time.Minute,
	10 * time.Minute,
	30 * time.Minute,
}

// Scheduler управляет запуском периодических джоб
type Scheduler struct {
	jobs           []jobs.Job
	retries        []time.Duration
	alerterService service.IAlerterService
	now            func() time.Time
	log            *slog.Logger
}

// NewScheduler создаёт новый планировщик джоб.
// retries == nil означает DefaultRetries, alerterService может быть nil.
func NewScheduler(log *slog.Logger, retries []time.Duration, alerterService service.IAlerterService) *Scheduler {
	if retries == nil {
		retries = DefaultRetries
	}
	return &Scheduler{
		jobs:           make([]jobs.Job, 0),
		retries:        retries,
		alerterService: alerterService,
		now:            time.Now,
		log:            log,
	}
}

// Register регистрирует джобу в планировщике
func (s *Scheduler) Register(job jobs.Job) {
	s.jobs = append(s.jobs, job)
	s.log.Debug("job registered", "job_name", job.Name(), "total_jobs", len(s.jobs))
}

// Start блокируется, пока не отменён ctx
func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.jobs) == 0 {
		s.log.Info("no jobs registered, scheduler not started")
		return nil
	}

	s.log.Info("starting job scheduler", "jobs_count", len(s.jobs))

	var wg sync.WaitGroup
	for _, job := range s.jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runJob(ctx, job)
		}()
	}

	wg.Wait()
	s.log.Info("job scheduler stopped")
	return nil
}

// runJob запускает отдельную джобу в цикле
func (s *Scheduler) runJob(ctx context.Context, job jobs.Job) {
	jobName := job.Name()

	for {
		now := s.now()
		timer := time.NewTimer(job.NextRun(now).Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("job stopped by context", "job_name", jobName)
			return
		case <-timer.C:
			if err := s.executeJobWithRetry(ctx, job); err != nil {
				s.log.Error("job failed after all retries",
					"job_name", jobName,
					"error", err,
				)
				s.sendAlert(ctx, jobName, err)
			} else {
				s.log.Info("job executed successfully", "job_name", jobName)
			}
		}
	}
}

// executeJobWithRetry возвращает ошибки всех попыток, объединённые через errors.Join
func (s *Scheduler) executeJobWithRetry(ctx context.Context, job jobs.Job) error {
	jobName := job.Name()

	err := job.Run(ctx)
	if err == nil {
		return nil
	}

	attemptErrors := []error{fmt.Errorf("attempt 1: %w", err)}
	s.log.Warn("job execution failed, will retry",
		"job_name", jobName,
		"attempt", 1,
		"retries_remaining", len(s.retries),
		"error", err,
	)

	for i, retryDelay := range s.retries {
		attempt := i + 2

		select {
		case <-ctx.Done():
			return errors.Join(append(attemptErrors, ctx.Err())...)
		case <-time.After(retryDelay):
		}

		err := job.Run(ctx)
		if err == nil {
			return nil
		}

		attemptErrors = append(attemptErrors, fmt.Errorf("attempt %d: %w", attempt, err))
		s.log.Warn("job retry failed",
			"job_name", jobName,
			"attempt", attempt,
			"retries_remaining", len(s.retries)-i-1,
			"error", err,
		)
	}

	return errors.Join(attemptErrors...)
}

// sendAlert алертит на финальную ошибку после ретраев
func (s *Scheduler) sendAlert(ctx context.Context, jobName string, err error) {
	if s.alerterService == nil {
		return
	}

	var message strings.Builder
	message.WriteString("⚠️ Финальная ошибка планировщика, ретраи исчерпаны\n\n")
	message.WriteString(fmt.Sprintf("Джоба: %s\n\n", jobName))
	message.WriteString("Ошибки попыток:\n")
	message.WriteString(err.Error())

	if alertErr := s.alerterService.SendAlert(ctx, message.String()); alertErr != nil {
		s.log.Warn("failed to send job failure alert",
			"job_name", jobName,
			"error", alertErr,
		)
	}
}
