package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/promonitor/storefront/pkg/logger"
	"github.com/promonitor/storefront/pkg/metrics"
	"go.uber.org/multierr"
)

const defaultInterval = time.Hour

// ServiceParams configure the cron service.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.CronJobMetrics
	Interval time.Duration
}

// Service runs the registered jobs once at start and then on every tick.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.CronJobMetrics
	interval time.Duration
}

// NewService builds a cron service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		logg:     params.Logger,
		registry: registry,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Run loops until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	ctx = s.logg.WithField(ctx, "interval", s.interval.String())
	s.logg.Info(s.logg.WithField(ctx, "jobs", s.registry.Names()), "cron.started")
	if err := s.RunOnce(ctx); err != nil {
		s.logg.Error(ctx, "cron.cycle_failed", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "cron.stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logg.Error(ctx, "cron.cycle_failed", err)
			}
		}
	}
}

// RunOnce runs every job under the lock. Job failures are combined into the
// returned error; a cycle skipped because the lock is held returns nil.
func (s *Service) RunOnce(ctx context.Context) error {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.logg.Info(ctx, "cron.cycle_skipped")
		for _, job := range s.registry.Jobs() {
			s.metrics.IncSkipped(job.Name())
		}
		return nil
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "cron.lock_release_failed", relErr)
		}
	}()

	var errs error
	for _, job := range s.registry.Jobs() {
		errs = multierr.Append(errs, s.runJob(ctx, job))
	}
	return errs
}

func (s *Service) runJob(ctx context.Context, job Job) (err error) {
	jobCtx := s.logg.WithField(ctx, "job", job.Name())
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name(), r)
		}
		duration := time.Since(start)
		s.metrics.ObserveDuration(job.Name(), duration)
		jobCtx = s.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
		if err != nil {
			s.logg.Error(jobCtx, "cron.job_failed", err)
			s.metrics.IncFailure(job.Name())
			return
		}
		s.logg.Info(jobCtx, "cron.job_completed")
		s.metrics.IncSuccess(job.Name())
	}()

	return job.Run(jobCtx)
}
