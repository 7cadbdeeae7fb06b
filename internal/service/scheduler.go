package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs a job on a cron spec in the business location.
type Scheduler struct {
	cron    *cron.Cron
	spec    string
	timeout time.Duration
	job     func(context.Context) error
}

// NewScheduler accepts standard five-field specs and descriptors such as
// "@every 1m".
func NewScheduler(spec string, loc *time.Location, timeout time.Duration, job func(context.Context) error) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		spec:    spec,
		timeout: timeout,
		job:     job,
	}
}

// Start registers the job and starts the cron goroutine.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.run)
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Info().Str("spec", s.spec).Msg("refresh scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("refresh scheduler stopped")
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.job(ctx); err != nil {
		log.Error().Err(err).Msg("scheduled refresh failed")
	}
}
