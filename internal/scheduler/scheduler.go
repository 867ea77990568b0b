// Package scheduler owns the job table: which handler fires when.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/icebet20/Ironhockeybot/internal/pkg/health"
)

// Job is one scheduled handler with its dependency bundle baked in.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler dispatches jobs on cron triggers. Triggers are evaluated in UTC;
// local post slots are converted with SlotSpec before registration.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
}

func New(ctx context.Context) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		ctx:  ctx,
	}
}

// AddJob registers a job with a cron schedule ("30 8 * * *", "@every 30m").
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.run(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", job.Name(), err)
	}
	slog.Info("Job registered", "job", job.Name(), "schedule", schedule)
	return nil
}

// RunNow executes a job once in the background, outside its schedule.
func (s *Scheduler) RunNow(job Job) {
	go s.run(job)
}

func (s *Scheduler) run(job Job) {
	slog.Debug("Running job", "job", job.Name())
	started := time.Now()

	err := job.Run(s.ctx)
	health.RecordJobRun(job.Name(), err)
	if err != nil {
		slog.Error("Job failed", "job", job.Name(), "error", err, "duration", time.Since(started))
		return
	}
	slog.Debug("Job completed", "job", job.Name(), "duration", time.Since(started))
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("Scheduler started")
}

// Stop waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("Scheduler stopped")
}

// SlotSpec converts one local-time "HH:MM" slot to a UTC cron spec. The
// offset is the display zone's hours east of UTC (Moscow = 3).
func SlotSpec(hour, minute, tzOffset int) string {
	utcHour := ((hour-tzOffset)%24 + 24) % 24
	return fmt.Sprintf("%d %d * * *", minute, utcHour)
}
