package backup

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/parkdesk/internal/logging"
	"github.com/robfig/cron/v3"
)

// Scheduler runs one backup job on a cron schedule that can be changed at
// runtime.
type Scheduler struct {
	mu     sync.Mutex
	cron   *cron.Cron
	job    func(ctx context.Context)
	entry  cron.EntryID
	spec   string
	logger logging.Logger
}

func NewScheduler(job func(ctx context.Context), logger logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Scheduler{
		cron:   cron.New(),
		job:    job,
		logger: logger.With("module", "backup-scheduler"),
	}
}

// ValidateSchedule accepts standard five-field cron expressions and the
// @daily style descriptors.
func ValidateSchedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info(context.Background(), "cron scheduler started")
}

// Reschedule replaces the job's schedule. enabled=false just removes it.
func (s *Scheduler) Reschedule(spec string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sched cron.Schedule
	if enabled {
		var err error
		if sched, err = cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", spec, err)
		}
	}

	if s.entry != 0 {
		s.cron.Remove(s.entry)
		s.entry = 0
		s.spec = ""
	}
	if !enabled {
		s.logger.Info(context.Background(), "scheduled backups disabled")
		return nil
	}

	s.entry = s.cron.Schedule(sched, cron.FuncJob(func() { s.job(context.Background()) }))
	s.spec = spec
	s.logger.Info(context.Background(), "scheduled backups", "schedule", spec)
	return nil
}

// Current returns the active schedule, or "" when none is set.
func (s *Scheduler) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info(context.Background(), "cron scheduler stopped")
}
