package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/crm-ops/internal/core/domain"
)

// Schedule maps each job to a five-field cron expression.
type Schedule struct {
	Heartbeat string
	LowStock  string
	Reminders string
	Report    string
	Cleanup   string
}

// Scheduler drives the jobs on their cadences. Jobs already contain their
// own failure handling, so the scheduler only records each JobResult.
type Scheduler struct {
	cron   *cron.Cron
	logger *logrus.Logger
}

func NewScheduler(jobs *Jobs, schedule Schedule, logger *logrus.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	c := cron.New()
	entries := []struct {
		name string
		spec string
		run  func(context.Context) domain.JobResult
	}{
		{"heartbeat", schedule.Heartbeat, jobs.Heartbeat},
		{"low-stock", schedule.LowStock, jobs.ReplenishStock},
		{"order-reminders", schedule.Reminders, jobs.SendOrderReminders},
		{"report", schedule.Report, jobs.GenerateReport},
		{"log-cleanup", schedule.Cleanup, jobs.RotateLogs},
	}

	for _, e := range entries {
		if _, err := c.AddFunc(e.spec, func() {
			result := e.run(context.Background())
			entry := logger.WithFields(logrus.Fields{"job": e.name, "message": result.Message})
			if result.Success {
				entry.Info("job completed")
			} else {
				entry.Error("job failed")
			}
		}); err != nil {
			return nil, fmt.Errorf("register %s (%q): %w", e.name, e.spec, err)
		}
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
