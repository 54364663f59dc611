// Package scheduler drives periodic risk report generation and alert
// sweeps, delivering results over channels to the presentation layer.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/punter-edge/internal/alerts"
	"github.com/yourusername/punter-edge/internal/analytics"
	"github.com/yourusername/punter-edge/internal/models"
)

// ReportGenerator produces a risk report for the full betting history
type ReportGenerator interface {
	GenerateRiskReport(ctx context.Context, filter models.BetFilter) (*analytics.RiskReport, error)
}

// AlertSweeper runs the history-level alert checks
type AlertSweeper interface {
	Sweep(ctx context.Context) ([]alerts.Alert, error)
}

// Scheduler manages the periodic report and alert jobs
type Scheduler struct {
	cron      *cron.Cron
	generator ReportGenerator
	sweeper   AlertSweeper
	logger    *logrus.Entry

	reports chan *analytics.RiskReport
	alerts  chan []alerts.Alert

	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a scheduler over the given report generator and
// alert sweeper
func NewScheduler(generator ReportGenerator, sweeper AlertSweeper, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		generator: generator,
		sweeper:   sweeper,
		logger:    logger.WithField("component", "scheduler"),
		reports:   make(chan *analytics.RiskReport, 1),
		alerts:    make(chan []alerts.Alert, 1),
		jobIDs:    make([]cron.EntryID, 0),
	}
}

// Reports returns the channel delivering generated reports. Delivery
// drops the report when no consumer keeps up; the next run replaces it.
func (s *Scheduler) Reports() <-chan *analytics.RiskReport {
	return s.reports
}

// Alerts returns the channel delivering fired alert batches
func (s *Scheduler) Alerts() <-chan []alerts.Alert {
	return s.alerts
}

// ScheduleReports schedules risk report generation on a fixed interval
func (s *Scheduler) ScheduleReports(intervalSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if intervalSeconds < 5 {
		intervalSeconds = 5
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(intervalSeconds)*time.Second)
		defer cancel()

		report, err := s.generator.GenerateRiskReport(ctx, models.BetFilter{})
		if err != nil {
			s.logger.WithError(err).Error("Scheduled report generation failed")
			return
		}

		select {
		case s.reports <- report:
		default:
			// Stale undelivered report; replace it with the fresh one.
			select {
			case <-s.reports:
			default:
			}
			s.reports <- report
		}
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", intervalSeconds), jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add report job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("interval_seconds", intervalSeconds).Info("Scheduled periodic risk reports")
	return nil
}

// ScheduleAlertSweeps schedules alert sweeps on a fixed interval
func (s *Scheduler) ScheduleAlertSweeps(intervalSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if intervalSeconds < 5 {
		intervalSeconds = 5
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(intervalSeconds)*time.Second)
		defer cancel()

		fired, err := s.sweeper.Sweep(ctx)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled alert sweep failed")
			return
		}
		if len(fired) == 0 {
			return
		}

		select {
		case s.alerts <- fired:
		default:
			select {
			case <-s.alerts:
			default:
			}
			s.alerts <- fired
		}
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", intervalSeconds), jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add alert job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("interval_seconds", intervalSeconds).Info("Scheduled periodic alert sweeps")
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}
	return nextRun
}
