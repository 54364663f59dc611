package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/punter-edge/internal/alerts"
	"github.com/yourusername/punter-edge/internal/analytics"
	"github.com/yourusername/punter-edge/internal/logger"
	"github.com/yourusername/punter-edge/internal/models"
)

type stubGenerator struct {
	calls int32
}

func (g *stubGenerator) GenerateRiskReport(ctx context.Context, filter models.BetFilter) (*analytics.RiskReport, error) {
	atomic.AddInt32(&g.calls, 1)
	return &analytics.RiskReport{GeneratedAt: time.Now()}, nil
}

type stubSweeper struct {
	fired []alerts.Alert
}

func (s *stubSweeper) Sweep(ctx context.Context) ([]alerts.Alert, error) {
	return s.fired, nil
}

func TestSchedulerLifecycle(t *testing.T) {
	s := NewScheduler(&stubGenerator{}, &stubSweeper{}, logger.NewLogger("error"))

	if err := s.Start(); err == nil {
		t.Error("starting with no jobs should fail")
	}

	if err := s.ScheduleReports(60); err != nil {
		t.Fatalf("schedule reports: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !s.IsRunning() {
		t.Error("scheduler should be running")
	}

	if err := s.ScheduleReports(60); err == nil {
		t.Error("scheduling while running should fail")
	}
	if err := s.Start(); err == nil {
		t.Error("double start should fail")
	}

	if next := s.GetNextRun(); next.IsZero() {
		t.Error("next run should be set while running")
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if s.IsRunning() {
		t.Error("scheduler should be stopped")
	}
	if err := s.Stop(); err != nil {
		t.Errorf("second stop should be a no-op, got %v", err)
	}
}

func TestSchedulerDeliversReports(t *testing.T) {
	gen := &stubGenerator{}
	s := NewScheduler(gen, &stubSweeper{}, logger.NewLogger("error"))

	if err := s.ScheduleReports(5); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	select {
	case report := <-s.Reports():
		if report == nil {
			t.Error("expected a report, got nil")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("no report delivered within the interval")
	}
	assert.GreaterOrEqual(t, atomic.LoadInt32(&gen.calls), int32(1))
}

func TestSchedulerDeliversAlerts(t *testing.T) {
	sweeper := &stubSweeper{fired: []alerts.Alert{{Type: alerts.AlertDrawdown}}}
	s := NewScheduler(&stubGenerator{}, sweeper, logger.NewLogger("error"))

	if err := s.ScheduleAlertSweeps(5); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	select {
	case fired := <-s.Alerts():
		if len(fired) != 1 || fired[0].Type != alerts.AlertDrawdown {
			t.Errorf("unexpected alert batch: %v", fired)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("no alerts delivered within the interval")
	}
}
