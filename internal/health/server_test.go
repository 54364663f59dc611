package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

type stubRunner struct {
	running bool
}

func (r stubRunner) IsRunning() bool { return r.running }

func newTestServer(db DatabasePinger, scheduler BackgroundRunner) *Server {
	return NewServer(Config{
		ServiceName: "risk-tracker",
		Version:     "test",
		Logger:      logrus.New(),
		DB:          db,
		Scheduler:   scheduler,
	})
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(nil, nil)

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Service != "risk-tracker" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandleReadyAllChecksPass(t *testing.T) {
	s := newTestServer(stubPinger{}, stubRunner{running: true})
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp ReadyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, check := range []string{"service", "database", "scheduler"} {
		if resp.Checks[check] != "ok" {
			t.Errorf("check %q = %q, want ok", check, resp.Checks[check])
		}
	}
}

func TestHandleReadyFailures(t *testing.T) {
	tests := []struct {
		name      string
		db        DatabasePinger
		scheduler BackgroundRunner
		ready     bool
	}{
		{"not marked ready", stubPinger{}, stubRunner{running: true}, false},
		{"database down", stubPinger{err: errors.New("conn refused")}, stubRunner{running: true}, true},
		{"scheduler stopped", stubPinger{}, stubRunner{running: false}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(tt.db, tt.scheduler)
			s.SetReady(tt.ready)

			rec := httptest.NewRecorder()
			s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != http.StatusServiceUnavailable {
				t.Errorf("status = %d, want 503", rec.Code)
			}
		})
	}
}
