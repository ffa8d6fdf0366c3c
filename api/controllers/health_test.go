package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/storefront-cart/pkg/config"
)

type stubPinger struct {
	err   error
	calls int
}

func (p *stubPinger) Ping(ctx context.Context) error {
	p.calls++
	return p.err
}

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "test"}}
}

func TestHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthLive(testConfig()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Header().Get(envHeader) != "test" {
		t.Fatalf("expected env header, got %q", rec.Header().Get(envHeader))
	}
}

func TestHealthReady(t *testing.T) {
	t.Run("no dependencies", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReady(testConfig(), nil, nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", rec.Code)
		}
		var envelope struct {
			Data struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			} `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if envelope.Data.Checks["database"] != "skipped" || envelope.Data.Checks["redis"] != "skipped" {
			t.Fatalf("unexpected checks %+v", envelope.Data.Checks)
		}
	})

	t.Run("healthy", func(t *testing.T) {
		db, redis := &stubPinger{}, &stubPinger{}
		rec := httptest.NewRecorder()
		HealthReady(testConfig(), testLogger(), db, redis).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", rec.Code)
		}
		if db.calls != 1 || redis.calls != 1 {
			t.Fatalf("expected one ping each, got db=%d redis=%d", db.calls, redis.calls)
		}
	})

	t.Run("redis down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReady(testConfig(), testLogger(), &stubPinger{}, &stubPinger{err: errors.New("connection refused")}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503 got %d", rec.Code)
		}
	})
}
