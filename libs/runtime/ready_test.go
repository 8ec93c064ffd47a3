package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReadyzWithoutChecks(t *testing.T) {
	mux := NewBaseMuxWithReady()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var report struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("bad readyz body: %v", err)
	}
	if report.Status != "ok" {
		t.Fatalf("status = %q", report.Status)
	}
}

func TestReadyzReportsFailingCheckByName(t *testing.T) {
	mux := NewBaseMuxWithReady(
		ReadyCheck{Name: "store", Check: func(context.Context) error { return nil }},
		ReadyCheck{Name: "queue", Check: func(context.Context) error { return errors.New("down") }},
	)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var report struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("bad readyz body: %v", err)
	}
	if report.Status != "unavailable" {
		t.Fatalf("status = %q", report.Status)
	}
	if report.Checks["store"] != "ok" || report.Checks["queue"] != "down" {
		t.Fatalf("checks = %v", report.Checks)
	}
}

func TestHealthzAlwaysOK(t *testing.T) {
	mux := NewBaseMuxWithReady(ReadyCheck{Name: "store", Check: func(context.Context) error { return errors.New("down") }})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("liveness must not depend on readiness checks, got %d", rec.Code)
	}
}
