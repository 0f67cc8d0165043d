package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fox-techniques/janux-auth-gateway/internal/api/handler"
)

func TestLiveness(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	if err := handler.NewHealthHandler().Liveness(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Liveness: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func runReadiness(t *testing.T, pings map[string]handler.PingFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	if err := handler.NewReadinessHandler(pings).Readiness(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Readiness: %v", err)
	}
	return rec
}

func TestReadiness_AllHealthy(t *testing.T) {
	ok := func(context.Context) error { return nil }
	rec := runReadiness(t, map[string]handler.PingFunc{"mongo": ok, "redis": ok})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Status       string                       `json:"status"`
		Dependencies map[string]map[string]string `json:"dependencies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || len(body.Dependencies) != 2 {
		t.Fatalf("unexpected readiness body: %+v", body)
	}
}

func TestReadiness_DependencyDown(t *testing.T) {
	rec := runReadiness(t, map[string]handler.PingFunc{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	var body struct {
		Status       string                       `json:"status"`
		Dependencies map[string]map[string]string `json:"dependencies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "degraded" {
		t.Fatalf("expected degraded status, got %s", body.Status)
	}
	if body.Dependencies["redis"]["status"] != "unhealthy" {
		t.Fatalf("unexpected redis status: %v", body.Dependencies["redis"])
	}
	if body.Dependencies["postgres"]["status"] != "ok" {
		t.Fatalf("unexpected postgres status: %v", body.Dependencies["postgres"])
	}
}
