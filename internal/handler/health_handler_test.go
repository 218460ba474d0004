package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error {
	return s.err
}

func TestHealthHandler_Healthz(t *testing.T) {
	e := echo.New()

	run := func(t *testing.T, handler *HealthHandler) (int, map[string]string) {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler.Healthz(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var resp struct {
			Data map[string]string `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return rec.Code, resp.Data
	}

	t.Run("all dependencies up", func(t *testing.T) {
		code, checks := run(t, NewHealthHandler(stubPinger{}, stubPinger{}))
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		if checks["database"] != "ok" || checks["cache"] != "ok" {
			t.Fatalf("expected ok checks, got %v", checks)
		}
	})

	t.Run("cache down still returns 200", func(t *testing.T) {
		code, checks := run(t, NewHealthHandler(stubPinger{}, stubPinger{err: errors.New("redis down")}))
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		if checks["cache"] != "unreachable" {
			t.Fatalf("expected unreachable cache, got %q", checks["cache"])
		}
	})

	t.Run("missing dependency reported", func(t *testing.T) {
		_, checks := run(t, NewHealthHandler(stubPinger{}, nil))
		if checks["cache"] != "not configured" {
			t.Fatalf("expected not configured cache, got %q", checks["cache"])
		}
	})
}
