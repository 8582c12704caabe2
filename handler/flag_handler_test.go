package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"featuredflags/config"
	"featuredflags/controller"
	"featuredflags/pkg/logger"
	"featuredflags/repository"
	"featuredflags/service"
	"featuredflags/test"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T, cfg *config.Config, probes ...Probe) *echo.Echo {
	t.Helper()
	repo := repository.NewMemoryRuleRepository(test.FixtureRules()...)
	flags := service.NewFeaturedFlags(repo, test.NewRecordingCache(), logger.Nop(), service.WithFixedTime(test.FixtureTime))
	ec := controller.NewEvaluationController(flags, logger.Nop())

	e := echo.New()
	RegisterRoutes(e, ec, cfg, logger.Nop(), probes...)
	return e
}

func okProbe(name string, critical bool) Probe {
	return Probe{Name: name, Critical: critical, Check: func(context.Context) error { return nil }}
}

func failingProbe(name string, critical bool) Probe {
	return Probe{Name: name, Critical: critical, Check: func(context.Context) error { return errors.New("connection refused") }}
}

func getHealth(t *testing.T, e *echo.Echo) (int, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealth(t *testing.T) {
	cfg := &config.Config{}

	t.Run("all probes healthy", func(t *testing.T) {
		code, body := getHealth(t, setupServer(t, cfg, okProbe("database", true), okProbe("redis", false)))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("cache down degrades", func(t *testing.T) {
		code, body := getHealth(t, setupServer(t, cfg, okProbe("database", true), failingProbe("redis", false)))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "degraded", body["status"])
		checks := body["checks"].(map[string]interface{})
		assert.Equal(t, "connection refused", checks["redis"])
		assert.Equal(t, "ok", checks["database"])
	})

	t.Run("database down is unhealthy", func(t *testing.T) {
		code, body := getHealth(t, setupServer(t, cfg, failingProbe("database", true), failingProbe("redis", false)))
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", body["status"])
	})
}

func TestRegisterRoutes(t *testing.T) {
	t.Run("evaluation routes", func(t *testing.T) {
		e := setupServer(t, &config.Config{})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/flags/flagDateJanuary/enabled", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"flag":"flagDateJanuary","enabled":true}`, rec.Body.String())
	})

	t.Run("metrics disabled", func(t *testing.T) {
		e := setupServer(t, &config.Config{})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("metrics enabled", func(t *testing.T) {
		e := setupServer(t, &config.Config{Metrics: config.Metrics{Enabled: true}})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
