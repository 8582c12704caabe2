package handler

import (
	"context"
	"net/http"
	"time"

	"featuredflags/config"
	"featuredflags/controller"
	_ "featuredflags/docs" // Import for swagger docs
	"featuredflags/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Probe is a dependency checked by /health. A failing critical probe makes the
// service unhealthy; a failing non-critical one only degrades it.
type Probe struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

const probeTimeout = 2 * time.Second

func RegisterRoutes(e *echo.Echo, ec *controller.EvaluationController, cfg *config.Config, log *logger.Logger, probes ...Probe) {
	// Add middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			if values.Error != nil {
				log.Errorw("Request failed",
					"method", values.Method,
					"uri", values.URI,
					"status", values.Status,
					"error", values.Error,
				)
			} else {
				log.Debugw("Request completed",
					"method", values.Method,
					"uri", values.URI,
					"status", values.Status,
				)
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/health", healthHandler(probes))

	if cfg.Metrics.Enabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	// Swagger documentation (if enabled)
	if cfg.Swagger.Enabled {
		log.Infow("Swagger documentation enabled", "path", "/swagger/*")
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// API routes
	api := e.Group("/api/v1")

	api.GET("/flags/:name/enabled", ec.IsEnabled)
	api.GET("/flags/:name/values", ec.GetEnabledValues)
	api.POST("/flags/:name/evaluate", ec.Evaluate)
}

func healthHandler(probes []Probe) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), probeTimeout)
		defer cancel()

		status := "healthy"
		code := http.StatusOK
		checks := make(map[string]string, len(probes))

		for _, probe := range probes {
			if err := probe.Check(ctx); err != nil {
				checks[probe.Name] = err.Error()
				if probe.Critical {
					status = "unhealthy"
					code = http.StatusServiceUnavailable
				} else if status == "healthy" {
					status = "degraded"
				}
				continue
			}
			checks[probe.Name] = "ok"
		}

		return c.JSON(code, map[string]interface{}{
			"status":  status,
			"service": "featuredflags",
			"checks":  checks,
		})
	}
}
