package routes

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"hamlog/stationmaster/internal/api"
	"hamlog/stationmaster/internal/db"
	"hamlog/stationmaster/internal/jobs"
	"hamlog/stationmaster/internal/logging"
	"hamlog/stationmaster/internal/metrics"
	"hamlog/stationmaster/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func RegisterRoutes(upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// Initialize metrics registry
	metricsReg := metrics.NewMetricsRegistry()

	// global middleware; recovery sits inside the request-ID layer so a
	// recovered panic still logs with its request ID
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RecoverMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "Content-Disposition", "X-Record-Count"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, upSince))

	// Initialize dependencies using DI pattern
	deps, err := api.InitDependencies(metricsReg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	// Initialize handlers with dependencies
	handlers := api.NewHandlers(deps)

	// Scheduled LoTW sync for stations that opted in
	if interval := autoSyncInterval(); interval > 0 {
		jobs.InitializeJobs(context.Background(), deps.Repo.Stations, deps.Jobs.Download, deps.Jobs.Upload, interval)
		logging.Info("Auto-sync runner started", "interval", interval.String())
	}

	RegisterAPIRoutes(r, handlers)

	return r
}

// autoSyncInterval reads AUTO_SYNC_INTERVAL_MINUTES; 0 disables the runner.
func autoSyncInterval() time.Duration {
	v := os.Getenv("AUTO_SYNC_INTERVAL_MINUTES")
	if v == "" {
		return 6 * time.Hour
	}
	minutes, err := strconv.Atoi(v)
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}
