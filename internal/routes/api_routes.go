package routes

import (
	"hamlog/stationmaster/internal/api"
	"hamlog/stationmaster/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers) {

	r.Route("/api/v1", func(v1 chi.Router) {

		// ADIF import/export. The import group is rate limited: chunked
		// uploads arrive in bursts and each call holds a storage
		// connection for the whole batch loop.
		v1.Group(func(adifRoutes chi.Router) {
			adifRoutes.Use(middleware.RateLimitMiddleware)
			adifRoutes.Post("/adif/import", handlers.ImportADIF())
		})
		v1.Post("/adif/export", handlers.ExportADIF())

		// LoTW sync
		v1.Post("/lotw/download", handlers.DownloadLotwConfirmations())
		v1.Post("/lotw/upload", handlers.UploadLotwLog())
		v1.Get("/lotw/jobs", handlers.ListSyncJobs())
		v1.Get("/lotw/jobs/{job_id}", handlers.GetSyncJob())
	})
}
