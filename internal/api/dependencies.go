package api

import (
	"os"

	"hamlog/stationmaster/internal/common"
	"hamlog/stationmaster/internal/db"
	"hamlog/stationmaster/internal/db/repositories"
	"hamlog/stationmaster/internal/jobs"
	"hamlog/stationmaster/internal/logging"
	"hamlog/stationmaster/internal/metrics"
	"hamlog/stationmaster/internal/providers"
	"hamlog/stationmaster/internal/services"
)

type Repositories struct {
	Contacts *repositories.ContactRepository
	SyncJobs *repositories.SyncJobRepository
	Stations *repositories.StationRepository
	Settings *repositories.SettingsRepository
}

type Services struct {
	Cache    common.CacheInterface
	Settings *services.SettingsService
	Stations *services.StationService
	Import   *services.ImportService
	Export   *services.ExportService
}

type Jobs struct {
	Download *jobs.DownloadSyncJob
	Upload   *jobs.UploadSyncJob
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Jobs     *Jobs
	Metrics  *metrics.MetricsRegistry
}

// InitDependencies wires the repository, service, and job layers from the
// already-initialized database handles.
func InitDependencies(metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		Contacts: repositories.NewContactRepository(db.PgDB),
		SyncJobs: repositories.NewSyncJobRepository(db.PgDB),
		Stations: repositories.NewStationRepository(db.DB),
		Settings: repositories.NewSettingsRepository(db.DB),
	}

	cache := newCache()

	stationSvc := services.NewStationService(repos.Stations, cache)
	exportSvc := services.NewExportService(repos.Contacts, stationSvc)
	lotwProvider := providers.NewLotwProvider()

	svcs := &Services{
		Cache:    cache,
		Settings: services.NewSettingsService(repos.Settings),
		Stations: stationSvc,
		Import:   services.NewImportService(repos.Contacts, common.NewRealClock(), metricsReg),
		Export:   exportSvc,
	}

	jobLayer := &Jobs{
		Download: jobs.NewDownloadSyncJob(repos.SyncJobs, repos.Contacts, stationSvc, lotwProvider, metricsReg),
		Upload:   jobs.NewUploadSyncJob(repos.SyncJobs, repos.Contacts, stationSvc, exportSvc, lotwProvider, metricsReg),
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Jobs:     jobLayer,
		Metrics:  metricsReg,
	}, nil
}

// newCache picks the cache backend: Redis when CACHE_BACKEND=redis, the
// in-process store otherwise. A Redis connection failure falls back to
// in-process rather than refusing to start.
func newCache() common.CacheInterface {
	if os.Getenv("CACHE_BACKEND") == "redis" {
		redisCache, err := common.NewRedisCacheService()
		if err == nil {
			logging.Info("Using Redis cache backend")
			return redisCache
		}
		logging.Warn("Redis cache unavailable, falling back to in-process cache", "error", err)
	}
	return common.NewCacheService(300, 600)
}
