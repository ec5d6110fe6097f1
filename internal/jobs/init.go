package jobs

import (
	"context"
	"log"
	"time"

	"hamlog/stationmaster/internal/db/repositories"
)

// AutoSyncRunner drives periodic LoTW syncs for every station that opted
// in. One runner exists per process; per-station failures are logged and
// never stop the schedule.
type AutoSyncRunner struct {
	stations *repositories.StationRepository
	download *DownloadSyncJob
	upload   *UploadSyncJob
}

// InitializeJobs wires the auto-sync runner and starts it in the background.
func InitializeJobs(
	ctx context.Context,
	stations *repositories.StationRepository,
	download *DownloadSyncJob,
	upload *UploadSyncJob,
	interval time.Duration,
) *AutoSyncRunner {
	runner := &AutoSyncRunner{
		stations: stations,
		download: download,
		upload:   upload,
	}

	go runner.RunScheduled(ctx, interval)

	return runner
}

// Run executes one sync round: download confirmations then upload any
// unsent contacts, for every auto-sync station.
func (r *AutoSyncRunner) Run(ctx context.Context) error {
	start := time.Now()
	log.Printf("[AutoSyncRunner] Starting scheduled sync at %s", start.Format(time.RFC3339))

	stations, err := r.stations.GetAutoSyncStations(ctx)
	if err != nil {
		log.Printf("[AutoSyncRunner] Error fetching auto-sync stations: %v", err)
		return err
	}

	if len(stations) == 0 {
		log.Printf("[AutoSyncRunner] No stations with auto-sync enabled")
		return nil
	}

	for _, station := range stations {
		if !station.HasLotwCredentials() {
			log.Printf("[AutoSyncRunner] Skipping station %d: no LoTW credentials", station.ID)
			continue
		}

		if _, err := r.download.RunForStation(ctx, station.ID, nil, nil); err != nil {
			log.Printf("[AutoSyncRunner] Download failed for station %d: %v", station.ID, err)
		}

		if len(station.LotwP12Cert) > 0 {
			if _, err := r.upload.RunForStation(ctx, station.ID, nil, nil); err != nil {
				log.Printf("[AutoSyncRunner] Upload failed for station %d: %v", station.ID, err)
			}
		}
	}

	log.Printf("[AutoSyncRunner] Completed scheduled sync for %d stations in %s",
		len(stations), time.Since(start).Truncate(time.Millisecond))
	return nil
}

// RunScheduled runs the sync round on a fixed interval until ctx ends.
func (r *AutoSyncRunner) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.Run(ctx); err != nil {
				log.Printf("[AutoSyncRunner] Error in scheduled run: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
