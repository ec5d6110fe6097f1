package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"hamlog/stationmaster/internal/adif"
	"hamlog/stationmaster/internal/db/repositories"
	"hamlog/stationmaster/internal/metrics"
	"hamlog/stationmaster/internal/models/dtos"
	gormModels "hamlog/stationmaster/internal/models/gorm"
	"hamlog/stationmaster/internal/providers"
	"hamlog/stationmaster/internal/services"
)

// DownloadSyncJob fetches LoTW confirmations for a station, matches them
// against local contacts, and applies the results. Each run owns exactly
// one sync_jobs row; nothing else mutates it.
type DownloadSyncJob struct {
	syncJobs *repositories.SyncJobRepository
	contacts *repositories.ContactRepository
	stations *services.StationService
	provider *providers.LotwProvider
	policy   services.MatchPolicy
	metrics  *metrics.MetricsRegistry
}

// NewDownloadSyncJob creates a new download sync job instance
func NewDownloadSyncJob(
	syncJobs *repositories.SyncJobRepository,
	contacts *repositories.ContactRepository,
	stations *services.StationService,
	provider *providers.LotwProvider,
	reg *metrics.MetricsRegistry,
) *DownloadSyncJob {
	return &DownloadSyncJob{
		syncJobs: syncJobs,
		contacts: contacts,
		stations: stations,
		provider: provider,
		policy:   services.DefaultMatchPolicy,
		metrics:  reg,
	}
}

// RunForStation executes one confirmation download for a station. The job
// row reaches pending before any network I/O and always ends completed or
// failed.
func (j *DownloadSyncJob) RunForStation(ctx context.Context, stationID uint, dateFrom, dateTo *time.Time) (*dtos.DownloadSyncResult, error) {
	start := time.Now()
	log.Printf("[DownloadSyncJob] Starting confirmation download for station %d", stationID)

	station, err := j.stations.GetByID(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve station: %w", err)
	}
	if !station.HasLotwCredentials() {
		return nil, fmt.Errorf("station %d has no LoTW credentials", stationID)
	}

	job, err := j.syncJobs.CreatePending(ctx, stationID, station.UserID, gormModels.SyncDirectionDownload, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	if err := j.syncJobs.MarkProcessing(ctx, job.ID, time.Now().UTC()); err != nil {
		return nil, err
	}

	body, err := j.provider.DownloadConfirmations(ctx, *station.LotwUsername, *station.LotwPassword, dateFrom, dateTo)
	if err != nil {
		return j.fail(ctx, job.ID, start, err)
	}

	confirmations := parseConfirmations(body)
	if len(confirmations) == 0 {
		if err := j.syncJobs.MarkDownloadCompleted(ctx, job.ID, 0, 0, 0, time.Now().UTC()); err != nil {
			return nil, err
		}
		j.observe(gormModels.SyncJobCompleted, start)
		log.Printf("[DownloadSyncJob] No confirmations in LoTW response for station %d", stationID)
		return &dtos.DownloadSyncResult{
			Success: true,
			JobID:   job.ID,
			Message: "No confirmations found in LoTW response",
		}, nil
	}

	candidates, err := j.contacts.FindByStationAndRange(ctx, stationID, dateFrom, dateTo)
	if err != nil {
		return j.fail(ctx, job.ID, start, err)
	}

	report := services.MatchConfirmations(confirmations, candidates, j.policy)

	for _, m := range report.Matches {
		qslDate := time.Now().UTC()
		if m.Confirmation.QslDate != nil {
			qslDate = *m.Confirmation.QslDate
		}
		if err := j.contacts.ApplyConfirmation(ctx, m.Contact.ID, string(m.Status), qslDate); err != nil {
			log.Printf("[DownloadSyncJob] Error applying confirmation to contact %d: %v", m.Contact.ID, err)
		}
	}

	found := len(confirmations)
	matched := len(report.Matches)
	unmatched := len(report.Unmatched)

	if err := j.syncJobs.MarkDownloadCompleted(ctx, job.ID, found, matched, unmatched, time.Now().UTC()); err != nil {
		return nil, err
	}
	j.observe(gormModels.SyncJobCompleted, start)

	log.Printf("[DownloadSyncJob] Completed for station %d in %s: %d found, %d matched, %d unmatched",
		stationID, time.Since(start).Truncate(time.Millisecond), found, matched, unmatched)

	return &dtos.DownloadSyncResult{
		Success:                true,
		JobID:                  job.ID,
		ConfirmationsFound:     found,
		ConfirmationsMatched:   matched,
		ConfirmationsUnmatched: unmatched,
		Message:                fmt.Sprintf("%d confirmations found, %d matched", found, matched),
	}, nil
}

func (j *DownloadSyncJob) fail(ctx context.Context, jobID string, start time.Time, cause error) (*dtos.DownloadSyncResult, error) {
	log.Printf("[DownloadSyncJob] Job %s failed: %v", jobID, cause)
	if err := j.syncJobs.MarkFailed(ctx, jobID, cause.Error(), time.Now().UTC()); err != nil {
		log.Printf("[DownloadSyncJob] Error marking job %s failed: %v", jobID, err)
	}
	j.observe(gormModels.SyncJobFailed, start)
	return &dtos.DownloadSyncResult{
		Success: false,
		JobID:   jobID,
		Message: cause.Error(),
	}, cause
}

func (j *DownloadSyncJob) observe(status string, start time.Time) {
	if j.metrics == nil {
		return
	}
	j.metrics.SyncJobsTotal.WithLabelValues(gormModels.SyncDirectionDownload, status).Inc()
	j.metrics.SyncJobDuration.WithLabelValues(gormModels.SyncDirectionDownload).Observe(time.Since(start).Seconds())
}

// parseConfirmations decodes a LoTW ADIF report into confirmation records.
// Records missing identity fields are dropped; the report format carries
// noise lines the codec already filters.
func parseConfirmations(body string) []services.Confirmation {
	var confirmations []services.Confirmation

	for _, rec := range adif.Decode(body) {
		datetime, err := adif.ParseDateTime(rec["qso_date"], rec["time_on"])
		if err != nil || rec["call"] == "" {
			continue
		}

		conf := services.Confirmation{
			Callsign: rec["call"],
			Datetime: datetime,
			Band:     rec["band"],
			Mode:     rec["mode"],
		}

		if rdate := rec["qslrdate"]; len(rdate) == 8 {
			if d, err := time.ParseInLocation("20060102", rdate, time.UTC); err == nil {
				conf.QslDate = &d
			}
		}

		confirmations = append(confirmations, conf)
	}

	return confirmations
}
