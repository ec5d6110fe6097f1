package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"hamlog/stationmaster/internal/db/repositories"
	"hamlog/stationmaster/internal/metrics"
	"hamlog/stationmaster/internal/models/dtos"
	gormModels "hamlog/stationmaster/internal/models/gorm"
	"hamlog/stationmaster/internal/providers"
	"hamlog/stationmaster/internal/services"
	"hamlog/stationmaster/internal/signing"
)

// UploadSyncJob exports a station's contacts, signs the file with the
// station's p12 certificate, and uploads it to LoTW.
type UploadSyncJob struct {
	syncJobs *repositories.SyncJobRepository
	contacts *repositories.ContactRepository
	stations *services.StationService
	export   *services.ExportService
	provider *providers.LotwProvider
	metrics  *metrics.MetricsRegistry
}

// NewUploadSyncJob creates a new upload sync job instance
func NewUploadSyncJob(
	syncJobs *repositories.SyncJobRepository,
	contacts *repositories.ContactRepository,
	stations *services.StationService,
	export *services.ExportService,
	provider *providers.LotwProvider,
	reg *metrics.MetricsRegistry,
) *UploadSyncJob {
	return &UploadSyncJob{
		syncJobs: syncJobs,
		contacts: contacts,
		stations: stations,
		export:   export,
		provider: provider,
		metrics:  reg,
	}
}

// RunForStation executes one signed upload for a station. Zero eligible
// contacts completes the job successfully with an explanatory message.
func (j *UploadSyncJob) RunForStation(ctx context.Context, stationID uint, dateFrom, dateTo *time.Time) (*dtos.UploadSyncResult, error) {
	start := time.Now()
	log.Printf("[UploadSyncJob] Starting signed upload for station %d", stationID)

	station, err := j.stations.GetByID(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve station: %w", err)
	}
	if !station.HasLotwCredentials() {
		return nil, fmt.Errorf("station %d has no LoTW credentials", stationID)
	}
	if len(station.LotwP12Cert) == 0 {
		return nil, fmt.Errorf("station %d has no signing certificate", stationID)
	}

	job, err := j.syncJobs.CreatePending(ctx, stationID, station.UserID, gormModels.SyncDirectionUpload, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	export, err := j.export.ExportADIF(ctx, stationID, dateFrom, dateTo)
	if errors.Is(err, services.ErrNoContacts) {
		if err := j.syncJobs.MarkUploadCompleted(ctx, job.ID, 0, "", 0, "", time.Now().UTC()); err != nil {
			return nil, err
		}
		j.observe(gormModels.SyncJobCompleted, start)
		log.Printf("[UploadSyncJob] Nothing to upload for station %d", stationID)
		return &dtos.UploadSyncResult{
			Success: true,
			JobID:   job.ID,
			Message: "No contacts found for upload",
		}, nil
	}
	if err != nil {
		return j.fail(ctx, job.ID, start, err)
	}

	payload := []byte(export.Content)
	fileHash := signing.ContentHash(payload)

	signer, err := signing.NewSigner(station.LotwP12Cert, *station.LotwPassword)
	if err != nil {
		return j.fail(ctx, job.ID, start, err)
	}
	signature, err := signer.Sign(payload)
	if err != nil {
		return j.fail(ctx, job.ID, start, err)
	}

	if err := j.syncJobs.MarkProcessing(ctx, job.ID, time.Now().UTC()); err != nil {
		return nil, err
	}

	response, err := j.provider.UploadLog(ctx, export.Filename, payload, signature)
	if err != nil {
		return j.fail(ctx, job.ID, start, err)
	}

	if err := j.syncJobs.MarkUploadCompleted(ctx, job.ID, export.Count, fileHash, int64(len(payload)), response, time.Now().UTC()); err != nil {
		return nil, err
	}

	// Flag the uploaded contacts; the export range defines eligibility.
	uploaded, err := j.contacts.FindByStationAndRange(ctx, stationID, dateFrom, dateTo)
	if err == nil {
		ids := make([]uint, 0, len(uploaded))
		for _, c := range uploaded {
			ids = append(ids, c.ID)
		}
		if err := j.contacts.MarkLotwSent(ctx, ids, time.Now().UTC()); err != nil {
			log.Printf("[UploadSyncJob] Error flagging uploaded contacts: %v", err)
		}
	} else {
		log.Printf("[UploadSyncJob] Error fetching uploaded contacts: %v", err)
	}

	j.observe(gormModels.SyncJobCompleted, start)
	log.Printf("[UploadSyncJob] Completed for station %d in %s: %d contacts uploaded",
		stationID, time.Since(start).Truncate(time.Millisecond), export.Count)

	return &dtos.UploadSyncResult{
		Success:         true,
		JobID:           job.ID,
		UploadedCount:   export.Count,
		ServiceResponse: response,
		Message:         fmt.Sprintf("%d contacts uploaded to LoTW", export.Count),
	}, nil
}

func (j *UploadSyncJob) fail(ctx context.Context, jobID string, start time.Time, cause error) (*dtos.UploadSyncResult, error) {
	log.Printf("[UploadSyncJob] Job %s failed: %v", jobID, cause)
	if err := j.syncJobs.MarkFailed(ctx, jobID, cause.Error(), time.Now().UTC()); err != nil {
		log.Printf("[UploadSyncJob] Error marking job %s failed: %v", jobID, err)
	}
	j.observe(gormModels.SyncJobFailed, start)
	return &dtos.UploadSyncResult{
		Success: false,
		JobID:   jobID,
		Message: cause.Error(),
	}, cause
}

func (j *UploadSyncJob) observe(status string, start time.Time) {
	if j.metrics == nil {
		return
	}
	j.metrics.SyncJobsTotal.WithLabelValues(gormModels.SyncDirectionUpload, status).Inc()
	j.metrics.SyncJobDuration.WithLabelValues(gormModels.SyncDirectionUpload).Observe(time.Since(start).Seconds())
}
