package repositories

import (
	"context"
	"fmt"
	"time"

	gormModels "hamlog/stationmaster/internal/models/gorm"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncJobRepository handles sync_jobs table operations using GORM
type SyncJobRepository struct {
	db *gorm.DB
}

// NewSyncJobRepository creates a new GORM-based sync job repository
func NewSyncJobRepository(db *gorm.DB) *SyncJobRepository {
	return &SyncJobRepository{db: db}
}

// CreatePending persists a new job in the pending state. The row must exist
// before any network I/O happens for the attempt.
func (r *SyncJobRepository) CreatePending(ctx context.Context, stationID, userID uint, direction string, dateFrom, dateTo *time.Time) (*gormModels.SyncJob, error) {
	job := &gormModels.SyncJob{
		ID:        uuid.NewString(),
		StationID: stationID,
		UserID:    userID,
		Direction: direction,
		Status:    gormModels.SyncJobPending,
		DateFrom:  dateFrom,
		DateTo:    dateTo,
	}

	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, fmt.Errorf("failed to create sync job: %w", err)
	}

	return job, nil
}

// MarkProcessing transitions a job to processing and stamps its start time.
func (r *SyncJobRepository) MarkProcessing(ctx context.Context, jobID string, startedAt time.Time) error {
	return r.updateStatus(ctx, jobID, map[string]any{
		"status":     gormModels.SyncJobProcessing,
		"started_at": startedAt,
	})
}

// MarkDownloadCompleted finishes a download job with its match counts.
func (r *SyncJobRepository) MarkDownloadCompleted(ctx context.Context, jobID string, found, matched, unmatched int, completedAt time.Time) error {
	return r.updateStatus(ctx, jobID, map[string]any{
		"status":                  gormModels.SyncJobCompleted,
		"confirmations_found":     found,
		"confirmations_matched":   matched,
		"confirmations_unmatched": unmatched,
		"completed_at":            completedAt,
	})
}

// MarkUploadCompleted finishes an upload job with the payload fingerprint
// and the remote service's response body.
func (r *SyncJobRepository) MarkUploadCompleted(ctx context.Context, jobID string, uploaded int, fileHash string, fileSize int64, serviceResponse string, completedAt time.Time) error {
	return r.updateStatus(ctx, jobID, map[string]any{
		"status":           gormModels.SyncJobCompleted,
		"uploaded_count":   uploaded,
		"file_hash":        fileHash,
		"file_size_bytes":  fileSize,
		"service_response": serviceResponse,
		"completed_at":     completedAt,
	})
}

// MarkFailed finishes a job in the failed state with a diagnostic message.
func (r *SyncJobRepository) MarkFailed(ctx context.Context, jobID string, errMsg string, completedAt time.Time) error {
	return r.updateStatus(ctx, jobID, map[string]any{
		"status":        gormModels.SyncJobFailed,
		"error_message": errMsg,
		"completed_at":  completedAt,
	})
}

// GetByID retrieves a sync job by its ID
func (r *SyncJobRepository) GetByID(ctx context.Context, jobID string) (*gormModels.SyncJob, error) {
	var job gormModels.SyncJob

	err := r.db.WithContext(ctx).
		Where("id = ?", jobID).
		First(&job).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch sync job: %w", err)
	}

	return &job, nil
}

// HasActiveJob reports whether a pending or processing job already exists
// for the station and direction. Advisory only; concurrent jobs are not
// mutually exclusive.
func (r *SyncJobRepository) HasActiveJob(ctx context.Context, stationID uint, direction string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&gormModels.SyncJob{}).
		Where("station_id = ? AND direction = ? AND status IN ?",
			stationID, direction, []string{gormModels.SyncJobPending, gormModels.SyncJobProcessing}).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to check active jobs: %w", err)
	}

	return count > 0, nil
}

// ListByStation retrieves a station's recent jobs, newest first.
func (r *SyncJobRepository) ListByStation(ctx context.Context, stationID uint, limit int) ([]gormModels.SyncJob, error) {
	var jobs []gormModels.SyncJob

	err := r.db.WithContext(ctx).
		Where("station_id = ?", stationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch sync jobs: %w", err)
	}

	return jobs, nil
}

func (r *SyncJobRepository) updateStatus(ctx context.Context, jobID string, fields map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.SyncJob{}).
		Where("id = ?", jobID).
		Updates(fields)

	if result.Error != nil {
		return fmt.Errorf("failed to update sync job: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("sync job not found with ID: %s", jobID)
	}

	return nil
}
