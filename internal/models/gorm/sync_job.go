package gorm

import "time"

// Sync job lifecycle states. A job is persisted as pending before any
// network I/O and always ends completed or failed.
const (
	SyncJobPending    = "pending"
	SyncJobProcessing = "processing"
	SyncJobCompleted  = "completed"
	SyncJobFailed     = "failed"
)

// Sync directions.
const (
	SyncDirectionUpload   = "upload"
	SyncDirectionDownload = "download"
)

// SyncJob is one upload or download attempt against LoTW. The row is
// mutated only by the orchestrator invocation that created it.
type SyncJob struct {
	ID        string `gorm:"column:id;primaryKey;type:uuid"`
	StationID uint   `gorm:"column:station_id;not null;index"`
	UserID    uint   `gorm:"column:user_id;not null"`
	Direction string `gorm:"column:direction;type:varchar(10);not null"`
	Status    string `gorm:"column:status;type:varchar(12);not null"`

	DateFrom *time.Time `gorm:"column:date_from"`
	DateTo   *time.Time `gorm:"column:date_to"`

	// Download outcome counts.
	ConfirmationsFound     int `gorm:"column:confirmations_found;default:0"`
	ConfirmationsMatched   int `gorm:"column:confirmations_matched;default:0"`
	ConfirmationsUnmatched int `gorm:"column:confirmations_unmatched;default:0"`

	// Upload outcome.
	UploadedCount int    `gorm:"column:uploaded_count;default:0"`
	FileHash      string `gorm:"column:file_hash;type:varchar(64)"`
	FileSizeBytes int64  `gorm:"column:file_size_bytes;default:0"`

	ServiceResponse string `gorm:"column:service_response;type:text"`
	ErrorMessage    string `gorm:"column:error_message;type:text"`

	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	StartedAt   *time.Time `gorm:"column:started_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
}

// TableName specifies the table name for GORM
func (SyncJob) TableName() string {
	return "sync_jobs"
}
