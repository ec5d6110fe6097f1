package jobs

import (
	"context"
	"testing"

	"hamlog/stationmaster/internal/db/repositories"
	gormModels "hamlog/stationmaster/internal/models/gorm"
	"hamlog/stationmaster/internal/providers"
	"hamlog/stationmaster/internal/services"
)

func TestUploadSyncJob_ZeroContactsCompletes(t *testing.T) {
	db := setupTestDB(t)
	contacts := repositories.NewContactRepository(db)
	syncJobs := repositories.NewSyncJobRepository(db)

	station := lotwStation()
	station.LotwP12Cert = []byte("certificate-bytes")
	stationSvc := testStationService(station)

	export := services.NewExportService(contacts, stationSvc)
	job := NewUploadSyncJob(syncJobs, contacts, stationSvc, export, providers.NewLotwProvider(), nil)

	result, err := job.RunForStation(context.Background(), 1, nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.Success {
		t.Error("Expected success for an empty upload")
	}
	if result.UploadedCount != 0 {
		t.Errorf("expected 0 uploaded, got %d", result.UploadedCount)
	}
	if result.Message == "" {
		t.Error("a zero-count completion must carry an explanatory message")
	}

	row, getErr := syncJobs.GetByID(context.Background(), result.JobID)
	if getErr != nil || row == nil {
		t.Fatalf("job row missing: %v", getErr)
	}
	if row.Status != gormModels.SyncJobCompleted {
		t.Errorf("expected completed, got %s", row.Status)
	}
}

func TestUploadSyncJob_MissingCertificate(t *testing.T) {
	db := setupTestDB(t)
	contacts := repositories.NewContactRepository(db)
	syncJobs := repositories.NewSyncJobRepository(db)

	stationSvc := testStationService(lotwStation())
	export := services.NewExportService(contacts, stationSvc)
	job := NewUploadSyncJob(syncJobs, contacts, stationSvc, export, providers.NewLotwProvider(), nil)

	if _, err := job.RunForStation(context.Background(), 1, nil, nil); err == nil {
		t.Fatal("Expected an error for a station without a signing certificate")
	}
}
