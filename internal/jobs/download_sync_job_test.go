package jobs

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hamlog/stationmaster/internal/common"
	"hamlog/stationmaster/internal/constants"
	"hamlog/stationmaster/internal/db/repositories"
	"hamlog/stationmaster/internal/models/entities"
	gormModels "hamlog/stationmaster/internal/models/gorm"
	"hamlog/stationmaster/internal/providers"
	"hamlog/stationmaster/internal/services"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&gormModels.Contact{}, &gormModels.SyncJob{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

func testStationService(station *entities.Station) *services.StationService {
	cache := common.NewCacheService(300, 600)
	cache.Set(fmt.Sprintf("%s%d", constants.CachePrefixStation, station.ID), station, time.Minute)
	return services.NewStationService(repositories.NewStationRepository(nil), cache)
}

func lotwStation() *entities.Station {
	user := "w1aw"
	pass := "secret"
	return &entities.Station{
		ID:           1,
		UserID:       1,
		Callsign:     "W1AW",
		LotwUsername: &user,
		LotwPassword: &pass,
	}
}

func TestDownloadSyncJob_MatchesAndPersists(t *testing.T) {
	db := setupTestDB(t)
	contacts := repositories.NewContactRepository(db)
	syncJobs := repositories.NewSyncJobRepository(db)

	// Local contact at 12:03; LoTW reports the QSL at 12:00.
	localDt := time.Date(2023, 1, 1, 12, 3, 0, 0, time.UTC)
	if err := contacts.Insert(context.Background(), &gormModels.Contact{
		UserID: 1, StationID: 1, Callsign: "K1ABC", Datetime: localDt, Band: "20M", Mode: "SSB",
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ARRL Logbook of the World Status Report\n<eoh>\n"+
			"<CALL:5>K1ABC<QSO_DATE:8>20230101<TIME_ON:4>1200<BAND:3>20M<MODE:3>SSB<QSLRDATE:8>20230110<eor>\n"+
			"<CALL:5>N0XYZ<QSO_DATE:8>20230101<TIME_ON:4>0900<eor>\n")
	}))
	defer server.Close()
	t.Setenv("LOTW_API_BASE_URL", server.URL)

	job := NewDownloadSyncJob(syncJobs, contacts, testStationService(lotwStation()), providers.NewLotwProvider(), nil)

	result, err := job.RunForStation(context.Background(), 1, nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.Success {
		t.Error("Expected success")
	}
	if result.ConfirmationsFound != 2 || result.ConfirmationsMatched != 1 || result.ConfirmationsUnmatched != 1 {
		t.Errorf("unexpected counts: %+v", result)
	}

	// Job row ends completed with the counts persisted.
	row, err := syncJobs.GetByID(context.Background(), result.JobID)
	if err != nil || row == nil {
		t.Fatalf("job row missing: %v", err)
	}
	if row.Status != gormModels.SyncJobCompleted {
		t.Errorf("expected completed, got %s", row.Status)
	}
	if row.ConfirmationsFound != 2 || row.ConfirmationsMatched != 1 {
		t.Errorf("counts not persisted: %+v", row)
	}
	if row.Direction != gormModels.SyncDirectionDownload {
		t.Errorf("unexpected direction %s", row.Direction)
	}

	// The matched contact carries the confirmation.
	updated, err := contacts.FindByStationAndRange(context.Background(), 1, nil, nil)
	if err != nil || len(updated) != 1 {
		t.Fatalf("contact fetch failed: %v", err)
	}
	if updated[0].LotwQslReceived != "Y" {
		t.Error("contact not flagged as confirmed")
	}
	if updated[0].LotwMatchStatus != string(services.MatchConfirmed) {
		t.Errorf("expected confirmed status, got %s", updated[0].LotwMatchStatus)
	}
	if updated[0].LotwQslDate == nil || updated[0].LotwQslDate.Format("20060102") != "20230110" {
		t.Error("QSL date from the report not applied")
	}
}

func TestDownloadSyncJob_AuthFailureMarksJobFailed(t *testing.T) {
	db := setupTestDB(t)
	contacts := repositories.NewContactRepository(db)
	syncJobs := repositories.NewSyncJobRepository(db)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>Invalid login</html>")
	}))
	defer server.Close()
	t.Setenv("LOTW_API_BASE_URL", server.URL)

	job := NewDownloadSyncJob(syncJobs, contacts, testStationService(lotwStation()), providers.NewLotwProvider(), nil)

	result, err := job.RunForStation(context.Background(), 1, nil, nil)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if result == nil || result.Success {
		t.Fatal("Expected a failed result")
	}

	row, getErr := syncJobs.GetByID(context.Background(), result.JobID)
	if getErr != nil || row == nil {
		t.Fatalf("job row missing: %v", getErr)
	}
	if row.Status != gormModels.SyncJobFailed {
		t.Errorf("expected failed, got %s", row.Status)
	}
	if row.ErrorMessage == "" {
		t.Error("expected the error message captured on the job row")
	}
	if row.CompletedAt == nil {
		t.Error("expected a completion timestamp")
	}
}

func TestDownloadSyncJob_EmptyReportCompletes(t *testing.T) {
	db := setupTestDB(t)
	contacts := repositories.NewContactRepository(db)
	syncJobs := repositories.NewSyncJobRepository(db)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ARRL Logbook of the World Status Report\n<eoh>\n")
	}))
	defer server.Close()
	t.Setenv("LOTW_API_BASE_URL", server.URL)

	job := NewDownloadSyncJob(syncJobs, contacts, testStationService(lotwStation()), providers.NewLotwProvider(), nil)

	result, err := job.RunForStation(context.Background(), 1, nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !result.Success || result.ConfirmationsFound != 0 {
		t.Errorf("expected a clean zero-count completion, got %+v", result)
	}

	row, _ := syncJobs.GetByID(context.Background(), result.JobID)
	if row.Status != gormModels.SyncJobCompleted {
		t.Errorf("expected completed, got %s", row.Status)
	}
}
