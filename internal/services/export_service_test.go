package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"hamlog/stationmaster/internal/adif"
	"hamlog/stationmaster/internal/common"
	"hamlog/stationmaster/internal/constants"
	"hamlog/stationmaster/internal/db/repositories"
	"hamlog/stationmaster/internal/models/entities"
	gormModels "hamlog/stationmaster/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// cachedStationService returns a StationService whose lookup is satisfied
// from the cache, so no SQL database is needed.
func cachedStationService(station *entities.Station) *StationService {
	cache := common.NewCacheService(300, 600)
	cache.Set(fmt.Sprintf("%s%d", constants.CachePrefixStation, station.ID), station, time.Minute)
	return NewStationService(repositories.NewStationRepository(nil), cache)
}

func seedContact(t *testing.T, db *gorm.DB, stationID uint, call string, dt time.Time) {
	t.Helper()
	freq := 14.074
	err := db.Create(&gormModels.Contact{
		UserID:    1,
		StationID: stationID,
		Callsign:  call,
		Datetime:  dt,
		Frequency: &freq,
		Band:      "20M",
		Mode:      "FT8",
	}).Error
	require.NoError(t, err)
}

func TestExportAutoRanges(t *testing.T) {
	db := setupTestDB(t)
	station := &entities.Station{
		ID:             1,
		UserID:         1,
		Callsign:       "W1AW",
		GridLocator:    strPtr("FN31pr"),
		City:           strPtr("Newington"),
		DxccEntityCode: intPtr(291),
		PowerWatts:     intPtr(100),
	}
	svc := NewExportService(repositories.NewContactRepository(db), cachedStationService(station))

	seedContact(t, db, 1, "K1ABC", time.Date(2023, 1, 15, 12, 30, 0, 0, time.UTC))
	seedContact(t, db, 1, "N0XYZ", time.Date(2023, 3, 2, 8, 15, 0, 0, time.UTC))

	result, err := svc.ExportADIF(context.Background(), 1, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	assert.True(t, strings.HasPrefix(result.Filename, "W1AW_"))
	assert.True(t, strings.HasSuffix(result.Filename, ".adi"))

	records := adif.Decode(result.Content)
	require.Len(t, records, 2)

	byCall := map[string]adif.Record{}
	for _, rec := range records {
		byCall[rec["call"]] = rec
	}

	rec := byCall["K1ABC"]
	require.NotNil(t, rec)
	assert.Equal(t, "20230115", rec["qso_date"])
	assert.Equal(t, "123000", rec["time_on"])
	assert.Equal(t, "20M", rec["band"])
	assert.Equal(t, "W1AW", rec["station_callsign"])
	assert.Equal(t, "FN31pr", rec["my_gridsquare"])
	assert.Equal(t, "Newington", rec["my_city"])
	assert.Equal(t, "291", rec["my_dxcc"])
	assert.Equal(t, "100", rec["tx_pwr"])
}

func TestExportExplicitRange(t *testing.T) {
	db := setupTestDB(t)
	station := &entities.Station{ID: 1, UserID: 1, Callsign: "W1AW"}
	svc := NewExportService(repositories.NewContactRepository(db), cachedStationService(station))

	seedContact(t, db, 1, "K1ABC", time.Date(2023, 1, 15, 12, 30, 0, 0, time.UTC))
	seedContact(t, db, 1, "N0XYZ", time.Date(2023, 3, 2, 8, 15, 0, 0, time.UTC))

	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 1, 31, 23, 59, 59, 0, time.UTC)

	result, err := svc.ExportADIF(context.Background(), 1, &from, &to)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)

	records := adif.Decode(result.Content)
	require.Len(t, records, 1)
	assert.Equal(t, "K1ABC", records[0]["call"])
}

func TestExportNoContacts(t *testing.T) {
	db := setupTestDB(t)
	station := &entities.Station{ID: 1, UserID: 1, Callsign: "W1AW"}
	svc := NewExportService(repositories.NewContactRepository(db), cachedStationService(station))

	_, err := svc.ExportADIF(context.Background(), 1, nil, nil)
	assert.True(t, errors.Is(err, ErrNoContacts))
}

func TestExportRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	station := &entities.Station{ID: 1, UserID: 1, Callsign: "W1AW"}
	repo := repositories.NewContactRepository(db)
	export := NewExportService(repo, cachedStationService(station))
	importSvc := NewImportService(repo, common.NewRealClock(), nil)

	seedContact(t, db, 1, "K1ABC", time.Date(2023, 1, 15, 12, 30, 0, 0, time.UTC))

	result, err := export.ExportADIF(context.Background(), 1, nil, nil)
	require.NoError(t, err)

	// Re-importing an export into the same station skips everything.
	imported := importSvc.ImportADIF(context.Background(), result.Content, 1, 1, testLimits())
	assert.Equal(t, 0, imported.Imported)
	assert.Equal(t, 1, imported.Skipped)
	assert.Equal(t, 0, imported.Errors)
}
