package services

import (
	"context"
	"strconv"
	"time"

	"hamlog/stationmaster/internal/db/repositories"
	"hamlog/stationmaster/internal/logging"
	"hamlog/stationmaster/internal/models/entities"
)

// Setting keys for the import budget.
const (
	SettingMaxFileSizeMB  = "adif_max_file_size_mb"
	SettingMaxRecordCount = "adif_max_record_count"
	SettingBatchSize      = "adif_batch_size"
	SettingTimeoutSeconds = "adif_timeout_seconds"
)

var importLimitKeys = []string{
	SettingMaxFileSizeMB,
	SettingMaxRecordCount,
	SettingBatchSize,
	SettingTimeoutSeconds,
}

// SettingsService reads operational limits from the system_settings table.
// Values are fetched fresh on every call so limit changes apply to the next
// request without a restart; callers pass the result into the pipeline
// explicitly.
type SettingsService struct {
	repo *repositories.SettingsRepository
}

func NewSettingsService(repo *repositories.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// ImportLimits returns the current import budget. Missing or malformed rows
// fall back to the defaults rather than failing the import.
func (s *SettingsService) ImportLimits(ctx context.Context) entities.ImportLimits {
	limits := entities.DefaultImportLimits()

	rows, err := s.repo.GetByKeys(ctx, importLimitKeys)
	if err != nil {
		logging.Warn("settings fetch failed, using defaults", "error", err)
		return limits
	}

	for _, row := range rows {
		n, err := strconv.Atoi(row.Value)
		if err != nil || n <= 0 {
			logging.Warn("ignoring malformed setting", "key", row.Key, "value", row.Value)
			continue
		}
		switch row.Key {
		case SettingMaxFileSizeMB:
			limits.MaxFileSizeMB = n
		case SettingMaxRecordCount:
			limits.MaxRecordCount = n
		case SettingBatchSize:
			limits.BatchSize = n
		case SettingTimeoutSeconds:
			limits.Timeout = time.Duration(n) * time.Second
		}
	}

	return limits
}
