package repositories

import (
	"context"

	"hamlog/stationmaster/internal/constants"
	"hamlog/stationmaster/internal/models/entities"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type SettingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db}
}

// GetByKeys fetches the named settings rows. Missing keys are simply absent
// from the result; callers fall back to defaults.
func (r *SettingsRepository) GetByKeys(ctx context.Context, keys []string) ([]entities.SystemSetting, error) {

	var settings []entities.SystemSetting

	err := r.db.SelectContext(ctx, &settings, constants.GetSettingsByKeys, pq.Array(keys))
	if err != nil {
		return nil, err
	}

	return settings, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, key, value, dataType, category string) error {
	_, err := r.db.ExecContext(ctx, constants.UpsertSetting, key, value, dataType, category)
	return err
}
