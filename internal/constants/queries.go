package constants

// Station queries (sqlx)
const (
	GetStationByID = `
		SELECT id, user_id, callsign, station_name, grid_locator, city,
		       state_province, country, dxcc_entity_code, itu_zone, cq_zone,
		       power_watts, lotw_username, lotw_password, lotw_p12_cert,
		       lotw_auto_sync, created_at, updated_at
		FROM stations
		WHERE id = $1;
	`

	GetStationForUser = `
		SELECT id, user_id, callsign, station_name, grid_locator, city,
		       state_province, country, dxcc_entity_code, itu_zone, cq_zone,
		       power_watts, lotw_username, lotw_password, lotw_p12_cert,
		       lotw_auto_sync, created_at, updated_at
		FROM stations
		WHERE id = $1 AND user_id = $2;
	`

	GetAutoSyncStations = `
		SELECT id, user_id, callsign, station_name, grid_locator, city,
		       state_province, country, dxcc_entity_code, itu_zone, cq_zone,
		       power_watts, lotw_username, lotw_password, lotw_p12_cert,
		       lotw_auto_sync, created_at, updated_at
		FROM stations
		WHERE lotw_auto_sync = true;
	`
)

// System settings queries (sqlx)
const (
	GetSettingsByKeys = `
		SELECT setting_key, setting_value, data_type
		FROM system_settings
		WHERE setting_key = ANY($1);
	`

	UpsertSetting = `
		INSERT INTO system_settings (setting_key, setting_value, data_type, category)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (setting_key)
		DO UPDATE SET setting_value = EXCLUDED.setting_value, updated_at = NOW();
	`
)
