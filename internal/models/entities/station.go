package entities

import "time"

// Station is an owned operating identity (callsign + location) under which
// contacts are logged. Credential material is opaque to the core: the p12
// certificate is bytes to sign with, the LoTW password bytes to
// authenticate with.
type Station struct {
	ID             uint      `db:"id"`
	UserID         uint      `db:"user_id"`
	Callsign       string    `db:"callsign"`
	StationName    string    `db:"station_name"`
	GridLocator    *string   `db:"grid_locator"`
	City           *string   `db:"city"`
	StateProvince  *string   `db:"state_province"`
	Country        *string   `db:"country"`
	DxccEntityCode *int      `db:"dxcc_entity_code"`
	ItuZone        *int      `db:"itu_zone"`
	CqZone         *int      `db:"cq_zone"`
	PowerWatts     *int      `db:"power_watts"`
	LotwUsername   *string   `db:"lotw_username"`
	LotwPassword   *string   `db:"lotw_password"`
	LotwP12Cert    []byte    `db:"lotw_p12_cert"`
	LotwAutoSync   bool      `db:"lotw_auto_sync"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// HasLotwCredentials reports whether the station can authenticate to LoTW.
func (s *Station) HasLotwCredentials() bool {
	return s.LotwUsername != nil && *s.LotwUsername != "" &&
		s.LotwPassword != nil && *s.LotwPassword != ""
}
