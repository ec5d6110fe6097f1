package gorm

import "time"

// Contact represents one logged two-way radio contact owned by a station.
type Contact struct {
	ID        uint `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uint `gorm:"column:user_id;not null;index:idx_contacts_identity,priority:1"`
	StationID uint `gorm:"column:station_id;not null;index:idx_contacts_identity,priority:2"`

	// Identity fields. (user_id, station_id, callsign, datetime) is the
	// dedup key; uniqueness must hold after any import.
	Callsign string    `gorm:"column:callsign;type:varchar(20);not null;index:idx_contacts_identity,priority:3"`
	Datetime time.Time `gorm:"column:datetime;not null;index:idx_contacts_identity,priority:4"`

	Frequency *float64 `gorm:"column:frequency;type:numeric(10,6)"`
	Band      string   `gorm:"column:band;type:varchar(10)"`
	Mode      string   `gorm:"column:mode;type:varchar(20)"`

	Name        string   `gorm:"column:name;type:varchar(100)"`
	RstSent     string   `gorm:"column:rst_sent;type:varchar(10)"`
	RstReceived string   `gorm:"column:rst_received;type:varchar(10)"`
	Qth         string   `gorm:"column:qth;type:varchar(100)"`
	GridLocator string   `gorm:"column:grid_locator;type:varchar(10)"`
	Notes       string   `gorm:"column:notes;type:text"`
	Country     string   `gorm:"column:country;type:varchar(100)"`
	State       string   `gorm:"column:state;type:varchar(50)"`
	County      string   `gorm:"column:cnty;type:varchar(100)"`
	Dxcc        *int     `gorm:"column:dxcc"`
	CqZone      *int     `gorm:"column:cqz"`
	ItuZone     *int     `gorm:"column:ituz"`
	Continent   string   `gorm:"column:cont;type:varchar(2)"`
	Operator    string   `gorm:"column:operator;type:varchar(20)"`
	Distance    *float64 `gorm:"column:distance;type:numeric(10,1)"`

	// Confirmation fields, mutated only by matcher results.
	QslSent         string     `gorm:"column:qsl_sent;type:varchar(1)"`
	QslReceived     string     `gorm:"column:qsl_rcvd;type:varchar(1)"`
	LotwQslSent     string     `gorm:"column:lotw_qsl_sent;type:varchar(1)"`
	LotwQslReceived string     `gorm:"column:lotw_qsl_rcvd;type:varchar(1)"`
	LotwQslDate     *time.Time `gorm:"column:lotw_qsl_date"`
	LotwMatchStatus string     `gorm:"column:lotw_match_status;type:varchar(10)"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Contact) TableName() string {
	return "contacts"
}
