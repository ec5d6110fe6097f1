package dtos

// ExportRequest is the body of POST /api/v1/adif/export.
type ExportRequest struct {
	StationID uint   `json:"station_id"`
	StartDate string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

// SyncRequest is the body of the LoTW upload/download endpoints.
type SyncRequest struct {
	StationID uint   `json:"station_id"`
	DateFrom  string `json:"date_from,omitempty"` // YYYY-MM-DD
	DateTo    string `json:"date_to,omitempty"`   // YYYY-MM-DD
}
