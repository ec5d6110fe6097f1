package dtos

// APIResponse is the standard envelope for every JSON response.
type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	ResponseTime string `json:"response_time,omitempty"`
	Data         any    `json:"data,omitempty"`
}

// ImportResult is the outcome of one import pipeline run. It is ephemeral:
// produced fresh per invocation, aggregated (not re-derived) by the chunker.
// Imported+Skipped+Errors never exceeds the number of records decoded.
type ImportResult struct {
	Success  bool     `json:"success"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   int      `json:"errors"`
	Message  string   `json:"message,omitempty"`
	Details  []string `json:"details,omitempty"`
}

// ExportResult carries a generated ADIF file and its suggested filename.
type ExportResult struct {
	Filename string `json:"filename"`
	Content  string `json:"-"`
	Count    int    `json:"count"`
}

// DownloadSyncResult summarizes one confirmation download job.
type DownloadSyncResult struct {
	Success                bool   `json:"success"`
	JobID                  string `json:"job_id"`
	ConfirmationsFound     int    `json:"confirmations_found"`
	ConfirmationsMatched   int    `json:"confirmations_matched"`
	ConfirmationsUnmatched int    `json:"confirmations_unmatched"`
	Message                string `json:"message,omitempty"`
}

// UploadSyncResult summarizes one signed-upload job.
type UploadSyncResult struct {
	Success         bool   `json:"success"`
	JobID           string `json:"job_id"`
	UploadedCount   int    `json:"uploaded_count"`
	ServiceResponse string `json:"service_response,omitempty"`
	Message         string `json:"message,omitempty"`
}
