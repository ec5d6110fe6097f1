package entities

import "time"

// SystemSetting is one row of the hot-reloadable settings store.
type SystemSetting struct {
	Key      string `db:"setting_key"`
	Value    string `db:"setting_value"`
	DataType string `db:"data_type"`
}

// ImportLimits is the budget the import pipeline runs under. It is fetched
// fresh per invocation and passed in explicitly; the pipeline never reads
// ambient configuration.
type ImportLimits struct {
	MaxFileSizeMB  int
	MaxRecordCount int
	BatchSize      int
	Timeout        time.Duration
}

// DefaultImportLimits are the fallbacks used when the settings store is
// missing a key or unreachable.
func DefaultImportLimits() ImportLimits {
	return ImportLimits{
		MaxFileSizeMB:  10,
		MaxRecordCount: 5000,
		BatchSize:      50,
		Timeout:        25 * time.Second,
	}
}

// MaxFileSizeBytes returns the file-size cap in bytes.
func (l ImportLimits) MaxFileSizeBytes() int64 {
	return int64(l.MaxFileSizeMB) * 1024 * 1024
}
