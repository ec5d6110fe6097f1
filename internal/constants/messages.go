package constants

// User-facing guidance attached to import outcomes. Partial and rejected
// outcomes must always tell the caller what to do next.
const (
	MsgSplitFileGuidance = "Split the file into smaller pieces and import each piece separately, or use the logsplit tool."

	MsgNoContactsForUpload   = "No contacts found for upload"
	MsgNoConfirmationsFound  = "No confirmations found in LoTW response"
	MsgNoContactsForCriteria = "No contacts found for the specified criteria"
)

// APIStatus values used in response envelopes.
type APIStatus string

const (
	APIStatusOk    APIStatus = "success"
	APIStatusError APIStatus = "error"
)

// Cache key prefixes.
type CachePrefix string

const (
	CachePrefixStation     CachePrefix = "station:"
	CachePrefixExportRange CachePrefix = "export_range:"
)
