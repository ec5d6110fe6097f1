package constants

// LoTW provider error codes.
const (
	ErrCodeNetworkError         = "NETWORK_ERROR"
	ErrCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	ErrCodeRateLimited          = "RATE_LIMITED"
	ErrCodeServiceUnavailable   = "SERVICE_UNAVAILABLE"
	ErrCodeUploadRejected       = "UPLOAD_REJECTED"
)

// ProviderErrorMessages maps error codes to human-readable messages.
var ProviderErrorMessages = map[string]string{
	ErrCodeNetworkError:         "Unable to connect to LoTW. Please check the service status and try again",
	ErrCodeAuthenticationFailed: "LoTW rejected the stored credentials. Update the station's LoTW username and password",
	ErrCodeRateLimited:          "Rate limit exceeded. Please try again later",
	ErrCodeServiceUnavailable:   "LoTW returned a server error. Please try again later",
	ErrCodeUploadRejected:       "LoTW rejected the uploaded log file",
}

// GetErrorMessage returns the message for an error code.
func GetErrorMessage(code string) string {
	if msg, ok := ProviderErrorMessages[code]; ok {
		return msg
	}
	return "An unexpected error occurred"
}
