package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"hamlog/stationmaster/internal/constants"
)

const defaultLotwBaseURL = "https://lotw.arrl.org"

// LotwProvider talks to ARRL's Logbook of The World over HTTP. It returns
// raw ADIF text; decoding and matching happen in the sync jobs.
type LotwProvider struct {
	client  *http.Client
	baseURL string
}

// NewLotwProvider creates a LoTW provider. The base URL can be overridden
// with LOTW_API_BASE_URL, which the tests use to point at a local server.
func NewLotwProvider() *LotwProvider {
	baseURL := os.Getenv("LOTW_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultLotwBaseURL
	}

	return &LotwProvider{
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// DownloadConfirmations fetches the ADIF confirmation report for the given
// credentials. Nil bounds leave the corresponding query parameter unset.
func (p *LotwProvider) DownloadConfirmations(ctx context.Context, username, password string, since, before *time.Time) (string, error) {
	params := url.Values{}
	params.Set("login", username)
	params.Set("password", password)
	params.Set("qso_query", "1")
	params.Set("qso_qsl", "yes")
	if since != nil {
		params.Set("qso_qsl_since", since.UTC().Format("2006-01-02"))
	}
	if before != nil {
		params.Set("qso_qsl_before", before.UTC().Format("2006-01-02"))
	}

	reportURL := fmt.Sprintf("%s/lotwuser/lotwreport.adi?%s", p.baseURL, params.Encode())

	body, err := p.doGET(ctx, reportURL)
	if err != nil {
		return "", err
	}

	// LoTW answers bad credentials with HTTP 200 and an HTML page; the
	// body is the only reliable signal.
	if strings.Contains(body, "Invalid login") {
		return "", &ProviderError{
			Code:    constants.ErrCodeAuthenticationFailed,
			Message: constants.GetErrorMessage(constants.ErrCodeAuthenticationFailed),
		}
	}

	return body, nil
}

// UploadLog posts a signed log file and returns LoTW's raw response body.
// The detached signature travels as a separate form field.
func (p *LotwProvider) UploadLog(ctx context.Context, filename string, content []byte, signature string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("upfile", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.WriteField("signature", signature); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}

	uploadURL := p.baseURL + "/lotwuser/upload"

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if err := p.handleHTTPError(resp); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	response := string(body)
	if strings.Contains(response, "rejected") {
		return response, &ProviderError{
			Code:    constants.ErrCodeUploadRejected,
			Message: constants.GetErrorMessage(constants.ErrCodeUploadRejected),
			Details: response,
		}
	}

	return response, nil
}

func (p *LotwProvider) doGET(ctx context.Context, requestURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if err := p.handleHTTPError(resp); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	return string(body), nil
}

// handleHTTPError converts HTTP errors to ProviderError
func (p *LotwProvider) handleHTTPError(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &ProviderError{
			Code:    constants.ErrCodeAuthenticationFailed,
			Message: constants.GetErrorMessage(constants.ErrCodeAuthenticationFailed),
			Details: fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
		}
	case resp.StatusCode >= 500:
		return &ProviderError{
			Code:    constants.ErrCodeServiceUnavailable,
			Message: constants.GetErrorMessage(constants.ErrCodeServiceUnavailable),
			Details: fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	default:
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Details: fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}
}

// ProviderError represents a provider-specific error
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
