package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hamlog/stationmaster/internal/constants"
)

func newTestProvider(t *testing.T, serverURL string) *LotwProvider {
	t.Setenv("LOTW_API_BASE_URL", serverURL)
	return NewLotwProvider()
}

func TestDownloadConfirmations_Success(t *testing.T) {
	report := "ARRL Logbook of the World Status Report\n<eoh>\n" +
		"<CALL:5>K1ABC<QSO_DATE:8>20230101<TIME_ON:4>1200<BAND:3>20M<eor>\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lotwuser/lotwreport.adi" {
			t.Errorf("Expected path /lotwuser/lotwreport.adi, got %s", r.URL.Path)
		}

		q := r.URL.Query()
		if q.Get("login") != "w1aw" || q.Get("password") != "secret" {
			t.Errorf("credentials not forwarded: %v", q)
		}
		if q.Get("qso_qsl") != "yes" {
			t.Errorf("expected qso_qsl=yes, got %s", q.Get("qso_qsl"))
		}
		if q.Get("qso_qsl_since") != "2023-01-01" {
			t.Errorf("expected qso_qsl_since=2023-01-01, got %s", q.Get("qso_qsl_since"))
		}
		if q.Get("qso_qsl_before") != "" {
			t.Errorf("unexpected qso_qsl_before: %s", q.Get("qso_qsl_before"))
		}

		fmt.Fprint(w, report)
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL)

	since := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	body, err := provider.DownloadConfirmations(context.Background(), "w1aw", "secret", &since, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(body, "K1ABC") {
		t.Errorf("report body not returned: %q", body)
	}
}

func TestDownloadConfirmations_InvalidLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// LoTW answers bad credentials with HTTP 200 and an HTML page.
		fmt.Fprint(w, "<html><body>Invalid login. Username/password incorrect</body></html>")
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL)

	_, err := provider.DownloadConfirmations(context.Background(), "w1aw", "wrong", nil, nil)
	if err == nil {
		t.Fatal("Expected an authentication error")
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %T", err)
	}
	if provErr.Code != constants.ErrCodeAuthenticationFailed {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeAuthenticationFailed, provErr.Code)
	}
}

func TestDownloadConfirmations_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL)

	_, err := provider.DownloadConfirmations(context.Background(), "w1aw", "secret", nil, nil)

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}
	if provErr.Code != constants.ErrCodeServiceUnavailable {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeServiceUnavailable, provErr.Code)
	}
}

func TestUploadLog_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lotwuser/upload" {
			t.Errorf("Expected path /lotwuser/upload, got %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("bad multipart form: %v", err)
		}

		file, header, err := r.FormFile("upfile")
		if err != nil {
			t.Fatalf("missing upfile part: %v", err)
		}
		content, _ := io.ReadAll(file)
		if header.Filename != "W1AW_2023-01-15.adi" {
			t.Errorf("unexpected filename %s", header.Filename)
		}
		if !strings.Contains(string(content), "<eor>") {
			t.Error("file content not forwarded")
		}
		if r.FormValue("signature") == "" {
			t.Error("detached signature missing")
		}

		fmt.Fprint(w, "File queued for processing")
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL)

	response, err := provider.UploadLog(context.Background(), "W1AW_2023-01-15.adi",
		[]byte("<call:4>W1AW<eor>\n"), "c2lnbmF0dXJl")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if response != "File queued for processing" {
		t.Errorf("unexpected response %q", response)
	}
}

func TestUploadLog_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "File rejected: certificate mismatch")
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL)

	response, err := provider.UploadLog(context.Background(), "log.adi", []byte("x"), "sig")

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}
	if provErr.Code != constants.ErrCodeUploadRejected {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeUploadRejected, provErr.Code)
	}
	if !strings.Contains(response, "rejected") {
		t.Errorf("raw response should still be returned, got %q", response)
	}
}
