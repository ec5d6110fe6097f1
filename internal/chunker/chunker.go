package chunker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hamlog/stationmaster/internal/adif"
	"hamlog/stationmaster/internal/models/dtos"
)

const (
	// DefaultChunkSize is records per sub-file, coarser than the server's
	// internal batch size so each call stays well inside the budget.
	DefaultChunkSize = 200

	// DefaultPause separates consecutive sub-file calls.
	DefaultPause = 2 * time.Second

	// DefaultTimeoutCooldown is the extra wait after a timeout-classified
	// failure, giving the server room to recover.
	DefaultTimeoutCooldown = 3 * time.Second
)

// Progress is the running snapshot after each sub-file.
type Progress struct {
	Processed int
	Total     int
	Imported  int
	Skipped   int
	Errors    int
	Rate      float64 // records per second
	ETA       time.Duration
}

// Summary is the terminal result: the exact sum of every sub-file's
// individually reported counts, including sub-files that errored entirely.
type Summary struct {
	Chunks   int
	Total    int
	Imported int
	Skipped  int
	Errors   int
	Elapsed  time.Duration
}

func (s Summary) String() string {
	return fmt.Sprintf("%d records in %d chunks: %d imported, %d skipped, %d errors (%s)",
		s.Total, s.Chunks, s.Imported, s.Skipped, s.Errors, s.Elapsed.Truncate(time.Millisecond))
}

// Chunker splits an oversized ADIF file into self-contained sub-files and
// drives the import endpoint once per sub-file, strictly sequentially.
type Chunker struct {
	Client          *http.Client
	ImportURL       string
	StationID       uint
	ChunkSize       int
	Pause           time.Duration
	TimeoutCooldown time.Duration

	// OnProgress, when set, receives a snapshot after every sub-file.
	OnProgress func(Progress)
}

// New returns a Chunker with the default pacing.
func New(importURL string, stationID uint) *Chunker {
	return &Chunker{
		Client:          &http.Client{Timeout: 30 * time.Second},
		ImportURL:       importURL,
		StationID:       stationID,
		ChunkSize:       DefaultChunkSize,
		Pause:           DefaultPause,
		TimeoutCooldown: DefaultTimeoutCooldown,
	}
}

// Run splits fileText and imports it chunk by chunk. The file is decoded
// once locally, purely to find record boundaries and the header text; each
// sub-file carries a copy of the original header.
func (c *Chunker) Run(ctx context.Context, fileText string) (*Summary, error) {
	header := adif.HeaderText(fileText)
	records := adif.Decode(fileText)
	if len(records) == 0 {
		return nil, errors.New("no records found in file")
	}

	chunkSize := c.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	start := time.Now()
	summary := &Summary{Total: len(records)}

	for offset := 0; offset < len(records); offset += chunkSize {
		end := offset + chunkSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[offset:end]

		result, err := c.postChunk(ctx, header, chunk)
		if err != nil {
			// The whole sub-file counts as errors; the next one is
			// still attempted.
			summary.Errors += len(chunk)
			if isTimeout(err) && c.TimeoutCooldown > 0 {
				time.Sleep(c.TimeoutCooldown)
			}
		} else {
			summary.Imported += result.Imported
			summary.Skipped += result.Skipped
			summary.Errors += result.Errors
		}

		summary.Chunks++
		c.report(end, len(records), summary, time.Since(start))

		if end < len(records) && c.Pause > 0 {
			time.Sleep(c.Pause)
		}
	}

	summary.Elapsed = time.Since(start)
	return summary, nil
}

func (c *Chunker) report(processed, total int, s *Summary, elapsed time.Duration) {
	if c.OnProgress == nil {
		return
	}

	p := Progress{
		Processed: processed,
		Total:     total,
		Imported:  s.Imported,
		Skipped:   s.Skipped,
		Errors:    s.Errors,
	}
	if elapsed > 0 {
		p.Rate = float64(processed) / elapsed.Seconds()
	}
	if p.Rate > 0 {
		p.ETA = time.Duration(float64(total-processed)/p.Rate) * time.Second
	}

	c.OnProgress(p)
}

// postChunk re-encodes one sub-file and POSTs it to the import endpoint.
func (c *Chunker) postChunk(ctx context.Context, header string, records []adif.Record) (*dtos.ImportResult, error) {
	var content strings.Builder
	content.WriteString(header)
	for _, rec := range records {
		content.WriteString(adif.EncodeRecord(rec))
		content.WriteString("\n")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "chunk.adi")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(content.String())); err != nil {
		return nil, err
	}
	if err := writer.WriteField("station_id", strconv.FormatUint(uint64(c.StationID), 10)); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.ImportURL, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope struct {
		Status  string           `json:"status"`
		Message string           `json:"message"`
		Data    dtos.ImportResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("import call failed: HTTP %d: %s", resp.StatusCode, envelope.Message)
	}

	return &envelope.Data, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
