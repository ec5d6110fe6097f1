package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hamlog/stationmaster/internal/adif"
	"hamlog/stationmaster/internal/common"
	"hamlog/stationmaster/internal/constants"
	"hamlog/stationmaster/internal/db/repositories"
	"hamlog/stationmaster/internal/logging"
	"hamlog/stationmaster/internal/metrics"
	"hamlog/stationmaster/internal/models/dtos"
	"hamlog/stationmaster/internal/models/entities"
	gormModels "hamlog/stationmaster/internal/models/gorm"
)

const (
	// budgetSafetyMargin is subtracted from the timeout before each batch:
	// a batch is started only if it can plausibly finish inside the budget.
	budgetSafetyMargin = 3 * time.Second

	// batchPause throttles storage load between batches.
	batchPause = 5 * time.Millisecond

	// maxDiagnostics caps the per-run diagnostic list.
	maxDiagnostics = 10
)

// ImportService runs the budget-aware ADIF import pipeline. It is
// single-threaded and cooperative: the only cancellation point is the
// between-batch budget check, and an in-flight batch always runs to
// completion.
type ImportService struct {
	contacts *repositories.ContactRepository
	clock    common.Clock
	metrics  *metrics.MetricsRegistry
}

func NewImportService(contacts *repositories.ContactRepository, clock common.Clock, reg *metrics.MetricsRegistry) *ImportService {
	return &ImportService{contacts: contacts, clock: clock, metrics: reg}
}

// ImportADIF decodes text and persists the records it contains for the given
// owner. Limits are supplied by the caller and never read from ambient state.
// The returned counts always satisfy imported+skipped+errors <= records
// decoded; the sum falls short of the decoded count only on budget
// exhaustion, which the message states explicitly.
func (s *ImportService) ImportADIF(ctx context.Context, text string, userID, stationID uint, limits entities.ImportLimits) dtos.ImportResult {
	start := s.clock.Now()

	records := adif.Decode(text)
	total := len(records)

	if total == 0 {
		return dtos.ImportResult{
			Success: false,
			Message: "No records found in file",
		}
	}

	if total > limits.MaxRecordCount {
		s.countRun("rejected")
		return dtos.ImportResult{
			Success: false,
			Message: fmt.Sprintf("File contains %d records, exceeding the maximum of %d. %s",
				total, limits.MaxRecordCount, constants.MsgSplitFileGuidance),
		}
	}

	result := dtos.ImportResult{}
	processed := 0

	// Identity keys stored or skipped earlier in this run. The storage
	// check alone cannot see a duplicate that arrives twice in one batch,
	// because all checks run before the batch insert.
	seen := make(map[string]struct{})

	for batchStart := 0; batchStart < total; batchStart += limits.BatchSize {
		elapsed := s.clock.Now().Sub(start)
		if elapsed > limits.Timeout-budgetSafetyMargin {
			remaining := total - processed
			result.Success = false
			result.Message = fmt.Sprintf(
				"Time budget exhausted: processed %d of %d records, %d remain. Re-import the remaining records or use the logsplit tool.",
				processed, total, remaining)
			s.countRun("partial")
			s.countRecords(result)
			logging.Warn("import stopped on budget",
				"station_id", stationID, "processed", processed, "total", total)
			return result
		}

		batchEnd := batchStart + limits.BatchSize
		if batchEnd > total {
			batchEnd = total
		}

		s.runBatch(ctx, records[batchStart:batchEnd], batchStart, userID, stationID, seen, &result)
		processed = batchEnd

		if batchEnd < total {
			s.clock.Sleep(batchPause)
		}
	}

	result.Success = true
	result.Message = fmt.Sprintf("Import completed: %d imported, %d skipped, %d errors",
		result.Imported, result.Skipped, result.Errors)
	s.countRun("completed")
	s.countRecords(result)
	logging.Info("import completed",
		"station_id", stationID,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"errors", result.Errors,
	)
	return result
}

// runBatch validates, dedup-checks, and persists one batch. A storage
// failure on the batch insert counts every pending record as an error and
// returns; the caller continues with the next batch.
func (s *ImportService) runBatch(ctx context.Context, batch []adif.Record, offset int, userID, stationID uint, seen map[string]struct{}, result *dtos.ImportResult) {
	batchStart := s.clock.Now()

	var toInsert []*gormModels.Contact

	for i, rec := range batch {
		recordNum := offset + i + 1

		contact, err := buildContact(rec, userID, stationID)
		if err != nil {
			result.Errors++
			s.addDiagnostic(result, fmt.Sprintf("Record %d: %v", recordNum, err))
			continue
		}

		key := contact.Callsign + "|" + contact.Datetime.UTC().Format(time.RFC3339)
		if _, dup := seen[key]; dup {
			result.Skipped++
			continue
		}

		exists, err := s.contacts.ExistsByIdentity(ctx, userID, stationID, contact.Callsign, contact.Datetime)
		if err != nil {
			result.Errors++
			s.addDiagnostic(result, fmt.Sprintf("Record %d: storage check failed", recordNum))
			continue
		}
		seen[key] = struct{}{}
		if exists {
			result.Skipped++
			continue
		}

		toInsert = append(toInsert, contact)
	}

	for i, contact := range toInsert {
		if err := s.contacts.Insert(ctx, contact); err != nil {
			// Storage went away mid-batch: everything not yet stored in
			// this batch is an error, the next batch is still attempted.
			result.Errors += len(toInsert) - i
			s.addDiagnostic(result, fmt.Sprintf("Storage failure: %v", err))
			break
		}
		result.Imported++
	}

	if s.metrics != nil {
		s.metrics.ImportBatchDuration.Observe(s.clock.Now().Sub(batchStart).Seconds())
	}
}

func (s *ImportService) addDiagnostic(result *dtos.ImportResult, msg string) {
	if len(result.Details) < maxDiagnostics {
		result.Details = append(result.Details, msg)
	}
}

func (s *ImportService) countRun(outcome string) {
	if s.metrics != nil {
		s.metrics.ImportRunsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *ImportService) countRecords(result dtos.ImportResult) {
	if s.metrics == nil {
		return
	}
	s.metrics.ImportRecordsTotal.WithLabelValues("imported").Add(float64(result.Imported))
	s.metrics.ImportRecordsTotal.WithLabelValues("skipped").Add(float64(result.Skipped))
	s.metrics.ImportRecordsTotal.WithLabelValues("error").Add(float64(result.Errors))
}

// buildContact validates one decoded record and maps it onto the contact
// model. Callsign, date, and time are required; band falls back to the
// frequency table when absent.
func buildContact(rec adif.Record, userID, stationID uint) (*gormModels.Contact, error) {
	callsign := strings.ToUpper(strings.TrimSpace(rec["call"]))
	if callsign == "" {
		return nil, fmt.Errorf("missing callsign")
	}

	qsoDate := rec["qso_date"]
	timeOn := rec["time_on"]
	if qsoDate == "" {
		return nil, fmt.Errorf("missing qso_date")
	}
	if timeOn == "" {
		return nil, fmt.Errorf("missing time_on")
	}

	datetime, err := adif.ParseDateTime(qsoDate, timeOn)
	if err != nil {
		return nil, err
	}

	contact := &gormModels.Contact{
		UserID:      userID,
		StationID:   stationID,
		Callsign:    callsign,
		Datetime:    datetime,
		Mode:        strings.ToUpper(rec["mode"]),
		Band:        strings.ToUpper(rec["band"]),
		Name:        rec["name"],
		RstSent:     rec["rst_sent"],
		RstReceived: rec["rst_rcvd"],
		Qth:         rec["qth"],
		GridLocator: strings.ToUpper(rec["gridsquare"]),
		Notes:       rec["comment"],
		Country:     rec["country"],
		State:       rec["state"],
		County:      rec["cnty"],
		Continent:   strings.ToUpper(rec["cont"]),
		Operator:    strings.ToUpper(rec["operator"]),
	}

	if freqStr := rec["freq"]; freqStr != "" {
		if freq, err := strconv.ParseFloat(freqStr, 64); err == nil {
			contact.Frequency = &freq
			if contact.Band == "" {
				contact.Band = adif.FrequencyToBand(freq)
			}
		}
	}

	if v := rec["dxcc"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			contact.Dxcc = &n
		}
	}
	if v := rec["cqz"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			contact.CqZone = &n
		}
	}
	if v := rec["ituz"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			contact.ItuZone = &n
		}
	}
	if v := rec["distance"]; v != "" {
		if d, err := strconv.ParseFloat(v, 64); err == nil {
			contact.Distance = &d
		}
	}

	return contact, nil
}
