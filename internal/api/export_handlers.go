package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hamlog/stationmaster/internal/common"
	"hamlog/stationmaster/internal/models/dtos"
	"hamlog/stationmaster/internal/services"
)

// ExportADIF handles POST /api/v1/adif/export. On success the response is
// the raw ADIF file with a download disposition, not a JSON envelope.
func (h *Handlers) ExportADIF() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		ctx := r.Context()

		var req dtos.ExportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, nil, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.StationID == 0 {
			common.RespondError(w, initTime, nil, "station_id is required", http.StatusBadRequest)
			return
		}

		from, err := parseDateBound(req.StartDate, false)
		if err != nil {
			common.RespondError(w, initTime, err, "", http.StatusBadRequest)
			return
		}
		to, err := parseDateBound(req.EndDate, true)
		if err != nil {
			common.RespondError(w, initTime, err, "", http.StatusBadRequest)
			return
		}

		result, err := h.deps.Services.Export.ExportADIF(ctx, req.StationID, from, to)
		if errors.Is(err, services.ErrNoContacts) {
			common.RespondError(w, initTime, nil, "No contacts found for the specified criteria", http.StatusNotFound)
			return
		}
		if err != nil {
			common.RespondError(w, initTime, err, "Export failed")
			return
		}

		w.Header().Set("Content-Type", "application/x-arrl-adif")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
		w.Header().Set("X-Record-Count", fmt.Sprintf("%d", result.Count))
		_, _ = w.Write([]byte(result.Content))
	}
}
