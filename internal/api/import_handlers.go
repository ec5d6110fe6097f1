package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"hamlog/stationmaster/internal/common"
	"hamlog/stationmaster/internal/logging"
	"hamlog/stationmaster/internal/middleware"
)

// multipartOverhead pads the body cap to leave room for form boundaries.
const multipartOverhead = 64 * 1024

// ImportADIF handles POST /api/v1/adif/import. The body is a multipart
// form with the ADIF file under "file" and the target "station_id".
// Limits come from the settings store, fetched fresh per request.
func (h *Handlers) ImportADIF() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		ctx := r.Context()

		limits := h.deps.Services.Settings.ImportLimits(ctx)
		r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFileSizeBytes()+multipartOverhead)

		if err := r.ParseMultipartForm(limits.MaxFileSizeBytes() + multipartOverhead); err != nil {
			common.RespondError(w, initTime, nil,
				fmt.Sprintf("File exceeds the %d MB limit or the form is malformed", limits.MaxFileSizeMB),
				http.StatusRequestEntityTooLarge)
			return
		}

		stationID, err := strconv.ParseUint(r.FormValue("station_id"), 10, 32)
		if err != nil || stationID == 0 {
			common.RespondError(w, initTime, nil, "station_id is required", http.StatusBadRequest)
			return
		}

		file, fileHeader, err := r.FormFile("file")
		if err != nil {
			common.RespondError(w, initTime, nil, "file is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		if fileHeader.Size > limits.MaxFileSizeBytes() {
			common.RespondError(w, initTime, nil,
				fmt.Sprintf("File is %d bytes, exceeding the %d MB limit", fileHeader.Size, limits.MaxFileSizeMB),
				http.StatusRequestEntityTooLarge)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to read file")
			return
		}

		station, err := h.deps.Services.Stations.GetByID(ctx, uint(stationID))
		if err != nil {
			common.RespondError(w, initTime, nil, "Station not found", http.StatusNotFound)
			return
		}

		log := logging.WithStation(middleware.RequestID(ctx), station.ID, "adif/import")
		log.Infow("import request", "file_size", fileHeader.Size)

		result := h.deps.Services.Import.ImportADIF(ctx, string(content), station.UserID, station.ID, limits)

		// Partial and rejected outcomes still return 200: they are
		// pipeline results, not transport failures, and the chunker
		// aggregates them from the envelope.
		common.RespondSuccess(w, initTime, result.Message, result)
	}
}
