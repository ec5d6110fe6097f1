package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"hamlog/stationmaster/internal/common"
	"hamlog/stationmaster/internal/logging"
	"hamlog/stationmaster/internal/models/dtos"
	gormModels "hamlog/stationmaster/internal/models/gorm"

	"github.com/go-chi/chi/v5"
)

// DownloadLotwConfirmations handles POST /api/v1/lotw/download.
func (h *Handlers) DownloadLotwConfirmations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		req, from, to, ok := h.decodeSyncRequest(w, r, initTime)
		if !ok {
			return
		}

		h.warnIfActive(r, req.StationID, gormModels.SyncDirectionDownload)

		result, err := h.deps.Jobs.Download.RunForStation(r.Context(), req.StationID, from, to)
		if err != nil {
			if result != nil {
				// The job row exists and is marked failed; surface it.
				common.RespondError(w, initTime, err, result.Message, http.StatusBadGateway)
			} else {
				common.RespondError(w, initTime, err, "Download sync failed")
			}
			return
		}

		common.RespondSuccess(w, initTime, result.Message, result)
	}
}

// UploadLotwLog handles POST /api/v1/lotw/upload.
func (h *Handlers) UploadLotwLog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		req, from, to, ok := h.decodeSyncRequest(w, r, initTime)
		if !ok {
			return
		}

		h.warnIfActive(r, req.StationID, gormModels.SyncDirectionUpload)

		result, err := h.deps.Jobs.Upload.RunForStation(r.Context(), req.StationID, from, to)
		if err != nil {
			if result != nil {
				common.RespondError(w, initTime, err, result.Message, http.StatusBadGateway)
			} else {
				common.RespondError(w, initTime, err, "Upload sync failed")
			}
			return
		}

		common.RespondSuccess(w, initTime, result.Message, result)
	}
}

// ListSyncJobs handles GET /api/v1/lotw/jobs?station_id=N.
func (h *Handlers) ListSyncJobs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		stationID, err := strconv.ParseUint(r.URL.Query().Get("station_id"), 10, 32)
		if err != nil || stationID == 0 {
			common.RespondError(w, initTime, nil, "station_id is required", http.StatusBadRequest)
			return
		}

		jobs, err := h.deps.Repo.SyncJobs.ListByStation(r.Context(), uint(stationID), 50)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch jobs")
			return
		}

		common.RespondSuccess(w, initTime, "", jobs)
	}
}

// GetSyncJob handles GET /api/v1/lotw/jobs/{job_id}.
func (h *Handlers) GetSyncJob() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		jobID := chi.URLParam(r, "job_id")
		job, err := h.deps.Repo.SyncJobs.GetByID(r.Context(), jobID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch job")
			return
		}
		if job == nil {
			common.RespondError(w, initTime, nil, "Job not found", http.StatusNotFound)
			return
		}

		common.RespondSuccess(w, initTime, "", job)
	}
}

// warnIfActive logs when a job of the same direction is already running
// for the station. Overlapping jobs are allowed; this is advisory only.
func (h *Handlers) warnIfActive(r *http.Request, stationID uint, direction string) {
	active, err := h.deps.Repo.SyncJobs.HasActiveJob(r.Context(), stationID, direction)
	if err == nil && active {
		logging.Warn("overlapping sync job", "station_id", stationID, "direction", direction)
	}
}

func (h *Handlers) decodeSyncRequest(w http.ResponseWriter, r *http.Request, initTime time.Time) (dtos.SyncRequest, *time.Time, *time.Time, bool) {
	var req dtos.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, initTime, nil, "Invalid request body", http.StatusBadRequest)
		return req, nil, nil, false
	}
	if req.StationID == 0 {
		common.RespondError(w, initTime, nil, "station_id is required", http.StatusBadRequest)
		return req, nil, nil, false
	}

	from, err := parseDateBound(req.DateFrom, false)
	if err != nil {
		common.RespondError(w, initTime, err, "", http.StatusBadRequest)
		return req, nil, nil, false
	}
	to, err := parseDateBound(req.DateTo, true)
	if err != nil {
		common.RespondError(w, initTime, err, "", http.StatusBadRequest)
		return req, nil, nil, false
	}

	return req, from, to, true
}
