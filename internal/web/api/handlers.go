// Package api implements the JSON endpoints of the recon HTTP server.
package api

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/buemura/recon/internal/logging"
	"github.com/buemura/recon/internal/output"
	"github.com/buemura/recon/internal/scanner"
	"github.com/buemura/recon/internal/web/jobs"
	"github.com/buemura/recon/pkg/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handlers holds dependencies for the REST API handlers.
type Handlers struct {
	Manager *jobs.Manager
	Scanner scanner.Scanner
	Logger  *zap.Logger
}

// NewHandlers creates API handlers with the given dependencies.
func NewHandlers(manager *jobs.Manager, s scanner.Scanner, logger *zap.Logger) *Handlers {
	return &Handlers{Manager: manager, Scanner: s, Logger: logging.Component(logger, "api")}
}

// Scan handles POST /scan: it runs one scan synchronously and returns the
// result.
func (h *Handlers) Scan(w http.ResponseWriter, r *http.Request) {
	req, err := decodeScanRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.Scanner.Scan(r.Context(), req.Target)
	if err != nil {
		status := scanErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.Logger.Error("scan failed", zap.String("target", req.Target), zap.Error(err))
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// CreateScan handles POST /api/v1/scans.
func (h *Handlers) CreateScan(w http.ResponseWriter, r *http.Request) {
	req, err := decodeScanRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := types.ParseTarget(req.Target); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	job := h.Manager.Create(req.Target)
	if err := h.Manager.Start(job.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start scan: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":     job.ID,
		"status": jobs.StatusRunning,
	})
}

type scanSummary struct {
	ID        string         `json:"id"`
	Target    string         `json:"target"`
	Status    jobs.JobStatus `json:"status"`
	Risk      types.Risk     `json:"risk,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// ListScans handles GET /api/v1/scans.
func (h *Handlers) ListScans(w http.ResponseWriter, r *http.Request) {
	jobList := h.Manager.List()

	summaries := make([]scanSummary, len(jobList))
	for i, j := range jobList {
		summaries[i] = scanSummary{
			ID:        j.ID,
			Target:    j.Target,
			Status:    j.Status,
			Risk:      j.Risk(),
			CreatedAt: j.CreatedAt,
		}
	}

	writeJSON(w, http.StatusOK, summaries)
}

// GetScan handles GET /api/v1/scans/{id}.
func (h *Handlers) GetScan(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// GetScanReport handles GET /api/v1/scans/{id}/report.
func (h *Handlers) GetScanReport(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookup(w, r)
	if !ok {
		return
	}

	switch job.Status {
	case jobs.StatusCompleted:
	case jobs.StatusFailed:
		writeError(w, http.StatusConflict, "scan failed: "+job.Error)
		return
	default:
		writeError(w, http.StatusConflict, "scan is not yet completed")
		return
	}

	var buf bytes.Buffer
	if err := (&output.HTMLFormatter{}).Format(&buf, job.Result); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render report: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// DeleteScan handles DELETE /api/v1/scans/{id}.
func (h *Handlers) DeleteScan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Manager.Delete(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) lookup(w http.ResponseWriter, r *http.Request) (*jobs.Job, bool) {
	job, err := h.Manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, jobs.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return nil, false
	}
	return job, true
}
