package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/buemura/recon/internal/web/jobs"
	"github.com/buemura/recon/pkg/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockScanner struct {
	err error
}

func (m *mockScanner) Scan(_ context.Context, target string) (*types.ScanResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if _, err := types.ParseTarget(target); err != nil {
		return nil, err
	}
	return &types.ScanResult{
		Target:    target,
		Host:      "example.com",
		IP:        "93.184.216.34",
		Scheme:    "https",
		Ports:     map[int]types.PortStatus{443: types.PortOpen, 22: types.PortClosed},
		Hints:     []string{},
		Risk:      types.RiskLow,
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func setupTestHandlers(t *testing.T, s *mockScanner) (*Handlers, *chi.Mux) {
	logger := zaptest.NewLogger(t)
	mgr := jobs.NewManager(s, logger)
	t.Cleanup(mgr.Wait)
	h := NewHandlers(mgr, s, logger)

	r := chi.NewRouter()
	r.Post("/scan", h.Scan)
	r.Post("/api/v1/scans", h.CreateScan)
	r.Get("/api/v1/scans", h.ListScans)
	r.Get("/api/v1/scans/{id}", h.GetScan)
	r.Get("/api/v1/scans/{id}/report", h.GetScanReport)
	r.Delete("/api/v1/scans/{id}", h.DeleteScan)

	return h, r
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 1, "error body carries only the error field")
	return resp["error"].(string)
}

func waitForCompletion(t *testing.T, mgr *jobs.Manager, jobID string) {
	t.Helper()
	require.Eventually(t, func() bool {
		j, err := mgr.Get(jobID)
		return err == nil && j.Done()
	}, 5*time.Second, 10*time.Millisecond)
}

func TestScan_ReturnsResult(t *testing.T) {
	_, router := setupTestHandlers(t, &mockScanner{})

	w := do(router, http.MethodPost, "/scan", `{"target": "example.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "example.com", resp["target"])
	assert.Equal(t, "low", resp["risk"])
	assert.Equal(t, []interface{}{}, resp["hints"])
	assert.Equal(t, map[string]interface{}{"22": "closed", "443": "open"}, resp["ports"])
	assert.NotContains(t, resp, "status_code")
}

func TestScan_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name    string
		scanner *mockScanner
		body    string
		want    int
	}{
		{name: "invalid json", scanner: &mockScanner{}, body: "{invalid", want: http.StatusBadRequest},
		{name: "missing target", scanner: &mockScanner{}, body: `{}`, want: http.StatusBadRequest},
		{name: "blank target", scanner: &mockScanner{}, body: `{"target": "  "}`, want: http.StatusBadRequest},
		{name: "invalid target", scanner: &mockScanner{}, body: `{"target": "ftp://example.com"}`, want: http.StatusBadRequest},
		{
			name:    "dns failure",
			scanner: &mockScanner{err: &types.DNSResolutionError{Host: "nope.example", Err: errors.New("no such host")}},
			body:    `{"target": "nope.example"}`,
			want:    http.StatusUnprocessableEntity,
		},
		{name: "unexpected", scanner: &mockScanner{err: errors.New("boom")}, body: `{"target": "example.com"}`, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, router := setupTestHandlers(t, tt.scanner)
			w := do(router, http.MethodPost, "/scan", tt.body)
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, decodeError(t, w))
		})
	}
}

func TestCreateScan_ValidBody(t *testing.T) {
	h, router := setupTestHandlers(t, &mockScanner{})

	w := do(router, http.MethodPost, "/api/v1/scans", `{"target": "https://example.com"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["id"])
	assert.Equal(t, "running", resp["status"])

	waitForCompletion(t, h.Manager, resp["id"].(string))
}

func TestCreateScan_InvalidTarget(t *testing.T) {
	h, router := setupTestHandlers(t, &mockScanner{})

	w := do(router, http.MethodPost, "/api/v1/scans", `{"target": "-bad-.example"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "invalid target")
	assert.Empty(t, h.Manager.List())
}

func TestCreateScan_InvalidJSON(t *testing.T) {
	_, router := setupTestHandlers(t, &mockScanner{})
	w := do(router, http.MethodPost, "/api/v1/scans", "{invalid")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListScans_ReturnsJobs(t *testing.T) {
	h, router := setupTestHandlers(t, &mockScanner{})
	job := h.Manager.Create("example.com")
	require.NoError(t, h.Manager.Start(job.ID))
	waitForCompletion(t, h.Manager, job.ID)

	w := do(router, http.MethodGet, "/api/v1/scans", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "example.com", list[0]["target"])
	assert.Equal(t, "completed", list[0]["status"])
	assert.Equal(t, "low", list[0]["risk"])
}

func TestGetScan_Found(t *testing.T) {
	h, router := setupTestHandlers(t, &mockScanner{})
	job := h.Manager.Create("example.com")
	require.NoError(t, h.Manager.Start(job.ID))
	waitForCompletion(t, h.Manager, job.ID)

	w := do(router, http.MethodGet, "/api/v1/scans/"+job.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, job.ID, resp["id"])
	result := resp["result"].(map[string]interface{})
	assert.Equal(t, "93.184.216.34", result["ip"])
}

func TestGetScan_NotFound(t *testing.T) {
	_, router := setupTestHandlers(t, &mockScanner{})
	w := do(router, http.MethodGet, "/api/v1/scans/nonexistent", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetScanReport_ReturnsHTML(t *testing.T) {
	h, router := setupTestHandlers(t, &mockScanner{})
	job := h.Manager.Create("example.com")
	require.NoError(t, h.Manager.Start(job.ID))
	waitForCompletion(t, h.Manager, job.ID)

	w := do(router, http.MethodGet, "/api/v1/scans/"+job.ID+"/report", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<!DOCTYPE html>")
	assert.Contains(t, w.Body.String(), "93.184.216.34")
}

func TestGetScanReport_NotCompleted(t *testing.T) {
	h, router := setupTestHandlers(t, &mockScanner{})
	job := h.Manager.Create("example.com")

	// Not started, so the job is still pending.
	w := do(router, http.MethodGet, "/api/v1/scans/"+job.ID+"/report", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetScanReport_Failed(t *testing.T) {
	h, router := setupTestHandlers(t, &mockScanner{err: &types.DNSResolutionError{Host: "nope.example"}})
	job := h.Manager.Create("nope.example")
	require.NoError(t, h.Manager.Start(job.ID))
	waitForCompletion(t, h.Manager, job.ID)

	w := do(router, http.MethodGet, "/api/v1/scans/"+job.ID+"/report", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, decodeError(t, w), "nope.example")
}

func TestDeleteScan_Success(t *testing.T) {
	h, router := setupTestHandlers(t, &mockScanner{})
	job := h.Manager.Create("example.com")

	w := do(router, http.MethodDelete, "/api/v1/scans/"+job.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	_, err := h.Manager.Get(job.ID)
	assert.Error(t, err)
}

func TestDeleteScan_NotFound(t *testing.T) {
	_, router := setupTestHandlers(t, &mockScanner{})
	w := do(router, http.MethodDelete, "/api/v1/scans/nonexistent", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
