package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// ScanRequest is the JSON body for POST /scan and POST /api/v1/scans.
type ScanRequest struct {
	Target string `json:"target"`
}

// decodeScanRequest reads and validates the request body.
func decodeScanRequest(r *http.Request) (*ScanRequest, error) {
	var req ScanRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	req.Target = strings.TrimSpace(req.Target)
	if req.Target == "" {
		return nil, fmt.Errorf("target is required")
	}
	return &req, nil
}
