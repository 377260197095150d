package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/buemura/recon/pkg/types"
)

// ErrorResponse is the standard error JSON body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes data as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// scanErrorStatus maps a scan failure onto an HTTP status.
func scanErrorStatus(err error) int {
	var invalid *types.InvalidTargetError
	var dns *types.DNSResolutionError
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &dns):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
