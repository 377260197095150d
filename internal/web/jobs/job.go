package jobs

import (
	"time"

	"github.com/buemura/recon/pkg/types"
)

// JobStatus represents the current state of a scan job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job represents an async scan job.
type Job struct {
	ID          string            `json:"id"`
	Target      string            `json:"target"`
	Status      JobStatus         `json:"status"`
	Result      *types.ScanResult `json:"result,omitempty"`
	Error       string            `json:"error,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}

// Done reports whether the job reached a terminal state.
func (j *Job) Done() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// Risk returns the result's risk tier, or "" while no result exists.
func (j *Job) Risk() types.Risk {
	if j.Result == nil {
		return ""
	}
	return j.Result.Risk
}
