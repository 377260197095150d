// Package jobs runs scans in the background and keeps their outcome in memory.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/buemura/recon/internal/logging"
	"github.com/buemura/recon/internal/scanner"
	"github.com/buemura/recon/pkg/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned for unknown job IDs.
var ErrNotFound = errors.New("job not found")

// newID generates job IDs. Extracted as a variable for testing.
var newID = uuid.NewString

// Manager manages scan job lifecycle: create, execute, track, store results.
type Manager struct {
	mu      sync.RWMutex
	jobs    map[string]*Job
	scanner scanner.Scanner
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewManager creates a new job manager backed by the given scanner.
func NewManager(s scanner.Scanner, logger *zap.Logger) *Manager {
	return &Manager{
		jobs:    make(map[string]*Job),
		scanner: s,
		logger:  logging.Component(logger, "jobs"),
	}
}

// Create creates a new pending scan job.
func (m *Manager) Create(target string) *Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &Job{
		ID:        newID(),
		Target:    target,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	m.jobs[job.ID] = job
	cp := *job
	return &cp
}

// Start launches the scan job in a background goroutine.
func (m *Manager) Start(jobID string) error {
	m.mu.Lock()
	job, ok := m.jobs[jobID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("job %q: %w", jobID, ErrNotFound)
	}
	if job.Status != StatusPending {
		m.mu.Unlock()
		return fmt.Errorf("job %q already %s", jobID, job.Status)
	}
	now := time.Now().UTC()
	job.Status = StatusRunning
	job.StartedAt = &now
	m.mu.Unlock()

	m.wg.Add(1)
	go m.execute(job)
	return nil
}

func (m *Manager) execute(job *Job) {
	defer m.wg.Done()
	log := m.logger.With(zap.String("job", job.ID), zap.String("target", job.Target))

	defer func() {
		if r := recover(); r != nil {
			log.Error("scan panicked", zap.Any("panic", r))
			m.finish(job, nil, fmt.Errorf("panic: %v", r))
		}
	}()

	log.Info("scan job started")
	result, err := m.scanner.Scan(context.Background(), job.Target)
	if err != nil {
		log.Info("scan job failed", zap.Error(err))
	} else {
		log.Info("scan job completed", zap.String("risk", string(result.Risk)))
	}
	m.finish(job, result, err)
}

func (m *Manager) finish(job *Job, result *types.ScanResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	job.CompletedAt = &now
	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
		return
	}
	job.Status = StatusCompleted
	job.Result = result
}

// Get returns a snapshot of a job by ID.
func (m *Manager) Get(jobID string) (*Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("job %q: %w", jobID, ErrNotFound)
	}
	cp := *job
	return &cp, nil
}

// List returns snapshots of all jobs sorted by CreatedAt descending.
func (m *Manager) List() []*Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		cp := *j
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, k int) bool {
		return result[i].CreatedAt.After(result[k].CreatedAt)
	})
	return result
}

// Delete removes a job from the manager. A running scan keeps going but its
// outcome is discarded.
func (m *Manager) Delete(jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[jobID]; !ok {
		return fmt.Errorf("job %q: %w", jobID, ErrNotFound)
	}
	delete(m.jobs, jobID)
	return nil
}

// Wait blocks until every started job has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}
