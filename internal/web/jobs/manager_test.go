package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/buemura/recon/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockScanner struct {
	delay time.Duration
	err   error
	panic bool
}

func (m *mockScanner) Scan(_ context.Context, target string) (*types.ScanResult, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.panic {
		panic("boom")
	}
	if m.err != nil {
		return nil, m.err
	}
	return &types.ScanResult{
		Target: target,
		Host:   target,
		Ports:  map[int]types.PortStatus{80: types.PortOpen},
		Hints:  []string{},
		Risk:   types.RiskMedium,
	}, nil
}

func newTestManager(t *testing.T, s *mockScanner) *Manager {
	m := NewManager(s, zaptest.NewLogger(t))
	t.Cleanup(m.Wait)
	return m
}

func waitDone(t *testing.T, m *Manager, id string) *Job {
	t.Helper()
	var job *Job
	require.Eventually(t, func() bool {
		j, err := m.Get(id)
		if err != nil {
			return false
		}
		job = j
		return j.Done()
	}, 5*time.Second, 10*time.Millisecond)
	return job
}

func TestCreate_ReturnsPendingJob(t *testing.T) {
	m := newTestManager(t, &mockScanner{})

	job := m.Create("example.com")

	assert.NotEmpty(t, job.ID)
	assert.Len(t, job.ID, 36)
	assert.Equal(t, StatusPending, job.Status)
	assert.Equal(t, "example.com", job.Target)
	assert.False(t, job.CreatedAt.IsZero())
	assert.Nil(t, job.StartedAt)
}

func TestStartAndComplete(t *testing.T) {
	m := newTestManager(t, &mockScanner{})

	job := m.Create("example.com")
	require.NoError(t, m.Start(job.ID))

	done := waitDone(t, m, job.ID)
	assert.Equal(t, StatusCompleted, done.Status)
	require.NotNil(t, done.Result)
	assert.Equal(t, "example.com", done.Result.Target)
	assert.Equal(t, types.RiskMedium, done.Risk())
	assert.NotNil(t, done.StartedAt)
	assert.NotNil(t, done.CompletedAt)
	assert.Empty(t, done.Error)
}

func TestStart_ScanError(t *testing.T) {
	m := newTestManager(t, &mockScanner{err: &types.DNSResolutionError{Host: "nope.example"}})

	job := m.Create("nope.example")
	require.NoError(t, m.Start(job.ID))

	done := waitDone(t, m, job.ID)
	assert.Equal(t, StatusFailed, done.Status)
	assert.Contains(t, done.Error, "nope.example")
	assert.Nil(t, done.Result)
	assert.Equal(t, types.Risk(""), done.Risk())
}

func TestStart_RecoversPanic(t *testing.T) {
	m := newTestManager(t, &mockScanner{panic: true})

	job := m.Create("example.com")
	require.NoError(t, m.Start(job.ID))

	done := waitDone(t, m, job.ID)
	assert.Equal(t, StatusFailed, done.Status)
	assert.Contains(t, done.Error, "panic: boom")
}

func TestStart_Twice(t *testing.T) {
	m := newTestManager(t, &mockScanner{delay: 50 * time.Millisecond})

	job := m.Create("example.com")
	require.NoError(t, m.Start(job.ID))
	assert.ErrorContains(t, m.Start(job.ID), "already running")
}

func TestStart_InvalidJobID(t *testing.T) {
	m := newTestManager(t, &mockScanner{})
	err := m.Start("nonexistent")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGet_ReturnsSnapshot(t *testing.T) {
	m := newTestManager(t, &mockScanner{})
	job := m.Create("example.com")

	got, err := m.Get(job.ID)
	require.NoError(t, err)
	got.Status = StatusFailed

	again, err := m.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, again.Status)
}

func TestGet_NotFound(t *testing.T) {
	m := newTestManager(t, &mockScanner{})
	_, err := m.Get("nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "not found")
}

func TestList_SortedByCreatedAtDesc(t *testing.T) {
	m := newTestManager(t, &mockScanner{})

	// Override ID generator for deterministic IDs.
	counter := 0
	origID := newID
	newID = func() string {
		counter++
		return fmt.Sprintf("job-%d", counter)
	}
	defer func() { newID = origID }()

	j1 := m.Create("a.example")
	time.Sleep(time.Millisecond)
	j2 := m.Create("b.example")

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, j2.ID, list[0].ID) // most recent first
	assert.Equal(t, j1.ID, list[1].ID)
}

func TestDelete_RemovesJob(t *testing.T) {
	m := newTestManager(t, &mockScanner{})
	job := m.Create("example.com")

	require.NoError(t, m.Delete(job.ID))

	_, err := m.Get(job.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_RunningJob(t *testing.T) {
	m := newTestManager(t, &mockScanner{delay: 50 * time.Millisecond})
	job := m.Create("example.com")
	require.NoError(t, m.Start(job.ID))

	require.NoError(t, m.Delete(job.ID))
	m.Wait()

	_, err := m.Get(job.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, m.List())
}

func TestDelete_NotFound(t *testing.T) {
	m := newTestManager(t, &mockScanner{})
	err := m.Delete("nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}
