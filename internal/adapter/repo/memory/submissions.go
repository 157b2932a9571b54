// Package memory provides an in-process submission store used when no
// database is configured.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/career-leader/internal/domain"
)

// SubmissionRepo keeps submissions in a map guarded by a RWMutex.
type SubmissionRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.Submission
}

var _ domain.SubmissionRepository = (*SubmissionRepo)(nil)

// NewSubmissionRepo returns an empty repository.
func NewSubmissionRepo() *SubmissionRepo {
	return &SubmissionRepo{byID: make(map[string]domain.Submission)}
}

// Create stores s and returns its id (generates one if empty).
func (r *SubmissionRepo) Create(_ domain.Context, s domain.Submission) (string, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[s.ID]; exists {
		return "", fmt.Errorf("op=submission.create: %w: duplicate id %s", domain.ErrInvalidArgument, s.ID)
	}
	r.byID[s.ID] = s
	return s.ID, nil
}

// Get loads a submission by id.
func (r *SubmissionRepo) Get(_ domain.Context, id string) (domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	if !ok {
		return domain.Submission{}, fmt.Errorf("op=submission.get: %w", domain.ErrNotFound)
	}
	return s, nil
}

// Count returns the number of stored submissions.
func (r *SubmissionRepo) Count(_ domain.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

// CountByPersonality returns the number of submissions with the given code.
func (r *SubmissionRepo) CountByPersonality(_ domain.Context, personality string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, s := range r.byID {
		if s.Profile.Personality == personality {
			n++
		}
	}
	return n, nil
}

// DeleteOlderThan drops submissions created before cutoff and reports how many were removed.
func (r *SubmissionRepo) DeleteOlderThan(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.byID {
		if s.CreatedAt.Before(cutoff) {
			delete(r.byID, id)
			n++
		}
	}
	return n
}

// RunRetention drops submissions older than retentionDays now and then every
// interval until ctx is done.
func (r *SubmissionRepo) RunRetention(ctx context.Context, retentionDays int, interval time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	sweep := func() {
		cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
		if n := r.DeleteOlderThan(cutoff); n > 0 {
			slog.Info("data cleanup completed", slog.Int("deleted_submissions", n), slog.Time("cutoff", cutoff))
		}
	}
	sweep()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
