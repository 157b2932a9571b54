package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/career-leader/internal/domain"
)

func TestSubmissionRepo_CreateGet(t *testing.T) {
	ctx := context.Background()
	r := NewSubmissionRepo()
	id, err := r.Create(ctx, domain.Submission{Profile: domain.Profile{Personality: "INTJ"}})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := r.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "INTJ", got.Profile.Personality)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = r.Create(ctx, domain.Submission{ID: id})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = r.Get(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSubmissionRepo_Counts(t *testing.T) {
	ctx := context.Background()
	r := NewSubmissionRepo()
	for i, p := range []string{"INTJ", "ENFP", "INTJ"} {
		_, err := r.Create(ctx, domain.Submission{ID: fmt.Sprint(i), Profile: domain.Profile{Personality: p}})
		require.NoError(t, err)
	}
	n, _ := r.Count(ctx)
	assert.Equal(t, int64(3), n)
	n, _ = r.CountByPersonality(ctx, "INTJ")
	assert.Equal(t, int64(2), n)
}

func TestSubmissionRepo_DeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	r := NewSubmissionRepo()
	now := time.Now().UTC()
	_, _ = r.Create(ctx, domain.Submission{ID: "old", CreatedAt: now.Add(-48 * time.Hour)})
	_, _ = r.Create(ctx, domain.Submission{ID: "new", CreatedAt: now})
	assert.Equal(t, 1, r.DeleteOlderThan(now.Add(-24*time.Hour)))
	_, err := r.Get(ctx, "new")
	assert.NoError(t, err)
}

func TestSubmissionRepo_Concurrent(t *testing.T) {
	ctx := context.Background()
	r := NewSubmissionRepo()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := r.Create(ctx, domain.Submission{Profile: domain.Profile{Personality: "ISTP"}})
			assert.NoError(t, err)
			_, err = r.Get(ctx, id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	n, _ := r.CountByPersonality(ctx, "ISTP")
	assert.Equal(t, int64(50), n)
}

func TestSubmissionRepo_RunRetention(t *testing.T) {
	r := NewSubmissionRepo()
	_, _ = r.Create(context.Background(), domain.Submission{ID: "old", CreatedAt: time.Now().UTC().AddDate(0, 0, -10)})
	_, _ = r.Create(context.Background(), domain.Submission{ID: "fresh"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.RunRetention(ctx, 7, time.Hour)
		close(done)
	}()
	require.Eventually(t, func() bool {
		n, _ := r.Count(context.Background())
		return n == 1
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done
	_, err := r.Get(context.Background(), "fresh")
	assert.NoError(t, err)
}
