package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/career-leader/internal/domain"
)

// SubmissionRepo persists scored assessments in PostgreSQL.
type SubmissionRepo struct{ Pool PgxPool }

var _ domain.SubmissionRepository = (*SubmissionRepo)(nil)

// NewSubmissionRepo constructs a SubmissionRepo with the given pool.
func NewSubmissionRepo(p PgxPool) *SubmissionRepo { return &SubmissionRepo{Pool: p} }

// Create stores a submission and returns its id (generates one if empty).
func (r *SubmissionRepo) Create(ctx domain.Context, s domain.Submission) (string, error) {
	tracer := otel.Tracer("repo.submissions")
	ctx, span := tracer.Start(ctx, "submissions.Create")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "submissions"),
	)
	id := s.ID
	if id == "" {
		id = uuid.New().String()
	}
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	profile, err := json.Marshal(s.Profile)
	if err != nil {
		return "", fmt.Errorf("op=submission.create: %w", err)
	}
	answers, err := json.Marshal(nonNil(s.Answers))
	if err != nil {
		return "", fmt.Errorf("op=submission.create: %w", err)
	}
	recs, err := json.Marshal(nonNil(s.Recommendations))
	if err != nil {
		return "", fmt.Errorf("op=submission.create: %w", err)
	}
	q := `INSERT INTO submissions (id, personality, profile, answers, recommendations, catalog_version, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7)`
	if _, err := r.Pool.Exec(ctx, q, id, s.Profile.Personality, profile, answers, recs, s.CatalogVersion, createdAt); err != nil {
		return "", fmt.Errorf("op=submission.create: %w", err)
	}
	return id, nil
}

// Get loads a submission by id.
func (r *SubmissionRepo) Get(ctx domain.Context, id string) (domain.Submission, error) {
	tracer := otel.Tracer("repo.submissions")
	ctx, span := tracer.Start(ctx, "submissions.Get")
	defer span.End()
	q := `SELECT id, profile, answers, recommendations, catalog_version, created_at FROM submissions WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var (
		s                        domain.Submission
		profile, answers, recsJS []byte
	)
	if err := row.Scan(&s.ID, &profile, &answers, &recsJS, &s.CatalogVersion, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Submission{}, fmt.Errorf("op=submission.get: %w", domain.ErrNotFound)
		}
		return domain.Submission{}, fmt.Errorf("op=submission.get: %w", err)
	}
	if err := json.Unmarshal(profile, &s.Profile); err != nil {
		return domain.Submission{}, fmt.Errorf("op=submission.get: profile: %w", err)
	}
	if err := json.Unmarshal(answers, &s.Answers); err != nil {
		return domain.Submission{}, fmt.Errorf("op=submission.get: answers: %w", err)
	}
	if err := json.Unmarshal(recsJS, &s.Recommendations); err != nil {
		return domain.Submission{}, fmt.Errorf("op=submission.get: recommendations: %w", err)
	}
	return s, nil
}

// Count returns the number of stored submissions.
func (r *SubmissionRepo) Count(ctx domain.Context) (int64, error) {
	tracer := otel.Tracer("repo.submissions")
	ctx, span := tracer.Start(ctx, "submissions.Count")
	defer span.End()
	var n int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("op=submission.count: %w", err)
	}
	return n, nil
}

// CountByPersonality returns the number of submissions with the given code.
func (r *SubmissionRepo) CountByPersonality(ctx domain.Context, personality string) (int64, error) {
	tracer := otel.Tracer("repo.submissions")
	ctx, span := tracer.Start(ctx, "submissions.CountByPersonality")
	defer span.End()
	span.SetAttributes(attribute.String("personality", personality))
	var n int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM submissions WHERE personality=$1`, personality).Scan(&n); err != nil {
		return 0, fmt.Errorf("op=submission.count_by_personality: %w", err)
	}
	return n, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
