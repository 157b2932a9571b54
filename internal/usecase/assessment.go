// Package usecase contains application business logic services.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/career-leader/internal/adapter/observability"
	"github.com/fairyhunter13/career-leader/internal/assessment"
	"github.com/fairyhunter13/career-leader/internal/domain"
	obsctx "github.com/fairyhunter13/career-leader/internal/observability"
	"github.com/fairyhunter13/career-leader/internal/recommendation"
)

// publishTimeout bounds the best-effort event publish of one submission.
const publishTimeout = 5 * time.Second

// AssessmentService scores submitted answers, recommends careers for the
// resulting profile, stores the submission and announces it.
type AssessmentService struct {
	Catalog    domain.CatalogSource
	Repo       domain.SubmissionRepository
	Events     domain.EventPublisher
	Classifier *assessment.Classifier
	RecLimit   int

	now func() time.Time
}

// NewAssessmentService constructs an AssessmentService. repo and events may be nil.
func NewAssessmentService(c domain.CatalogSource, r domain.SubmissionRepository, e domain.EventPublisher, cls *assessment.Classifier, recLimit int) AssessmentService {
	if cls == nil {
		cls = assessment.New()
	}
	if recLimit <= 0 {
		recLimit = recommendation.DefaultLimit
	}
	return AssessmentService{Catalog: c, Repo: r, Events: e, Classifier: cls, RecLimit: recLimit, now: time.Now}
}

// Questions returns the current question catalog.
func (s AssessmentService) Questions(_ domain.Context) []domain.Question {
	if snap := s.Catalog.Current(); snap != nil {
		return snap.Questions
	}
	return []domain.Question{}
}

// Submit classifies answers against the current snapshot and returns the stored submission.
func (s AssessmentService) Submit(ctx domain.Context, answers []domain.Answer) (domain.Submission, error) {
	snap := s.Catalog.Current()
	if snap == nil || len(snap.Questions) == 0 {
		return domain.Submission{}, fmt.Errorf("op=assessment.Submit: %w: no questions loaded", domain.ErrCatalogIncomplete)
	}
	lg := obsctx.LoggerFromContext(ctx)

	profile := s.Classifier.Score(answers, snap.Questions)
	if len(profile.MissingDimensions) > 0 {
		lg.Warn("personality code has unresolved dimensions",
			slog.String("personality", profile.Personality),
			slog.Any("missing", profile.MissingDimensions))
	}
	recs := recommendation.Recommend(snap.Careers, profile.Personality,
		recommendation.WithInterests(profile.Interests...),
		recommendation.WithLimit(s.RecLimit))

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	sub := domain.Submission{
		ID:              uuid.New().String(),
		Answers:         answers,
		Profile:         profile,
		Recommendations: recs,
		CatalogVersion:  snap.Version,
		CreatedAt:       now().UTC(),
	}
	if s.Repo != nil {
		id, err := s.Repo.Create(ctx, sub)
		if err != nil {
			return domain.Submission{}, fmt.Errorf("op=assessment.Submit: %w", err)
		}
		sub.ID = id
	}

	observability.ObserveAssessment(profile.Personality)
	observability.ObserveRecommendations(recs, recommendation.UsedFallback(recs))
	lg.Info("assessment scored",
		slog.String("submission_id", sub.ID),
		slog.String("personality", profile.Personality),
		slog.Int("answers", len(answers)),
		slog.Int("recommendations", len(recs)))

	s.publish(ctx, sub)
	return sub, nil
}

// publish announces the submission. Failures are logged, never returned.
func (s AssessmentService) publish(ctx domain.Context, sub domain.Submission) {
	if s.Events == nil {
		return
	}
	ids := make([]string, 0, len(sub.Recommendations))
	for _, r := range sub.Recommendations {
		ids = append(ids, r.ID)
	}
	ev := domain.AssessmentCompleted{
		SubmissionID: sub.ID,
		Personality:  sub.Profile.Personality,
		Interests:    sub.Profile.Interests,
		CareerIDs:    ids,
		OccurredAt:   sub.CreatedAt,
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.Events.PublishAssessmentCompleted(pctx, ev); err != nil {
		obsctx.LoggerFromContext(ctx).Warn("assessment event not published",
			slog.String("submission_id", sub.ID),
			slog.Any("error", err))
	}
}

// Stats returns the number of stored submissions and a per-personality
// breakdown over every code the current catalog can produce.
func (s AssessmentService) Stats(ctx domain.Context) (int64, map[string]int64, error) {
	by := map[string]int64{}
	if s.Repo == nil {
		return 0, by, nil
	}
	total, err := s.Repo.Count(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("op=assessment.Stats: %w", err)
	}
	if total == 0 {
		return 0, by, nil
	}
	for _, c := range assessment.Codes(s.Questions(ctx)) {
		n, err := s.Repo.CountByPersonality(ctx, c)
		if err != nil {
			return 0, nil, fmt.Errorf("op=assessment.Stats: %w", err)
		}
		if n > 0 {
			by[c] = n
		}
	}
	return total, by, nil
}
