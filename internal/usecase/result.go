package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fairyhunter13/career-leader/internal/domain"
	obsctx "github.com/fairyhunter13/career-leader/internal/observability"
)

// AssessmentView is the response envelope of a scored assessment.
type AssessmentView struct {
	Success         bool                    `json:"success"`
	ID              string                  `json:"id"`
	Result          domain.Profile          `json:"result"`
	Recommendations []domain.Recommendation `json:"recommendations"`
	CatalogVersion  string                  `json:"catalogVersion,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
}

// NewAssessmentView builds the envelope for a submission.
func NewAssessmentView(s domain.Submission) AssessmentView {
	recs := s.Recommendations
	if recs == nil {
		recs = []domain.Recommendation{}
	}
	p := s.Profile
	if p.Interests == nil {
		p.Interests = []string{}
	}
	return AssessmentView{
		Success:         true,
		ID:              s.ID,
		Result:          p,
		Recommendations: recs,
		CatalogVersion:  s.CatalogVersion,
		CreatedAt:       s.CreatedAt,
	}
}

// ResultService provides read access to stored submissions and assembles
// the API response envelope including ETag logic.
type ResultService struct {
	Repo domain.SubmissionRepository
}

// NewResultService constructs a ResultService with the given repository.
func NewResultService(r domain.SubmissionRepository) ResultService {
	return ResultService{Repo: r}
}

// Fetch returns the HTTP status code, response body, and ETag for the given
// submission id. A matching If-None-Match yields 304 with an empty body.
func (s ResultService) Fetch(ctx domain.Context, id, ifNoneMatch string) (int, *AssessmentView, string, error) {
	lg := obsctx.LoggerFromContext(ctx)
	if s.Repo == nil {
		return http.StatusNotFound, nil, "", fmt.Errorf("%w: submissions are not stored", domain.ErrNotFound)
	}
	sub, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return http.StatusNotFound, nil, "", fmt.Errorf("%w: submission not found", domain.ErrNotFound)
		}
		lg.Error("failed to load submission", slog.String("submission_id", id), slog.Any("error", err))
		return http.StatusInternalServerError, nil, "", err
	}
	view := NewAssessmentView(sub)
	etag := makeETag(view)
	if etag == ifNoneMatch {
		return http.StatusNotModified, nil, etag, nil
	}
	return http.StatusOK, &view, etag, nil
}

func makeETag(v any) string {
	b, _ := json.Marshal(v)
	s := sha256.Sum256(b)
	return `"` + hex.EncodeToString(s[:16]) + `"`
}
