package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/career-leader/api"
	"github.com/fairyhunter13/career-leader/internal/config"
	"github.com/fairyhunter13/career-leader/internal/domain"
	"github.com/fairyhunter13/career-leader/internal/usecase"
	"github.com/fairyhunter13/career-leader/pkg/textx"
)

// Server aggregates handlers dependencies.
type Server struct {
	Cfg          config.Config
	Assessments  usecase.AssessmentService
	Recommender  usecase.RecommendService
	Results      usecase.ResultService
	Catalog      usecase.CatalogService
	DBCheck      func(ctx context.Context) error
	RedisCheck   func(ctx context.Context) error
	CatalogCheck func(ctx context.Context) error
	// Limiter, when set, replaces the per-process limit on submissions.
	Limiter Limiter
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, assessments usecase.AssessmentService, rec usecase.RecommendService, results usecase.ResultService, cat usecase.CatalogService, dbCheck, redisCheck, catalogCheck func(context.Context) error) *Server {
	return &Server{
		Cfg:          cfg,
		Assessments:  assessments,
		Recommender:  rec,
		Results:      results,
		Catalog:      cat,
		DBCheck:      dbCheck,
		RedisCheck:   redisCheck,
		CatalogCheck: catalogCheck,
	}
}

func (s *Server) maxBody() int64 {
	if s.Cfg.MaxBodyKB <= 0 {
		return 256 << 10
	}
	return s.Cfg.MaxBodyKB << 10
}

// readBody reads a size-capped request body. ok is false when a 413 was written.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) (b []byte, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody())
	b, err := io.ReadAll(r.Body)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeStatusError(w, http.StatusRequestEntityTooLarge, "payload too large", map[string]any{"max_kb": s.maxBody() >> 10})
			return nil, false
		}
		// an unreadable body is treated as empty
		return nil, true
	}
	return b, true
}

// QuestionsHandler returns the current question catalog.
func (s *Server) QuestionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Assessments.Questions(r.Context()))
	}
}

// CareersHandler returns the current career catalog.
func (s *Server) CareersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Catalog.Careers(r.Context()))
	}
}

// SubmitAssessmentHandler scores an answer set, stores it and returns the
// profile with recommendations. Malformed input never fails the request.
func (s *Server) SubmitAssessmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := s.readBody(w, r)
		if !ok {
			return
		}
		sub, err := s.Assessments.Submit(r.Context(), DecodeAnswers(body))
		if err != nil {
			writeError(w, r, fmt.Errorf("submit: %w", err), nil)
			return
		}
		w.Header().Set("Location", "/v1/assessment/"+sub.ID)
		writeJSON(w, http.StatusOK, usecase.NewAssessmentView(sub))
	}
}

// DecodeAnswers extracts the answer list from a submission body. A body that
// is not an object, or whose answers field is not an array, yields no
// answers; entries that are not objects or lack a question id are dropped.
func DecodeAnswers(body []byte) []domain.Answer {
	var payload struct {
		Answers json.RawMessage `json:"answers"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return []domain.Answer{}
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(payload.Answers, &raw); err != nil {
		return []domain.Answer{}
	}
	out := make([]domain.Answer, 0, len(raw))
	for _, item := range raw {
		var entry struct {
			QuestionID json.RawMessage    `json:"questionId"`
			Answer     domain.AnswerValue `json:"answer"`
		}
		if err := json.Unmarshal(item, &entry); err != nil {
			continue
		}
		qid := questionID(entry.QuestionID)
		if qid == "" {
			continue
		}
		out = append(out, domain.Answer{QuestionID: qid, Value: entry.Answer})
	}
	return out
}

// questionID accepts a JSON string or number.
func questionID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// AssessmentHandler returns a stored submission.
func (s *Server) AssessmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if v := ValidateSubmissionID(id); !v.Valid {
			writeError(w, r, fmt.Errorf("%w: invalid id", domain.ErrInvalidArgument), v.Errors)
			return
		}
		status, res, etag, err := s.Results.Fetch(r.Context(), id, r.Header.Get("If-None-Match"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		w.Header().Set("ETag", etag)
		if status != http.StatusNotModified {
			writeJSON(w, status, res)
		} else {
			w.WriteHeader(status)
		}
	}
}

type recommendRequest struct {
	Personality string   `json:"personality" validate:"max=16"`
	Interests   []string `json:"interests" validate:"max=50,dive,max=100"`
	Limit       int      `json:"limit" validate:"omitempty,min=1,max=50"`
}

// RecommendHandler ranks careers for a personality code and optional interests.
func (s *Server) RecommendHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := s.readBody(w, r)
		if !ok {
			return
		}
		var req recommendRequest
		if len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
				return
			}
		}
		if err := getValidator().Struct(req); err != nil {
			verrs := map[string]string{}
			var ve validator.ValidationErrors
			if errors.As(err, &ve) {
				for _, fe := range ve {
					verrs[strings.ToLower(fe.Field())] = fe.Tag()
				}
			}
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
			return
		}
		recs := s.Recommender.Recommend(r.Context(), SanitizeString(req.Personality), textx.SanitizeList(req.Interests), req.Limit)
		writeJSON(w, http.StatusOK, map[string]any{"recommendations": recs})
	}
}

// ReloadCatalogHandler re-reads both catalogs.
func (s *Server) ReloadCatalogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := s.Catalog.Reload(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"version":   snap.Version,
			"questions": len(snap.Questions),
			"careers":   len(snap.Careers),
			"loadedAt":  snap.LoadedAt,
		})
	}
}

// StatsHandler reports stored submission counts.
func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, by, err := s.Assessments.Stats(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		var version string
		if snap := s.Catalog.Snapshot(r.Context()); snap != nil {
			version = snap.Version
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"total":          total,
			"byPersonality":  by,
			"catalogVersion": version,
		})
	}
}

// ReadyzHandler returns a readiness handler that probes the catalog, DB and Redis.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		probes := []struct {
			name string
			fn   func(context.Context) error
		}{
			{"catalog", s.CatalogCheck},
			{"db", s.DBCheck},
			{"redis", s.RedisCheck},
		}
		checks := make([]check, 0, len(probes))
		ok := true
		for _, p := range probes {
			if p.fn == nil {
				continue
			}
			if err := p.fn(ctx); err != nil {
				ok = false
				checks = append(checks, check{Name: p.name, OK: false, Details: err.Error()})
				continue
			}
			checks = append(checks, check{Name: p.name, OK: true})
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}

// OpenAPIServe serves the bundled OpenAPI document.
func (s *Server) OpenAPIServe() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(api.OpenAPI)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(api.OpenAPI)
	}
}
