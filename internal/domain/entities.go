package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrInternal          = errors.New("internal error")
	ErrCatalogInvalid    = errors.New("catalog invalid")
	ErrCatalogIncomplete = errors.New("catalog incomplete")
)

// Dimension is one of the four independent personality axes.
type Dimension string

const (
	DimensionEI Dimension = "EI"
	DimensionSN Dimension = "SN"
	DimensionTF Dimension = "TF"
	DimensionJP Dimension = "JP"
)

// Dimensions lists the axes in personality code order.
var Dimensions = []Dimension{DimensionEI, DimensionSN, DimensionTF, DimensionJP}

// Valid reports whether d is one of the four known dimensions.
func (d Dimension) Valid() bool {
	switch d {
	case DimensionEI, DimensionSN, DimensionTF, DimensionJP:
		return true
	}
	return false
}

// MissingPole is the code letter emitted for a dimension that has no question in the catalog.
const MissingPole = "X"

// Question is one forced-choice item of the assessment.
// Invariants: Dimension is valid; SideA and SideB are non-empty and distinct.
type Question struct {
	ID        string    `json:"id" yaml:"id" validate:"required"`
	Dimension Dimension `json:"dimension" yaml:"dimension" validate:"required,oneof=EI SN TF JP"`
	Text      string    `json:"text,omitempty" yaml:"text"`
	SideA     string    `json:"sideA" yaml:"sideA" validate:"required"`
	SideB     string    `json:"sideB" yaml:"sideB" validate:"required,nefield=SideA"`
	Interests []string  `json:"interests,omitempty" yaml:"interests" validate:"omitempty,dive,required"`
}

// Answer references a question and carries the raw submitted value.
type Answer struct {
	QuestionID string      `json:"questionId"`
	Value      AnswerValue `json:"answer"`
}

// InterestWeight is an interest tag with its accumulated weight.
type InterestWeight struct {
	Tag    string `json:"tag"`
	Weight int    `json:"weight"`
}

// Profile is the classifier output for one set of answers.
type Profile struct {
	Personality       string               `json:"personality"`
	DimensionScores   map[Dimension]int    `json:"dims"`
	Poles             map[Dimension]string `json:"poles"`
	Interests         []string             `json:"interests"`
	InterestWeights   []InterestWeight     `json:"interestWeights,omitempty"`
	MissingDimensions []Dimension          `json:"missingDimensions,omitempty"`
}

// Career is one entry of the read-only career catalog.
type Career struct {
	ID            string   `json:"id" yaml:"id" validate:"required"`
	Title         string   `json:"title" yaml:"title" validate:"required"`
	Category      string   `json:"category" yaml:"category" validate:"required"`
	Description   string   `json:"description,omitempty" yaml:"description"`
	Skills        []string `json:"skills" yaml:"skills" validate:"omitempty,dive,required"`
	Personalities []string `json:"personalities,omitempty" yaml:"personalities" validate:"omitempty,dive,len=4"`
}

// Recommendation is a scored career with the reasons behind its score.
type Recommendation struct {
	Career
	Score            int      `json:"score"`
	PersonalityMatch bool     `json:"personalityMatch"`
	MatchedSkills    []string `json:"matchedSkills,omitempty"`
}

// Submission is a persisted, scored assessment.
type Submission struct {
	ID              string
	Answers         []Answer
	Profile         Profile
	Recommendations []Recommendation
	CatalogVersion  string
	CreatedAt       time.Time
}

// AssessmentCompleted is the event emitted after a submission is scored.
type AssessmentCompleted struct {
	SubmissionID string    `json:"submission_id"`
	Personality  string    `json:"personality"`
	Interests    []string  `json:"interests"`
	CareerIDs    []string  `json:"career_ids"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// CatalogSnapshot is an immutable view of both catalogs. Version identifies
// the source bytes and namespaces cached recommendations.
type CatalogSnapshot struct {
	Questions []Question
	Careers   []Career
	Version   string
	LoadedAt  time.Time
}

// Repositories (ports)

type SubmissionRepository interface {
	Create(ctx Context, s Submission) (string, error)
	Get(ctx Context, id string) (Submission, error)
	Count(ctx Context) (int64, error)
	CountByPersonality(ctx Context, personality string) (int64, error)
}

// RecommendationCache stores ranked lists keyed by catalog version and query key.
type RecommendationCache interface {
	Get(ctx Context, version, key string) ([]Recommendation, bool, error)
	Set(ctx Context, version, key string, recs []Recommendation) error
}

// CatalogSource hands out the current catalog snapshot and can re-read it.
type CatalogSource interface {
	Current() *CatalogSnapshot
	Reload(ctx Context) (*CatalogSnapshot, error)
}

// EventPublisher (port)

type EventPublisher interface {
	PublishAssessmentCompleted(ctx Context, ev AssessmentCompleted) error
}

// Context is an alias so adapters and usecases share the std context type.
type Context = context.Context
