// Package mocks holds testify mocks of the domain ports.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/fairyhunter13/career-leader/internal/domain"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// SubmissionRepository mocks domain.SubmissionRepository.
type SubmissionRepository struct{ mock.Mock }

// NewSubmissionRepository registers expectation checks on test cleanup.
func NewSubmissionRepository(t testingT) *SubmissionRepository {
	m := &SubmissionRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SubmissionRepository) Create(ctx domain.Context, s domain.Submission) (string, error) {
	args := m.Called(ctx, s)
	return args.String(0), args.Error(1)
}

func (m *SubmissionRepository) Get(ctx domain.Context, id string) (domain.Submission, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Submission), args.Error(1)
}

func (m *SubmissionRepository) Count(ctx domain.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SubmissionRepository) CountByPersonality(ctx domain.Context, personality string) (int64, error) {
	args := m.Called(ctx, personality)
	return args.Get(0).(int64), args.Error(1)
}

// RecommendationCache mocks domain.RecommendationCache.
type RecommendationCache struct{ mock.Mock }

// NewRecommendationCache registers expectation checks on test cleanup.
func NewRecommendationCache(t testingT) *RecommendationCache {
	m := &RecommendationCache{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RecommendationCache) Get(ctx domain.Context, version, key string) ([]domain.Recommendation, bool, error) {
	args := m.Called(ctx, version, key)
	recs, _ := args.Get(0).([]domain.Recommendation)
	return recs, args.Bool(1), args.Error(2)
}

func (m *RecommendationCache) Set(ctx domain.Context, version, key string, recs []domain.Recommendation) error {
	return m.Called(ctx, version, key, recs).Error(0)
}

// EventPublisher mocks domain.EventPublisher.
type EventPublisher struct{ mock.Mock }

// NewEventPublisher registers expectation checks on test cleanup.
func NewEventPublisher(t testingT) *EventPublisher {
	m := &EventPublisher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *EventPublisher) PublishAssessmentCompleted(ctx domain.Context, ev domain.AssessmentCompleted) error {
	return m.Called(ctx, ev).Error(0)
}

// CatalogSource mocks domain.CatalogSource.
type CatalogSource struct{ mock.Mock }

// NewCatalogSource registers expectation checks on test cleanup.
func NewCatalogSource(t testingT) *CatalogSource {
	m := &CatalogSource{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CatalogSource) Current() *domain.CatalogSnapshot {
	snap, _ := m.Called().Get(0).(*domain.CatalogSnapshot)
	return snap
}

func (m *CatalogSource) Reload(ctx domain.Context) (*domain.CatalogSnapshot, error) {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(*domain.CatalogSnapshot)
	return snap, args.Error(1)
}

var (
	_ domain.SubmissionRepository = (*SubmissionRepository)(nil)
	_ domain.RecommendationCache  = (*RecommendationCache)(nil)
	_ domain.EventPublisher       = (*EventPublisher)(nil)
	_ domain.CatalogSource        = (*CatalogSource)(nil)
)
