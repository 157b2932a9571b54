package usecase

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/fairyhunter13/career-leader/internal/adapter/observability"
	"github.com/fairyhunter13/career-leader/internal/domain"
	obsctx "github.com/fairyhunter13/career-leader/internal/observability"
)

// CatalogService exposes the career catalog and reloads both catalogs.
type CatalogService struct {
	Source domain.CatalogSource
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(src domain.CatalogSource) CatalogService {
	return CatalogService{Source: src}
}

// Careers returns the current career catalog.
func (s CatalogService) Careers(_ domain.Context) []domain.Career {
	if snap := s.Source.Current(); snap != nil {
		return snap.Careers
	}
	return []domain.Career{}
}

// Snapshot returns the current snapshot.
func (s CatalogService) Snapshot(_ domain.Context) *domain.CatalogSnapshot {
	return s.Source.Current()
}

// Personalities lists the distinct personality codes referenced by careers, sorted.
func (s CatalogService) Personalities(ctx domain.Context) []string {
	seen := map[string]struct{}{}
	for _, c := range s.Careers(ctx) {
		for _, p := range c.Personalities {
			seen[p] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Reload re-reads the catalogs. The previous snapshot stays active on failure.
func (s CatalogService) Reload(ctx domain.Context) (*domain.CatalogSnapshot, error) {
	snap, err := s.Source.Reload(ctx)
	observability.RecordCatalogReload(snap, err)
	if err != nil {
		obsctx.LoggerFromContext(ctx).Error("catalog reload failed", slog.Any("error", err))
		return nil, fmt.Errorf("op=catalog.Reload: %w", err)
	}
	return snap, nil
}
