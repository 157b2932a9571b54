package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/fairyhunter13/career-leader/internal/adapter/observability"
	"github.com/fairyhunter13/career-leader/internal/domain"
	obsctx "github.com/fairyhunter13/career-leader/internal/observability"
	"github.com/fairyhunter13/career-leader/internal/recommendation"
)

// RecommendService answers standalone recommendation queries, memoizing
// results per catalog version when a cache is configured.
type RecommendService struct {
	Catalog      domain.CatalogSource
	Cache        domain.RecommendationCache
	DefaultLimit int
}

// NewRecommendService constructs a RecommendService. cache may be nil.
func NewRecommendService(c domain.CatalogSource, cache domain.RecommendationCache, defaultLimit int) RecommendService {
	if defaultLimit <= 0 {
		defaultLimit = recommendation.DefaultLimit
	}
	return RecommendService{Catalog: c, Cache: cache, DefaultLimit: defaultLimit}
}

// Recommend ranks the current career catalog for a personality and interests.
// It never fails: cache problems are logged and the engine result is returned.
func (s RecommendService) Recommend(ctx domain.Context, personality string, interests []string, limit int) []domain.Recommendation {
	if limit <= 0 {
		limit = s.DefaultLimit
	}
	q := recommendation.NewQuery(personality,
		recommendation.WithInterests(interests...),
		recommendation.WithLimit(limit))
	snap := s.Catalog.Current()
	if snap == nil {
		return []domain.Recommendation{}
	}
	lg := obsctx.LoggerFromContext(ctx)

	useCache := s.Cache != nil && snap.Version != ""
	key := QueryKey(q)
	if useCache {
		recs, ok, err := s.Cache.Get(ctx, snap.Version, key)
		switch {
		case err != nil:
			observability.RecordCacheLookup("error")
			lg.Warn("recommendation cache read failed", slog.Any("error", err))
		case ok:
			observability.RecordCacheLookup("hit")
			return recs
		default:
			observability.RecordCacheLookup("miss")
		}
	}

	recs := recommendation.RecommendQuery(snap.Careers, q)
	observability.ObserveRecommendations(recs, recommendation.UsedFallback(recs))
	if useCache {
		if err := s.Cache.Set(ctx, snap.Version, key, recs); err != nil {
			lg.Warn("recommendation cache write failed", slog.Any("error", err))
		}
	}
	return recs
}

// QueryKey fingerprints a normalized query. Interest order does not change
// scores, so tags are sorted before hashing.
func QueryKey(q recommendation.Query) string {
	tags := append([]string(nil), q.Interests...)
	sort.Strings(tags)
	raw := q.Personality + "|" + strconv.Itoa(q.Limit) + "|" + strings.Join(tags, "\x1f")
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
