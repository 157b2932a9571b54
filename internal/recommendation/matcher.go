// Package recommendation ranks catalog careers against a personality code and
// a set of interest tags.
//
// Scoring is lexical: +5 for an exact personality match, and for every
// (interest, skill) pair +3 on a case-insensitive equal or +1 when one
// contains the other. Ranking is a stable sort, so entries with equal
// scores keep catalog order.
package recommendation

import (
	"sort"
	"strings"

	"github.com/fairyhunter13/career-leader/internal/domain"
)

const (
	// DefaultLimit is used when no positive limit is supplied.
	DefaultLimit = 5

	PersonalityPoints = 5
	ExactSkillPoints  = 3
	PartialSkillPoint = 1
)

// Query is the normalized input of one recommendation call.
type Query struct {
	Personality string
	Interests   []string
	Limit       int
}

// Option configures a Query.
type Option func(*Query)

// WithInterests adds interest tags. Blank tags are dropped.
func WithInterests(tags ...string) Option {
	return func(q *Query) {
		for _, t := range tags {
			if t = normalizeTag(t); t != "" {
				q.Interests = append(q.Interests, t)
			}
		}
	}
}

// WithLimit caps the result size. Non-positive values keep DefaultLimit.
func WithLimit(n int) Option {
	return func(q *Query) {
		if n > 0 {
			q.Limit = n
		}
	}
}

// NewQuery normalizes a personality code and applies options.
func NewQuery(personality string, opts ...Option) Query {
	q := Query{Personality: NormalizePersonality(personality), Limit: DefaultLimit}
	for _, o := range opts {
		o(&q)
	}
	return q
}

// NormalizePersonality trims and upper-cases a personality code.
func NormalizePersonality(p string) string { return strings.ToUpper(strings.TrimSpace(p)) }

// normalizeTag trims and lower-cases tags; blank tags are skipped by callers
// so they never substring-match every skill.
func normalizeTag(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Recommend returns at most Limit careers, genuine matches first, padded from
// the ranked catalog when fewer than Limit entries score above zero.
func Recommend(catalog []domain.Career, personality string, opts ...Option) []domain.Recommendation {
	return RecommendQuery(catalog, NewQuery(personality, opts...))
}

// RecommendQuery is Recommend for an already-built query.
func RecommendQuery(catalog []domain.Career, q Query) []domain.Recommendation {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	ranked := RankQuery(catalog, q)

	best := make([]domain.Recommendation, 0, q.Limit)
	for _, r := range ranked {
		if r.Score <= 0 {
			break
		}
		best = append(best, r)
	}
	if len(best) >= q.Limit {
		return best[:q.Limit]
	}

	seen := make(map[string]struct{}, q.Limit)
	out := make([]domain.Recommendation, 0, q.Limit)
	for _, pool := range [][]domain.Recommendation{best, ranked} {
		for _, r := range pool {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			out = append(out, r)
			if len(out) == q.Limit {
				return out
			}
		}
	}
	return out
}

// UsedFallback reports whether a result had to be padded with non-matching entries.
func UsedFallback(recs []domain.Recommendation) bool {
	for _, r := range recs {
		if r.Score <= 0 {
			return true
		}
	}
	return false
}

// Rank scores every career and returns them sorted by score, catalog order on ties.
func Rank(catalog []domain.Career, personality string, opts ...Option) []domain.Recommendation {
	return RankQuery(catalog, NewQuery(personality, opts...))
}

// RankQuery is Rank for an already-built query.
func RankQuery(catalog []domain.Career, q Query) []domain.Recommendation {
	ranked := make([]domain.Recommendation, 0, len(catalog))
	for _, c := range catalog {
		ranked = append(ranked, ScoreCareer(c, q))
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked
}

// ScoreCareer computes the score of a single career. Entries never interact.
func ScoreCareer(c domain.Career, q Query) domain.Recommendation {
	r := domain.Recommendation{Career: c}
	if q.Personality != "" {
		for _, p := range c.Personalities {
			if NormalizePersonality(p) == q.Personality {
				r.Score += PersonalityPoints
				r.PersonalityMatch = true
				break
			}
		}
	}
	for _, skill := range c.Skills {
		ls := normalizeTag(skill)
		if ls == "" {
			continue
		}
		matched := false
		for _, it := range q.Interests {
			switch {
			case ls == it:
				r.Score += ExactSkillPoints
				matched = true
			case strings.Contains(ls, it), strings.Contains(it, ls):
				r.Score += PartialSkillPoint
				matched = true
			}
		}
		if matched {
			r.MatchedSkills = append(r.MatchedSkills, skill)
		}
	}
	return r
}
