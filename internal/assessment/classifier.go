// Package assessment turns raw assessment answers into a personality profile.
//
// The classifier is pure: every call builds its own lookup table and
// accumulators, so a single Classifier may be shared by concurrent callers.
package assessment

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fairyhunter13/career-leader/internal/domain"
)

// LikertScale bounds numeric answers. Mid is the neutral point.
type LikertScale struct {
	Min int
	Max int
}

// DefaultLikertScale is the conventional 1..5 scale with 3 as neutral.
var DefaultLikertScale = LikertScale{Min: 1, Max: 5}

// Mid returns the neutral midpoint of the scale.
func (s LikertScale) Mid() int { return (s.Min + s.Max) / 2 }

// Classifier scores answers against a question catalog.
type Classifier struct {
	scale LikertScale
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLikertScale overrides the numeric answer bounds. Invalid scales are ignored.
func WithLikertScale(lo, hi int) Option {
	return func(c *Classifier) {
		if lo < hi {
			c.scale = LikertScale{Min: lo, Max: hi}
		}
	}
}

// New constructs a Classifier.
func New(opts ...Option) *Classifier {
	c := &Classifier{scale: DefaultLikertScale}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Scale returns the configured Likert scale.
func (c *Classifier) Scale() LikertScale { return c.scale }

// Score classifies answers with the default scale.
func Score(answers []domain.Answer, questions []domain.Question) domain.Profile {
	return New().Score(answers, questions)
}

// Score converts answers into a profile. Unknown question ids and malformed
// values are inert; the result always carries a four-letter code.
func (c *Classifier) Score(answers []domain.Answer, questions []domain.Question) domain.Profile {
	byID := make(map[string]*domain.Question, len(questions))
	for i := range questions {
		q := &questions[i]
		if _, dup := byID[q.ID]; !dup {
			byID[q.ID] = q
		}
	}

	dims := make(map[domain.Dimension]int, len(domain.Dimensions))
	for _, d := range domain.Dimensions {
		dims[d] = 0
	}
	weights := make(map[string]int)

	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			continue
		}
		val := c.signedValue(a.Value, q)
		if val == 0 {
			continue
		}
		dims[q.Dimension] += val
		for _, tag := range q.Interests {
			weights[tag] += abs(val)
		}
	}

	p := domain.Profile{
		DimensionScores: dims,
		Poles:           make(map[domain.Dimension]string, len(domain.Dimensions)),
	}
	var code strings.Builder
	for _, d := range domain.Dimensions {
		q := firstOf(questions, d)
		if q == nil {
			p.MissingDimensions = append(p.MissingDimensions, d)
			code.WriteString(domain.MissingPole)
			continue
		}
		pole := q.SideA
		if dims[d] < 0 {
			pole = q.SideB
		}
		p.Poles[d] = pole
		code.WriteString(PoleLetter(pole))
	}
	p.Personality = code.String()
	p.InterestWeights = rankInterests(weights, questions)
	p.Interests = make([]string, 0, len(p.InterestWeights))
	for _, iw := range p.InterestWeights {
		p.Interests = append(p.Interests, iw.Tag)
	}
	return p
}

// SignedValue exposes the per-answer value rule for a single question.
func (c *Classifier) SignedValue(v domain.AnswerValue, q domain.Question) int {
	return c.signedValue(v, &q)
}

func (c *Classifier) signedValue(v domain.AnswerValue, q *domain.Question) int {
	switch v.Kind {
	case domain.AnswerNumber:
		return c.likert(v.Num)
	case domain.AnswerString:
		s := strings.TrimSpace(v.Str)
		switch {
		case strings.EqualFold(s, "A"), strings.EqualFold(s, strings.TrimSpace(q.SideA)):
			return 1
		case strings.EqualFold(s, "B"), strings.EqualFold(s, strings.TrimSpace(q.SideB)):
			return -1
		}
		if n, err := strconv.Atoi(s); err == nil {
			return c.likert(float64(n))
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil || errors.Is(err, strconv.ErrRange) {
			return c.likert(f)
		}
	}
	return 0
}

// likert clamps n to the scale, rounds half up and centres it on the midpoint.
func (c *Classifier) likert(n float64) int {
	if math.IsNaN(n) {
		return 0
	}
	n = math.Max(float64(c.scale.Min), math.Min(float64(c.scale.Max), n))
	return int(math.Floor(n+0.5)) - c.scale.Mid()
}

// CheckCatalog reports dimensions that no question covers.
func CheckCatalog(questions []domain.Question) error {
	var missing []string
	for _, d := range domain.Dimensions {
		if firstOf(questions, d) == nil {
			missing = append(missing, string(d))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: no questions for %s", domain.ErrCatalogIncomplete, strings.Join(missing, ","))
	}
	return nil
}

// Codes enumerates every personality code the catalog can produce, sorted.
func Codes(questions []domain.Question) []string {
	codes := []string{""}
	for _, d := range domain.Dimensions {
		letters := []string{domain.MissingPole}
		if q := firstOf(questions, d); q != nil {
			letters = []string{PoleLetter(q.SideA), PoleLetter(q.SideB)}
		}
		next := make([]string, 0, len(codes)*len(letters))
		for _, c := range codes {
			for _, l := range letters {
				next = append(next, c+l)
			}
		}
		codes = next
	}
	sort.Strings(codes)
	return codes
}

func firstOf(questions []domain.Question, d domain.Dimension) *domain.Question {
	for i := range questions {
		if questions[i].Dimension == d {
			return &questions[i]
		}
	}
	return nil
}

// PoleLetter returns the upper-cased first letter of a pole label, the letter
// the pole contributes to a personality code.
func PoleLetter(label string) string {
	label = strings.TrimSpace(label)
	r, _ := utf8.DecodeRuneInString(label)
	if r == utf8.RuneError {
		return domain.MissingPole
	}
	return string(unicode.ToUpper(r))
}

// rankInterests orders weighted tags by weight desc, then by first
// appearance in the catalog.
func rankInterests(weights map[string]int, questions []domain.Question) []domain.InterestWeight {
	order := make(map[string]int)
	for _, q := range questions {
		for _, tag := range q.Interests {
			if _, seen := order[tag]; !seen {
				order[tag] = len(order)
			}
		}
	}
	out := make([]domain.InterestWeight, 0, len(weights))
	for tag, w := range weights {
		if w > 0 {
			out = append(out, domain.InterestWeight{Tag: tag, Weight: w})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return order[out[i].Tag] < order[out[j].Tag]
	})
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
