// Package catalog loads the question and career catalogs from JSON or YAML
// documents and keeps an immutable snapshot of them.
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/career-leader/internal/assessment"
	"github.com/fairyhunter13/career-leader/internal/domain"
	"github.com/fairyhunter13/career-leader/pkg/textx"
)

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

type questionsDoc struct {
	Questions []domain.Question `json:"questions" yaml:"questions"`
}

type careersDoc struct {
	Careers []domain.Career `json:"careers" yaml:"careers"`
}

// DecodeQuestions parses a question catalog. Both a top-level list and a
// document with a "questions" key are accepted. The two poles of a question
// must start with different letters, and every question of a dimension must
// order its poles the same way.
func DecodeQuestions(b []byte) ([]domain.Question, error) {
	var doc questionsDoc
	if err := decode(b, &doc); err != nil {
		var list []domain.Question
		if err2 := decode(b, &list); err2 != nil {
			return nil, fmt.Errorf("%w: parse questions: %v", domain.ErrCatalogInvalid, err)
		}
		doc.Questions = list
	}
	seen := make(map[string]struct{}, len(doc.Questions))
	poles := make(map[domain.Dimension][2]string, len(domain.Dimensions))
	for i := range doc.Questions {
		q := &doc.Questions[i]
		q.ID = textx.SanitizeText(q.ID)
		q.Dimension = domain.Dimension(strings.ToUpper(textx.SanitizeText(string(q.Dimension))))
		q.Text = textx.SanitizeText(q.Text)
		q.SideA = textx.SanitizeText(q.SideA)
		q.SideB = textx.SanitizeText(q.SideB)
		q.Interests = textx.SanitizeList(q.Interests)
		if err := getValidator().Struct(q); err != nil {
			return nil, fmt.Errorf("%w: question #%d (%q): %v", domain.ErrCatalogInvalid, i+1, q.ID, err)
		}
		la, lb := assessment.PoleLetter(q.SideA), assessment.PoleLetter(q.SideB)
		if la == lb {
			return nil, fmt.Errorf("%w: question %q: sides %q and %q share code letter %s",
				domain.ErrCatalogInvalid, q.ID, q.SideA, q.SideB, la)
		}
		if p, ok := poles[q.Dimension]; !ok {
			poles[q.Dimension] = [2]string{la, lb}
		} else if p != [2]string{la, lb} {
			return nil, fmt.Errorf("%w: question %q: dimension %s poles %s/%s, earlier questions use %s/%s",
				domain.ErrCatalogInvalid, q.ID, q.Dimension, la, lb, p[0], p[1])
		}
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %q", domain.ErrCatalogInvalid, q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	if doc.Questions == nil {
		doc.Questions = []domain.Question{}
	}
	return doc.Questions, nil
}

// DecodeCareers parses a career catalog. Both a top-level list and a document
// with a "careers" key are accepted. Personality codes are upper-cased.
func DecodeCareers(b []byte) ([]domain.Career, error) {
	var doc careersDoc
	if err := decode(b, &doc); err != nil {
		var list []domain.Career
		if err2 := decode(b, &list); err2 != nil {
			return nil, fmt.Errorf("%w: parse careers: %v", domain.ErrCatalogInvalid, err)
		}
		doc.Careers = list
	}
	seen := make(map[string]struct{}, len(doc.Careers))
	for i := range doc.Careers {
		c := &doc.Careers[i]
		c.ID = textx.SanitizeText(c.ID)
		c.Title = textx.SanitizeText(c.Title)
		c.Category = textx.SanitizeText(c.Category)
		c.Description = textx.SanitizeText(c.Description)
		c.Skills = textx.SanitizeList(c.Skills)
		c.Personalities = textx.UpperList(textx.SanitizeList(c.Personalities))
		if err := getValidator().Struct(c); err != nil {
			return nil, fmt.Errorf("%w: career #%d (%q): %v", domain.ErrCatalogInvalid, i+1, c.ID, err)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate career id %q", domain.ErrCatalogInvalid, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	if doc.Careers == nil {
		doc.Careers = []domain.Career{}
	}
	return doc.Careers, nil
}

// decode sniffs the payload and unmarshals JSON with encoding/json and
// everything else as YAML.
func decode(b []byte, v any) error {
	if IsJSON(b) {
		return json.Unmarshal(b, v)
	}
	return yaml.Unmarshal(b, v)
}

// IsJSON reports whether the payload is detected as a JSON document.
func IsJSON(b []byte) bool {
	return mimetype.Detect(b).Is("application/json")
}
