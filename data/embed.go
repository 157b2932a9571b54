// Package data carries the bundled default catalogs.
package data

import "embed"

// FS holds questions.yaml and careers.yaml.
//
//go:embed questions.yaml careers.yaml
var FS embed.FS

const (
	QuestionsFile = "questions.yaml"
	CareersFile   = "careers.yaml"
)
