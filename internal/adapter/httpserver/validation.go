package httpserver

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

var submissionIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateSubmissionID validates a submission ID path parameter.
func ValidateSubmissionID(id string) ValidationResult {
	if id == "" {
		return ValidationResult{
			Valid: false,
			Errors: []ValidationError{
				{
					Field:   "id",
					Code:    "REQUIRED",
					Message: "Submission ID is required",
				},
			},
		}
	}

	if len(id) > 100 {
		return ValidationResult{
			Valid: false,
			Errors: []ValidationError{
				{
					Field:   "id",
					Code:    "TOO_LONG",
					Message: "Submission ID is too long (max 100 characters)",
				},
			},
		}
	}

	if !submissionIDPattern.MatchString(id) {
		return ValidationResult{
			Valid: false,
			Errors: []ValidationError{
				{
					Field:   "id",
					Code:    "INVALID_FORMAT",
					Message: "Submission ID contains invalid characters",
				},
			},
		}
	}

	return ValidationResult{Valid: true}
}

// SanitizeString strips NUL bytes, trims whitespace, bounds the length and
// drops invalid UTF-8.
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = strings.TrimSpace(input)
	if len(input) > 1000 {
		input = input[:1000]
	}
	if !utf8.ValidString(input) {
		input = strings.ToValidUTF8(input, "")
	}
	return input
}

var requestIDStrip = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// SanitizeRequestID keeps a client supplied request id header-safe.
func SanitizeRequestID(id string) string {
	id = requestIDStrip.ReplaceAllString(id, "")
	if len(id) > 100 {
		id = id[:100]
	}
	return id
}
