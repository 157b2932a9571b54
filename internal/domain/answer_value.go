package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
)

// AnswerKind tags the shape of a submitted answer value.
type AnswerKind uint8

const (
	AnswerNone AnswerKind = iota
	AnswerNumber
	AnswerString
)

// AnswerValue holds a Likert number, a pole token string, or nothing.
// Decoding never fails: values of any other JSON type become AnswerNone.
type AnswerValue struct {
	Kind AnswerKind
	Num  float64
	Str  string
}

// NumberAnswer builds a numeric answer value.
func NumberAnswer(n float64) AnswerValue { return AnswerValue{Kind: AnswerNumber, Num: n} }

// StringAnswer builds a string answer value.
func StringAnswer(s string) AnswerValue { return AnswerValue{Kind: AnswerString, Str: s} }

// UnmarshalJSON implements json.Unmarshaler.
func (v *AnswerValue) UnmarshalJSON(b []byte) error {
	*v = AnswerValue{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*v = StringAnswer(s)
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		// Out-of-range literals keep the +/-Inf from ParseFloat so scoring clamps them.
		if n, err := strconv.ParseFloat(string(b), 64); err == nil || errors.Is(err, strconv.ErrRange) {
			*v = NumberAnswer(n)
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AnswerNumber:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.Num)
	case AnswerString:
		return json.Marshal(v.Str)
	default:
		return []byte("null"), nil
	}
}
