package pipeline

import (
	"encoding/json"
	"errors"
	"strings"
)

// DecodeTolerant unmarshals language-model output into v. The output is
// contractually requested as pure JSON but some providers wrap it in prose,
// so a failed direct parse is retried exactly once on the slice from the
// first '{' to the last '}' inclusive. If no such pair exists, or the slice
// still fails to parse, the error is a ModelOutputError carrying the raw
// text. Deliberately not a brace-matching scanner: multiple JSON fragments in
// one response fail rather than guess.
func DecodeTolerant(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return &ModelOutputError{Raw: raw, Err: errors.New("no JSON object found")}
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), v); err != nil {
		return &ModelOutputError{Raw: raw, Err: err}
	}
	return nil
}
