package usecase

import (
	"errors"
	"strings"
)

// extractJSON finds the first JSON-object-shaped substring in a model
// response, tolerating surrounding prose and markdown fences. It is a
// best-effort step: callers treat its error as a structured failure, they
// do not try to harden the parse further.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", errors.New("no JSON object found in response")
	}
	return s[start : end+1], nil
}
