package ai

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"task-app/internal/domain"
)

// StripJSONFences removes markdown code fences that models sometimes add.
func StripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// ExtractJSONArray returns the span from the first '[' to the last ']'.
func ExtractJSONArray(s string) (string, bool) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

type rawSuggestion struct {
	TaskID            string          `json:"taskId"`
	SuggestedPriority json.RawMessage `json:"suggestedPriority"`
	Reason            string          `json:"reason"`
}

// ParseSuggestions decodes a model reply into priority suggestions. Replies
// without a JSON array, or whose array does not decode, yield an empty
// list. Items without a task id or a numeric priority are skipped.
func ParseSuggestions(reply string) []domain.PrioritySuggestion {
	out := []domain.PrioritySuggestion{}

	array, ok := ExtractJSONArray(StripJSONFences(reply))
	if !ok {
		return out
	}

	var raw []rawSuggestion
	if err := json.Unmarshal([]byte(array), &raw); err != nil {
		return out
	}

	for _, r := range raw {
		priority, ok := parsePriority(r.SuggestedPriority)
		if !ok || strings.TrimSpace(r.TaskID) == "" {
			continue
		}
		out = append(out, domain.PrioritySuggestion{
			TaskID:            strings.TrimSpace(r.TaskID),
			SuggestedPriority: priority,
			Reason:            strings.TrimSpace(r.Reason),
		})
	}
	return out
}

// parsePriority accepts 2, 2.0 and "2". Non-finite values and values
// outside the int32 range are rejected.
func parsePriority(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		raw = []byte(strings.TrimSpace(s))
	}

	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Round(f)
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// LimitSentences keeps at most n sentences of s.
func LimitSentences(s string, n int) string {
	s = strings.TrimSpace(s)
	count := 0
	for i, r := range s {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		next := i + 1
		if next < len(s) && s[next] != ' ' && s[next] != '\n' {
			continue
		}
		count++
		if count == n {
			return strings.TrimSpace(s[:next])
		}
	}
	return s
}
