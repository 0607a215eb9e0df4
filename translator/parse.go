package translator

import (
	"encoding/json"
	"strings"
)

// Result is a parsed model reply. OK is false when the reply did not carry a
// usable constraint string, in which case Constraint is empty.
type Result struct {
	Constraint string
	OK         bool
}

// ParseConstraint extracts scriptParameterValue from a model reply, tolerating
// Markdown code fences. Anything else yields the zero Result.
func ParseConstraint(reply string) Result {
	content := stripCodeFence(strings.TrimSpace(reply))
	if content == "" {
		return Result{}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return Result{}
	}
	raw, ok := fields["scriptParameterValue"]
	if !ok || string(raw) == "null" {
		return Result{}
	}
	var constraint string
	if err := json.Unmarshal(raw, &constraint); err != nil {
		return Result{}
	}
	return Result{Constraint: strings.TrimSpace(constraint), OK: true}
}

// stripCodeFence removes a ```json ... ``` wrapper if present.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		// first line is an optional language tag
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
