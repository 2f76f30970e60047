package llm

import (
	"encoding/json"
	"strings"

	"github.com/kevinmichaelchen/repo-lens/internal/models"
)

// Validate parses a raw model reply against the summary contract.
// Markdown code fences are stripped first (models add them routinely
// despite instructions), but no field-level coercion happens after
// that: a missing field, a wrong type, or a whitespace-only value is a
// *ContractViolationError, never silently patched. Unknown extra keys
// are ignored.
func Validate(raw string) (models.SummaryResult, error) {
	text := stripCodeFences(raw)

	// json.RawMessage fields let us reject wrong primitive types with a
	// precise reason instead of a generic unmarshal error.
	var shape struct {
		Summary      json.RawMessage `json:"summary"`
		Technologies json.RawMessage `json:"technologies"`
		Structure    json.RawMessage `json:"structure"`
	}
	if err := json.Unmarshal([]byte(text), &shape); err != nil {
		return models.SummaryResult{}, &ContractViolationError{
			Reason: "reply is not a JSON object: " + err.Error(),
			Raw:    raw,
		}
	}

	summary, err := requireString("summary", shape.Summary, raw)
	if err != nil {
		return models.SummaryResult{}, err
	}
	structure, err := requireString("structure", shape.Structure, raw)
	if err != nil {
		return models.SummaryResult{}, err
	}
	technologies, err := requireStringArray("technologies", shape.Technologies, raw)
	if err != nil {
		return models.SummaryResult{}, err
	}

	return models.SummaryResult{
		Summary:      summary,
		Technologies: technologies,
		Structure:    structure,
	}, nil
}

func requireString(field string, raw json.RawMessage, reply string) (string, error) {
	if len(raw) == 0 {
		return "", &ContractViolationError{Reason: "missing required field " + quoted(field), Raw: reply}
	}
	// json.Unmarshal treats null as a no-op for string targets, so a
	// present-but-null field must be rejected before the type check.
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || string(raw) == "null" {
		return "", &ContractViolationError{Reason: quoted(field) + " must be a string", Raw: reply}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ContractViolationError{Reason: quoted(field) + " must not be blank", Raw: reply}
	}
	return s, nil
}

func requireStringArray(field string, raw json.RawMessage, reply string) ([]string, error) {
	if len(raw) == 0 {
		return nil, &ContractViolationError{Reason: "missing required field " + quoted(field), Raw: reply}
	}
	// null unmarshals into a nil slice without error; a slice decoded
	// from a real array is never nil, even when empty.
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, &ContractViolationError{Reason: quoted(field) + " must be an array of strings", Raw: reply}
	}
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			return nil, &ContractViolationError{Reason: quoted(field) + " must not contain blank entries", Raw: reply}
		}
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out, nil
}

// stripCodeFences removes markdown code fences that some models wrap
// around JSON output.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "\n"); i != -1 {
			s = s[i+1:]
		}
		if i := strings.LastIndex(s, "```"); i != -1 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	return s
}

func quoted(s string) string {
	return `"` + s + `"`
}
