package recipe

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ParseDocument parses raw completion output into a normalized Document.
// It tolerates markdown code fences and surrounding prose around the JSON
// object, and attempts a mechanical repair of near-JSON output before giving
// up. The returned error means the output was not a JSON object at all;
// missing or malformed fields inside a parseable object are repaired by
// Normalize and never cause failure.
func ParseDocument(raw string) (*Document, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	return Normalize(obj), nil
}

// decodeObject extracts a JSON object from model output. Output that is
// already valid JSON must be an object; an array or scalar fails outright.
// Only output that does not parse as JSON gets the forgiving treatment: code
// fences stripped, the outermost brace-delimited span extracted, and as a
// last resort one jsonrepair pass.
func decodeObject(raw string) (map[string]any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("empty completion output")
	}

	// Unwrap code fences first so the validity check sees the payload.
	content := trimmed
	if stripped := stripCodeFences(trimmed); stripped != "" {
		content = stripped
	}

	var parsed any
	if err := json.Unmarshal([]byte(content), &parsed); err == nil {
		if obj, ok := parsed.(map[string]any); ok {
			return obj, nil
		}
		return nil, fmt.Errorf("completion output is not a JSON object")
	}

	// Prose-wrapped output: take the outermost brace-delimited span.
	candidate := extractObjectCandidate(content)
	if candidate == "" {
		candidate = content
	}
	if obj, ok := unmarshalObject(candidate); ok {
		return obj, nil
	}

	// Near-JSON output (single quotes, trailing commas, unquoted keys) is
	// common enough to be worth one repair pass.
	repaired, err := jsonrepair.JSONRepair(candidate)
	if err == nil {
		if obj, ok := unmarshalObject(repaired); ok {
			return obj, nil
		}
	}

	return nil, fmt.Errorf("completion output is not a JSON object")
}

func unmarshalObject(candidate string) (map[string]any, bool) {
	var parsed any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, false
	}
	obj, ok := parsed.(map[string]any)
	return obj, ok
}

func stripCodeFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return ""
	}

	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return ""
	}

	// Drop the opening fence line (which may carry a language tag) and the
	// trailing fence if present.
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// extractObjectCandidate returns the outermost {...} span, covering output
// where the model wrapped the object in explanatory prose.
func extractObjectCandidate(content string) string {
	start := strings.Index(content, "{")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(content, "}")
	if end < start {
		return ""
	}
	return strings.TrimSpace(content[start : end+1])
}
