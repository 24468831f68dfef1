package extraction

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Models sometimes wrap JSON output in markdown fences even when asked
// not to.
var jsonFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// stripJSONFence removes a surrounding markdown code fence, if any.
func stripJSONFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := jsonFenceRe.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

// decodeFlatObject decodes a flat JSON object into string key-value
// pairs. Scalar values are stringified; nested objects and arrays are
// dropped. Keys are lowercased.
func decodeFlatObject(raw string) (map[string]string, error) {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(stripJSONFence(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}

	out := make(map[string]string, len(parsed))
	for key, value := range parsed {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		switch v := value.(type) {
		case string:
			out[key] = strings.TrimSpace(v)
		case float64:
			out[key] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
		case bool:
			out[key] = fmt.Sprintf("%t", v)
		case nil:
			// Absent value, skip.
		default:
			// Nested structure, skip.
		}
	}
	return out, nil
}

// decodeStringArray decodes a JSON array of strings, lowercased and
// trimmed.
func decodeStringArray(raw string) ([]string, error) {
	var parsed []string
	if err := json.Unmarshal([]byte(stripJSONFence(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	out := make([]string, 0, len(parsed))
	for _, v := range parsed {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}
