package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ExtractJSON strips Markdown fences and everything before the first '{'
// and after the last '}'.
func ExtractJSON(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```JSON")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx != -1 {
			cleaned = cleaned[:idx]
		}
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", errors.New("no json object in response")
	}

	cleaned = strings.TrimSpace(cleaned[start : end+1])
	if !strings.HasPrefix(cleaned, "{") || !strings.HasSuffix(cleaned, "}") {
		return "", errors.New("response is not a json object")
	}

	return cleaned, nil
}

// ParseObject extracts and decodes the JSON object contained in raw.
func ParseObject(raw string) (map[string]any, error) {
	cleaned, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	if data == nil {
		return nil, errors.New("response is not a json object")
	}

	return data, nil
}

// CoerceFloat reads numbers and numeric strings; anything else is NaN.
func CoerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// CoerceString flattens scalars to trimmed strings and marshals anything else.
func CoerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

// CoerceStrings accepts a JSON array of scalars or a comma separated string.
func CoerceStrings(v any) []string {
	var out []string
	switch val := v.(type) {
	case []string:
		for _, s := range val {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range val {
			switch item.(type) {
			case map[string]any, []any:
				continue
			}
			if s := CoerceString(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, part := range strings.Split(val, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
