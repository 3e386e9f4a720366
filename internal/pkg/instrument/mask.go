package instrument

import (
	"encoding/json"
	"strings"
)

// Mask is a case-insensitive set of keys whose values must not reach logs.
type Mask map[string]struct{}

// NewMask builds a Mask from field names; blanks are ignored.
func NewMask(fields []string) Mask {
	m := make(Mask, len(fields))
	for _, f := range fields {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			m[f] = struct{}{}
		}
	}
	return m
}

// Has reports whether key is masked.
func (m Mask) Has(key string) bool {
	_, ok := m[strings.ToLower(key)]
	return ok
}

// Value returns a copy of v, as produced by encoding/json decoding, with
// masked keys replaced at any depth.
func (m Mask) Value(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if m.Has(k) {
				out[k] = "***"
				continue
			}
			out[k] = m.Value(inner)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = inner
		}
		return m.Value(out)
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = m.Value(inner)
		}
		return out
	default:
		return v
	}
}

// JSON masks a JSON document; ok is false when payload is not JSON.
func (m Mask) JSON(payload []byte) (string, bool) {
	if len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return "", false
	}

	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return "", false
	}

	out, err := json.Marshal(m.Value(doc))
	if err != nil {
		return "", false
	}
	return string(out), true
}
