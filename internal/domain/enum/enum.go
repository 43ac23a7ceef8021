package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// nameOf returns the wire name of an int-backed enum value.
func nameOf(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return "UNKNOWN"
	}
	return names[v]
}

// parseName resolves a wire name (case-insensitive) to its index.
func parseName(names []string, s string) (int, bool) {
	s = strings.TrimSpace(s)
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return i, true
		}
	}
	return 0, false
}

// unmarshalEnum accepts either the wire name or the numeric value.
func unmarshalEnum(data []byte, names []string, kind string) (int, error) {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return 0, err
		}
		if i < 0 || i >= len(names) {
			return 0, fmt.Errorf("invalid %s %d", kind, i)
		}
		return i, nil
	}
	i, ok := parseName(names, str)
	if !ok {
		return 0, fmt.Errorf("invalid %s %q", kind, str)
	}
	return i, nil
}

func scanInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("unsupported enum column type %T", value)
	}
}
