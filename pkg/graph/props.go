package graph

import (
	"fmt"
	"reflect"
)

const (
	// MaxPropDepth is the maximum nesting depth for array/map property values
	MaxPropDepth = 8
)

// NormalizeProps validates a property map and normalizes it into JSON value
// space: nil, bool, float64, string, []any and map[string]any. Integer and
// float variants are widened to float64 so that stored values compare equal
// to values decoded from a snapshot.
// Returns ErrInvalidProperty wrapped with the offending key on failure.
func NormalizeProps(props map[string]any) (map[string]any, error) {
	if props == nil {
		return map[string]any{}, nil
	}

	normalized := make(map[string]any, len(props))
	for key, value := range props {
		if key == "" {
			return nil, fmt.Errorf("%w: empty property key", ErrInvalidProperty)
		}
		nv, err := normalizeValue(value, 0)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", key, err)
		}
		normalized[key] = nv
	}
	return normalized, nil
}

// normalizeValue normalizes a single value, recursing into arrays and maps.
func normalizeValue(value any, depth int) (any, error) {
	if depth > MaxPropDepth {
		return nil, fmt.Errorf("%w: nesting exceeds depth %d", ErrInvalidProperty, MaxPropDepth)
	}

	switch v := value.(type) {
	case nil:
		return nil, nil
	case bool, string:
		return v, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil

	case []any:
		normalized := make([]any, len(v))
		for i, elem := range v {
			ne, err := normalizeValue(elem, depth+1)
			if err != nil {
				return nil, err
			}
			normalized[i] = ne
		}
		return normalized, nil

	case []string:
		normalized := make([]any, len(v))
		for i, elem := range v {
			normalized[i] = elem
		}
		return normalized, nil

	case map[string]any:
		normalized := make(map[string]any, len(v))
		for key, val := range v {
			if key == "" {
				return nil, fmt.Errorf("%w: empty nested key", ErrInvalidProperty)
			}
			nv, err := normalizeValue(val, depth+1)
			if err != nil {
				return nil, err
			}
			normalized[key] = nv
		}
		return normalized, nil

	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidProperty, value)
	}
}

// cloneProps creates a deep copy of a normalized property map.
func cloneProps(props map[string]any) map[string]any {
	if props == nil {
		return map[string]any{}
	}
	clone := make(map[string]any, len(props))
	for k, v := range props {
		clone[k] = cloneValue(v)
	}
	return clone
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case []any:
		clone := make([]any, len(v))
		for i, elem := range v {
			clone[i] = cloneValue(elem)
		}
		return clone
	case map[string]any:
		clone := make(map[string]any, len(v))
		for k, val := range v {
			clone[k] = cloneValue(val)
		}
		return clone
	default:
		// Scalars are immutable
		return v
	}
}

// PropsEqual reports whether a stored value deep-equals a filter value after
// normalization. Filter matching is deep equality on each specified key.
func PropsEqual(stored, filter any) bool {
	normalized, err := normalizeValue(filter, 0)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(stored, normalized)
}

// matchProps reports whether every key in filter is present in props with a
// deep-equal value. Unspecified keys are unconstrained.
func matchProps(props, filter map[string]any) bool {
	for key, want := range filter {
		got, ok := props[key]
		if !ok || !PropsEqual(got, want) {
			return false
		}
	}
	return true
}
