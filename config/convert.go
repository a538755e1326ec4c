package config

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// narrow converts a decoded JSON node to T, returning ok=false whenever the
// node's dynamic shape doesn't match T closely enough to convert without
// loss — the same no-throw-just-fail-closed contract as the original's
// JsonToValueNoExcept family. Only the types the original explicitly
// instantiates get/T for are supported: int, float32, float64, bool,
// string, and slices of int/float32/string.
func narrow[T any](node any) (T, bool) {
	var zero T
	var out any
	var ok bool

	switch any(zero).(type) {
	case int:
		out, ok = toInt(node)
	case float32:
		out, ok = toFloat32(node)
	case float64:
		out, ok = toFloat64(node)
	case bool:
		out, ok = toBool(node)
	case string:
		out, ok = toString(node)
	case []int:
		out, ok = toSlice(node, toInt)
	case []float32:
		out, ok = toSlice(node, toFloat32)
	case []string:
		out, ok = toSlice(node, toString)
	default:
		return zero, false
	}

	if !ok {
		return zero, false
	}
	result, assertOK := out.(T)
	if !assertOK {
		return zero, false
	}
	return result, true
}

// isIntegerToken reports whether a JSON number literal was written without
// a fractional part or exponent, the same distinction nlohmann::json draws
// between is_number_integer and is_number_float.
func isIntegerToken(s string) bool {
	return !strings.ContainsAny(s, ".eE")
}

func toInt(node any) (int, bool) {
	num, ok := node.(json.Number)
	if !ok {
		return 0, false
	}
	s := string(num)
	if !isIntegerToken(s) {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	if v < math.MinInt || v > math.MaxInt {
		return 0, false
	}
	return int(v), true
}

func toFloat32(node any) (float32, bool) {
	num, ok := node.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := num.Float64()
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

func toFloat64(node any) (float64, bool) {
	num, ok := node.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := num.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

func toBool(node any) (bool, bool) {
	v, ok := node.(bool)
	return v, ok
}

func toString(node any) (string, bool) {
	v, ok := node.(string)
	return v, ok
}

func toSlice[T any](node any, elem func(any) (T, bool)) ([]T, bool) {
	arr, ok := node.([]any)
	if !ok {
		return nil, false
	}
	out := make([]T, 0, len(arr))
	for _, el := range arr {
		v, ok := elem(el)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}
