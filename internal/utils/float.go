package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// leadingNumber matches the longest numeric prefix of a string, the way a
// lenient form parser reads "23.5C" as 23.5.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ToFloat64 converts various numeric types to float64.
// Returns the converted value and true if successful, or 0 and false if conversion fails.
func ToFloat64(v interface{}) (float64, bool) {
	if v == nil {
		return 0, false
	}

	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}

// ParseFloat reads a float from a decoded JSON value or form string.
//
// Numbers are returned as is. Strings are trimmed and parsed; when the whole
// string is not a number its leading numeric prefix is used ("21.4°C" -> 21.4).
// Anything else, including NaN and infinities, reports false.
func ParseFloat(v interface{}) (float64, bool) {
	if f, ok := ToFloat64(v); ok {
		return f, finite(f)
	}

	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, finite(f)
	}

	prefix := leadingNumber.FindString(s)
	if prefix == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false
	}
	return f, finite(f)
}

// ParseFloatOr is ParseFloat with a fallback for unparseable values.
func ParseFloatOr(v interface{}, fallback float64) float64 {
	if f, ok := ParseFloat(v); ok {
		return f
	}
	return fallback
}

// ParseIntOr reads the leading integer of a string, returning fallback when
// there is none. "3.7" yields 3.
func ParseIntOr(s string, fallback int) int {
	f, ok := ParseFloat(s)
	if !ok {
		return fallback
	}
	return int(math.Trunc(f))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
