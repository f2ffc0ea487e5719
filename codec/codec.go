// Package codec provides ready-made retry conversions for common wire
// mismatches: numbers shipped as strings, booleans shipped as strings,
// RFC 3339 timestamps, and numeric-to-string coercions.
package codec

import (
	"strconv"
	"strings"
	"time"

	safedecoding "github.com/renato-iar/safedecoding"
)

// StringToInt retries an Int field against a String wire value, parsing it
// in base 10.
func StringToInt() safedecoding.Retry {
	return safedecoding.Retry{
		Alt: safedecoding.ScalarType("String"),
		Mapper: func(v any) (any, bool) {
			s, ok := v.(string)
			if !ok {
				return nil, false
			}
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return nil, false
			}
			return n, true
		},
	}
}

// StringToUInt retries a UInt field against a String wire value.
func StringToUInt() safedecoding.Retry {
	return safedecoding.Retry{
		Alt: safedecoding.ScalarType("String"),
		Mapper: func(v any) (any, bool) {
			s, ok := v.(string)
			if !ok {
				return nil, false
			}
			n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return nil, false
			}
			return n, true
		},
	}
}

// StringToDouble retries a Double field against a String wire value.
func StringToDouble() safedecoding.Retry {
	return safedecoding.Retry{
		Alt: safedecoding.ScalarType("String"),
		Mapper: func(v any) (any, bool) {
			s, ok := v.(string)
			if !ok {
				return nil, false
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, false
			}
			return f, true
		},
	}
}

// StringToBool retries a Bool field against a String wire value, accepting
// the forms strconv.ParseBool does plus "yes"/"no" case-insensitively.
func StringToBool() safedecoding.Retry {
	return safedecoding.Retry{
		Alt: safedecoding.ScalarType("String"),
		Mapper: func(v any) (any, bool) {
			s, ok := v.(string)
			if !ok {
				return nil, false
			}
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "yes":
				return true, true
			case "no":
				return false, true
			}
			b, err := strconv.ParseBool(strings.TrimSpace(s))
			if err != nil {
				return nil, false
			}
			return b, true
		},
	}
}

// IntToString retries a String field against an Int wire value, rendering
// it in base 10.
func IntToString() safedecoding.Retry {
	return safedecoding.Retry{
		Alt: safedecoding.ScalarType("Int"),
		Mapper: func(v any) (any, bool) {
			n, ok := v.(int64)
			if !ok {
				return nil, false
			}
			return strconv.FormatInt(n, 10), true
		},
	}
}

// DoubleToString retries a String field against a Double wire value.
func DoubleToString() safedecoding.Retry {
	return safedecoding.Retry{
		Alt: safedecoding.ScalarType("Double"),
		Mapper: func(v any) (any, bool) {
			f, ok := v.(float64)
			if !ok {
				return nil, false
			}
			return strconv.FormatFloat(f, 'g', -1, 64), true
		},
	}
}

// RFC3339 retries a field against a String wire value holding an RFC 3339
// timestamp, yielding a time.Time. The field's declared type is opaque to
// the engine, so the parsed value passes through unchanged.
func RFC3339() safedecoding.Retry {
	return safedecoding.Retry{
		Alt: safedecoding.ScalarType("String"),
		Mapper: func(v any) (any, bool) {
			s, ok := v.(string)
			if !ok {
				return nil, false
			}
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return nil, false
			}
			return t, true
		},
	}
}

// UnixSeconds retries a field against an Int wire value holding a Unix
// timestamp in seconds, yielding a time.Time.
func UnixSeconds() safedecoding.Retry {
	return safedecoding.Retry{
		Alt: safedecoding.ScalarType("Int"),
		Mapper: func(v any) (any, bool) {
			n, ok := v.(int64)
			if !ok {
				return nil, false
			}
			return time.Unix(n, 0).UTC(), true
		},
	}
}
