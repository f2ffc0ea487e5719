package safedecoding

import (
	"context"
	"encoding/json"
	"math"
	"reflect"
	"sort"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/creachadair/mds/mapset"

	"github.com/renato-iar/safedecoding/i18n"
)

// TypeSchema is implemented by synthesized record and enum schemas. Registry
// entries are looked up by scalar name during decode, which is what makes
// nested declared types recurse through their own resilient procedures.
type TypeSchema interface {
	Name() string
	DecodeValue(ctx context.Context, v any) (any, error)
	DecodeValueWithReporter(ctx context.Context, v any, rep Reporter) (any, error)
	EncodeValue(ctx context.Context, v any) (any, error)
}

// Registry maps declared type names to their synthesized schemas. It is safe
// for concurrent use; registration normally happens once at build time.
type Registry struct {
	mu    sync.RWMutex
	types map[string]TypeSchema
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{types: map[string]TypeSchema{}}
}

// Register adds s under its name. It reports false, leaving the existing
// entry untouched, when the name is already declared.
func (r *Registry) Register(s TypeSchema) bool {
	if r == nil || s == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[s.Name()]; exists {
		return false
	}
	r.types[s.Name()] = s
	return true
}

// Lookup resolves a declared type name.
func (r *Registry) Lookup(name string) (TypeSchema, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.types[name]
	return s, ok
}

// Names returns registered names in ascending order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.types))
	for k := range r.types {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func typeMismatch(expected string) Issues {
	return Issues{Issue{Path: "/", Code: CodeTypeMismatch, Message: i18n.T(CodeTypeMismatch, nil), Hint: "expected " + expected}}
}

// missingKey is relative to the field; callers rebase it under the wire key.
func missingKey(key string) Issues {
	return Issues{Issue{Path: "/", Code: CodeMissingKey, Message: i18n.T(CodeMissingKey, nil), Params: map[string]any{"key": key}}}
}

// hashable reports whether a decoded value can be stored in a set. Registered
// records decode to maps and registered enums to EnumValue (which carries a
// map), neither of which Go can hash.
func hashable(v any) bool {
	return v == nil || reflect.TypeOf(v).Comparable()
}

func unhashableItem(elemType string) Issues {
	return Issues{Issue{Path: "/", Code: CodeItemDecode, Message: i18n.T(CodeItemDecode, nil), Hint: "unhashable set element: " + elemType}}
}

// ---- numeric coercion over wire values ----

// asInt64 accepts the integer spellings produced by the JSON and YAML
// drivers: json.Number, Go ints from yaml.v3, and integral floats.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := strconv.ParseInt(string(n), 10, 64)
		return i, err == nil
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func asUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case json.Number:
		u, err := strconv.ParseUint(string(n), 10, 64)
		return u, err == nil
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case uint64:
		return n, true
	case float64:
		if n != math.Trunc(n) || n < 0 || n >= math.MaxUint64 {
			return 0, false
		}
		return uint64(n), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func intFits(v int64, bits int) bool {
	if bits >= 64 {
		return true
	}
	lim := int64(1) << (bits - 1)
	return v >= -lim && v < lim
}

func uintFits(v uint64, bits int) bool {
	if bits >= 64 {
		return true
	}
	return v < uint64(1)<<bits
}

// decodeScalar decodes a wire value as the named scalar type. Declared types
// found in the registry recurse through their own synthesized procedures.
// Names that are neither builtin nor registered pass the wire value through
// opaque; classification is syntactic and claims no semantic knowledge.
func decodeScalar(ctx context.Context, reg *Registry, rep Reporter, name string, v any) (any, error) {
	switch name {
	case "String":
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, typeMismatch("String")
	case "Bool":
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, typeMismatch("Bool")
	case "Character":
		if s, ok := v.(string); ok && utf8.RuneCountInString(s) == 1 {
			return s, nil
		}
		return nil, typeMismatch("Character")
	case "Int", "Int8", "Int16", "Int32", "Int64":
		i, ok := asInt64(v)
		if ok {
			switch name {
			case "Int8":
				ok = intFits(i, 8)
			case "Int16":
				ok = intFits(i, 16)
			case "Int32":
				ok = intFits(i, 32)
			}
		}
		if !ok {
			return nil, typeMismatch(name)
		}
		return i, nil
	case "UInt", "UInt8", "UInt16", "UInt32", "UInt64":
		u, ok := asUint64(v)
		if ok {
			switch name {
			case "UInt8":
				ok = uintFits(u, 8)
			case "UInt16":
				ok = uintFits(u, 16)
			case "UInt32":
				ok = uintFits(u, 32)
			}
		}
		if !ok {
			return nil, typeMismatch(name)
		}
		return u, nil
	case "Float", "Double":
		f, ok := asFloat64(v)
		if !ok {
			return nil, typeMismatch(name)
		}
		return f, nil
	}
	if s, ok := reg.Lookup(name); ok {
		if rep != nil {
			return s.DecodeValueWithReporter(ctx, v, rep)
		}
		return s.DecodeValue(ctx, v)
	}
	return v, nil
}

// decodeType decodes a wire value as the descriptor's shape, strictly: any
// failure surfaces as an error. Recovery (dropping elements, nil-ing
// optionals, fallbacks) is the field synthesizer's job, one level up.
func decodeType(ctx context.Context, reg *Registry, rep Reporter, t TypeDescriptor, v any) (any, error) {
	switch t.Kind {
	case KindOptional:
		if v == nil {
			return nil, nil
		}
		return decodeType(ctx, reg, rep, *t.Elem, v)
	case KindArray:
		arr, ok := v.([]any)
		if !ok {
			return nil, typeMismatch(t.String())
		}
		out := make([]any, 0, len(arr))
		for i, raw := range arr {
			ev, err := decodeType(ctx, reg, rep, *t.Elem, raw)
			if err != nil {
				return nil, rebaseIssues("/"+strconv.Itoa(i), err)
			}
			out = append(out, ev)
		}
		return out, nil
	case KindSet:
		arr, ok := v.([]any)
		if !ok {
			return nil, typeMismatch(t.String())
		}
		set := mapset.New[any]()
		for i, raw := range arr {
			ev, err := decodeType(ctx, reg, rep, *t.Elem, raw)
			if err != nil {
				return nil, rebaseIssues("/"+strconv.Itoa(i), err)
			}
			if !hashable(ev) {
				return nil, rebaseIssues("/"+strconv.Itoa(i), unhashableItem(t.Elem.String()))
			}
			set.Add(ev)
		}
		return set, nil
	case KindDictionary:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, typeMismatch(t.String())
		}
		out, put := newDictionary(*t.Key, len(m))
		for _, k := range sortedKeys(m) {
			dk, err := decodeKey(*t.Key, k)
			if err != nil {
				return nil, rebaseIssues("/"+k, err)
			}
			dv, err := decodeType(ctx, reg, rep, *t.Value, m[k])
			if err != nil {
				return nil, rebaseIssues("/"+k, err)
			}
			put(dk, dv)
		}
		return out, nil
	default:
		return decodeScalar(ctx, reg, rep, t.Name, v)
	}
}

// decodeKey decodes a wire object key (always a string) as the dictionary's
// declared key type.
func decodeKey(t TypeDescriptor, raw string) (any, error) {
	if t.Kind != KindScalar {
		return nil, typeMismatch(t.String())
	}
	switch t.Name {
	case "String":
		return raw, nil
	case "Character":
		if utf8.RuneCountInString(raw) == 1 {
			return raw, nil
		}
		return nil, typeMismatch("Character")
	case "Int", "Int8", "Int16", "Int32", "Int64":
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, typeMismatch(t.Name)
		}
		return i, nil
	case "UInt", "UInt8", "UInt16", "UInt32", "UInt64":
		u, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, typeMismatch(t.Name)
		}
		return u, nil
	case "Float", "Double":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, typeMismatch(t.Name)
		}
		return f, nil
	}
	// opaque key types keep their wire spelling
	return raw, nil
}

// newDictionary picks the result representation: map[string]any for String
// keys (the common case), map[any]any otherwise. put writes one entry.
func newDictionary(key TypeDescriptor, size int) (any, func(k, v any)) {
	if key.Kind == KindScalar && (key.Name == "String" || key.Name == "Character") {
		m := make(map[string]any, size)
		return m, func(k, v any) { m[k.(string)] = v }
	}
	m := make(map[any]any, size)
	return m, func(k, v any) { m[k] = v }
}

func sortedKeys(m map[string]any) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
