package dsl

import (
	"context"
	"encoding/json"
	"reflect"
	"strconv"

	"github.com/creachadair/mds/mapset"

	safedecoding "github.com/renato-iar/safedecoding"
)

// Binder adapts a RecordSchema to a typed struct T using declared-name to
// struct-field resolution (free functions for Go version compatibility).
type Binder[T any] struct {
	inner      *safedecoding.RecordSchema
	t          reflect.Type
	fieldByKey map[string]int // declared field name -> struct field index
}

// Bind builds a typed binder over a built RecordSchema.
func Bind[T any](s *safedecoding.RecordSchema) (*Binder[T], error) {
	var t T
	rt := reflect.TypeOf(t)
	if rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, safedecoding.Issues{safedecoding.Issue{Path: "/", Code: safedecoding.CodeInvalidConfiguration, Message: "Bind[T] requires struct T"}}
	}
	fm := make(map[string]int)
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := safedecoding.ResolveStructKey(sf)
		if name == "-" || name == "" {
			continue
		}
		fm[name] = i
	}
	return &Binder[T]{inner: s, t: rt, fieldByKey: fm}, nil
}

// MustBind is like Bind but panics on error.
func MustBind[T any](s *safedecoding.RecordSchema) *Binder[T] {
	b, err := Bind[T](s)
	if err != nil {
		panic(err)
	}
	return b
}

// Decode decodes a wire value into T.
func (b *Binder[T]) Decode(ctx context.Context, v any) (T, error) {
	var zero T
	m, err := b.inner.Decode(ctx, v)
	if err != nil {
		return zero, err
	}
	return b.fill(m)
}

// DecodeWithReporter decodes with an explicit reporter.
func (b *Binder[T]) DecodeWithReporter(ctx context.Context, v any, rep safedecoding.Reporter) (T, error) {
	var zero T
	m, err := b.inner.DecodeWithReporter(ctx, v, rep)
	if err != nil {
		return zero, err
	}
	return b.fill(m)
}

// DecodeFrom materializes a Source and decodes it into T.
func (b *Binder[T]) DecodeFrom(ctx context.Context, src safedecoding.Source) (T, error) {
	var zero T
	v, err := src.Value()
	if err != nil {
		return zero, safedecoding.Issues{safedecoding.Issue{Path: "/", Code: safedecoding.CodeParseError, Message: err.Error(), Cause: err}}
	}
	return b.Decode(ctx, v)
}

func (b *Binder[T]) fill(m map[string]any) (T, error) {
	var zero T
	rv := reflect.New(b.t).Elem()
	for key, idx := range b.fieldByKey {
		val, ok := m[key]
		if !ok {
			continue
		}
		fv := rv.Field(idx)
		if !fv.CanSet() {
			continue
		}
		if err := assignValue(fv, val); err != nil {
			return zero, safedecoding.Issues{safedecoding.Issue{Path: "/" + key, Code: safedecoding.CodeTypeMismatch, Message: "field type mismatch", Cause: err}}
		}
	}
	if b.t == reflect.TypeOf(zero) {
		return rv.Interface().(T), nil
	}
	// T is a pointer type
	pv := reflect.New(b.t)
	pv.Elem().Set(rv)
	return pv.Interface().(T), nil
}

type bindError string

func (e bindError) Error() string { return string(e) }

// assignValue writes a decoded engine value into a struct field, converting
// between the engine's canonical representations (int64/uint64/float64,
// []any, map[string]any, mapset.Set[any]) and the field's declared type.
func assignValue(fv reflect.Value, val any) error {
	if val == nil {
		switch fv.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			fv.Set(reflect.Zero(fv.Type()))
			return nil
		default:
			// leave zero value for non-nillable fields
			return nil
		}
	}
	if n, ok := val.(json.Number); ok {
		// opaque passthrough numbers bind by parsing
		switch fv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			i, err := strconv.ParseInt(string(n), 10, 64)
			if err != nil {
				return err
			}
			fv.SetInt(i)
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			u, err := strconv.ParseUint(string(n), 10, 64)
			if err != nil {
				return err
			}
			fv.SetUint(u)
			return nil
		case reflect.Float32, reflect.Float64:
			f, err := strconv.ParseFloat(string(n), 64)
			if err != nil {
				return err
			}
			fv.SetFloat(f)
			return nil
		}
	}
	vv := reflect.ValueOf(val)
	if vv.Type().AssignableTo(fv.Type()) {
		fv.Set(vv)
		return nil
	}
	if convertibleKinds(vv.Kind(), fv.Kind()) && vv.Type().ConvertibleTo(fv.Type()) {
		fv.Set(vv.Convert(fv.Type()))
		return nil
	}
	switch fv.Kind() {
	case reflect.Pointer:
		pv := reflect.New(fv.Type().Elem())
		if err := assignValue(pv.Elem(), val); err != nil {
			return err
		}
		fv.Set(pv)
		return nil
	case reflect.Slice:
		elems, ok := sliceElems(val)
		if !ok {
			return bindError("expected sequence")
		}
		out := reflect.MakeSlice(fv.Type(), len(elems), len(elems))
		for i, ev := range elems {
			if err := assignValue(out.Index(i), ev); err != nil {
				return err
			}
		}
		fv.Set(out)
		return nil
	case reflect.Map:
		return assignMap(fv, val)
	case reflect.Struct:
		m, ok := val.(map[string]any)
		if !ok {
			return bindError("expected object")
		}
		return assignStruct(fv, m)
	}
	return bindError("cannot bind " + vv.Type().String() + " to " + fv.Type().String())
}

// convertibleKinds restricts reflect conversion to same-family kinds so an
// int64 never silently converts into a rune string.
func convertibleKinds(from, to reflect.Kind) bool {
	num := func(k reflect.Kind) bool {
		return k >= reflect.Int && k <= reflect.Float64
	}
	if num(from) && num(to) {
		return true
	}
	return from == reflect.String && to == reflect.String
}

func sliceElems(val any) ([]any, bool) {
	switch t := val.(type) {
	case []any:
		return t, true
	case mapset.Set[any]:
		out := make([]any, 0, t.Len())
		for ev := range t {
			out = append(out, ev)
		}
		return out, true
	}
	return nil, false
}

func assignMap(fv reflect.Value, val any) error {
	out := reflect.MakeMap(fv.Type())
	kt := fv.Type().Key()
	set := func(k, v any) error {
		kv := reflect.New(kt).Elem()
		if err := assignValue(kv, k); err != nil {
			return err
		}
		ev := reflect.New(fv.Type().Elem()).Elem()
		if err := assignValue(ev, v); err != nil {
			return err
		}
		out.SetMapIndex(kv, ev)
		return nil
	}
	switch t := val.(type) {
	case map[string]any:
		for k, v := range t {
			if err := set(k, v); err != nil {
				return err
			}
		}
	case map[any]any:
		for k, v := range t {
			if err := set(k, v); err != nil {
				return err
			}
		}
	case mapset.Set[any]:
		// deduplicated collection into a set-shaped map
		if fv.Type().Elem() != reflect.TypeOf(struct{}{}) {
			return bindError("expected map value struct{} for set binding")
		}
		for ev := range t {
			kv := reflect.New(kt).Elem()
			if err := assignValue(kv, ev); err != nil {
				return err
			}
			out.SetMapIndex(kv, reflect.ValueOf(struct{}{}))
		}
	default:
		return bindError("expected mapping")
	}
	fv.Set(out)
	return nil
}

func assignStruct(fv reflect.Value, m map[string]any) error {
	rt := fv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := safedecoding.ResolveStructKey(sf)
		if name == "-" || name == "" {
			continue
		}
		val, ok := m[name]
		if !ok {
			continue
		}
		if err := assignValue(fv.Field(i), val); err != nil {
			return err
		}
	}
	return nil
}
