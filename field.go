package safedecoding

import (
	"context"
	"strconv"

	"github.com/creachadair/mds/mapset"
)

// fieldProc is the synthesized decode procedure for a single field or case
// parameter. run reads from the container and writes the decoded value under
// the declared field name; it returns an error only when the decision table
// says the failure propagates.
type fieldProc struct {
	name string // declared name: the output key
	key  string // wire key after rename resolution
	desc FieldDescriptor

	run func(ctx context.Context, c Container, rep Reporter, out map[string]any) error
}

// synthesizeField maps one normalized field to its decode procedure. The
// decision table is keyed on the field's classified shape and decorations,
// in priority order: ignored, Optional, Array, Set, Dictionary, scalar.
func synthesizeField(reg *Registry, owner string, nf normalizedField) fieldProc {
	p := fieldProc{name: nf.Name, key: nf.key, desc: nf.FieldDescriptor}
	switch {
	case nf.Ignore:
		p.run = synthVerbatim(reg, nf)
	case nf.Type.Kind == KindOptional:
		p.run = synthOptional(reg, owner, nf)
	case nf.Type.Kind == KindArray:
		p.run = synthArray(reg, owner, nf)
	case nf.Type.Kind == KindSet:
		p.run = synthSet(reg, owner, nf)
	case nf.Type.Kind == KindDictionary:
		p.run = synthDictionary(reg, owner, nf)
	default:
		p.run = synthScalar(reg, owner, nf)
	}
	return p
}

// synthVerbatim decodes the field exactly once with no recovery. Failure,
// including an absent key, fails the enclosing decode.
func synthVerbatim(reg *Registry, nf normalizedField) func(context.Context, Container, Reporter, map[string]any) error {
	key, t := nf.key, nf.Type
	return func(ctx context.Context, c Container, rep Reporter, out map[string]any) error {
		v, ok := c.Get(key)
		if !ok {
			return rebaseIssues("/"+key, missingKey(key))
		}
		dv, err := decodeType(ctx, reg, rep, t, v)
		if err != nil {
			return rebaseIssues("/"+key, err)
		}
		out[nf.Name] = dv
		return nil
	}
}

// attemptPrimary runs the presence-checked primary decode for a field.
func attemptPrimary(ctx context.Context, reg *Registry, rep Reporter, c Container, key string, t TypeDescriptor) (any, error) {
	v, ok := c.Get(key)
	if !ok {
		return nil, missingKey(key)
	}
	return decodeType(ctx, reg, rep, t, v)
}

// attemptRetries walks the retry chain in declaration order, short-circuiting
// on the first alternate that decodes and maps to a usable value.
func attemptRetries(ctx context.Context, reg *Registry, rep Reporter, c Container, key string, retries []Retry) (any, bool) {
	v, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	for _, rt := range retries {
		alt, err := decodeType(ctx, reg, rep, rt.Alt, v)
		if err != nil {
			continue
		}
		if mv, ok := rt.Mapper(alt); ok {
			return mv, true
		}
	}
	return nil, false
}

func synthOptional(reg *Registry, owner string, nf normalizedField) func(context.Context, Container, Reporter, map[string]any) error {
	key := nf.key
	elem := *nf.Type.Elem
	desc := nf.FieldDescriptor
	fieldType := nf.Type.String()
	return func(ctx context.Context, c Container, rep Reporter, out map[string]any) error {
		if desc.Condition != nil && !desc.Condition(ctx) {
			out[nf.Name] = nil
			return nil
		}
		v, ok := c.Get(key)
		if ok && v == nil {
			// explicit null is a successful nil, not a recovery
			out[nf.Name] = nil
			return nil
		}
		dv, err := attemptPrimary(ctx, reg, rep, c, key, elem)
		if err == nil {
			out[nf.Name] = dv
			return nil
		}
		if mv, recovered := attemptRetries(ctx, reg, rep, c, key, desc.Retries); recovered {
			out[nf.Name] = mv
			return nil
		}
		if desc.Fallback != nil {
			out[nf.Name] = desc.Fallback(ctx)
		} else {
			out[nf.Name] = nil
		}
		if rep != nil {
			rep.ReportField(err, nf.Name, fieldType, owner)
		}
		return nil
	}
}

func synthArray(reg *Registry, owner string, nf normalizedField) func(context.Context, Container, Reporter, map[string]any) error {
	key := nf.key
	elem := *nf.Type.Elem
	fieldType := nf.Type.String()
	elemType := elem.String()
	return func(ctx context.Context, c Container, rep Reporter, out map[string]any) error {
		v, ok := c.Get(key)
		arr, isArr := v.([]any)
		if !ok || !isArr {
			out[nf.Name] = []any{}
			if rep != nil {
				err := error(missingKey(key))
				if ok {
					err = typeMismatch(fieldType)
				}
				rep.ReportField(err, nf.Name, fieldType, owner)
			}
			return nil
		}
		items := make([]any, 0, len(arr))
		for i, raw := range arr {
			res := capture(func() (any, error) { return decodeType(ctx, reg, rep, elem, raw) })
			if res.Ok() {
				items = append(items, res.Value())
				continue
			}
			if rep != nil {
				rep.ReportItem(wrapRecovered(CodeItemDecode, "/"+strconv.Itoa(i), res.Err()), elemType, i, nf.Name, owner)
			}
		}
		out[nf.Name] = items
		return nil
	}
}

func synthSet(reg *Registry, owner string, nf normalizedField) func(context.Context, Container, Reporter, map[string]any) error {
	key := nf.key
	elem := *nf.Type.Elem
	fieldType := nf.Type.String()
	elemType := elem.String()
	return func(ctx context.Context, c Container, rep Reporter, out map[string]any) error {
		v, ok := c.Get(key)
		arr, isArr := v.([]any)
		if !ok || !isArr {
			out[nf.Name] = mapset.New[any]()
			if rep != nil {
				err := error(missingKey(key))
				if ok {
					err = typeMismatch(fieldType)
				}
				rep.ReportField(err, nf.Name, fieldType, owner)
			}
			return nil
		}
		set := mapset.New[any]()
		for _, raw := range arr {
			res := capture(func() (any, error) { return decodeType(ctx, reg, rep, elem, raw) })
			if res.Ok() && hashable(res.Value()) {
				// duplicate decoded values silently collapse
				set.Add(res.Value())
				continue
			}
			if rep != nil {
				var err error = unhashableItem(elemType)
				if res.Err() != nil {
					err = wrapRecovered(CodeItemDecode, "/", res.Err())
				}
				rep.ReportSetItem(err, elemType, nf.Name, owner)
			}
		}
		out[nf.Name] = set
		return nil
	}
}

func synthDictionary(reg *Registry, owner string, nf normalizedField) func(context.Context, Container, Reporter, map[string]any) error {
	key := nf.key
	kt, vt := *nf.Type.Key, *nf.Type.Value
	fieldType := nf.Type.String()
	valueType := vt.String()
	return func(ctx context.Context, c Container, rep Reporter, out map[string]any) error {
		wholeField := func(err error) {
			empty, _ := newDictionary(kt, 0)
			out[nf.Name] = empty
			if rep != nil {
				rep.ReportField(err, nf.Name, fieldType, owner)
			}
		}
		v, ok := c.Get(key)
		if !ok {
			wholeField(missingKey(key))
			return nil
		}
		m, isMap := v.(map[string]any)
		if !isMap {
			wholeField(typeMismatch(fieldType))
			return nil
		}
		dict, put := newDictionary(kt, len(m))
		for _, wk := range sortedKeys(m) {
			dk, err := decodeKey(kt, wk)
			if err != nil {
				// keys are never individually recovered: a bad key voids
				// the whole dictionary
				wholeField(rebaseIssues("/"+wk, err))
				return nil
			}
			res := capture(func() (any, error) { return decodeType(ctx, reg, rep, vt, m[wk]) })
			if res.Ok() {
				put(dk, res.Value())
				continue
			}
			if rep != nil {
				rep.ReportEntry(wrapRecovered(CodeValueDecode, "/"+wk, res.Err()), valueType, dk, nf.Name, owner)
			}
		}
		out[nf.Name] = dict
		return nil
	}
}

// synthScalar handles the plain-scalar path, including the shared
// retry/fallback chain for any non-optional, non-collection shape.
func synthScalar(reg *Registry, owner string, nf normalizedField) func(context.Context, Container, Reporter, map[string]any) error {
	key := nf.key
	t := nf.Type
	desc := nf.FieldDescriptor
	fieldType := t.String()
	return func(ctx context.Context, c Container, rep Reporter, out map[string]any) error {
		dv, err := attemptPrimary(ctx, reg, rep, c, key, t)
		if err == nil {
			out[nf.Name] = dv
			return nil
		}
		if mv, recovered := attemptRetries(ctx, reg, rep, c, key, desc.Retries); recovered {
			out[nf.Name] = mv
			return nil
		}
		if desc.Fallback != nil {
			out[nf.Name] = desc.Fallback(ctx)
			if rep != nil {
				rep.ReportField(err, nf.Name, fieldType, owner)
			}
			return nil
		}
		if rep != nil && len(desc.Retries) > 0 {
			rep.ReportField(err, nf.Name, fieldType, owner)
		}
		return rebaseIssues("/"+key, err)
	}
}
