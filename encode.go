package safedecoding

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/creachadair/mds/mapset"
)

// encodeTypedValue writes a decoded value back into wire shape. Encoding is a
// straight re-serialization: no retries, no recovery, no reporting.
func encodeTypedValue(ctx context.Context, reg *Registry, t TypeDescriptor, v any) (any, error) {
	switch t.Kind {
	case KindOptional:
		if v == nil {
			return nil, nil
		}
		return encodeTypedValue(ctx, reg, *t.Elem, v)
	case KindArray:
		arr, ok := v.([]any)
		if !ok {
			return nil, typeMismatch(t.String())
		}
		out := make([]any, 0, len(arr))
		for i, ev := range arr {
			enc, err := encodeTypedValue(ctx, reg, *t.Elem, ev)
			if err != nil {
				return nil, rebaseIssues("/"+strconv.Itoa(i), err)
			}
			out = append(out, enc)
		}
		return out, nil
	case KindSet:
		set, ok := v.(mapset.Set[any])
		if !ok {
			return nil, typeMismatch(t.String())
		}
		elems := make([]any, 0, set.Len())
		for ev := range set {
			elems = append(elems, ev)
		}
		// sets are unordered; sort the rendered spellings so encode output
		// is deterministic
		sort.Slice(elems, func(i, j int) bool {
			return fmt.Sprint(elems[i]) < fmt.Sprint(elems[j])
		})
		out := make([]any, 0, len(elems))
		for _, ev := range elems {
			enc, err := encodeTypedValue(ctx, reg, *t.Elem, ev)
			if err != nil {
				return nil, err
			}
			out = append(out, enc)
		}
		return out, nil
	case KindDictionary:
		entries, err := dictionaryEntries(v)
		if err != nil {
			return nil, typeMismatch(t.String())
		}
		out := make(map[string]any, len(entries))
		for _, e := range entries {
			enc, err := encodeTypedValue(ctx, reg, *t.Value, e.value)
			if err != nil {
				return nil, rebaseIssues("/"+e.key, err)
			}
			out[e.key] = enc
		}
		return out, nil
	default:
		if s, ok := reg.Lookup(t.Name); ok {
			return s.EncodeValue(ctx, v)
		}
		return v, nil
	}
}

type dictEntry struct {
	key   string
	value any
}

func dictionaryEntries(v any) ([]dictEntry, error) {
	switch m := v.(type) {
	case map[string]any:
		out := make([]dictEntry, 0, len(m))
		for _, k := range sortedKeys(m) {
			out = append(out, dictEntry{key: k, value: m[k]})
		}
		return out, nil
	case map[any]any:
		out := make([]dictEntry, 0, len(m))
		for k, val := range m {
			out = append(out, dictEntry{key: encodeKey(k), value: val})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
		return out, nil
	default:
		return nil, typeMismatch("dictionary")
	}
}

// encodeKey renders a decoded dictionary key back into its wire spelling.
func encodeKey(k any) string {
	switch t := k.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
