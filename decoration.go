package safedecoding

import (
	"strconv"

	"github.com/renato-iar/safedecoding/i18n"
)

// normalizedField is a FieldDescriptor with its decorations resolved: the
// effective wire key is computed and local invariants are checked.
type normalizedField struct {
	FieldDescriptor
	key string
}

// normalizeField resolves a field's decorations. The rename literal (with its
// optional casing transform) only changes the lookup key; it never interacts
// with the decode decision table.
func normalizeField(f FieldDescriptor) (normalizedField, Issues) {
	var iss Issues
	key := f.Name
	if f.Rename != "" {
		key = applyCasing(f.Rename, f.Casing)
	}
	if f.Condition != nil && f.Type.Kind != KindOptional {
		iss = AppendIssues(iss, Issue{
			Path:    "/" + f.Name,
			Code:    CodeInvalidConfiguration,
			Message: i18n.T(CodeInvalidConfiguration, nil),
			Hint:    "conditional decoration requires an optional type",
		})
	}
	if elem, bad := unhashableSetElem(f.Type); bad {
		iss = AppendIssues(iss, Issue{
			Path:    "/" + f.Name,
			Code:    CodeInvalidConfiguration,
			Message: i18n.T(CodeInvalidConfiguration, nil),
			Hint:    "set elements must be hashable, got " + elem.String(),
		})
	}
	return normalizedField{FieldDescriptor: f, key: key}, iss
}

// unhashableSetElem finds a Set node, anywhere in the type, whose element
// shape decodes to a Go slice or map and therefore cannot be stored in a
// set. Scalar element names are not checked here: a name registered as a
// record or enum is only known at decode time and is guarded there.
func unhashableSetElem(t TypeDescriptor) (TypeDescriptor, bool) {
	switch t.Kind {
	case KindSet:
		e := *t.Elem
		for e.Kind == KindOptional {
			e = *e.Elem
		}
		if e.Kind != KindScalar {
			return *t.Elem, true
		}
	case KindOptional, KindArray:
		return unhashableSetElem(*t.Elem)
	case KindDictionary:
		if e, bad := unhashableSetElem(*t.Key); bad {
			return e, true
		}
		return unhashableSetElem(*t.Value)
	}
	return TypeDescriptor{}, false
}

// normalizeCases synthesizes positional parameter names, resolves each case's
// discrimination key, and enforces the at-most-one-fallback-case invariant.
// Violations are hard synthesis errors, never deferred to decode time.
func normalizeCases(owner string, cases []CaseDescriptor) ([]CaseDescriptor, int, Issues) {
	var iss Issues
	out := make([]CaseDescriptor, len(cases))
	fallbackAt := -1
	for i, cs := range cases {
		// descriptors are caller-owned input: rename on a copy
		ps := make([]FieldDescriptor, len(cs.Params))
		copy(ps, cs.Params)
		for j := range ps {
			if ps[j].Name == "" {
				ps[j].Name = "_" + strconv.Itoa(j)
			}
		}
		cs.Params = ps
		if cs.IsFallback {
			if fallbackAt >= 0 {
				iss = AppendIssues(iss, Issue{
					Path:    "/" + cs.Name,
					Code:    CodeInvalidConfiguration,
					Message: i18n.T(CodeInvalidConfiguration, nil),
					Hint:    "at most one fallback case per sum type (" + owner + ")",
				})
			} else {
				fallbackAt = i
			}
		}
		out[i] = cs
	}
	return out, fallbackAt, iss
}

// caseKey returns the string used to discriminate a case: the literal
// override when present, the case identifier otherwise.
func caseKey(cs CaseDescriptor) string {
	if cs.NameOverride != "" {
		return cs.NameOverride
	}
	return cs.Name
}
