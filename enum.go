package safedecoding

import (
	"context"

	"github.com/renato-iar/safedecoding/i18n"
)

// EnumValue is the decoded form of a sum-type payload: the selected case name
// plus its decoded parameters (empty for parameterless cases).
type EnumValue struct {
	Case   string
	Params map[string]any
}

type enumCase struct {
	desc  CaseDescriptor
	key   string // override or literal case name
	raw   any    // normalized raw value (Natural strategy)
	procs []fieldProc
}

// EnumSchema is the synthesized decode (and encode) procedure for one sum
// type under a chosen case-discrimination strategy. It is immutable and safe
// for concurrent use.
type EnumSchema struct {
	name     string
	strategy Strategy
	rawKind  RawKind
	reg      *Registry
	rep      Reporter
	cases    []enumCase
	fallback *enumCase
	warnings Issues
}

// NewEnum synthesizes an EnumSchema. Multiple fallback cases, or a
// parameterized case under the Natural strategy, are hard build errors. A
// reporter bound under Natural with no fallback case can never fire; that is
// recorded as a non-fatal warning, retrievable via Warnings.
func NewEnum(name string, strategy Strategy, rawKind RawKind, cases []CaseDescriptor, opts ...SchemaOpt) (*EnumSchema, error) {
	opt := lastOpt(opts)
	normalized, fallbackAt, iss := normalizeCases(name, cases)
	fallbackName := ""
	if fallbackAt >= 0 {
		fallbackName = normalized[fallbackAt].Name
	}
	s := &EnumSchema{name: name, strategy: strategy, rawKind: rawKind, reg: opt.Registry, rep: opt.Reporter}
	for i, cs := range normalized {
		if strategy.Kind == StrategyNatural && len(cs.Params) > 0 {
			iss = AppendIssues(iss, Issue{
				Path:    "/" + cs.Name,
				Code:    CodeInvalidConfiguration,
				Message: i18n.T(CodeInvalidConfiguration, nil),
				Hint:    "natural strategy requires parameterless cases",
			})
			continue
		}
		ec := enumCase{desc: cs, key: caseKey(cs), raw: normalizeRaw(rawKind, cs, i)}
		for _, p := range cs.Params {
			nf, i2 := normalizeField(p)
			if len(i2) > 0 {
				iss = AppendIssues(iss, rebaseIssues("/"+cs.Name, i2)...)
				continue
			}
			ec.procs = append(ec.procs, synthesizeField(opt.Registry, name, nf))
		}
		s.cases = append(s.cases, ec)
	}
	// resolve the fallback pointer only after the slice stops growing
	for i := range s.cases {
		if s.cases[i].desc.Name == fallbackName && fallbackName != "" {
			s.fallback = &s.cases[i]
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	if strategy.Kind == StrategyNatural && opt.Reporter != nil && s.fallback == nil {
		s.warnings = AppendIssues(s.warnings, Issue{
			Path:    "/",
			Code:    CodeInvalidConfiguration,
			Message: i18n.T(CodeInvalidConfiguration, nil),
			Hint:    "reporter bound but no fallback case: nothing is ever reported",
		})
	}
	opt.Registry.Register(s)
	return s, nil
}

// MustEnum is like NewEnum but panics on configuration errors.
func MustEnum(name string, strategy Strategy, rawKind RawKind, cases []CaseDescriptor, opts ...SchemaOpt) *EnumSchema {
	s, err := NewEnum(name, strategy, rawKind, cases, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// normalizeRaw derives a case's raw value under the declared raw kind when
// none was given explicitly: the case name for strings, the declaration index
// for numeric kinds.
func normalizeRaw(kind RawKind, cs CaseDescriptor, index int) any {
	if cs.Raw != nil {
		switch kind {
		case RawInt:
			if i, ok := asInt64(cs.Raw); ok {
				return i
			}
		case RawUInt:
			if u, ok := asUint64(cs.Raw); ok {
				return u
			}
		case RawFloat:
			if f, ok := asFloat64(cs.Raw); ok {
				return f
			}
		}
		return cs.Raw
	}
	switch kind {
	case RawString, RawCharacter:
		return cs.Name
	case RawInt:
		return int64(index)
	case RawUInt:
		return uint64(index)
	case RawFloat:
		return float64(index)
	default:
		return nil
	}
}

// Name returns the declared type name.
func (s *EnumSchema) Name() string { return s.name }

// Warnings returns non-fatal configuration diagnostics recorded at build
// time.
func (s *EnumSchema) Warnings() Issues { return s.warnings }

// Keys returns the case-key enumeration in declaration order.
func (s *EnumSchema) Keys() []string {
	out := make([]string, 0, len(s.cases))
	for _, ec := range s.cases {
		out = append(out, ec.key)
	}
	return out
}

// Decode decodes a wire value into an EnumValue using the reporter bound at
// build time (if any).
func (s *EnumSchema) Decode(ctx context.Context, v any) (EnumValue, error) {
	return s.decode(ctx, v, s.rep)
}

// DecodeWithReporter decodes with an explicit reporter, overriding any bound
// at build time.
func (s *EnumSchema) DecodeWithReporter(ctx context.Context, v any, rep Reporter) (EnumValue, error) {
	return s.decode(ctx, v, rep)
}

func (s *EnumSchema) decode(ctx context.Context, v any, rep Reporter) (EnumValue, error) {
	var ev EnumValue
	var err error
	switch s.strategy.Kind {
	case StrategyTagProperty:
		ev, err = s.decodeTagged(ctx, v, rep)
	case StrategyNatural:
		ev, err = s.decodeNatural(ctx, v)
	default:
		ev, err = s.decodeNested(ctx, v, rep)
	}
	if err == nil {
		return ev, nil
	}
	// a configured fallback case intercepts any failure in the whole
	// process and substitutes its value; the original error is reported
	// once, coarsely
	if s.fallback != nil {
		if rep != nil {
			rep.ReportCase(err, s.name)
		}
		return EnumValue{Case: s.fallback.desc.Name, Params: map[string]any{}}, nil
	}
	return EnumValue{}, err
}

// decodeNested selects the case by a single wrapping key. Zero or multiple
// matching keys is a hard decode error.
func (s *EnumSchema) decodeNested(ctx context.Context, v any, rep Reporter) (EnumValue, error) {
	c, ok := AsContainer(v)
	if !ok {
		return EnumValue{}, typeMismatch(s.name)
	}
	var found *enumCase
	matches := 0
	for i := range s.cases {
		if c.Has(s.cases[i].key) {
			found = &s.cases[i]
			matches++
		}
	}
	if matches != 1 {
		return EnumValue{}, Issues{Issue{
			Path:    "/",
			Code:    CodeAmbiguousVariant,
			Message: i18n.T(CodeAmbiguousVariant, nil),
			Hint:    "exactly one case key must be present",
			Params:  map[string]any{"matches": matches},
		}}
	}
	params := map[string]any{}
	if len(found.procs) > 0 {
		raw, _ := c.Get(found.key)
		nested, ok := AsContainer(raw)
		if !ok {
			return EnumValue{}, rebaseIssues("/"+found.key, typeMismatch("object"))
		}
		for _, fp := range found.procs {
			if err := fp.run(ctx, nested, rep, params); err != nil {
				return EnumValue{}, rebaseIssues("/"+found.key, err)
			}
		}
	}
	return EnumValue{Case: found.desc.Name, Params: params}, nil
}

// decodeTagged selects the case by a sibling tag property; parameters are
// decoded from the same top-level container, not re-nested under the tag.
func (s *EnumSchema) decodeTagged(ctx context.Context, v any, rep Reporter) (EnumValue, error) {
	c, ok := AsContainer(v)
	if !ok {
		return EnumValue{}, typeMismatch(s.name)
	}
	raw, ok := c.Get(s.strategy.TagKey)
	if !ok {
		return EnumValue{}, rebaseIssues("/"+s.strategy.TagKey, missingKey(s.strategy.TagKey))
	}
	tag, ok := raw.(string)
	if !ok {
		return EnumValue{}, rebaseIssues("/"+s.strategy.TagKey, typeMismatch("String"))
	}
	var found *enumCase
	for i := range s.cases {
		if s.cases[i].key == tag {
			found = &s.cases[i]
			break
		}
	}
	if found == nil {
		return EnumValue{}, Issues{Issue{
			Path:    "/" + s.strategy.TagKey,
			Code:    CodeNoMatchingCase,
			Message: i18n.T(CodeNoMatchingCase, nil),
			Hint:    "unknown case: '" + tag + "'",
		}}
	}
	params := map[string]any{}
	for _, fp := range found.procs {
		if err := fp.run(ctx, c, rep, params); err != nil {
			return EnumValue{}, err
		}
	}
	return EnumValue{Case: found.desc.Name, Params: params}, nil
}

// decodeNatural matches a single scalar value. With a declared raw backing
// value, overridden cases match first by exact string equality against the
// override; the rest match by decoding the raw-value type and comparing raw
// values. Without one, matching is by case name or override, in declaration
// order, first match wins.
func (s *EnumSchema) decodeNatural(ctx context.Context, v any) (EnumValue, error) {
	if s.rawKind != RawNone {
		if str, ok := v.(string); ok {
			for i := range s.cases {
				if s.cases[i].desc.NameOverride != "" && s.cases[i].desc.NameOverride == str {
					return EnumValue{Case: s.cases[i].desc.Name, Params: map[string]any{}}, nil
				}
			}
		}
		rv, err := s.decodeRawValue(ctx, v)
		if err == nil {
			for i := range s.cases {
				if s.cases[i].desc.NameOverride != "" {
					continue
				}
				if s.cases[i].raw == rv {
					return EnumValue{Case: s.cases[i].desc.Name, Params: map[string]any{}}, nil
				}
			}
		}
		return EnumValue{}, s.noMatchingCase()
	}
	str, ok := v.(string)
	if !ok {
		return EnumValue{}, typeMismatch("String")
	}
	for i := range s.cases {
		if s.cases[i].key == str {
			return EnumValue{Case: s.cases[i].desc.Name, Params: map[string]any{}}, nil
		}
	}
	return EnumValue{}, s.noMatchingCase()
}

func (s *EnumSchema) decodeRawValue(ctx context.Context, v any) (any, error) {
	switch s.rawKind {
	case RawString:
		return decodeScalar(ctx, nil, nil, "String", v)
	case RawCharacter:
		return decodeScalar(ctx, nil, nil, "Character", v)
	case RawInt:
		return decodeScalar(ctx, nil, nil, "Int", v)
	case RawUInt:
		return decodeScalar(ctx, nil, nil, "UInt", v)
	case RawFloat:
		return decodeScalar(ctx, nil, nil, "Double", v)
	default:
		return nil, typeMismatch(s.name)
	}
}

func (s *EnumSchema) noMatchingCase() Issues {
	return Issues{Issue{Path: "/", Code: CodeNoMatchingCase, Message: i18n.T(CodeNoMatchingCase, nil), Params: map[string]any{"type": s.name}}}
}

// Encode re-serializes an EnumValue into wire shape under the schema's
// strategy. Encoding is verbatim; it is not subject to recovery.
func (s *EnumSchema) Encode(ctx context.Context, v EnumValue) (any, error) {
	var found *enumCase
	for i := range s.cases {
		if s.cases[i].desc.Name == v.Case {
			found = &s.cases[i]
			break
		}
	}
	if found == nil {
		return nil, s.noMatchingCase()
	}
	switch s.strategy.Kind {
	case StrategyNatural:
		if found.desc.NameOverride != "" {
			return found.desc.NameOverride, nil
		}
		if s.rawKind != RawNone {
			return found.raw, nil
		}
		return found.desc.Name, nil
	case StrategyTagProperty:
		out := map[string]any{s.strategy.TagKey: found.key}
		if err := s.encodeParams(ctx, found, v.Params, out); err != nil {
			return nil, err
		}
		return out, nil
	default:
		params := map[string]any{}
		if err := s.encodeParams(ctx, found, v.Params, params); err != nil {
			return nil, err
		}
		return map[string]any{found.key: params}, nil
	}
}

func (s *EnumSchema) encodeParams(ctx context.Context, ec *enumCase, params map[string]any, out map[string]any) error {
	for _, fp := range ec.procs {
		ev, err := encodeTypedValue(ctx, s.reg, fp.desc.Type, params[fp.name])
		if err != nil {
			return rebaseIssues("/"+fp.key, err)
		}
		out[fp.key] = ev
	}
	return nil
}

// ---- TypeSchema (registry recursion) ----

// DecodeValue implements TypeSchema.
func (s *EnumSchema) DecodeValue(ctx context.Context, v any) (any, error) {
	return s.decode(ctx, v, s.rep)
}

// DecodeValueWithReporter implements TypeSchema.
func (s *EnumSchema) DecodeValueWithReporter(ctx context.Context, v any, rep Reporter) (any, error) {
	return s.decode(ctx, v, rep)
}

// EncodeValue implements TypeSchema.
func (s *EnumSchema) EncodeValue(ctx context.Context, v any) (any, error) {
	ev, ok := v.(EnumValue)
	if !ok {
		return nil, typeMismatch(s.name)
	}
	return s.Encode(ctx, ev)
}
