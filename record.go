package safedecoding

import (
	"context"

	"github.com/renato-iar/safedecoding/i18n"
)

// SchemaOpt bundles build-time configuration for synthesized schemas. When
// several are passed the last one wins, matching the option convention used
// by the decode entry points.
type SchemaOpt struct {
	// Registry resolves nested declared type names and receives the built
	// schema (unless the name is already declared).
	Registry *Registry
	// Reporter binds a reporter at registration time. A per-call reporter
	// passed to DecodeWithReporter takes precedence.
	Reporter Reporter
}

func lastOpt(opts []SchemaOpt) SchemaOpt {
	if len(opts) == 0 {
		return SchemaOpt{}
	}
	return opts[len(opts)-1]
}

// RecordSchema is the synthesized decode (and encode) procedure for one
// record type: a field-key enumeration plus one decode procedure per field in
// declaration order. It is immutable and safe for concurrent use.
type RecordSchema struct {
	name   string
	reg    *Registry
	rep    Reporter
	fields []fieldProc
	keys   []string
}

// NewRecord synthesizes a RecordSchema from field descriptors. Computed
// fields (no backing storage or a default initializer) are excluded entirely;
// ignored fields keep their key in the enumeration but decode verbatim.
// Configuration violations are hard build errors.
func NewRecord(name string, fields []FieldDescriptor, opts ...SchemaOpt) (*RecordSchema, error) {
	opt := lastOpt(opts)
	s := &RecordSchema{name: name, reg: opt.Registry, rep: opt.Reporter}
	var iss Issues
	for _, f := range fields {
		if f.Computed {
			continue
		}
		nf, i2 := normalizeField(f)
		if len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			continue
		}
		s.fields = append(s.fields, synthesizeField(opt.Registry, name, nf))
		s.keys = append(s.keys, nf.key)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	// declare in the registry only when not already declared
	opt.Registry.Register(s)
	return s, nil
}

// MustRecord is like NewRecord but panics on configuration errors.
func MustRecord(name string, fields []FieldDescriptor, opts ...SchemaOpt) *RecordSchema {
	s, err := NewRecord(name, fields, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the declared type name.
func (s *RecordSchema) Name() string { return s.name }

// Keys returns the field-key enumeration in declaration order.
func (s *RecordSchema) Keys() []string { return append([]string(nil), s.keys...) }

// Decode decodes a wire value into a map keyed by declared field names,
// using the reporter bound at build time (if any).
func (s *RecordSchema) Decode(ctx context.Context, v any) (map[string]any, error) {
	return s.decode(ctx, v, s.rep)
}

// DecodeWithReporter decodes with an explicit reporter, overriding any bound
// at build time.
func (s *RecordSchema) DecodeWithReporter(ctx context.Context, v any, rep Reporter) (map[string]any, error) {
	return s.decode(ctx, v, rep)
}

func (s *RecordSchema) decode(ctx context.Context, v any, rep Reporter) (map[string]any, error) {
	c, ok := AsContainer(v)
	if !ok {
		return nil, Issues{Issue{Path: "/", Code: CodeTypeMismatch, Message: i18n.T(CodeTypeMismatch, nil), Hint: "expected object"}}
	}
	out := make(map[string]any, len(s.fields))
	var iss Issues
	for _, fp := range s.fields {
		if err := fp.run(ctx, c, rep, out); err != nil {
			iss = AppendIssues(iss, issuesFromErr("/"+fp.key, err)...)
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// Encode re-serializes a decoded map into wire shape. Every field is written
// verbatim under its wire key; encode is not subject to recovery.
func (s *RecordSchema) Encode(ctx context.Context, m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s.fields))
	for _, fp := range s.fields {
		ev, err := encodeTypedValue(ctx, s.reg, fp.desc.Type, m[fp.name])
		if err != nil {
			return nil, rebaseIssues("/"+fp.key, err)
		}
		out[fp.key] = ev
	}
	return out, nil
}

// ---- TypeSchema (registry recursion) ----

// DecodeValue implements TypeSchema.
func (s *RecordSchema) DecodeValue(ctx context.Context, v any) (any, error) {
	return s.decode(ctx, v, s.rep)
}

// DecodeValueWithReporter implements TypeSchema.
func (s *RecordSchema) DecodeValueWithReporter(ctx context.Context, v any, rep Reporter) (any, error) {
	return s.decode(ctx, v, rep)
}

// EncodeValue implements TypeSchema.
func (s *RecordSchema) EncodeValue(ctx context.Context, v any) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, typeMismatch(s.name)
	}
	return s.Encode(ctx, m)
}
