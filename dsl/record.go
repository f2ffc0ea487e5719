package dsl

import (
	"context"

	safedecoding "github.com/renato-iar/safedecoding"
)

type recordBuilder struct {
	name   string
	fields []safedecoding.FieldDescriptor
	rep    safedecoding.Reporter
}

type fieldStep struct {
	b   *recordBuilder
	idx int
}

// Record creates a new record builder for the named type.
func Record(name string) *recordBuilder {
	return &recordBuilder{name: name}
}

// Field declares a field. typeExpr is classified structurally; both sugared
// ("Int?", "[Int]", "[String: Int]") and generic ("Optional<Int>") spellings
// are accepted.
func (b *recordBuilder) Field(name, typeExpr string) *fieldStep {
	b.fields = append(b.fields, safedecoding.FieldDescriptor{
		Name: name,
		Type: safedecoding.Classify(typeExpr),
	})
	return &fieldStep{b: b, idx: len(b.fields) - 1}
}

// Reporter binds a reporter at registration time. Per-call reporters passed
// to DecodeWithReporter take precedence.
func (b *recordBuilder) Reporter(rep safedecoding.Reporter) *recordBuilder {
	b.rep = rep
	return b
}

// Build synthesizes the schema and declares it in reg (which may be nil for
// standalone schemas with no nested declared types).
func (b *recordBuilder) Build(reg *safedecoding.Registry) (*safedecoding.RecordSchema, error) {
	return safedecoding.NewRecord(b.name, b.fields, safedecoding.SchemaOpt{Registry: reg, Reporter: b.rep})
}

// MustBuild is like Build but panics on configuration errors.
func (b *recordBuilder) MustBuild(reg *safedecoding.Registry) *safedecoding.RecordSchema {
	s, err := b.Build(reg)
	if err != nil {
		panic(err)
	}
	return s
}

func (f *fieldStep) desc() *safedecoding.FieldDescriptor { return &f.b.fields[f.idx] }

// Ignore requests a verbatim decode for the current field: failures
// propagate instead of being recovered.
func (f *fieldStep) Ignore() *fieldStep {
	f.desc().Ignore = true
	return f
}

// Retry appends an alternate decode attempt. Retries run in declaration
// order; the mapper turns a decoded alternate value into the target type,
// returning false when it does not apply.
func (f *fieldStep) Retry(altExpr string, mapper func(any) (any, bool)) *fieldStep {
	f.desc().Retries = append(f.desc().Retries, safedecoding.Retry{
		Alt:    safedecoding.Classify(altExpr),
		Mapper: mapper,
	})
	return f
}

// RetryWith appends a prebuilt Retry (see the codec package).
func (f *fieldStep) RetryWith(r safedecoding.Retry) *fieldStep {
	f.desc().Retries = append(f.desc().Retries, r)
	return f
}

// Fallback sets the value used when the primary decode and every retry
// failed.
func (f *fieldStep) Fallback(v any) *fieldStep {
	f.desc().Fallback = func(context.Context) any { return v }
	return f
}

// FallbackFunc is Fallback with a computed expression.
func (f *fieldStep) FallbackFunc(fn func(ctx context.Context) any) *fieldStep {
	f.desc().Fallback = fn
	return f
}

// Rename overrides the wire key with a literal.
func (f *fieldStep) Rename(lit string) *fieldStep {
	f.desc().Rename = lit
	f.desc().Casing = safedecoding.CasingNone
	return f
}

// RenameCased overrides the wire key with a literal transformed by the given
// casing strategy.
func (f *fieldStep) RenameCased(lit string, c safedecoding.Casing) *fieldStep {
	f.desc().Rename = lit
	f.desc().Casing = c
	return f
}

// When gates the whole field on a condition. Only meaningful on Optional
// fields: when false the field is nil without attempting any decode.
func (f *fieldStep) When(cond func(ctx context.Context) bool) *fieldStep {
	f.desc().Condition = cond
	return f
}

// Computed marks the field as having no backing storage (or a default
// initializer); it is excluded from decode synthesis entirely.
func (f *fieldStep) Computed() *fieldStep {
	f.desc().Computed = true
	return f
}

// Field starts the next field, keeping the fluent chain going.
func (f *fieldStep) Field(name, typeExpr string) *fieldStep { return f.b.Field(name, typeExpr) }

// Reporter forwards to the builder.
func (f *fieldStep) Reporter(rep safedecoding.Reporter) *recordBuilder { return f.b.Reporter(rep) }

// Build forwards to the builder.
func (f *fieldStep) Build(reg *safedecoding.Registry) (*safedecoding.RecordSchema, error) {
	return f.b.Build(reg)
}

// MustBuild forwards to the builder.
func (f *fieldStep) MustBuild(reg *safedecoding.Registry) *safedecoding.RecordSchema {
	return f.b.MustBuild(reg)
}
