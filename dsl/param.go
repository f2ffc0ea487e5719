package dsl

import (
	"context"

	safedecoding "github.com/renato-iar/safedecoding"
)

// ParamBuilder constructs one sum-type case parameter. Parameters carry the
// full field decoration vocabulary; their decode procedures are synthesized
// by the same engine that handles record fields.
type ParamBuilder struct {
	desc safedecoding.FieldDescriptor
}

// Param declares a named case parameter.
func Param(name, typeExpr string) *ParamBuilder {
	return &ParamBuilder{desc: safedecoding.FieldDescriptor{
		Name: name,
		Type: safedecoding.Classify(typeExpr),
	}}
}

// Positional declares an unnamed parameter; it receives a synthesized
// positional key ("_0", "_1", ...) from its declaration position.
func Positional(typeExpr string) *ParamBuilder {
	return &ParamBuilder{desc: safedecoding.FieldDescriptor{
		Type: safedecoding.Classify(typeExpr),
	}}
}

// Ignore requests a verbatim decode for this parameter.
func (p *ParamBuilder) Ignore() *ParamBuilder {
	p.desc.Ignore = true
	return p
}

// Retry appends an alternate decode attempt.
func (p *ParamBuilder) Retry(altExpr string, mapper func(any) (any, bool)) *ParamBuilder {
	p.desc.Retries = append(p.desc.Retries, safedecoding.Retry{
		Alt:    safedecoding.Classify(altExpr),
		Mapper: mapper,
	})
	return p
}

// RetryWith appends a prebuilt Retry (see the codec package).
func (p *ParamBuilder) RetryWith(r safedecoding.Retry) *ParamBuilder {
	p.desc.Retries = append(p.desc.Retries, r)
	return p
}

// Fallback sets the value used when the primary decode and every retry
// failed.
func (p *ParamBuilder) Fallback(v any) *ParamBuilder {
	p.desc.Fallback = func(context.Context) any { return v }
	return p
}

// Rename overrides the parameter's wire key.
func (p *ParamBuilder) Rename(lit string) *ParamBuilder {
	p.desc.Rename = lit
	return p
}

// When gates the parameter on a condition (Optional parameters only).
func (p *ParamBuilder) When(cond func(ctx context.Context) bool) *ParamBuilder {
	p.desc.Condition = cond
	return p
}
