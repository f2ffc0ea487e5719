package dsl

import (
	safedecoding "github.com/renato-iar/safedecoding"
)

type enumBuilder struct {
	name     string
	strategy safedecoding.Strategy
	rawKind  safedecoding.RawKind
	cases    []safedecoding.CaseDescriptor
	rep      safedecoding.Reporter
}

type caseStep struct {
	b   *enumBuilder
	idx int
}

// Enum creates a new sum-type builder. The default strategy is NestedObject.
func Enum(name string) *enumBuilder {
	return &enumBuilder{name: name, strategy: safedecoding.NestedObject()}
}

// NestedObject selects the case by a single wrapping key.
func (b *enumBuilder) NestedObject() *enumBuilder {
	b.strategy = safedecoding.NestedObject()
	return b
}

// TagProperty selects the case by the value of a sibling property.
func (b *enumBuilder) TagProperty(key string) *enumBuilder {
	b.strategy = safedecoding.TagProperty(key)
	return b
}

// Natural matches a raw scalar value or literal case name directly. It
// forbids parameterized cases.
func (b *enumBuilder) Natural() *enumBuilder {
	b.strategy = safedecoding.NaturalStrategy()
	return b
}

// RawString declares a String raw backing value.
func (b *enumBuilder) RawString() *enumBuilder {
	b.rawKind = safedecoding.RawString
	return b
}

// RawCharacter declares a Character raw backing value.
func (b *enumBuilder) RawCharacter() *enumBuilder {
	b.rawKind = safedecoding.RawCharacter
	return b
}

// RawInt declares a signed integer raw backing value.
func (b *enumBuilder) RawInt() *enumBuilder {
	b.rawKind = safedecoding.RawInt
	return b
}

// RawUInt declares an unsigned integer raw backing value.
func (b *enumBuilder) RawUInt() *enumBuilder {
	b.rawKind = safedecoding.RawUInt
	return b
}

// RawFloat declares a floating-point raw backing value.
func (b *enumBuilder) RawFloat() *enumBuilder {
	b.rawKind = safedecoding.RawFloat
	return b
}

// Reporter binds a reporter at registration time.
func (b *enumBuilder) Reporter(rep safedecoding.Reporter) *enumBuilder {
	b.rep = rep
	return b
}

// Case declares a case with optional parameters built via Param/Positional.
func (b *enumBuilder) Case(name string, params ...*ParamBuilder) *caseStep {
	cd := safedecoding.CaseDescriptor{Name: name}
	for _, p := range params {
		cd.Params = append(cd.Params, p.desc)
	}
	b.cases = append(b.cases, cd)
	return &caseStep{b: b, idx: len(b.cases) - 1}
}

// Build synthesizes the schema and declares it in reg.
func (b *enumBuilder) Build(reg *safedecoding.Registry) (*safedecoding.EnumSchema, error) {
	return safedecoding.NewEnum(b.name, b.strategy, b.rawKind, b.cases, safedecoding.SchemaOpt{Registry: reg, Reporter: b.rep})
}

// MustBuild is like Build but panics on configuration errors.
func (b *enumBuilder) MustBuild(reg *safedecoding.Registry) *safedecoding.EnumSchema {
	s, err := b.Build(reg)
	if err != nil {
		panic(err)
	}
	return s
}

func (c *caseStep) desc() *safedecoding.CaseDescriptor { return &c.b.cases[c.idx] }

// Override sets the literal key (or matching string) used for this case in
// place of its identifier.
func (c *caseStep) Override(lit string) *caseStep {
	c.desc().NameOverride = lit
	return c
}

// FallbackCase designates this case as the substitute for any discrimination
// or parameter failure. At most one per sum type.
func (c *caseStep) FallbackCase() *caseStep {
	c.desc().IsFallback = true
	return c
}

// Raw sets the case's underlying raw value for the Natural strategy.
func (c *caseStep) Raw(v any) *caseStep {
	c.desc().Raw = v
	return c
}

// Case starts the next case, keeping the fluent chain going.
func (c *caseStep) Case(name string, params ...*ParamBuilder) *caseStep {
	return c.b.Case(name, params...)
}

// Reporter forwards to the builder.
func (c *caseStep) Reporter(rep safedecoding.Reporter) *enumBuilder { return c.b.Reporter(rep) }

// Build forwards to the builder.
func (c *caseStep) Build(reg *safedecoding.Registry) (*safedecoding.EnumSchema, error) {
	return c.b.Build(reg)
}

// MustBuild forwards to the builder.
func (c *caseStep) MustBuild(reg *safedecoding.Registry) *safedecoding.EnumSchema {
	return c.b.MustBuild(reg)
}
