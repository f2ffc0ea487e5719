package safedecoding

import "context"

// TypeKind identifies the shape of a TypeDescriptor.
type TypeKind int

const (
	KindScalar TypeKind = iota
	KindOptional
	KindArray
	KindSet
	KindDictionary
)

// TypeDescriptor is the classified shape of a field or parameter type.
// Optional/Array/Set carry exactly one inner descriptor in Elem; Dictionary
// carries Key and Value.
type TypeDescriptor struct {
	Kind  TypeKind
	Name  string          // scalar type name; empty for non-scalar kinds
	Elem  *TypeDescriptor // Optional/Array/Set inner type
	Key   *TypeDescriptor // Dictionary key type
	Value *TypeDescriptor // Dictionary value type
}

// ScalarType builds a Scalar descriptor.
func ScalarType(name string) TypeDescriptor { return TypeDescriptor{Kind: KindScalar, Name: name} }

// OptionalType wraps inner as Optional.
func OptionalType(inner TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Kind: KindOptional, Elem: &inner}
}

// ArrayType wraps inner as Array.
func ArrayType(inner TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Kind: KindArray, Elem: &inner}
}

// SetType wraps inner as Set.
func SetType(inner TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Kind: KindSet, Elem: &inner}
}

// DictionaryType builds a Dictionary descriptor over key and value.
func DictionaryType(key, value TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Kind: KindDictionary, Key: &key, Value: &value}
}

// String renders the sugared spelling of the descriptor ("Int?", "[Int]",
// "Set<Int>", "[String: Int]"). Used in reporter payloads and diagnostics.
func (d TypeDescriptor) String() string {
	switch d.Kind {
	case KindOptional:
		return d.Elem.String() + "?"
	case KindArray:
		return "[" + d.Elem.String() + "]"
	case KindSet:
		return "Set<" + d.Elem.String() + ">"
	case KindDictionary:
		return "[" + d.Key.String() + ": " + d.Value.String() + "]"
	default:
		return d.Name
	}
}

// Retry describes one alternate decode attempt for a field. Alt is the wire
// type to attempt; Mapper converts a decoded Alt value into the target type,
// returning false when the conversion does not apply.
type Retry struct {
	Alt    TypeDescriptor
	Mapper func(v any) (any, bool)
}

// Casing selects a declarative key transform applied to a Rename literal.
type Casing int

const (
	CasingNone Casing = iota
	CasingCamel
	CasingSnake
	CasingSnakeUpper
	CasingKebab
	CasingKebabUpper
	CasingFlat
)

// FieldDescriptor describes one record field or sum-type case parameter
// together with its decorations.
type FieldDescriptor struct {
	Name string
	Type TypeDescriptor

	// Ignore requests a verbatim decode: failures propagate, nothing is
	// recovered.
	Ignore bool
	// Retries are alternate decode attempts, tried in declaration order.
	Retries []Retry
	// Fallback, when non-nil, supplies the value used after the primary
	// decode and every retry failed.
	Fallback func(ctx context.Context) any
	// Rename overrides the wire key; Casing optionally transforms it.
	Rename string
	Casing Casing
	// Condition gates the whole field. Only meaningful on Optional types:
	// when it evaluates false the field is nil without attempting a decode.
	Condition func(ctx context.Context) bool
	// Computed marks a field with no backing storage (or a default
	// initializer). Such fields are excluded from decode synthesis entirely.
	Computed bool
}

// CaseDescriptor describes one sum-type case. Params with empty names are
// positional and receive synthesized keys ("_0", "_1", ...).
type CaseDescriptor struct {
	Name         string
	Params       []FieldDescriptor
	NameOverride string
	// IsFallback designates this case as the substitute for any discrimination
	// or parameter failure. At most one case per sum type may set it.
	IsFallback bool
	// Raw is the case's underlying raw value under the Natural strategy.
	// When nil it is derived from the declared raw kind (name for strings,
	// declaration index for numeric kinds).
	Raw any
}

// StrategyKind enumerates sum-type case-discrimination strategies.
type StrategyKind int

const (
	StrategyNestedObject StrategyKind = iota
	StrategyTagProperty
	StrategyNatural
)

// Strategy selects how a sum-type payload names its case.
type Strategy struct {
	Kind   StrategyKind
	TagKey string // sibling property name; TagProperty only
}

// NestedObject selects the case by a single wrapping key.
func NestedObject() Strategy { return Strategy{Kind: StrategyNestedObject} }

// TagProperty selects the case by the value of a sibling property.
func TagProperty(key string) Strategy {
	return Strategy{Kind: StrategyTagProperty, TagKey: key}
}

// NaturalStrategy matches a raw scalar value or literal case name directly.
// It forbids parameterized cases.
func NaturalStrategy() Strategy { return Strategy{Kind: StrategyNatural} }

// RawKind is the scalar kind of a sum type's declared raw backing value.
type RawKind int

const (
	RawNone RawKind = iota
	RawString
	RawCharacter
	RawInt
	RawUInt
	RawFloat
)
