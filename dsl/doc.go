// Package dsl provides fluent builders over the safedecoding engine.
//
// Records:
//
//	reg := safedecoding.NewRegistry()
//	user := dsl.Record("User").
//		Field("optionalInteger", "Int?").
//		Field("integerArray", "[Int]").
//		Field("nickname", "String").RetryWith(codec.IntToString()).Fallback("anonymous").
//		MustBuild(reg)
//
// Sum types:
//
//	channel := dsl.Enum("Channel").Natural().
//		Case("left").Override("ch-left").
//		Case("right").
//		MustBuild(reg)
//
// Bind adapts a built RecordSchema to a struct type via reflection, using
// `safedec` (or `json`) struct tags for key resolution.
package dsl
