// Package safedecoding synthesizes resilient decoders for records and sum
// types from a declarative description of their shape. A single malformed
// field, collection element, or map value is dropped or replaced instead of
// failing the whole decode.
//
// It provides:
//
// - A schema model (TypeDescriptor/FieldDescriptor/CaseDescriptor) and a
//   classifier that accepts both sugared and generic type spellings
// - Per-field decode synthesis with ignore/retry/fallback/rename/conditional
//   decorations, and per-element recovery for arrays, sets, and dictionaries
// - Sum-type decoding with nested-object, tag-property, and natural
//   case-discrimination strategies, including a single fallback case
// - A stable error model via Issues (JSON Pointer, code, message)
// - An explicit Reporter capability notified whenever a failure was
//   recovered rather than propagated
//
// Design policy:
// - Keep the engine in the root package; place builders under dsl/, reporter
//   implementations under report/, and retry mappers under codec/.
// - Decoders are synthesized once at build time and are stateless and
//   re-entrant afterwards.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  reg := safedecoding.NewRegistry()
//  s := dsl.Record("User").
//      Field("optionalInteger", "Int?").
//      Field("integerArray", "[Int]").
//      MustBuild(reg)
//  v, err := safedecoding.DecodeFrom(ctx, s, safedecoding.JSONBytes(data))
//
package safedecoding
