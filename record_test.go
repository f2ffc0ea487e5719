package safedecoding_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	safedecoding "github.com/renato-iar/safedecoding"
	"github.com/renato-iar/safedecoding/codec"
	"github.com/renato-iar/safedecoding/dsl"
	"github.com/renato-iar/safedecoding/report"
)

func TestOptionalAbsentYieldsNil(t *testing.T) {
	s := dsl.Record("User").
		Field("optionalInteger", "Int?").
		Field("name", "String").
		MustBuild(nil)

	got, err := s.Decode(context.Background(), map[string]any{"name": "ana"})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := map[string]any{"optionalInteger": nil, "name": "ana"}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", d)
	}
}

func TestOptionalAbsentReportsWhenReporterBound(t *testing.T) {
	col := report.NewCollector()
	s := dsl.Record("User").
		Field("optionalInteger", "Int?").
		Reporter(col).
		MustBuild(nil)

	got, err := s.Decode(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got["optionalInteger"] != nil {
		t.Fatalf("optionalInteger = %v, want nil", got["optionalInteger"])
	}
	recs := col.Recoveries()
	if len(recs) != 1 {
		t.Fatalf("got %d recoveries, want 1", len(recs))
	}
	r := recs[0]
	if r.Kind != report.KindField || r.Field != "optionalInteger" || r.Type != "Int?" || r.Owner != "User" {
		t.Fatalf("unexpected recovery: %+v", r)
	}
}

func TestOptionalExplicitNullIsSilent(t *testing.T) {
	col := report.NewCollector()
	s := dsl.Record("User").
		Field("optionalInteger", "Int?").
		Reporter(col).
		MustBuild(nil)

	got, err := s.Decode(context.Background(), map[string]any{"optionalInteger": nil})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got["optionalInteger"] != nil {
		t.Fatalf("optionalInteger = %v, want nil", got["optionalInteger"])
	}
	if col.Len() != 0 {
		t.Fatalf("explicit null produced %d recoveries, want 0", col.Len())
	}
}

func TestOptionalTypeMismatchRecovers(t *testing.T) {
	col := report.NewCollector()
	s := dsl.Record("User").
		Field("optionalInteger", "Int?").
		Field("name", "String").
		Reporter(col).
		MustBuild(nil)

	got, err := s.Decode(context.Background(), map[string]any{
		"optionalInteger": "not a number",
		"name":            "ana",
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got["optionalInteger"] != nil {
		t.Fatalf("optionalInteger = %v, want nil", got["optionalInteger"])
	}
	if got["name"] != "ana" {
		t.Fatalf("sibling field affected: name = %v", got["name"])
	}
	if col.Len() != 1 {
		t.Fatalf("got %d recoveries, want 1", col.Len())
	}
}

func TestOptionalConditionGatesDecode(t *testing.T) {
	s := dsl.Record("Feature").
		Field("flag", "Bool?").When(func(context.Context) bool { return false }).
		MustBuild(nil)

	got, err := s.Decode(context.Background(), map[string]any{"flag": true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got["flag"] != nil {
		t.Fatalf("gated field decoded anyway: %v", got["flag"])
	}
}

func TestConditionOnNonOptionalIsBuildError(t *testing.T) {
	_, err := dsl.Record("Feature").
		Field("flag", "Bool").When(func(context.Context) bool { return true }).
		Build(nil)
	if err == nil {
		t.Fatal("expected build error")
	}
	iss, ok := safedecoding.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != safedecoding.CodeInvalidConfiguration {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestArrayKeepsWellFormedElementsInOrder(t *testing.T) {
	col := report.NewCollector()
	s := dsl.Record("Numbers").
		Field("integerArray", "[Int]").
		Reporter(col).
		MustBuild(nil)

	got, err := s.Decode(context.Background(), map[string]any{
		"integerArray": []any{int64(1), "x", int64(2), true, int64(3)},
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []any{int64(1), int64(2), int64(3)}
	if d := cmp.Diff(want, got["integerArray"]); d != "" {
		t.Fatalf("array mismatch (-want +got):\n%s", d)
	}
	recs := col.Recoveries()
	if len(recs) != 2 {
		t.Fatalf("got %d recoveries, want 2", len(recs))
	}
	if recs[0].Kind != report.KindItem || recs[0].Index != 1 {
		t.Fatalf("first recovery: %+v", recs[0])
	}
	if recs[1].Kind != report.KindItem || recs[1].Index != 3 {
		t.Fatalf("second recovery: %+v", recs[1])
	}
	for _, r := range recs {
		if r.Type != "Int" || r.Field != "integerArray" || r.Owner != "Numbers" {
			t.Fatalf("unexpected recovery payload: %+v", r)
		}
	}
}

func TestArrayAbsentBecomesEmptyWithOneReport(t *testing.T) {
	col := report.NewCollector()
	s := dsl.Record("Numbers").
		Field("integerArray", "[Int]").
		Reporter(col).
		MustBuild(nil)

	got, err := s.Decode(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d := cmp.Diff([]any{}, got["integerArray"]); d != "" {
		t.Fatalf("array mismatch (-want +got):\n%s", d)
	}
	recs := col.Recoveries()
	if len(recs) != 1 || recs[0].Kind != report.KindField || recs[0].Type != "[Int]" {
		t.Fatalf("unexpected recoveries: %+v", recs)
	}
}

func TestSetCollapsesDuplicatesAndReportsWithoutIndex(t *testing.T) {
	col := report.NewCollector()
	s := dsl.Record("Tags").
		Field("labels", "Set<String>").
		Reporter(col).
		MustBuild(nil)

	got, err := s.Decode(context.Background(), map[string]any{
		"labels": []any{"a", "a", int64(1), "b"},
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	set := asSet(t, got["labels"])
	if set.Len() != 2 || !set.Has("a") || !set.Has("b") {
		t.Fatalf("set mismatch: %v", set)
	}
	recs := col.Recoveries()
	if len(recs) != 1 {
		t.Fatalf("got %d recoveries, want 1", len(recs))
	}
	if recs[0].Kind != report.KindSetItem || recs[0].Type != "String" || recs[0].Field != "labels" {
		t.Fatalf("unexpected recovery: %+v", recs[0])
	}
}

func TestDictionaryDropsMalformedValues(t *testing.T) {
	col := report.NewCollector()
	s := dsl.Record("Scores").
		Field("stringToIntDictionary", "[String: Int]").
		Reporter(col).
		MustBuild(nil)

	got, err := s.Decode(context.Background(), map[string]any{
		"stringToIntDictionary": map[string]any{"a": int64(1), "b": "nope", "c": int64(3)},
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := map[string]any{"a": int64(1), "c": int64(3)}
	if d := cmp.Diff(want, got["stringToIntDictionary"]); d != "" {
		t.Fatalf("dictionary mismatch (-want +got):\n%s", d)
	}
	recs := col.Recoveries()
	if len(recs) != 1 {
		t.Fatalf("got %d recoveries, want 1", len(recs))
	}
	if recs[0].Kind != report.KindEntry || recs[0].Key != "b" || recs[0].Type != "Int" {
		t.Fatalf("unexpected recovery: %+v", recs[0])
	}
}

func TestDictionaryBadKeyVoidsWholeField(t *testing.T) {
	col := report.NewCollector()
	s := dsl.Record("ByID").
		Field("values", "[Int: String]").
		Reporter(col).
		MustBuild(nil)

	got, err := s.Decode(context.Background(), map[string]any{
		"values": map[string]any{"1": "one", "two": "dos"},
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	m, ok := got["values"].(map[any]any)
	if !ok || len(m) != 0 {
		t.Fatalf("values = %v, want empty map", got["values"])
	}
	recs := col.Recoveries()
	if len(recs) != 1 || recs[0].Kind != report.KindField || recs[0].Type != "[Int: String]" {
		t.Fatalf("unexpected recoveries: %+v", recs)
	}
}

func TestDictionaryNonStringKeysDecodeTyped(t *testing.T) {
	s := dsl.Record("ByID").
		Field("values", "[Int: String]").
		MustBuild(nil)

	got, err := s.Decode(context.Background(), map[string]any{
		"values": map[string]any{"1": "one", "2": "two"},
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := map[any]any{int64(1): "one", int64(2): "two"}
	if d := cmp.Diff(want, got["values"]); d != "" {
		t.Fatalf("dictionary mismatch (-want +got):\n%s", d)
	}
}

func TestRetrySecondAlternateWins(t *testing.T) {
	col := report.NewCollector()
	s := dsl.Record("User").
		Field("age", "Int").
		Retry("Bool", func(v any) (any, bool) { return nil, false }).
		Retry("String", func(v any) (any, bool) {
			if v == "forty" {
				return int64(40), true
			}
			return nil, false
		}).
		Reporter(col).
		MustBuild(nil)

	got, err := s.Decode(context.Background(), map[string]any{"age": "forty"})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got["age"] != int64(40) {
		t.Fatalf("age = %v, want 40", got["age"])
	}
	if col.Len() != 0 {
		t.Fatalf("successful retry produced %d recoveries, want 0", col.Len())
	}
}

func TestRetryAllFailThenFallbackReportsOnce(t *testing.T) {
	col := report.NewCollector()
	s := dsl.Record("User").
		Field("age", "Int").
		Retry("Bool", func(v any) (any, bool) { return nil, false }).
		Retry("String", func(v any) (any, bool) { return nil, false }).
		Fallback(int64(-1)).
		Reporter(col).
		MustBuild(nil)

	got, err := s.Decode(context.Background(), map[string]any{"age": []any{}})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got["age"] != int64(-1) {
		t.Fatalf("age = %v, want fallback -1", got["age"])
	}
	if col.Len() != 1 {
		t.Fatalf("got %d recoveries, want exactly 1", col.Len())
	}
}

func TestBareScalarFailurePropagates(t *testing.T) {
	s := dsl.Record("User").
		Field("name", "String").
		MustBuild(nil)

	_, err := s.Decode(context.Background(), map[string]any{})
	if err == nil {
		t.Fatal("expected error for missing required field")
	}
	iss, ok := safedecoding.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("unexpected error: %v", err)
	}
	if iss[0].Code != safedecoding.CodeMissingKey || iss[0].Path != "/name" {
		t.Fatalf("issue = %+v", iss[0])
	}
}

func TestIgnoredFieldFailurePropagates(t *testing.T) {
	col := report.NewCollector()
	s := dsl.Record("User").
		Field("id", "Int").Ignore().
		Reporter(col).
		MustBuild(nil)

	_, err := s.Decode(context.Background(), map[string]any{"id": "nope"})
	if err == nil {
		t.Fatal("expected error for ignored field mismatch")
	}
	iss, _ := safedecoding.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != safedecoding.CodeTypeMismatch || iss[0].Path != "/id" {
		t.Fatalf("unexpected issues: %+v", iss)
	}
	if col.Len() != 0 {
		t.Fatalf("ignored field reported a recovery: %d", col.Len())
	}
}

func TestRenameChangesLookupKeyOnly(t *testing.T) {
	s := dsl.Record("User").
		Field("displayName", "String").Rename("display_name").
		MustBuild(nil)

	got, err := s.Decode(context.Background(), map[string]any{"display_name": "Ana"})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got["displayName"] != "Ana" {
		t.Fatalf("displayName = %v", got["displayName"])
	}
}

func TestRenameCasedAppliesTransform(t *testing.T) {
	tests := []struct {
		lit    string
		casing safedecoding.Casing
		key    string
	}{
		{"displayName", safedecoding.CasingSnake, "display_name"},
		{"displayName", safedecoding.CasingSnakeUpper, "DISPLAY_NAME"},
		{"displayName", safedecoding.CasingKebab, "display-name"},
		{"displayName", safedecoding.CasingKebabUpper, "DISPLAY-NAME"},
		{"display_name", safedecoding.CasingCamel, "displayName"},
		{"displayName", safedecoding.CasingFlat, "displayname"},
	}
	for _, tc := range tests {
		s := dsl.Record("User").
			Field("displayName", "String").RenameCased(tc.lit, tc.casing).
			MustBuild(nil)
		got, err := s.Decode(context.Background(), map[string]any{tc.key: "Ana"})
		if err != nil {
			t.Fatalf("casing %v: %v", tc.casing, err)
		}
		if got["displayName"] != "Ana" {
			t.Fatalf("casing %v: wire key %q not matched", tc.casing, tc.key)
		}
	}
}

func TestComputedFieldExcluded(t *testing.T) {
	s := dsl.Record("User").
		Field("name", "String").
		Field("initials", "String").Computed().
		MustBuild(nil)

	if d := cmp.Diff([]string{"name"}, s.Keys()); d != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", d)
	}
	got, err := s.Decode(context.Background(), map[string]any{"name": "ana"})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, exists := got["initials"]; exists {
		t.Fatal("computed field leaked into decode output")
	}
}

func TestDecodeRejectsNonObject(t *testing.T) {
	s := dsl.Record("User").Field("name", "String").MustBuild(nil)
	_, err := s.Decode(context.Background(), []any{"not", "an", "object"})
	if err == nil {
		t.Fatal("expected error")
	}
	iss, _ := safedecoding.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != safedecoding.CodeTypeMismatch {
		t.Fatalf("unexpected issues: %+v", iss)
	}
}

func TestNestedDeclaredTypeRecurses(t *testing.T) {
	reg := safedecoding.NewRegistry()
	col := report.NewCollector()
	dsl.Record("Address").
		Field("city", "String").
		Field("zip", "String?").
		MustBuild(reg)
	s := dsl.Record("User").
		Field("name", "String").
		Field("address", "Address").
		Reporter(col).
		MustBuild(reg)

	got, err := s.Decode(context.Background(), map[string]any{
		"name":    "ana",
		"address": map[string]any{"city": "Lisboa", "zip": int64(7)},
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := map[string]any{
		"name":    "ana",
		"address": map[string]any{"city": "Lisboa", "zip": nil},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", d)
	}
	// the nested optional recovery surfaces through the outer reporter
	if col.Len() != 1 {
		t.Fatalf("got %d recoveries, want 1", col.Len())
	}
}

func TestRegistryRegisterOnlyOnce(t *testing.T) {
	reg := safedecoding.NewRegistry()
	first := dsl.Record("User").Field("name", "String").MustBuild(reg)
	dsl.Record("User").Field("other", "Int").MustBuild(reg)

	s, ok := reg.Lookup("User")
	if !ok {
		t.Fatal("User not registered")
	}
	if s != safedecoding.TypeSchema(first) {
		t.Fatal("second registration displaced the first")
	}
}

func TestCodecRetryHelpers(t *testing.T) {
	s := dsl.Record("Metrics").
		Field("count", "Int").RetryWith(codec.StringToInt()).
		Field("ratio", "Double").RetryWith(codec.StringToDouble()).
		Field("enabled", "Bool").RetryWith(codec.StringToBool()).
		Field("label", "String").RetryWith(codec.IntToString()).
		MustBuild(nil)

	got, err := s.Decode(context.Background(), map[string]any{
		"count":   "42",
		"ratio":   "0.5",
		"enabled": "yes",
		"label":   int64(7),
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := map[string]any{
		"count":   int64(42),
		"ratio":   0.5,
		"enabled": true,
		"label":   "7",
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", d)
	}
}

func TestSetUnhashableElementShapeIsBuildError(t *testing.T) {
	for _, expr := range []string{"Set<[Int]>", "Set<[String: Int]>", "Set<Set<Int>>", "[Set<[Int]>]"} {
		_, err := dsl.Record("Batches").Field("batches", expr).Build(nil)
		if err == nil {
			t.Errorf("%s: expected build error", expr)
			continue
		}
		iss, _ := safedecoding.AsIssues(err)
		if len(iss) != 1 || iss[0].Code != safedecoding.CodeInvalidConfiguration {
			t.Errorf("%s: unexpected issues: %+v", expr, iss)
		}
	}

	// optional scalar elements stay hashable (nil or scalar)
	if _, err := dsl.Record("Batches").Field("batches", "Set<Int?>").Build(nil); err != nil {
		t.Fatalf("Set<Int?> rejected: %v", err)
	}
}

func TestSetOfRegisteredRecordRecoversPerElement(t *testing.T) {
	reg := safedecoding.NewRegistry()
	col := report.NewCollector()
	dsl.Record("Point").Field("x", "Int").MustBuild(reg)
	s := dsl.Record("Cloud").
		Field("points", "Set<Point>").
		Reporter(col).
		MustBuild(reg)

	got, err := s.Decode(context.Background(), map[string]any{
		"points": []any{
			map[string]any{"x": int64(1)},
			map[string]any{"x": int64(2)},
		},
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if set := asSet(t, got["points"]); set.Len() != 0 {
		t.Fatalf("unhashable elements were inserted: %v", set)
	}
	recs := col.Recoveries()
	if len(recs) != 2 {
		t.Fatalf("got %d recoveries, want 2", len(recs))
	}
	for _, r := range recs {
		if r.Kind != report.KindSetItem {
			t.Fatalf("unexpected recovery: %+v", r)
		}
		iss, ok := safedecoding.AsIssues(r.Err)
		if !ok || len(iss) != 1 || iss[0].Code != safedecoding.CodeItemDecode {
			t.Fatalf("unexpected recovery error: %v", r.Err)
		}
	}
}

func TestNestedSetOfRecordErrorsInsteadOfPanicking(t *testing.T) {
	reg := safedecoding.NewRegistry()
	dsl.Record("Point").Field("x", "Int").MustBuild(reg)
	s := dsl.Record("Cloud").
		Field("points", "Set<Point>?").
		MustBuild(reg)

	// the optional wrapper recovers the strict inner set decode to nil
	got, err := s.Decode(context.Background(), map[string]any{
		"points": []any{map[string]any{"x": int64(1)}},
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got["points"] != nil {
		t.Fatalf("points = %v, want nil", got["points"])
	}
}

func TestRecoveredReportsCarryTaxonomyCodes(t *testing.T) {
	col := report.NewCollector()
	s := dsl.Record("Mixed").
		Field("items", "[Int]").
		Field("byKey", "[String: Int]").
		Reporter(col).
		MustBuild(nil)

	_, err := s.Decode(context.Background(), map[string]any{
		"items": []any{int64(1), "bad"},
		"byKey": map[string]any{"a": int64(1), "b": "bad"},
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	wantCodes := map[report.Kind]string{
		report.KindItem:  safedecoding.CodeItemDecode,
		report.KindEntry: safedecoding.CodeValueDecode,
	}
	recs := col.Recoveries()
	if len(recs) != 2 {
		t.Fatalf("got %d recoveries, want 2", len(recs))
	}
	for _, r := range recs {
		want, known := wantCodes[r.Kind]
		if !known {
			t.Fatalf("unexpected recovery kind: %+v", r)
		}
		iss, ok := safedecoding.AsIssues(r.Err)
		if !ok || len(iss) != 1 || iss[0].Code != want {
			t.Fatalf("%s recovery error = %v, want code %s", r.Kind, r.Err, want)
		}
		if iss[0].Cause == nil {
			t.Fatalf("%s recovery lost its causing error", r.Kind)
		}
	}
}

func TestEndToEndExample(t *testing.T) {
	col := report.NewCollector()
	s := dsl.Record("Example").
		Field("optionalInteger", "Int?").
		Field("integerArray", "[Int]").
		Field("stringToIntDictionary", "[String: Int]").
		Reporter(col).
		MustBuild(nil)

	payload := []byte(`{"integerArray":[1],"integerSet":[1],"stringToIntDictionary":{"a":1}}`)
	got, err := safedecoding.DecodeFrom(context.Background(), s, safedecoding.JSONBytes(payload))
	if err != nil {
		t.Fatalf("DecodeFrom: %v", err)
	}
	want := map[string]any{
		"optionalInteger":       nil,
		"integerArray":          []any{int64(1)},
		"stringToIntDictionary": map[string]any{"a": int64(1)},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", d)
	}
	// only the absent optional recovers
	recs := col.Recoveries()
	if len(recs) != 1 || recs[0].Field != "optionalInteger" {
		t.Fatalf("unexpected recoveries: %+v", recs)
	}
}
