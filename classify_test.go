package safedecoding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify_SugarAndGenericAreEquivalent(t *testing.T) {
	pairs := []struct {
		sugar   string
		generic string
	}{
		{"Int?", "Optional<Int>"},
		{"[Int]", "Array<Int>"},
		{"[String: Int]", "Dictionary<String, Int>"},
		{"[String:Int]", "Dictionary<String,Int>"},
		{"[Int]?", "Optional<Array<Int>>"},
		{"[String: [Int]]", "Dictionary<String, Array<Int>>"},
	}
	for _, p := range pairs {
		a := Classify(p.sugar)
		b := Classify(p.generic)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("Classify(%q) != Classify(%q) (-sugar +generic):\n%s", p.sugar, p.generic, diff)
		}
	}
}

func TestClassify_Shapes(t *testing.T) {
	tests := []struct {
		expr string
		want TypeDescriptor
	}{
		{"Int", ScalarType("Int")},
		{"String", ScalarType("String")},
		{"Int?", OptionalType(ScalarType("Int"))},
		{"Set<String>", SetType(ScalarType("String"))},
		{"Set<Int>?", OptionalType(SetType(ScalarType("Int")))},
		{"[[Int]]", ArrayType(ArrayType(ScalarType("Int")))},
		{"[String: Set<Int>]", DictionaryType(ScalarType("String"), SetType(ScalarType("Int")))},
		{"Optional<Optional<Int>>", OptionalType(OptionalType(ScalarType("Int")))},
	}
	for _, tt := range tests {
		got := Classify(tt.expr)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Classify(%q) mismatch (-want +got):\n%s", tt.expr, diff)
		}
	}
}

func TestClassify_FallsThroughToScalar(t *testing.T) {
	for _, expr := range []string{"Point", "My<Weird", "Result<Int, Error>", "Pair<Int>"} {
		got := Classify(expr)
		if got.Kind != KindScalar || got.Name != expr {
			t.Errorf("Classify(%q) = %+v, want scalar fallthrough", expr, got)
		}
	}
}

func TestTypeDescriptor_String(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"Optional<Int>", "Int?"},
		{"Array<Int>", "[Int]"},
		{"Set<Int>", "Set<Int>"},
		{"Dictionary<String, Int>", "[String: Int]"},
		{"[String: [Int]]", "[String: [Int]]"},
	}
	for _, tt := range tests {
		if got := Classify(tt.expr).String(); got != tt.want {
			t.Errorf("Classify(%q).String() = %q, want %q", tt.expr, got, tt.want)
		}
	}
}
