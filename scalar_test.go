package safedecoding_test

import (
	"context"
	"testing"

	safedecoding "github.com/renato-iar/safedecoding"
	"github.com/renato-iar/safedecoding/dsl"
)

func TestIntegerWidthBounds(t *testing.T) {
	tests := []struct {
		typ  string
		v    any
		ok   bool
		want any
	}{
		{"Int8", int64(127), true, int64(127)},
		{"Int8", int64(128), false, nil},
		{"Int16", int64(-32768), true, int64(-32768)},
		{"Int16", int64(-32769), false, nil},
		{"Int32", int64(1 << 31), false, nil},
		{"UInt8", int64(255), true, uint64(255)},
		{"UInt8", int64(256), false, nil},
		{"UInt", int64(-1), false, nil},
		{"Int", 2.0, true, int64(2)},
		{"Int", 2.5, false, nil},
	}
	for _, tc := range tests {
		s := dsl.Record("W").Field("v", tc.typ).MustBuild(nil)
		got, err := s.Decode(context.Background(), map[string]any{"v": tc.v})
		if tc.ok {
			if err != nil {
				t.Errorf("%s(%v): unexpected error %v", tc.typ, tc.v, err)
				continue
			}
			if got["v"] != tc.want {
				t.Errorf("%s(%v) = %v, want %v", tc.typ, tc.v, got["v"], tc.want)
			}
			continue
		}
		if err == nil {
			t.Errorf("%s(%v): expected error", tc.typ, tc.v)
		}
	}
}

func TestCharacterRequiresSingleRune(t *testing.T) {
	s := dsl.Record("C").Field("v", "Character").MustBuild(nil)

	got, err := s.Decode(context.Background(), map[string]any{"v": "é"})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got["v"] != "é" {
		t.Fatalf("v = %v", got["v"])
	}

	if _, err := s.Decode(context.Background(), map[string]any{"v": "ab"}); err == nil {
		t.Fatal("multi-rune string accepted as Character")
	}
	if _, err := s.Decode(context.Background(), map[string]any{"v": ""}); err == nil {
		t.Fatal("empty string accepted as Character")
	}
}

func TestUnknownScalarPassesThroughOpaque(t *testing.T) {
	s := dsl.Record("Env").Field("payload", "CustomBlob").MustBuild(nil)

	raw := map[string]any{"anything": []any{int64(1)}}
	got, err := s.Decode(context.Background(), map[string]any{"payload": raw})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	m, ok := got["payload"].(map[string]any)
	if !ok || len(m) != 1 {
		t.Fatalf("payload = %v, want opaque passthrough", got["payload"])
	}
}

func TestRegistryNames(t *testing.T) {
	reg := safedecoding.NewRegistry()
	dsl.Record("B").Field("x", "Int").MustBuild(reg)
	dsl.Record("A").Field("x", "Int").MustBuild(reg)

	names := reg.Names()
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Fatalf("names = %v", names)
	}
}
