package safedecoding_test

import (
	"testing"

	"github.com/creachadair/mds/mapset"
)

func asSet(t *testing.T, v any) mapset.Set[any] {
	t.Helper()
	set, ok := v.(mapset.Set[any])
	if !ok {
		t.Fatalf("value is %T, want mapset.Set[any]", v)
	}
	return set
}
