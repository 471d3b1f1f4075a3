package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_ProducesDistinctUUIDs(t *testing.T) {
	gen := NewUUIDGenerator()
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		v, err := gen.NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if _, err := uuid.Parse(v); err != nil {
			t.Fatalf("not a uuid %q: %v", v, err)
		}
		if _, dup := seen[v]; dup {
			t.Fatalf("duplicate id %q", v)
		}
		seen[v] = struct{}{}
	}
}
