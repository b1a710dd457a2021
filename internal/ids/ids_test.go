package ids

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNew(t *testing.T) {
	t.Run("prefixed", func(t *testing.T) {
		id := New(PrefixAccount)
		if !strings.HasPrefix(id, PrefixAccount+"_") {
			t.Fatalf("expected acc_ prefix, got %s", id)
		}
		parsed, err := uuid.Parse(id[len(PrefixAccount)+1:])
		if err != nil {
			t.Fatalf("suffix is not a uuid: %v", err)
		}
		if parsed.Version() != 7 {
			t.Errorf("expected version 7, got %d", parsed.Version())
		}
	})

	t.Run("unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			id := New(PrefixTransaction)
			if seen[id] {
				t.Fatalf("duplicate id %s", id)
			}
			seen[id] = true
		}
	})

	t.Run("no_prefix", func(t *testing.T) {
		if _, err := uuid.Parse(New("")); err != nil {
			t.Errorf("expected bare uuid: %v", err)
		}
	})
}
