package uid

import (
	"testing"

	"github.com/google/uuid"
)

func TestSnowflakeIsMonotonic(t *testing.T) {
	t.Setenv("SNOWFLAKE_NODE_ID", "7")

	gen, err := NewSnowflake()
	if err != nil {
		t.Fatalf("NewSnowflake() = %v", err)
	}

	prev := gen.Generate()
	for range 1000 {
		next := gen.Generate()
		if next <= prev {
			t.Fatalf("ids not increasing: %d then %d", prev, next)
		}
		prev = next
	}
}

func TestSnowflakeRejectsBadNode(t *testing.T) {
	t.Setenv("SNOWFLAKE_NODE_ID", "99999")

	if _, err := NewSnowflake(); err == nil {
		t.Fatal("expected error for out of range node id")
	}
}

func TestUUIDVersion(t *testing.T) {
	id, err := uuid.Parse(NewUUID().Generate())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id.Version() != 7 {
		t.Fatalf("version = %d, want 7", id.Version())
	}
}
