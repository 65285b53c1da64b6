package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUID_DeterministicForSameKey(t *testing.T) {
	first := UUID("go-press:post:intro-to-arrays")
	second := UUID("go-press:post:intro-to-arrays")

	if first == uuid.Nil {
		t.Fatalf("expected non-nil uuid")
	}
	if first != second {
		t.Fatalf("expected deterministic uuid, got %s and %s", first, second)
	}
}

func TestUUID_EmptyKeyYieldsNil(t *testing.T) {
	if got := UUID("   "); got != uuid.Nil {
		t.Fatalf("expected uuid.Nil for blank key, got %s", got)
	}
}

func TestPostUUID_NormalisesCase(t *testing.T) {
	if PostUUID("Hash-Tables") != PostUUID("hash-tables") {
		t.Fatalf("expected case-insensitive post identity")
	}
}

func TestDomainsDoNotCollide(t *testing.T) {
	if PostUUID("lists") == TagUUID("lists") {
		t.Fatalf("post and tag identities must not collide")
	}
}
