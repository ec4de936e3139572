package memory_test

import (
	"testing"

	"github.com/dmoretti/bookwise-agent/internal/adapters/storage/memory"
	"github.com/dmoretti/bookwise-agent/internal/domain"
)

func TestGetSessionReturnsDetachedCopy(t *testing.T) {
	store := memory.NewSessionStore()

	sess := &domain.Session{
		ID:          "s1",
		UserID:      "u1",
		KnownTitles: []string{"Dune"},
	}
	if err := store.CreateSession(sess); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	// Mutating the caller's value after create must not leak into the store.
	sess.SetupComplete = true
	sess.KnownTitles[0] = "changed"

	got, err := store.GetSession("s1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.SetupComplete || got.KnownTitles[0] != "Dune" {
		t.Fatalf("store shares state with the caller: %+v", got)
	}

	// Mutating a read result must not change the stored session either.
	got.StepCursor = 5
	got.KnownTitles[0] = "changed"

	again, err := store.GetSession("s1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if again.StepCursor != 0 || again.KnownTitles[0] != "Dune" {
		t.Fatalf("read result shares state with the store: %+v", again)
	}
}

func TestUpdateSessionPersistsAndDetaches(t *testing.T) {
	store := memory.NewSessionStore()

	if err := store.CreateSession(&domain.Session{ID: "s1", UserID: "u1"}); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	sess, err := store.GetSession("s1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	sess.KnownTitles = []string{"Circe"}
	if err := store.UpdateSession(sess); err != nil {
		t.Fatalf("UpdateSession failed: %v", err)
	}

	sess.KnownTitles[0] = "changed"

	got, err := store.GetSession("s1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if len(got.KnownTitles) != 1 || got.KnownTitles[0] != "Circe" {
		t.Fatalf("expected the updated titles to be stored detached, got %v", got.KnownTitles)
	}
}
