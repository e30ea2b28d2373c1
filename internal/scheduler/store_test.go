package scheduler

import (
	"path/filepath"
	"testing"
)

func TestAddDedupDetection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedules.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	id, added, err := s.Add("a-1", "0 */5 * * * *", "", "check  the\tweather", "")
	if err != nil || !added || id != "a-1" {
		t.Fatalf("first Add: id=%q added=%v err=%v", id, added, err)
	}

	id2, added2, err := s.Add("a-2", "0 */5 * * * *", "", "check the weather", "")
	if err != nil {
		t.Fatalf("second Add: %v", err)
	}
	if added2 {
		t.Fatal("expected AlreadyExists (no-op) for a whitespace-normalized duplicate")
	}
	if id2 != "a-1" {
		t.Fatalf("expected existing id a-1 returned, got %q", id2)
	}
	if len(s.Entries()) != 1 {
		t.Fatalf("Entries() len = %d, want 1 (no duplicate should be stored)", len(s.Entries()))
	}
}

func TestAddAtAlwaysSucceeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedules.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if _, added, err := s.Add("b-1", "", "2999-01-01T00:00:00", "future task", ""); err != nil || !added {
		t.Fatalf("Add at: added=%v err=%v", added, err)
	}
	if _, added, err := s.Add("b-2", "", "2999-01-01T00:00:00", "future task", ""); err != nil || !added {
		t.Fatalf("second Add at: added=%v err=%v", added, err)
	}
	if len(s.Entries()) != 2 {
		t.Fatalf("Entries() len = %d, want 2 (one-shots are always added)", len(s.Entries()))
	}
}

func TestRemoveByExactID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedules.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	s.Add("c-1", "0 * * * * *", "", "noop", "")

	removed, err := s.Remove("c-1")
	if err != nil || !removed {
		t.Fatalf("Remove: removed=%v err=%v", removed, err)
	}
	if len(s.Entries()) != 0 {
		t.Fatal("expected entry removed")
	}

	removed2, _ := s.Remove("c-1")
	if removed2 {
		t.Fatal("Remove() of already-removed id should report false")
	}
}
