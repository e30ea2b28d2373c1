package session

import (
	"os"
	"testing"
)

func TestPushWithinRingKeepsAllInMemory(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	key := Key{Kind: "cli", ID: "1"}

	for i := 0; i < 5; i++ {
		s.Push(key, Message{Role: RoleUser, Content: "hi"})
	}

	if got := len(s.History(key)); got != 5 {
		t.Fatalf("History() len = %d, want 5", got)
	}
}

func TestPushOverflowFlushesOldest(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	key := Key{Kind: "cli", ID: "2"}

	for i := 0; i < MaxRing+3; i++ {
		s.Push(key, Message{Role: RoleUser, Content: "turn"})
	}

	if got := len(s.History(key)); got != MaxRing {
		t.Fatalf("History() len = %d, want %d", got, MaxRing)
	}

	entries, err := os.ReadDir(dir + "/sessions")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one flushed transcript file")
	}
}

func TestKeyString(t *testing.T) {
	k := Key{Kind: "discord", ID: "123"}
	if got, want := k.String(), "discord-123"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
