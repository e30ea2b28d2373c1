package tasks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTask(t *testing.T, dir, topic, id, status, body string) string {
	t.Helper()
	name := BuildFilename(topic, id, "20260101", "120000", Status(status))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSetStatusFinishSucceedsWhenSubTasksDone(t *testing.T) {
	dir := t.TempDir()
	writeTask(t, dir, "report", "7", "open", "## Sub-tasks: 8, 9\n")
	writeTask(t, dir, "child", "8", "finished", "body")
	writeTask(t, dir, "child", "9", "finished", "body")

	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.SetStatus("report", "finished"); err != nil {
		t.Fatalf("expected finish to succeed when all sub-tasks finished, got error: %v", err)
	}
}

func TestSetStatusFinishFailsWhenSubTaskStillWIP(t *testing.T) {
	dir := t.TempDir()
	writeTask(t, dir, "report", "7", "open", "## Sub-tasks: 8, 9\n")
	writeTask(t, dir, "child", "8", "finished", "body")
	writeTask(t, dir, "child", "9", "wip", "body")

	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.SetStatus("report", "finished"); err == nil {
		t.Fatal("expected finish to fail while sub-task 9 is still wip")
	}

	// The parent task must remain unchanged (still open).
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, e := range entries {
		if strings.Contains(e.Name(), "report") && strings.HasSuffix(e.Name(), "-open.md") {
			found = true
		}
	}
	if !found {
		t.Error("expected report task to remain in open status after failed finish")
	}
}

func TestCreateThenShowRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.Create("buy groceries", "pick up milk and eggs"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	out, err := store.Show("groceries")
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if !strings.Contains(out, "milk") {
		t.Errorf("Show() = %q, want it to contain the task body", out)
	}
}

func TestListAnnotatesAgeOfEachTask(t *testing.T) {
	dir := t.TempDir()
	path := writeTask(t, dir, "widget", "id1", "open", "body")
	old := time.Now().Add(-3 * time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}
	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	out, err := store.List(false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !strings.Contains(out, "widget") || !strings.Contains(out, "ago") {
		t.Errorf("List() = %q, want the filename and a humanized age", out)
	}
}

func TestAssignAndGetAssignee(t *testing.T) {
	dir := t.TempDir()
	path := writeTask(t, dir, "widget", "id1", "open", "body")
	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.Assign("widget", "scheduler"); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	// Assign rewrites the file in place (no status change), so the path is
	// unchanged.
	got, err := store.GetAssignee(path)
	if err != nil {
		t.Fatalf("GetAssignee: %v", err)
	}
	if got != "scheduler" {
		t.Errorf("GetAssignee() = %q, want %q", got, "scheduler")
	}
}

func TestCountByStatus(t *testing.T) {
	dir := t.TempDir()
	writeTask(t, dir, "a", "1", "open", "")
	writeTask(t, dir, "b", "2", "wip", "")
	writeTask(t, dir, "c", "3", "wip", "")
	writeTask(t, dir, "d", "4", "finished", "")
	writeTask(t, dir, "e", "5", "paused", "")
	writeTask(t, dir, "f", "6", "unsuccessful", "")

	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	open, wip, paused, finished, unsuccessful, err := store.CountByStatus()
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if open != 1 || wip != 2 || paused != 1 || finished != 1 || unsuccessful != 1 {
		t.Errorf("CountByStatus() = %d,%d,%d,%d,%d, want 1,2,1,1,1", open, wip, paused, finished, unsuccessful)
	}
}
