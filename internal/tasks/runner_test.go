package tasks

import (
	"context"
	"strings"
	"testing"
)

func TestRunTaskUntilFinishedTransitionsOpenToWIP(t *testing.T) {
	dir := t.TempDir()
	path := writeTask(t, dir, "chore", "id1", "open", "do the thing")

	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	reply, err := RunTaskUntilFinished(context.Background(), store, path, &fakeAnswerer{reply: "done"}, 5)
	if err != nil {
		t.Fatalf("RunTaskUntilFinished: %v", err)
	}
	if reply != "done" {
		t.Errorf("reply = %q, want %q", reply, "done")
	}

	records, err := store.listAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Status != StatusWIP {
		t.Fatalf("expected the task to be transitioned to wip, got %+v", records)
	}

	body, err := ReadBody(records[0].Path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body, "done") {
		t.Errorf("body = %q, want the appended feedback", body)
	}
}
