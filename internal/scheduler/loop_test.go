package scheduler

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

type countingExecutor struct {
	calls int32
}

func (c *countingExecutor) Execute(ctx context.Context, task string) (string, error) {
	atomic.AddInt32(&c.calls, 1)
	return "", nil
}

func TestRunnerFiresDueEntryWithinPollWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedules.json")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	at := time.Now().Add(500 * time.Millisecond).Format(time.RFC3339Nano)
	if _, _, err := store.Add("d-1", "", at, "noop", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}

	exec := &countingExecutor{}
	runner := NewRunner(store, exec, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(500*time.Millisecond + filePollInterval + time.Second)
	for time.Now().Before(deadline) {
		if atomic.LoadInt32(&exec.calls) > 0 {
			cancel()
			<-done
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	cancel()
	<-done
	t.Fatalf("entry did not fire within Δ + file_poll_interval")
}
