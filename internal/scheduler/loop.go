package scheduler

import (
	"context"
	"time"

	"github.com/raro42/hearthhub/internal/logging"
)

// filePollInterval bounds how long the loop ever sleeps before re-checking
// the schedules file's mtime, so edits take effect within that window.
const filePollInterval = 2 * time.Second

// maxSleep is an upper bound on how far into the future a single wait is
// planned for, even when the next due entry is further out.
const maxSleep = 60 * time.Second

// Executor runs a fired entry's task text and returns a reply, if any, to
// post back to the origin channel. Implementations dispatch to FETCH_URL or
// BRAVE_SEARCH directly when the task text begins with that prefix, or
// through the agent router otherwise (see router.SchedulerExecutor).
type Executor interface {
	Execute(ctx context.Context, task string) (reply string, err error)
}

// ChannelPoster delivers a scheduler reply to its originating channel.
type ChannelPoster interface {
	Post(ctx context.Context, channelID, message string) error
}

// Runner drives the scheduler's fire loop against a Store.
type Runner struct {
	Store    *Store
	Executor Executor
	Poster   ChannelPoster

	running map[string]bool
}

// NewRunner constructs a Runner bound to a Store and its dependencies.
func NewRunner(store *Store, executor Executor, poster ChannelPoster) *Runner {
	return &Runner{Store: store, Executor: executor, Poster: poster, running: make(map[string]bool)}
}

// Run loops until ctx is canceled. Each iteration computes the earliest due
// instant and its entry, sleeps until that instant (bounded by
// min(filePollInterval, maxSleep) so file edits are never missed for long),
// and on waking fires that entry if the wait actually reached it. Executions
// are serialized: at most one due entry runs per wake.
func (r *Runner) Run(ctx context.Context) {
	for {
		if r.Store.Changed() {
			if err := r.Store.reload(); err != nil {
				logging.Warnf("scheduler: reload failed: %v", err)
			}
		}

		now := time.Now()
		entries := r.Store.Entries()

		var earliestEntry *Entry
		var earliest time.Time
		for i := range entries {
			e := entries[i]
			next, ok, err := NextRun(e, now)
			if err != nil {
				logging.Warnf("scheduler: entry %q: %v", e.ID, err)
				continue
			}
			if !ok {
				continue // expired one-shot
			}
			logging.Debugf("scheduler: entry %q next run at %s", e.ID, next.Format(time.RFC3339))
			if earliestEntry == nil || next.Before(earliest) {
				earliest = next
				earliestEntry = &e
			}
		}

		wait := filePollInterval
		if earliestEntry != nil {
			if untilDue := earliest.Sub(now); untilDue > 0 && untilDue < wait {
				wait = untilDue
			}
		}
		if wait > maxSleep {
			wait = maxSleep
		}
		logging.Debugf("scheduler: sleeping %s", wait)

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		if earliestEntry != nil && !time.Now().Before(earliest) {
			r.execute(ctx, *earliestEntry)
		}
	}
}

// execute runs one entry's task and, if it came with an origin channel and
// produced a reply, posts it there; otherwise it logs.
func (r *Runner) execute(ctx context.Context, e Entry) {
	logging.Infof("scheduler: firing entry %q", e.ID)

	reply, err := r.Executor.Execute(ctx, e.Task)
	if err != nil {
		logging.Errorf("scheduler: entry %q execution failed: %v", e.ID, err)
		return
	}

	if e.ReplyToChannelID == "" || reply == "" {
		logging.Infof("scheduler: entry %q completed (no reply channel)", e.ID)
		return
	}
	if r.Poster == nil {
		logging.Warnf("scheduler: entry %q has a reply channel but no poster configured", e.ID)
		return
	}
	if err := r.Poster.Post(ctx, e.ReplyToChannelID, reply); err != nil {
		logging.Errorf("scheduler: entry %q reply post failed: %v", e.ID, err)
	}
}
