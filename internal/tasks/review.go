package tasks

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/raro42/hearthhub/internal/logging"
)

const (
	reviewInterval         = 60 * time.Second
	wipTimeout             = 30 * time.Minute
	maxIterationsPerTask   = 20
	maxTasksPerReviewCycle = 3
)

// reviewAgents is the whitelist of assignees the review loop will pick work
// for; a task with no assignee is also eligible.
var reviewAgents = map[string]bool{"scheduler": true, "default": true}

// Reviewer drives the periodic task review cycle. The Interval, WIPTimeout,
// MaxTasksPerCycle, and MaxIterationsPerTask fields may be set after
// construction to override the package defaults (run.go sets Interval,
// WIPTimeout and MaxTasksPerCycle from config.Config); zero values fall back
// to those defaults.
type Reviewer struct {
	Store    *Store
	Answerer Answerer

	Interval             time.Duration
	WIPTimeout           time.Duration
	MaxTasksPerCycle     int
	MaxIterationsPerTask int
}

// NewReviewer builds a Reviewer bound to a Store and the router surface it
// drives work through.
func NewReviewer(store *Store, answerer Answerer) *Reviewer {
	return &Reviewer{Store: store, Answerer: answerer}
}

func (rv *Reviewer) interval() time.Duration {
	if rv.Interval > 0 {
		return rv.Interval
	}
	return reviewInterval
}

func (rv *Reviewer) wipTimeout() time.Duration {
	if rv.WIPTimeout > 0 {
		return rv.WIPTimeout
	}
	return wipTimeout
}

func (rv *Reviewer) maxTasksPerCycle() int {
	if rv.MaxTasksPerCycle > 0 {
		return rv.MaxTasksPerCycle
	}
	return maxTasksPerReviewCycle
}

func (rv *Reviewer) maxIterationsPerTask() int {
	if rv.MaxIterationsPerTask > 0 {
		return rv.MaxIterationsPerTask
	}
	return maxIterationsPerTask
}

// Run loops every reviewInterval until ctx is canceled.
func (rv *Reviewer) Run(ctx context.Context) {
	ticker := time.NewTicker(rv.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rv.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single review cycle: log the status count, close stale
// WIP tasks, resume due paused tasks, then dispatch up to
// maxTasksPerReviewCycle ready open tasks to the runner.
func (rv *Reviewer) RunOnce(ctx context.Context) {
	if open, wip, paused, finished, unsuccessful, err := rv.Store.CountByStatus(); err == nil {
		logging.Infof("tasks: scan open=%d wip=%d paused=%d finished=%d unsuccessful=%d", open, wip, paused, finished, unsuccessful)
	}

	rv.closeStaleWIPs()
	rv.resumePausedTasks()

	limit := rv.maxTasksPerCycle()
	count := 0
	for count < limit {
		path, ok := rv.pickOneOpenTask(count)
		if !ok {
			break
		}
		logging.Infof("tasks: review: starting work on %q (%d/%d this cycle)", path, count+1, limit)
		if _, err := RunTaskUntilFinished(ctx, rv.Store, path, rv.Answerer, rv.maxIterationsPerTask()); err != nil {
			logging.Errorf("tasks: review: run failed for %q: %v", path, err)
		}
		count++
	}
}

func (rv *Reviewer) closeStaleWIPs() {
	records, err := rv.Store.ListOpenAndWIP()
	if err != nil {
		logging.Warnf("tasks: review: list_open_and_wip failed: %v", err)
		return
	}
	now := time.Now()
	for _, r := range records {
		if r.Status != StatusWIP {
			continue
		}
		if now.Sub(r.ModAt) < rv.wipTimeout() {
			continue
		}
		logging.Infof("tasks: review: closing stale WIP (%d min old): %s", int(now.Sub(r.ModAt).Minutes()), r.Path)
		newPath, err := SetTaskStatus(r.Path, StatusUnsuccessful)
		if err != nil {
			logging.Warnf("tasks: review: set_task_status unsuccessful failed: %v", err)
			continue
		}
		if err := AppendToTask(newPath, fmt.Sprintf("Closed as unsuccessful (%d min timeout).", int(rv.wipTimeout().Minutes()))); err != nil {
			logging.Warnf("tasks: review: append note failed: %v", err)
		}
	}
}

func (rv *Reviewer) resumePausedTasks() {
	records, err := rv.Store.listAll()
	if err != nil {
		return
	}
	now := time.Now()
	for _, r := range records {
		if r.Status != StatusPaused {
			continue
		}
		body, err := ReadBody(r.Path)
		if err != nil {
			continue
		}
		meta := ParseMetadata(body)
		if meta.PausedUntil == "" {
			continue
		}
		until, err := parsePausedUntil(meta.PausedUntil)
		if err != nil || now.Before(until) {
			continue
		}
		logging.Infof("tasks: review: resuming paused task %q (paused until %s passed)", r.Path, meta.PausedUntil)
		newPath, err := SetTaskStatus(r.Path, StatusOpen)
		if err != nil {
			continue
		}
		cleared := removeMetadataLine(body, "PausedUntil")
		_ = writeBody(newPath, cleared)
	}
}

// pickOneOpenTask returns the next ready open task assigned to a
// review-whitelisted agent (or unassigned). index is used only for the
// "why nothing ran" log to avoid repeating it once at least one task has
// already been picked this cycle.
func (rv *Reviewer) pickOneOpenTask(index int) (string, bool) {
	records, err := rv.Store.ListOpenAndWIP()
	if err != nil {
		return "", false
	}

	var openAll []taskRecord
	for _, r := range records {
		if r.Status == StatusOpen {
			openAll = append(openAll, r)
		}
	}
	if len(openAll) == 0 {
		return "", false
	}

	var forScheduler []taskRecord
	var assignees []string
	for _, r := range openAll {
		assignee, err := rv.Store.GetAssignee(r.Path)
		if err != nil {
			assignee = ""
		}
		if assignee == "" || reviewAgents[assignee] {
			forScheduler = append(forScheduler, r)
		} else {
			assignees = append(assignees, assignee)
		}
	}
	if len(forScheduler) == 0 {
		if index == 0 {
			logging.Infof("tasks: review: %d open task(s) but none assigned to scheduler/default (assignees: %v)", len(openAll), assignees)
		}
		return "", false
	}

	statusByID, err := rv.Store.statusByID()
	if err != nil {
		statusByID = map[string]Status{}
	}
	for _, r := range forScheduler {
		body, err := ReadBody(r.Path)
		if err != nil {
			continue
		}
		meta := ParseMetadata(body)
		finishedIDs := map[string]bool{}
		for id, status := range statusByID {
			if status == StatusFinished {
				finishedIDs[id] = true
			}
		}
		if meta.IsReady(finishedIDs) {
			return r.Path, true
		}
	}

	if index == 0 {
		logging.Infof("tasks: review: open tasks assigned to scheduler/default exist but none are ready (check Depends or sub-tasks)")
	}
	return "", false
}

func parsePausedUntil(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", s, time.Local)
}

func writeBody(path, body string) error {
	return os.WriteFile(path, []byte(body), 0o644)
}
