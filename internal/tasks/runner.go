package tasks

import (
	"context"
	"fmt"

	"github.com/raro42/hearthhub/internal/logging"
)

// Answerer is the subset of the agent router's surface the task runner
// needs. Defined here (rather than importing internal/router directly) so
// this package has no dependency on the router package at all.
type Answerer interface {
	Answer(ctx context.Context, question string, allowSchedule bool, maxIterations int) (string, error)
}

// RunTaskUntilFinished transitions the picked task from open to wip (the
// §4.4 diagram's "runner picks" edge), reads its body, builds a synthetic
// work prompt, drives the router with scheduling disabled and the given
// iteration budget, and appends the reply as a new Feedback section. The
// wip transition happens before the router runs so a task is never picked
// twice in the same review cycle and so an unresponsive run is eventually
// caught by the review loop's stale-WIP timeout.
func RunTaskUntilFinished(ctx context.Context, store *Store, path string, answerer Answerer, maxIterations int) (string, error) {
	wipPath, err := SetTaskStatus(path, StatusWIP)
	if err != nil {
		return "", fmt.Errorf("tasks: runner: mark wip: %w", err)
	}

	body, err := ReadBody(wipPath)
	if err != nil {
		return "", err
	}

	question := fmt.Sprintf("Work on this task: %s", body)
	reply, err := answerer.Answer(ctx, question, false, maxIterations)
	if err != nil {
		return "", fmt.Errorf("tasks: runner: %w", err)
	}

	if err := AppendToTask(wipPath, reply); err != nil {
		logging.Warnf("tasks: runner: append feedback to %s failed: %v", wipPath, err)
	}

	return reply, nil
}
