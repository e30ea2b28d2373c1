package router

import (
	"context"
	"strings"

	"github.com/raro42/hearthhub/internal/tools"
)

// TaskAnswerer adapts a Router to tasks.Answerer: the task runner drives the
// router with scheduling disabled and its own iteration budget, with no
// agent or model override and no originating channel.
type TaskAnswerer struct {
	Router *Router
}

func (a *TaskAnswerer) Answer(ctx context.Context, question string, allowSchedule bool, maxIterations int) (string, error) {
	return a.Router.Answer(ctx, Params{
		Question:      question,
		AllowSchedule: allowSchedule,
		MaxIterations: maxIterations,
		Origin:        tools.Origin{ChannelKind: "task"},
	})
}

// SchedulerExecutor adapts a Router to scheduler.Executor: task text
// beginning with FETCH_URL: or BRAVE_SEARCH: is dispatched directly as that
// tool, bypassing the LLM entirely; anything else runs through the full
// router with scheduling disabled (a fired schedule never re-schedules
// itself).
type SchedulerExecutor struct {
	Router *Router
}

func (e *SchedulerExecutor) Execute(ctx context.Context, task string) (string, error) {
	trimmed := strings.TrimSpace(task)
	upper := strings.ToUpper(trimmed)

	if strings.HasPrefix(upper, string(tools.PrefixFetchURL)+":") || strings.HasPrefix(upper, string(tools.PrefixBraveSearch)+":") {
		tl, ok := tools.ParseToolLine(trimmed)
		if ok {
			tc := &tools.Context{
				DataDir:           e.Router.DataDir,
				BraveSearchAPIKey: e.Router.BraveSearchAPIKey,
				LLM:               e.Router.LLM,
				Catalog:           e.Router.Catalog,
				Status:            tools.NoopStatusSink{},
			}
			result := tools.Dispatch(ctx, tc, tl)
			return result.Text, nil
		}
	}

	return e.Router.Answer(ctx, Params{
		Question:      task,
		AllowSchedule: false,
		Origin:        tools.Origin{ChannelKind: "scheduler"},
	})
}
