package tools

import (
	"context"
	"net/http"
	"time"

	"github.com/raro42/hearthhub/internal/catalog"
	"github.com/raro42/hearthhub/internal/llm"
	"github.com/raro42/hearthhub/internal/registry"
)

// TaskStore is the subset of task-store operations the TASK_* tools need.
// Implemented by internal/tasks.Store; kept as an interface here so this
// package does not import internal/tasks.
type TaskStore interface {
	List(all bool) (string, error)
	Show(idOrPath string) (string, error)
	Append(idOrPath, note string) (string, error)
	SetStatus(idOrPath, status string) (string, error)
	Create(topic, body string) (string, error)
	Assign(idOrPath, agentID string) (string, error)
	Sleep(idOrPath string, until time.Time) (string, error)
}

// ScheduleStore is the subset of scheduler-store operations the SCHEDULE and
// REMOVE_SCHEDULE tools need. Implemented by internal/scheduler.Store.
type ScheduleStore interface {
	Add(id, cron, at, task, replyToChannelID string) (resultID string, added bool, err error)
	Remove(id string) (bool, error)
}

// RemoteToolClient dispatches a named remote tool call over whichever
// transport was configured. Implemented by internal/remotetool.Client.
type RemoteToolClient interface {
	CallTool(ctx context.Context, name string, argsJSON string) (string, error)
}

// OllamaAdmin exposes the subset of api.Client administrative calls the
// OLLAMA_API tool sub-dispatches to.
type OllamaAdmin interface {
	ListModels(ctx context.Context) (string, error)
	Version(ctx context.Context) (string, error)
	Running(ctx context.Context) (string, error)
	Pull(ctx context.Context, model string) (string, error)
	Delete(ctx context.Context, model string) (string, error)
	Embed(ctx context.Context, model, text string) (string, error)
	Load(ctx context.Context, model, keepAlive string) (string, error)
	Unload(ctx context.Context, model string) (string, error)
}

// DiscordClient sends an allowlisted request to the Discord REST API.
type DiscordClient interface {
	Do(ctx context.Context, method, path string, body string) (string, error)
}

// Origin describes where a question or tool invocation originated.
type Origin struct {
	ChannelKind string // "discord", "desktop", "cli"
	ChannelID   string
	IsDiscord   bool
}

// StatusSink is a write-only, best-effort channel for short human-readable
// progress strings; emission must never block the tool loop.
type StatusSink interface {
	Emit(message string)
}

// NoopStatusSink discards every emission.
type NoopStatusSink struct{}

func (NoopStatusSink) Emit(string) {}

// Context bundles every dependency a tool implementation needs.
type Context struct {
	DataDir             string
	AllowLocalCommands  bool
	AllowPythonScript   bool
	AllowSchedule       bool
	BraveSearchAPIKey   string

	LLM     llm.Provider
	Catalog *catalog.Catalog
	Agents  []*registry.Agent
	Skills  []registry.Skill

	Tasks     TaskStore
	Schedules ScheduleStore
	Remote    RemoteToolClient
	Ollama    OllamaAdmin
	Discord   DiscordClient

	HTTPClient *http.Client
	Origin     Origin
	Status     StatusSink

	// ReduceForContext, when set by the router, summarizes-or-truncates a
	// fetched page body to fit the remaining context budget (spec §4.1).
	ReduceForContext func(body string) string

	// AgentTranscript accumulates (label, reply) pairs recorded by AGENT
	// invocations during one Answer call, for the multi-agent transcript.
	AgentTranscript *[]AgentTurn
}

// AgentTurn is one recorded sub-agent invocation.
type AgentTurn struct {
	Label string
	Reply string
}

func (c *Context) emit(msg string) {
	if c.Status != nil {
		c.Status.Emit(msg)
	}
}
