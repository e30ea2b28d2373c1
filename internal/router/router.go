// Package router implements the agent router's two-phase plan/execute
// protocol: one LLM call to produce a short recommendation, then an
// iterative tool-driven loop that feeds each tool's outcome back into the
// conversation until the model produces a final answer or the iteration
// cap is reached.
package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/raro42/hearthhub/internal/catalog"
	"github.com/raro42/hearthhub/internal/llm"
	"github.com/raro42/hearthhub/internal/registry"
	"github.com/raro42/hearthhub/internal/session"
	"github.com/raro42/hearthhub/internal/tools"
)

// defaultMaxIterations is used when no agent (and therefore no per-agent
// cap) is selected.
const defaultMaxIterations = 15

// historyCap bounds how many prior turns are sent to the model and kept in
// the in-memory session ring, oldest-first after trimming.
const historyCap = 20

// reservedContextTokens is subtracted from a model's context window before
// comparing against the estimated tokens already in use.
const reservedContextTokens = 512

// charsPerToken is the rough token-estimation divisor used for context
// governance (§4.1): (chars of every message + tool descriptions)/4 + 50.
const charsPerToken = 4

// genericAckThreshold is the length, in characters, below which a final
// reply is considered "short" for purposes of the multi-agent transcript
// append (§4.1).
const genericAckThreshold = 500

// genericAcks are reply texts (case-insensitively matched after trimming)
// that the router treats as a generic acknowledgement even if they exceed
// genericAckThreshold, ensuring sub-agent work isn't silently dropped.
var genericAcks = []string{
	"ok", "okay", "done", "got it", "understood", "sounds good",
	"will do", "sure", "noted", "alright",
}

// Router turns one question into a final reply by running the plan/execute
// protocol against the LLM, dispatching any tool lines it parses out of the
// model's output.
type Router struct {
	LLM     llm.Provider
	Catalog *catalog.Catalog
	Agents  []*registry.Agent
	Skills  []registry.Skill

	Tasks     tools.TaskStore
	Schedules tools.ScheduleStore
	Remote    tools.RemoteToolClient
	Ollama    tools.OllamaAdmin
	Discord   tools.DiscordClient

	Sessions *session.Store

	DataDir            string
	AllowLocalCommands bool
	AllowPythonScript  bool
	BraveSearchAPIKey  string
	HTTPClient         *http.Client
}

// Params configures one call to Answer.
type Params struct {
	Question      string
	Agent         *registry.Agent
	Model         string
	Origin        tools.Origin
	Author        string
	AllowSchedule bool
	Status        tools.StatusSink

	// MaxIterations overrides the effective cap when no agent is selected
	// (and is ignored otherwise, since an agent's own cap governs). Zero
	// means defaultMaxIterations.
	MaxIterations int
}

// Answer runs the plan/execute protocol for one question and returns the
// final textual reply, or an error string for conditions that must fail
// before any LLM request is issued (e.g. an unknown explicit model).
func (r *Router) Answer(ctx context.Context, p Params) (string, error) {
	model, systemPreamble, cap, err := r.effectiveParams(p)
	if err != nil {
		return "", err
	}

	status := p.Status
	if status == nil {
		status = tools.NoopStatusSink{}
	}

	key := session.Key{Kind: p.Origin.ChannelKind, ID: p.Origin.ChannelID}
	history := r.trimmedHistory(key)

	var transcript []tools.AgentTurn
	tc := &tools.Context{
		DataDir:            r.DataDir,
		AllowLocalCommands: r.AllowLocalCommands,
		AllowPythonScript:  r.AllowPythonScript,
		AllowSchedule:      p.AllowSchedule,
		BraveSearchAPIKey:  r.BraveSearchAPIKey,
		LLM:                r.LLM,
		Catalog:            r.Catalog,
		Agents:             r.Agents,
		Skills:             r.Skills,
		Tasks:              r.Tasks,
		Schedules:          r.Schedules,
		Remote:             r.Remote,
		Ollama:             r.Ollama,
		Discord:            r.Discord,
		Origin:             p.Origin,
		Status:             status,
		AgentTranscript:    &transcript,
		HTTPClient:         r.HTTPClient,
	}
	tc.ReduceForContext = func(body string) string {
		return r.reduceForContext(ctx, model, body, history, p, tc)
	}

	descriptions := tools.Descriptions()

	plan, err := r.plan(ctx, model, systemPreamble, descriptions, p.Question)
	if err != nil {
		return "", fmt.Errorf("router: planning request: %w", err)
	}

	var assistant string
	if tl, ok := tools.ParseToolLine(plan); ok {
		// Fast path: the plan itself already contains a parseable tool
		// line, so the execution request is skipped entirely.
		assistant = fmt.Sprintf("%s: %s", tl.Prefix, tl.Arg)
	} else {
		assistant, err = r.execute(ctx, model, systemPreamble, descriptions, plan, p.Question, history)
		if err != nil {
			return "", fmt.Errorf("router: execution request: %w", err)
		}
	}

	working := append([]llm.Message{}, history...)
	working = append(working, llm.Message{Role: llm.RoleUser, Content: p.Question})

	for i := 0; i < cap; i++ {
		tl, ok := tools.ParseToolLine(assistant)
		if !ok {
			break
		}

		status.Emit(statusMessage(tl))

		result := tools.Dispatch(ctx, tc, tl)

		working = append(working, llm.Message{Role: llm.RoleAssistant, Content: assistant})
		role := llm.RoleUser
		if result.IsLocalCommand {
			role = llm.RoleSystem
		}
		working = append(working, llm.Message{Role: role, Content: result.Text})

		reply, err := r.LLM.Chat(ctx, llm.ChatRequest{
			Model:    model,
			Messages: buildMessages(systemPreamble, descriptions, plan, working),
		})
		if err != nil {
			return "", fmt.Errorf("router: iteration %d: %w", i, err)
		}
		assistant = reply
	}

	final := assistant
	if len(transcript) >= 2 && isShortOrGenericAck(final) {
		final = appendTranscript(final, transcript)
	}

	r.Sessions.Push(key, session.Message{Role: session.RoleUser, Content: p.Question})
	r.Sessions.Push(key, session.Message{Role: session.RoleAssistant, Content: final})

	return final, nil
}

// effectiveParams resolves the model, system preamble, and iteration cap for
// one call, honoring an agent selection and validating an explicit model
// name against the catalog before any LLM request is issued.
func (r *Router) effectiveParams(p Params) (model, preamble string, cap int, err error) {
	cap = defaultMaxIterations
	if p.MaxIterations > 0 {
		cap = p.MaxIterations
	}

	if p.Agent != nil {
		model = p.Agent.ResolvedModel
		if model == "" {
			model = p.Agent.Model
		}
		preamble = p.Agent.Prompt
		cap = p.Agent.MaxToolIterations
	}

	if p.Model != "" {
		m, ok := r.Catalog.Find(p.Model)
		if !ok {
			return "", "", 0, fmt.Errorf("router: explicit model %q is not present in the model catalog", p.Model)
		}
		model = m.Name
	}

	if model == "" && r.Catalog != nil {
		if m, ok := r.Catalog.Resolve(catalog.RoleGeneral); ok {
			model = m.Name
		}
	}

	if p.Origin.ChannelID != "" && p.Author != "" {
		identity := fmt.Sprintf("You are talking with %s.", p.Author)
		preamble = joinNonEmpty(preamble, identity)
	}

	return model, preamble, cap, nil
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

const planningDirective = `When you need a tool to answer, do not call it yet. Instead reply with exactly one line of the form "RECOMMEND: <short plan>" describing what you intend to do. Do not execute anything in this step.`

const executionDirective = `When you need a tool, emit exactly one line of the form "TOOL: <argument>" using one of the tool names below (the leading word "RECOMMEND:" is also accepted and stripped). Otherwise, answer the question directly as plain text.`

func (r *Router) plan(ctx context.Context, model, preamble, descriptions, question string) (string, error) {
	system := joinNonEmpty(preamble, planningDirective, descriptions)
	return r.LLM.Chat(ctx, llm.ChatRequest{
		Model: model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: question},
		},
	})
}

func (r *Router) execute(ctx context.Context, model, preamble, descriptions, plan, question string, history []llm.Message) (string, error) {
	system := joinNonEmpty(preamble, executionDirective, descriptions, "Your plan: "+plan)
	messages := []llm.Message{{Role: llm.RoleSystem, Content: system}}
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})
	return r.LLM.Chat(ctx, llm.ChatRequest{Model: model, Messages: messages})
}

func buildMessages(preamble, descriptions, plan string, working []llm.Message) []llm.Message {
	system := joinNonEmpty(preamble, executionDirective, descriptions, "Your plan: "+plan)
	messages := []llm.Message{{Role: llm.RoleSystem, Content: system}}
	messages = append(messages, working...)
	return messages
}

// trimmedHistory returns the channel's ring as llm.Message, capped to the
// most recent historyCap entries, oldest-first.
func (r *Router) trimmedHistory(key session.Key) []llm.Message {
	if r.Sessions == nil {
		return nil
	}
	msgs := r.Sessions.History(key)
	if len(msgs) > historyCap {
		msgs = msgs[len(msgs)-historyCap:]
	}
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
	}
	return out
}

// estimateTokens is the router's context-budget heuristic: total characters
// across every message plus the tool-descriptions text, divided by four,
// plus a fixed overhead.
func estimateTokens(messages []llm.Message, descriptions string) int {
	chars := len(descriptions)
	for _, m := range messages {
		chars += len(m.Content)
	}
	return chars/charsPerToken + 50
}

// reduceForContext implements the FETCH_URL context-window governance
// (§4.1): if the fetched body would exceed the remaining budget, it is
// summarized by a dedicated LLM request; if that fails, it falls back to a
// hard truncation with a marker. Bodies that already fit are returned
// unchanged.
func (r *Router) reduceForContext(ctx context.Context, model, body string, history []llm.Message, p Params, tc *tools.Context) string {
	contextSize := 8192
	if r.LLM != nil {
		if n, err := r.LLM.ContextSize(ctx, model); err == nil && n > 0 {
			contextSize = n
		}
	}

	used := estimateTokens(history, tools.Descriptions())
	used += len(p.Question) / charsPerToken

	budget := contextSize - reservedContextTokens - used
	bodyTokens := len(body) / charsPerToken
	if bodyTokens <= budget {
		return body
	}
	if budget <= 0 {
		budget = 256
	}

	targetTokens := budget / 2
	if targetTokens < 256 {
		targetTokens = 256
	}

	truncatedInputChars := budget * charsPerToken
	if truncatedInputChars > len(body) {
		truncatedInputChars = len(body)
	}
	preTruncated := body[:truncatedInputChars]

	summary, err := r.LLM.Chat(ctx, llm.ChatRequest{
		Model: model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: fmt.Sprintf("Summarize the following content in under %d tokens.", targetTokens)},
			{Role: llm.RoleUser, Content: preTruncated},
		},
	})
	if err != nil || strings.TrimSpace(summary) == "" {
		hardLimitChars := budget * charsPerToken
		if hardLimitChars > len(body) {
			hardLimitChars = len(body)
		}
		if hardLimitChars < 0 {
			hardLimitChars = 0
		}
		return body[:hardLimitChars] + "\n\n(content truncated due to context limit)"
	}
	return summary
}

func statusMessage(tl tools.ToolLine) string {
	switch tl.Prefix {
	case tools.PrefixFetchURL:
		return "Fetching a web page…"
	case tools.PrefixBraveSearch:
		return "Searching the web…"
	case tools.PrefixSkill:
		return fmt.Sprintf("Using skill %s…", tl.Arg)
	case tools.PrefixAgent:
		return fmt.Sprintf("Consulting agent %s…", tl.Arg)
	default:
		return fmt.Sprintf("Running %s…", tl.Prefix)
	}
}

func isShortOrGenericAck(reply string) bool {
	trimmed := strings.TrimSpace(reply)
	if len(trimmed) < genericAckThreshold {
		return true
	}
	lower := strings.ToLower(strings.Trim(trimmed, ".! "))
	for _, ack := range genericAcks {
		if lower == ack {
			return true
		}
	}
	return false
}

func appendTranscript(final string, transcript []tools.AgentTurn) string {
	var b strings.Builder
	b.WriteString(final)
	b.WriteString("\n\n---\n**Conversation:**\n\n")
	for _, t := range transcript {
		fmt.Fprintf(&b, "**%s:** %s\n\n", t.Label, t.Reply)
	}
	return strings.TrimRight(b.String(), "\n")
}
