package tools

import (
	"context"
	"fmt"

	"github.com/raro42/hearthhub/internal/llm"
	"github.com/raro42/hearthhub/internal/registry"
)

// runAgent resolves an agent by slug/name/id and runs a fresh LLM session
// using its combined prompt and resolved model, recording the pair for the
// multi-agent transcript.
func runAgent(ctx context.Context, tc *Context, arg string) Result {
	query, task := splitFirstToken(arg)

	agent, ok := registry.Resolve(tc.Agents, query)
	if !ok {
		return Result{Text: fmt.Sprintf("AGENT %q not found. Answer without this result.", query)}
	}

	tc.emit(fmt.Sprintf("Consulting agent %s…", agent.Name))

	if task == "" {
		task = query
	}

	modelName := agent.ResolvedModel
	if modelName == "" && tc.Catalog != nil {
		if m, ok := tc.Catalog.ResolveOverride(agent.Model, agent.Role); ok {
			modelName = m.Name
		}
	}
	if modelName == "" {
		modelName = "default"
	}

	reply, err := tc.LLM.Chat(ctx, llm.ChatRequest{
		Model: modelName,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: agent.Prompt},
			{Role: llm.RoleUser, Content: task},
		},
	})
	if err != nil {
		return Result{Text: fmt.Sprintf("AGENT %s failed: %v. Answer without this result.", agent.Name, err)}
	}

	if tc.AgentTranscript != nil {
		*tc.AgentTranscript = append(*tc.AgentTranscript, AgentTurn{Label: agent.Name, Reply: reply})
	}

	return Result{Text: fmt.Sprintf("Agent %q (%s) result:\n\n%s\n\nUse this to answer the user's question.", agent.Name, agent.ID, reply)}
}
