package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/raro42/hearthhub/internal/catalog"
	"github.com/raro42/hearthhub/internal/llm"
	"github.com/raro42/hearthhub/internal/registry"
)

// runSkill resolves a skill (numeric id or topic) and runs it in a fresh
// LLM session: skill body as system prompt, task (or nothing) as user turn.
func runSkill(ctx context.Context, tc *Context, arg string) Result {
	query, task := splitFirstToken(arg)

	skill, ok := registry.ResolveSkill(tc.Skills, query)
	if !ok {
		return Result{Text: fmt.Sprintf("SKILL %q not found. Answer without this result.", query)}
	}

	tc.emit(fmt.Sprintf("Using skill %s…", skill.Label()))

	if task == "" {
		task = query
	}

	model, ok := tc.Catalog.Resolve(catalog.RoleGeneral)
	modelName := "default"
	if ok {
		modelName = model.Name
	}

	reply, err := tc.LLM.Chat(ctx, llm.ChatRequest{
		Model: modelName,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: skill.Body},
			{Role: llm.RoleUser, Content: task},
		},
	})
	if err != nil {
		return Result{Text: fmt.Sprintf("SKILL %s failed: %v. Answer without this result.", skill.Label(), err)}
	}

	return Result{Text: fmt.Sprintf("Skill %q result:\n\n%s\n\nUse this to answer the user's question.", skill.Label(), reply)}
}

// splitFirstToken splits "arg" into its leading whitespace-delimited token
// and the remainder.
func splitFirstToken(arg string) (first, rest string) {
	arg = strings.TrimSpace(arg)
	idx := strings.IndexAny(arg, " \t")
	if idx < 0 {
		return arg, ""
	}
	return arg[:idx], strings.TrimSpace(arg[idx+1:])
}
