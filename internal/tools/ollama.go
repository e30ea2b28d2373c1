package tools

import (
	"context"
	"fmt"
	"strings"
)

// ollamaAPI sub-dispatches over the runtime's administrative surface:
// list_models, version, running, pull <m> [stream], delete <m>,
// embed <m> <text>, load <m> [keep_alive], unload <m>.
func ollamaAPI(ctx context.Context, tc *Context, arg string) Result {
	if tc.Ollama == nil {
		return Result{Text: "OLLAMA_API is not configured. Answer without this result."}
	}

	action, rest := splitFirstToken(arg)
	action = strings.ToLower(action)

	var (
		out string
		err error
	)

	switch action {
	case "list_models":
		out, err = tc.Ollama.ListModels(ctx)
	case "version":
		out, err = tc.Ollama.Version(ctx)
	case "running":
		out, err = tc.Ollama.Running(ctx)
	case "pull":
		model, _ := splitFirstToken(rest)
		if model == "" {
			return Result{Text: "OLLAMA_API pull requires a model name. Answer without this result."}
		}
		out, err = tc.Ollama.Pull(ctx, model)
	case "delete":
		if rest == "" {
			return Result{Text: "OLLAMA_API delete requires a model name. Answer without this result."}
		}
		out, err = tc.Ollama.Delete(ctx, rest)
	case "embed":
		model, text := splitFirstToken(rest)
		if model == "" || text == "" {
			return Result{Text: "OLLAMA_API embed requires a model and text. Answer without this result."}
		}
		out, err = tc.Ollama.Embed(ctx, model, text)
	case "load":
		model, keepAlive := splitFirstToken(rest)
		if model == "" {
			return Result{Text: "OLLAMA_API load requires a model name. Answer without this result."}
		}
		out, err = tc.Ollama.Load(ctx, model, keepAlive)
	case "unload":
		if rest == "" {
			return Result{Text: "OLLAMA_API unload requires a model name. Answer without this result."}
		}
		out, err = tc.Ollama.Unload(ctx, rest)
	default:
		return Result{Text: fmt.Sprintf("OLLAMA_API: unknown action %q. Answer without this result.", action)}
	}

	if err != nil {
		return Result{Text: fmt.Sprintf("OLLAMA_API %s failed: %v. Answer without this result.", action, err)}
	}
	return Result{Text: out}
}
