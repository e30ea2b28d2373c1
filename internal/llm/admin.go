package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// Admin implements tools.OllamaAdmin, the runtime-administration surface the
// OLLAMA_API tool sub-dispatches to (list/version/running/pull/delete/embed/
// load/unload).
type Admin struct {
	Client *api.Client
}

// NewAdmin builds an Admin bound to the same client the chat provider uses.
func NewAdmin(client *api.Client) *Admin {
	return &Admin{Client: client}
}

func (a *Admin) ListModels(ctx context.Context) (string, error) {
	resp, err := a.Client.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list models: %w", err)
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	if len(names) == 0 {
		return "(no models installed)", nil
	}
	return strings.Join(names, "\n"), nil
}

func (a *Admin) Version(ctx context.Context) (string, error) {
	v, err := a.Client.Version(ctx)
	if err != nil {
		return "", fmt.Errorf("version: %w", err)
	}
	return v, nil
}

func (a *Admin) Running(ctx context.Context) (string, error) {
	resp, err := a.Client.ListRunning(ctx)
	if err != nil {
		return "", fmt.Errorf("running: %w", err)
	}
	if len(resp.Models) == 0 {
		return "(no models currently loaded)", nil
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return strings.Join(names, "\n"), nil
}

func (a *Admin) Pull(ctx context.Context, model string) (string, error) {
	var lastStatus string
	err := a.Client.Pull(ctx, &api.PullRequest{Model: model}, func(resp api.ProgressResponse) error {
		if resp.Status != "" {
			lastStatus = resp.Status
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("pull %s: %w", model, err)
	}
	return fmt.Sprintf("pulled %s (%s)", model, lastStatus), nil
}

func (a *Admin) Delete(ctx context.Context, model string) (string, error) {
	if err := a.Client.Delete(ctx, &api.DeleteRequest{Model: model}); err != nil {
		return "", fmt.Errorf("delete %s: %w", model, err)
	}
	return fmt.Sprintf("deleted %s", model), nil
}

func (a *Admin) Embed(ctx context.Context, model, text string) (string, error) {
	resp, err := a.Client.Embed(ctx, &api.EmbedRequest{Model: model, Input: text})
	if err != nil {
		return "", fmt.Errorf("embed with %s: %w", model, err)
	}
	if len(resp.Embeddings) == 0 {
		return "(no embedding returned)", nil
	}
	return fmt.Sprintf("embedding has %d dimensions", len(resp.Embeddings[0])), nil
}

func (a *Admin) Load(ctx context.Context, model, keepAlive string) (string, error) {
	req := &api.GenerateRequest{Model: model}
	if keepAlive != "" {
		d, err := time.ParseDuration(keepAlive)
		if err != nil {
			return "", fmt.Errorf("load %s: invalid keep_alive %q: %w", model, keepAlive, err)
		}
		req.KeepAlive = &api.Duration{Duration: d}
	}
	if err := a.Client.Generate(ctx, req, func(api.GenerateResponse) error { return nil }); err != nil {
		return "", fmt.Errorf("load %s: %w", model, err)
	}
	return fmt.Sprintf("loaded %s", model), nil
}

func (a *Admin) Unload(ctx context.Context, model string) (string, error) {
	req := &api.GenerateRequest{Model: model, KeepAlive: &api.Duration{Duration: 0}}
	if err := a.Client.Generate(ctx, req, func(api.GenerateResponse) error { return nil }); err != nil {
		return "", fmt.Errorf("unload %s: %w", model, err)
	}
	return fmt.Sprintf("unloaded %s", model), nil
}
