// Package llm wraps the local LLM runtime behind a small provider interface
// used by the router, the task runner, skill sessions, and sub-agent runs.
package llm

import (
	"context"
	"fmt"

	"github.com/ollama/ollama/api"
)

// Role mirrors the chat roles accepted by the runtime.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn sent to or received from the model.
type Message struct {
	Role    Role
	Content string
}

// ChatRequest is a single non-streaming chat completion call.
type ChatRequest struct {
	Model    string
	Messages []Message
}

// Provider is the interface the rest of the hub programs against; Ollama is
// the only implementation, but isolating it behind an interface keeps the
// router and tools free of transport details and easy to test with a fake.
type Provider interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
	ContextSize(ctx context.Context, model string) (int, error)
	DefaultModel(ctx context.Context) (string, error)
}

// OllamaProvider talks to a local Ollama server via the official client.
type OllamaProvider struct {
	Client *api.Client
}

// NewOllamaProvider builds a provider bound to the given Ollama client.
func NewOllamaProvider(client *api.Client) *OllamaProvider {
	return &OllamaProvider{Client: client}
}

// Chat issues one non-streaming chat completion and returns the assistant's
// reply content.
func (p *OllamaProvider) Chat(ctx context.Context, req ChatRequest) (string, error) {
	apiMessages := make([]api.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		apiMessages = append(apiMessages, api.Message{Role: string(m.Role), Content: m.Content})
	}

	stream := false
	var reply string
	chatReq := &api.ChatRequest{
		Model:    req.Model,
		Messages: apiMessages,
		Stream:   &stream,
	}

	err := p.Client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		reply += resp.Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("llm: chat request to %s: %w", req.Model, err)
	}
	return reply, nil
}

// ContextSize probes the model's context window, used by the router's
// context-window governance.
func (p *OllamaProvider) ContextSize(ctx context.Context, model string) (int, error) {
	resp, err := p.Client.Show(ctx, &api.ShowRequest{Model: model})
	if err != nil {
		return 0, fmt.Errorf("llm: show %s: %w", model, err)
	}
	if n, ok := resp.ModelInfo["general.context_length"]; ok {
		if f, ok := n.(float64); ok && f > 0 {
			return int(f), nil
		}
	}
	return 4096, nil
}

// DefaultModel picks the first model name from the runtime's list, falling
// back to a hard-coded default when none are installed or the server is
// unreachable.
func (p *OllamaProvider) DefaultModel(ctx context.Context) (string, error) {
	resp, err := p.Client.List(ctx)
	if err != nil || len(resp.Models) == 0 {
		return "llama3.2:latest", nil
	}
	return resp.Models[0].Name, nil
}
