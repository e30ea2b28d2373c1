package remotetool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// session is the common surface both transports expose: a JSON-RPC request
// that waits for a reply, a fire-and-forget notification, and teardown.
type session interface {
	call(ctx context.Context, method string, params any, timeout time.Duration) (json.RawMessage, error)
	notify(ctx context.Context, method string, params any) error
	close()
}

// Client dispatches a single named tool call against a configured remote
// tool server, opening a fresh transport session per call per the protocol
// contract ("Remote session per call").
type Client struct {
	// Server is either "url:<http(s)-url>" for the streamed-event HTTP
	// transport, or "stdio:cmd|arg1|arg2" for the subprocess transport.
	Server string
}

// NewClient builds a Client bound to a server spec, as read from
// config.Config.RemoteToolServer.
func NewClient(server string) *Client {
	return &Client{Server: server}
}

// CallTool parses argsJSON (a JSON object if it starts with '{', otherwise
// wrapped as {"input": argsJSON}), performs the initialize/initialized
// handshake, issues tools/call, and formats the result. It satisfies
// internal/tools.RemoteToolClient.
func (c *Client) CallTool(ctx context.Context, name string, argsJSON string) (string, error) {
	sess, err := c.open(ctx)
	if err != nil {
		return "", err
	}
	defer sess.close()

	if err := c.handshake(ctx, sess); err != nil {
		return "", err
	}

	args, err := parseArgs(argsJSON)
	if err != nil {
		return "", err
	}

	raw, err := sess.call(ctx, "tools/call", callToolParams{Name: name, Arguments: args}, sseRequestTimeout)
	if err != nil {
		return "", err
	}
	return formatCallToolResult(raw)
}

// ListTools performs the handshake and a tools/list request, returning the
// raw JSON result. The tool dispatcher does not call it; it only uses
// CallTool.
func (c *Client) ListTools(ctx context.Context) (json.RawMessage, error) {
	sess, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.close()

	if err := c.handshake(ctx, sess); err != nil {
		return nil, err
	}
	return sess.call(ctx, "tools/list", map[string]any{}, sseRequestTimeout)
}

func (c *Client) open(ctx context.Context) (session, error) {
	switch {
	case strings.HasPrefix(c.Server, "url:"):
		streamURL := strings.TrimPrefix(c.Server, "url:")
		sc := newSSEClient(streamURL)
		if err := sc.connect(ctx); err != nil {
			return nil, err
		}
		return sc, nil
	case strings.HasPrefix(c.Server, "stdio:"):
		spec := strings.TrimPrefix(c.Server, "stdio:")
		return newStdioClient(ctx, spec)
	default:
		return nil, fmt.Errorf("remotetool: unrecognized server spec %q (want url:... or stdio:...)", c.Server)
	}
}

func (c *Client) handshake(ctx context.Context, sess session) error {
	_, err := sess.call(ctx, "initialize", initializeParams{
		ProtocolVersion: protocolVersion,
		Capabilities:    map[string]any{},
		ClientInfo:      clientInfo{Name: "hearthhub", Version: "1.0.0"},
	}, sseInitTimeout)
	if err != nil {
		return fmt.Errorf("remotetool: initialize: %w", err)
	}
	return sess.notify(ctx, "notifications/initialized", nil)
}

// parseArgs parses a tool-call argument string as a JSON object if it
// starts with '{', otherwise wraps it as {"input": argsJSON}.
func parseArgs(argsJSON string) (map[string]any, error) {
	trimmed := strings.TrimSpace(argsJSON)
	if strings.HasPrefix(trimmed, "{") {
		var m map[string]any
		if err := json.Unmarshal([]byte(trimmed), &m); err != nil {
			return nil, fmt.Errorf("remotetool: invalid JSON arguments: %w", err)
		}
		return m, nil
	}
	return map[string]any{"input": argsJSON}, nil
}
