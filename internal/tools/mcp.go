package tools

import (
	"context"
	"fmt"
	"strings"
)

// mcpCall invokes a named remote tool. Arguments are parsed as JSON if they
// start with '{', otherwise wrapped as {"input": text}.
func mcpCall(ctx context.Context, tc *Context, arg string) Result {
	if tc.Remote == nil {
		return Result{Text: "MCP is not configured (no remote tool server). Answer without this result."}
	}

	name, rest := splitFirstToken(arg)
	if name == "" {
		return Result{Text: "MCP requires a tool name: MCP: <tool_name> <args>. Answer without this result."}
	}

	argsJSON := rest
	if !strings.HasPrefix(strings.TrimSpace(rest), "{") {
		argsJSON = fmt.Sprintf(`{"input": %q}`, rest)
	}

	out, err := tc.Remote.CallTool(ctx, name, argsJSON)
	if err != nil {
		return Result{Text: fmt.Sprintf("MCP %s failed: %v. Answer without this result.", name, err)}
	}
	return Result{Text: out}
}
