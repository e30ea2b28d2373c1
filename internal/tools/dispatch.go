package tools

import "context"

// Result is a tool's outcome, fed back into the conversation as the next
// turn. IsLocalCommand marks results that should be appended with role
// "system" rather than "user" — an explicit tag rather than the substring
// match the original implementation used (see design notes).
type Result struct {
	Text           string
	IsLocalCommand bool
}

// Dispatch runs one parsed tool invocation and returns its outcome. Tool
// errors are never returned as Go errors to the caller — every failure is
// rendered as instructive prose in Result.Text so the model can recover.
func Dispatch(ctx context.Context, tc *Context, tl ToolLine) Result {
	switch tl.Prefix {
	case PrefixFetchURL:
		return fetchURL(ctx, tc, tl.Arg)
	case PrefixBraveSearch:
		return braveSearch(ctx, tc, tl.Arg)
	case PrefixRunJS:
		return runJS(ctx, tl.Arg)
	case PrefixSkill:
		return runSkill(ctx, tc, tl.Arg)
	case PrefixAgent:
		return runAgent(ctx, tc, tl.Arg)
	case PrefixRunCmd:
		return runCmd(tc, tl.Arg)
	case PrefixPythonScript:
		return runPythonScript(tc, tl)
	case PrefixSchedule:
		return scheduleAdd(tc, tl.Arg)
	case PrefixRemoveSchedule:
		return scheduleRemove(tc, tl.Arg)
	case PrefixTaskList, PrefixTaskShow, PrefixTaskAppend, PrefixTaskStatus,
		PrefixTaskCreate, PrefixTaskAssign, PrefixTaskSleep:
		return dispatchTask(tc, tl)
	case PrefixOllamaAPI:
		return ollamaAPI(ctx, tc, tl.Arg)
	case PrefixMCP:
		return mcpCall(ctx, tc, tl.Arg)
	case PrefixDiscordAPI:
		return discordAPI(ctx, tc, tl.Arg)
	default:
		return Result{Text: "Unknown tool. Answer without this result."}
	}
}
