package tools

import (
	"fmt"
	"strings"
)

// dispatchTask routes a parsed TASK_* invocation to the task store. Listing
// and show results are sent through the status channel for the human; the
// model receives a short acknowledgement.
func dispatchTask(tc *Context, tl ToolLine) Result {
	switch tl.Prefix {
	case PrefixTaskList:
		all := strings.EqualFold(strings.TrimSpace(tl.Arg), "all")
		listing, err := tc.Tasks.List(all)
		if err != nil {
			return Result{Text: fmt.Sprintf("TASK_LIST failed: %v. Answer without this result.", err)}
		}
		tc.emit(listing)
		return Result{Text: "Task list was sent to the channel; ids are filenames."}

	case PrefixTaskShow:
		body, err := tc.Tasks.Show(tl.Arg)
		if err != nil {
			return Result{Text: fmt.Sprintf("TASK_SHOW failed: %v. Answer without this result.", err)}
		}
		tc.emit(body)
		return Result{Text: "Task content was sent to the channel."}

	case PrefixTaskAppend:
		id, note := splitFirstToken(tl.Arg)
		if note == "" {
			return Result{Text: "TASK_APPEND requires an id and a note: TASK_APPEND: <id> <note>. Answer without this result."}
		}
		result, err := tc.Tasks.Append(id, note)
		if err != nil {
			return Result{Text: fmt.Sprintf("TASK_APPEND failed: %v. Answer without this result.", err)}
		}
		return Result{Text: result}

	case PrefixTaskStatus:
		id, status := splitFirstToken(tl.Arg)
		if status == "" {
			return Result{Text: "TASK_STATUS requires an id and a status: TASK_STATUS: <id> <status>. Answer without this result."}
		}
		result, err := tc.Tasks.SetStatus(id, status)
		if err != nil {
			return Result{Text: fmt.Sprintf("TASK_STATUS failed: %v. Answer without this result.", err)}
		}
		return Result{Text: result}

	case PrefixTaskCreate:
		topic, body := splitFirstToken(tl.Arg)
		if topic == "" {
			return Result{Text: "TASK_CREATE requires a topic: TASK_CREATE: <topic> [body]. Answer without this result."}
		}
		result, err := tc.Tasks.Create(topic, body)
		if err != nil {
			return Result{Text: fmt.Sprintf("TASK_CREATE failed: %v. Answer without this result.", err)}
		}
		return Result{Text: result}

	case PrefixTaskAssign:
		id, agentID := splitFirstToken(tl.Arg)
		if agentID == "" {
			return Result{Text: "TASK_ASSIGN requires an id and an agent: TASK_ASSIGN: <id> <agent-id>. Answer without this result."}
		}
		result, err := tc.Tasks.Assign(id, agentID)
		if err != nil {
			return Result{Text: fmt.Sprintf("TASK_ASSIGN failed: %v. Answer without this result.", err)}
		}
		return Result{Text: result}

	case PrefixTaskSleep:
		id, untilStr := splitFirstToken(tl.Arg)
		if untilStr == "" {
			return Result{Text: "TASK_SLEEP requires an id and a time: TASK_SLEEP: <id> <until>. Answer without this result."}
		}
		until, err := parseScheduleTime(untilStr)
		if err != nil {
			return Result{Text: fmt.Sprintf("TASK_SLEEP failed: %v. Answer without this result.", err)}
		}
		result, err := tc.Tasks.Sleep(id, until)
		if err != nil {
			return Result{Text: fmt.Sprintf("TASK_SLEEP failed: %v. Answer without this result.", err)}
		}
		return Result{Text: result}

	default:
		return Result{Text: "Unknown task tool. Answer without this result."}
	}
}
