package tools

// Descriptions returns the enumerated tool descriptions injected into both
// the planning and execution system prompts.
func Descriptions() string {
	return `Available tools (emit exactly one line of the form "<PREFIX>: <argument>" when you need one):
FETCH_URL: <url> — fetch a web page and read its content.
BRAVE_SEARCH: <query> — search the web.
RUN_JS: <code> — evaluate JavaScript and read the result.
SKILL: <number or topic> [task] — run a specialized skill in a fresh session.
AGENT: <id, slug, or name> [task] — delegate to another agent.
RUN_CMD: <cmd> [args] — run an allowlisted read-only shell command.
PYTHON_SCRIPT: <id> <topic> followed by a fenced python code block — run a Python script.
SCHEDULE: every N minutes <task> | at <datetime> <task> | <cron> <task> — schedule recurring or future work.
REMOVE_SCHEDULE: <id> — cancel a schedule entry.
TASK_LIST / TASK_LIST: all — list open and in-progress tasks (or every status).
TASK_SHOW: <id> — show a task's content.
TASK_APPEND: <id> <note> — append a note to a task.
TASK_STATUS: <id> <status> — change a task's status.
TASK_CREATE: <topic> [body] — create a new task.
TASK_ASSIGN: <id> <agent-id> — reassign a task.
TASK_SLEEP: <id> <until> — pause a task until a future time.
OLLAMA_API: <action> [args] — administer the local model runtime.
MCP: <tool_name> <args> — call a remote tool.
DISCORD_API: <METHOD> <path> [json body] — call the Discord REST API (Discord origin only).
If you don't need a tool, just answer the question directly.`
}
