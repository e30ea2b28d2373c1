// Package tools implements the line-oriented tool-invocation parser and the
// individual tool contracts dispatched by the agent router.
package tools

import (
	"sort"
	"strings"
)

// Prefix is a recognized tool keyword.
type Prefix string

const (
	PrefixFetchURL        Prefix = "FETCH_URL"
	PrefixBraveSearch     Prefix = "BRAVE_SEARCH"
	PrefixRunJS           Prefix = "RUN_JS"
	PrefixSkill           Prefix = "SKILL"
	PrefixAgent           Prefix = "AGENT"
	PrefixRunCmd          Prefix = "RUN_CMD"
	PrefixSchedule        Prefix = "SCHEDULE"
	PrefixRemoveSchedule  Prefix = "REMOVE_SCHEDULE"
	PrefixTaskList        Prefix = "TASK_LIST"
	PrefixTaskShow        Prefix = "TASK_SHOW"
	PrefixTaskAppend      Prefix = "TASK_APPEND"
	PrefixTaskStatus      Prefix = "TASK_STATUS"
	PrefixTaskCreate      Prefix = "TASK_CREATE"
	PrefixTaskAssign      Prefix = "TASK_ASSIGN"
	PrefixTaskSleep       Prefix = "TASK_SLEEP"
	PrefixOllamaAPI       Prefix = "OLLAMA_API"
	PrefixPythonScript    Prefix = "PYTHON_SCRIPT"
	PrefixMCP             Prefix = "MCP"
	PrefixDiscordAPI      Prefix = "DISCORD_API"
	scheduleAliasKeyword         = "SCHEDULER"
)

// emptyArgAllowed is the set of prefixes that may carry an empty argument,
// per the disambiguation this module adopts (see design notes).
var emptyArgAllowed = map[Prefix]bool{
	PrefixTaskList: true,
	PrefixTaskShow: true,
}

// knownPrefixes lists every recognized keyword including the SCHEDULER alias,
// ordered longest-first so no shorter prefix shadows a longer one.
var knownPrefixes = func() []string {
	all := []string{
		string(PrefixFetchURL), string(PrefixBraveSearch), string(PrefixRunJS),
		string(PrefixSkill), string(PrefixAgent), string(PrefixRunCmd),
		string(PrefixSchedule), scheduleAliasKeyword, string(PrefixRemoveSchedule),
		string(PrefixTaskList), string(PrefixTaskShow), string(PrefixTaskAppend),
		string(PrefixTaskStatus), string(PrefixTaskCreate), string(PrefixTaskAssign),
		string(PrefixTaskSleep), string(PrefixOllamaAPI), string(PrefixPythonScript),
		string(PrefixMCP), string(PrefixDiscordAPI),
	}
	sort.Slice(all, func(i, j int) bool { return len(all[i]) > len(all[j]) })
	return all
}()

// ToolLine is a parsed tool invocation.
type ToolLine struct {
	Prefix Prefix
	Arg    string

	// Source is the full text ParseToolLine was called with, needed by
	// PYTHON_SCRIPT to recover a body that spans lines after the tool line.
	Source string
}

// ParseToolLine scans text for its first non-empty line and, if that line
// matches a known tool prefix, returns the parsed invocation. An optional
// leading "RECOMMEND:" token is stripped first. SCHEDULER normalizes to
// SCHEDULE. FETCH_URL and BRAVE_SEARCH arguments are truncated at the first
// ';'. An empty argument is legal only for TASK_LIST and TASK_SHOW.
func ParseToolLine(text string) (ToolLine, bool) {
	line := firstNonEmptyLine(text)
	if line == "" {
		return ToolLine{}, false
	}

	line = stripRecommendPrefix(line)
	upper := strings.ToUpper(line)

	for _, kw := range knownPrefixes {
		if !strings.HasPrefix(upper, kw) {
			continue
		}
		rest := line[len(kw):]
		arg, matched := matchRest(kw, rest)
		if !matched {
			continue
		}

		prefix := Prefix(kw)
		if kw == scheduleAliasKeyword {
			prefix = PrefixSchedule
		}

		arg = strings.TrimSpace(arg)
		if prefix == PrefixFetchURL || prefix == PrefixBraveSearch {
			arg = truncateAtSemicolon(arg)
		}

		if arg == "" && !emptyArgAllowed[prefix] {
			continue
		}

		return ToolLine{Prefix: prefix, Arg: arg, Source: text}, true
	}

	return ToolLine{}, false
}

// matchRest checks the text immediately following a matched keyword. A
// colon always introduces the argument. The bare word form (no colon, no
// trailing text) is accepted only for TASK_LIST, per the spec's own note
// that the source treats the bare argument as equivalent to "TASK_LIST:".
func matchRest(keyword, rest string) (arg string, ok bool) {
	if strings.HasPrefix(rest, ":") {
		return rest[1:], true
	}
	if keyword == string(PrefixTaskList) && strings.TrimSpace(rest) == "" {
		return "", true
	}
	return "", false
}

func stripRecommendPrefix(line string) string {
	const marker = "RECOMMEND:"
	trimmed := strings.TrimSpace(line)
	if len(trimmed) >= len(marker) && strings.EqualFold(trimmed[:len(marker)], marker) {
		return strings.TrimSpace(trimmed[len(marker):])
	}
	return trimmed
}

func firstNonEmptyLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func truncateAtSemicolon(s string) string {
	if idx := strings.Index(s, ";"); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return s
}
