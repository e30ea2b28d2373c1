package tasks

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

var (
	assignedPattern = regexp.MustCompile(`(?m)^## Assigned:\s*(.+)$`)
	dependsPattern  = regexp.MustCompile(`(?m)^## Depends:\s*(.+)$`)
	subTasksPattern = regexp.MustCompile(`(?m)^## Sub-tasks:\s*(.+)$`)
	pausedUntilPatt = regexp.MustCompile(`(?m)^## PausedUntil:\s*(.+)$`)
)

// Metadata holds the optional single-line fields parsed from a task body.
type Metadata struct {
	Assigned    string
	Depends     []string
	SubTasks    []string
	PausedUntil string
}

// ParseMetadata extracts every recognized "## Key: value" line from a task
// body.
func ParseMetadata(body string) Metadata {
	var m Metadata
	if match := assignedPattern.FindStringSubmatch(body); match != nil {
		m.Assigned = strings.TrimSpace(match[1])
	}
	if match := dependsPattern.FindStringSubmatch(body); match != nil {
		m.Depends = splitIDList(match[1])
	}
	if match := subTasksPattern.FindStringSubmatch(body); match != nil {
		m.SubTasks = splitIDList(match[1])
	}
	if match := pausedUntilPatt.FindStringSubmatch(body); match != nil {
		m.PausedUntil = strings.TrimSpace(match[1])
	}
	return m
}

func splitIDList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ReadBody reads a task file's full content.
func ReadBody(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("tasks: read %s: %w", path, err)
	}
	return string(data), nil
}

// AppendToTask appends a "## Feedback <timestamp>" section to a task's body
// rather than overwriting existing content.
func AppendToTask(path, note string) error {
	section := fmt.Sprintf("\n\n## Feedback %s\n\n%s\n", time.Now().Format(time.RFC3339), note)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("tasks: open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(section); err != nil {
		return fmt.Errorf("tasks: append to %s: %w", path, err)
	}
	return nil
}

// setMetadataLine replaces an existing "## Key: ..." line or appends a new
// one, used by Assign and Sleep.
func setMetadataLine(body, key, value string) string {
	pattern := regexp.MustCompile(`(?m)^## ` + regexp.QuoteMeta(key) + `:.*$`)
	line := fmt.Sprintf("## %s: %s", key, value)
	if pattern.MatchString(body) {
		return pattern.ReplaceAllString(body, line)
	}
	return strings.TrimRight(body, "\n") + "\n\n" + line + "\n"
}

// removeMetadataLine deletes an existing "## Key: ..." line, if present.
func removeMetadataLine(body, key string) string {
	pattern := regexp.MustCompile(`(?m)^## ` + regexp.QuoteMeta(key) + `:.*\n?`)
	return pattern.ReplaceAllString(body, "")
}

// IsReady reports whether every id in Depends is in the finished set.
func (m Metadata) IsReady(finishedIDs map[string]bool) bool {
	for _, dep := range m.Depends {
		if !finishedIDs[dep] {
			return false
		}
	}
	return true
}

// CanFinish reports whether every sub-task is in {finished, unsuccessful}.
func (m Metadata) CanFinish(statusByID map[string]Status) bool {
	for _, id := range m.SubTasks {
		status, ok := statusByID[id]
		if !ok {
			return false
		}
		if status != StatusFinished && status != StatusUnsuccessful {
			return false
		}
	}
	return true
}
