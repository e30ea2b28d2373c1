package tools

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var everyMinutesPattern = regexp.MustCompile(`(?i)^every\s+(\d+)\s+minutes?\s+(.+)$`)
var atPattern = regexp.MustCompile(`(?i)^at\s+(in\s+\d+\s+\S+|\S+(?:\s+\S+)?)\s+(.+)$`)

// scheduleAdd parses a SCHEDULE argument into a cron or one-shot "at" entry
// and adds it to the store. Disabled when AllowSchedule is false.
func scheduleAdd(tc *Context, arg string) Result {
	if !tc.AllowSchedule {
		return Result{Text: "SCHEDULE is disabled for this conversation. Answer without this result."}
	}

	cron, at, task, err := parseScheduleArg(arg)
	if err != nil {
		return Result{Text: fmt.Sprintf("SCHEDULE failed: %v. Answer without this result.", err)}
	}

	origin := tc.Origin.ChannelID
	if origin == "" {
		origin = "local"
	}
	id := fmt.Sprintf("%s-%d", origin, time.Now().Unix())

	resultID, added, err := tc.Schedules.Add(id, cron, at, task, tc.Origin.ChannelID)
	if err != nil {
		return Result{Text: fmt.Sprintf("SCHEDULE failed: %v. Answer without this result.", err)}
	}
	if !added {
		return Result{Text: fmt.Sprintf("SCHEDULE: an equivalent entry already exists (id %s).", resultID)}
	}

	return Result{Text: fmt.Sprintf("Scheduled (id %s): %s", resultID, task)}
}

func scheduleRemove(tc *Context, id string) Result {
	removed, err := tc.Schedules.Remove(id)
	if err != nil {
		return Result{Text: fmt.Sprintf("REMOVE_SCHEDULE failed: %v. Answer without this result.", err)}
	}
	if !removed {
		return Result{Text: "not found"}
	}
	return Result{Text: "removed"}
}

// parseScheduleArg recognizes "every N minutes <task>", "at <datetime>
// <task>", or falls back to treating the argument as "<cron> <task>" with a
// 5-field cron (seconds are prepended).
func parseScheduleArg(arg string) (cron, at, task string, err error) {
	if m := everyMinutesPattern.FindStringSubmatch(arg); m != nil {
		n, convErr := strconv.Atoi(m[1])
		if convErr != nil || n <= 0 {
			return "", "", "", fmt.Errorf("invalid interval in %q", arg)
		}
		return fmt.Sprintf("0 */%d * * * *", n), "", arg, nil
	}

	if m := atPattern.FindStringSubmatch(arg); m != nil {
		when, parseErr := parseScheduleTime(m[1])
		if first, _ := splitFirstToken(m[1]); parseErr != nil && first != m[1] {
			// The second captured token may be the first word of the task.
			if t, err := parseScheduleTime(first); err == nil {
				when, parseErr = t, nil
			}
		}
		if parseErr != nil {
			return "", "", "", parseErr
		}
		if !when.After(time.Now()) {
			return "", "", "", fmt.Errorf("scheduled time %s is in the past", when.Format(time.RFC3339))
		}
		return "", when.Format("2006-01-02T15:04:05"), arg, nil
	}

	fields := strings.Fields(arg)
	if len(fields) < 6 {
		return "", "", "", fmt.Errorf("expected \"every N minutes <task>\", \"at <datetime> <task>\", or a 5-field cron expression followed by a task")
	}
	cronFields := fields[:5]
	task = strings.Join(fields[5:], " ")
	if task == "" {
		return "", "", "", fmt.Errorf("missing task text after cron expression")
	}
	return "0 " + strings.Join(cronFields, " "), "", arg, nil
}

// parseScheduleTime accepts an ISO-local datetime first (the wire format
// spec.md is authoritative on), then falls back to the original
// implementation's relative ("in 3 minutes") and time-of-day ("7:30pm")
// shorthand, converting either into a concrete local time.
func parseScheduleTime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}

	if t, ok := parseRelativeShorthand(s); ok {
		return t, nil
	}
	if t, ok := parseTimeOfDayShorthand(s); ok {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized datetime %q (expected ISO-local, RFC3339, \"in N minutes\", or \"7:30pm\")", s)
}

var relativeShorthandPattern = regexp.MustCompile(`(?i)^in(\d+)(minute|minutes|hour|hours)$`)

func parseRelativeShorthand(s string) (time.Time, bool) {
	compact := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	m := relativeShorthandPattern.FindStringSubmatch(compact)
	if m == nil {
		return time.Time{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}
	unit := m[2]
	var d time.Duration
	if strings.HasPrefix(unit, "hour") {
		d = time.Duration(n) * time.Hour
	} else {
		d = time.Duration(n) * time.Minute
	}
	return time.Now().Add(d), true
}

var timeOfDayPattern = regexp.MustCompile(`(?i)^(\d{1,2}):?(\d{2})?(am|pm)$`)

func parseTimeOfDayShorthand(s string) (time.Time, bool) {
	m := timeOfDayPattern.FindStringSubmatch(strings.ToLower(strings.ReplaceAll(s, " ", "")))
	if m == nil {
		return time.Time{}, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if m[3] == "pm" && hour != 12 {
		hour += 12
	}
	if m[3] == "am" && hour == 12 {
		hour = 0
	}

	now := time.Now()
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.Local)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate, true
}
