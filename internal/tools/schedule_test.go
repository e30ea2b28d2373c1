package tools

import "testing"

func TestParseScheduleArgEveryMinutes(t *testing.T) {
	cron, at, task, err := parseScheduleArg("every 5 minutes check the weather")
	if err != nil {
		t.Fatalf("parseScheduleArg: %v", err)
	}
	if cron != "0 */5 * * * *" || at != "" {
		t.Fatalf("cron=%q at=%q", cron, at)
	}
	if task != "every 5 minutes check the weather" {
		t.Fatalf("task=%q", task)
	}
}

func TestParseScheduleArgRawCron(t *testing.T) {
	cron, at, _, err := parseScheduleArg("*/5 * * * * check the weather")
	if err != nil {
		t.Fatalf("parseScheduleArg: %v", err)
	}
	if cron != "0 */5 * * * *" || at != "" {
		t.Fatalf("cron=%q at=%q", cron, at)
	}
}

func TestParseScheduleTimeRelativeShorthand(t *testing.T) {
	if _, err := parseScheduleTime("in3minutes"); err != nil {
		t.Fatalf("parseScheduleTime: %v", err)
	}
}

func TestParseScheduleArgRejectsPastTime(t *testing.T) {
	_, _, _, err := parseScheduleArg("at 2000-01-01T00:00:00 do something")
	if err == nil {
		t.Fatal("expected error for past scheduled time")
	}
}
