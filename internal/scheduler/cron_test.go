package scheduler

import (
	"testing"
	"time"
)

func TestParseAtFormats(t *testing.T) {
	cases := []string{
		"2030-01-01T10:00:00Z",
		"2030-01-01T10:00:00",
		"2030-01-01 10:00:00",
		"2030-01-01 10:00",
	}
	for _, s := range cases {
		if _, err := ParseAt(s); err != nil {
			t.Errorf("ParseAt(%q) failed: %v", s, err)
		}
	}
}

func TestNextRunExpiredOneShotDropped(t *testing.T) {
	e := Entry{ID: "x", At: "2000-01-01T00:00:00", Task: "noop"}
	_, ok, err := NextRun(e, time.Now())
	if err != nil {
		t.Fatalf("NextRun: %v", err)
	}
	if ok {
		t.Fatal("expired one-shot should report ok=false")
	}
}

func TestNextRunCronRecurs(t *testing.T) {
	e := Entry{ID: "y", Cron: "0 * * * * *", Task: "noop"}
	now := time.Now()
	next, ok, err := NextRun(e, now)
	if err != nil || !ok {
		t.Fatalf("NextRun: ok=%v err=%v", ok, err)
	}
	if !next.After(now) {
		t.Fatal("next run should be strictly after now")
	}
}
