package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts the standard 6-field grammar (seconds prepended),
// matching the cron strings this package persists.
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// NextRun computes an entry's next fire instant strictly after now. Entries
// with a cron expression recur; "at" entries fire once and, if already past,
// report ok=false (expired one-shot, dropped by the caller).
func NextRun(e Entry, now time.Time) (next time.Time, ok bool, err error) {
	switch {
	case e.Cron != "":
		sched, parseErr := cronParser.Parse(e.Cron)
		if parseErr != nil {
			return time.Time{}, false, fmt.Errorf("scheduler: parse cron %q: %w", e.Cron, parseErr)
		}
		return sched.Next(now), true, nil

	case e.At != "":
		at, parseErr := ParseAt(e.At)
		if parseErr != nil {
			return time.Time{}, false, fmt.Errorf("scheduler: parse at %q: %w", e.At, parseErr)
		}
		if !at.After(now) {
			return time.Time{}, false, nil
		}
		return at, true, nil

	default:
		return time.Time{}, false, fmt.Errorf("scheduler: entry %q has neither cron nor at", e.ID)
	}
}

// ParseAt parses an "at" datetime as RFC-3339, else "YYYY-MM-DDTHH:MM:SS",
// else "YYYY-MM-DD HH:MM[:SS]", all in local time.
func ParseAt(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime format %q", s)
}
