package dispatcher

import "time"

// timeOfDayBlock classifies the local hour into a coarse part of day and
// returns a short tonal-guidance line to fold into the having-fun prompt.
func timeOfDayBlock(now time.Time) string {
	switch h := now.Hour(); {
	case h >= 0 && h < 6:
		return "It's the middle of the night. Keep things quiet and low-key; most people are asleep."
	case h >= 6 && h < 12:
		return "It's morning. A bit of energy is welcome, but don't overdo it before people have had coffee."
	case h >= 12 && h < 17:
		return "It's afternoon. Normal conversational energy."
	default:
		return "It's evening. Relaxed and winding-down in tone."
	}
}
