package predictor

import "fmt"

// ZeroTimePlaceholder is shown whenever prediction is suppressed or no run
// is in progress.
const ZeroTimePlaceholder = "00:00.000"

// FormatRaceTime renders milliseconds as MM:SS.mmm, widening to HH:MM:SS.mmm
// once minutes would exceed 59. Fields are always zero padded.
func FormatRaceTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}

	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	seconds := (ms % 60000) / 1000
	millis := ms % 1000

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
	}

	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}

// FormatDeltaTime renders a signed millisecond delta. Negative deltas mean
// ahead of the best run.
func FormatDeltaTime(ms int64) string {
	sign := "+"

	if ms < 0 {
		sign = "-"
		ms = -ms
	}

	return sign + FormatRaceTime(ms)
}
