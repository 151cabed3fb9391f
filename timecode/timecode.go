// Package timecode converts raw transcript timestamps into the canonical seconds domain.
//
// Upstream speech-to-text vendors deliver timestamps in milliseconds while
// manually authored transcripts already use seconds; every other package
// works exclusively in seconds and goes through this one to get there.
package timecode

import (
	"fmt"
	"math"
)

// msThreshold disambiguates milliseconds from seconds. 10,000 seconds is
// roughly 2.7 hours, which no real meeting exceeds, so any raw value above
// it must be a millisecond timestamp.
const msThreshold = 10000

// NormalizeSeconds converts a raw timestamp into seconds.
// Values above the millisecond threshold are divided by 1000; negative and
// non-finite inputs clamp to 0 rather than propagating garbage into seeks.
func NormalizeSeconds(raw float64) float64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw < 0 {
		return 0
	}

	if raw > msThreshold {
		return raw / 1000
	}

	return raw
}

// Clamp constrains sec to the interval [min, max].
// A negative max means the upper bound is unknown (duration not yet
// reported by the backend) and only the lower bound is applied.
func Clamp(sec, min, max float64) float64 {
	if math.IsNaN(sec) || math.IsInf(sec, 0) {
		return min
	}

	if sec < min {
		return min
	}

	if max >= 0 && sec > max {
		return max
	}

	return sec
}

// FormatMMSS renders a seconds value as "MM:SS".
// Hour-long recordings simply keep counting minutes (75:30).
func FormatMMSS(sec float64) string {
	s := NormalizeSeconds(sec)
	return fmt.Sprintf("%02d:%02d", int(s)/60, int(s)%60)
}

// FormatRange renders a start/end pair as the display string "MM:SS - MM:SS".
func FormatRange(startSec, endSec float64) string {
	return fmt.Sprintf("%s - %s", FormatMMSS(startSec), FormatMMSS(endSec))
}
