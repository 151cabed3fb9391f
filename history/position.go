package history

import (
	"fmt"
	"time"

	"github.com/recap-cli/recap/timecode"
)

// Position is a stored playback position for a single piece of media.
type Position struct {
	MeetingTitle string `json:"meeting_title"`
	MediaURL     string `json:"media_url"`

	// Descriptor is the meeting descriptor path or URL the media came
	// from, kept so history entries can reopen the full meeting.
	Descriptor string `json:"descriptor,omitempty"`

	PositionSec float64   `json:"position_sec"`
	DurationSec float64   `json:"duration_sec"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PercentComplete reports how far through the media this position is,
// in the range 0..100. Unknown durations report 0.
func (p *Position) PercentComplete() float64 {
	if p.DurationSec <= 0 {
		return 0
	}

	percent := p.PositionSec / p.DurationSec * 100
	if percent > 100 {
		percent = 100
	}
	return percent
}

func (p *Position) String() string {
	if p.DurationSec <= 0 {
		return fmt.Sprintf("%s at %s", p.MeetingTitle, timecode.FormatMMSS(p.PositionSec))
	}

	return fmt.Sprintf(
		"%s at %s (%d%%)",
		p.MeetingTitle,
		timecode.FormatMMSS(p.PositionSec),
		int(p.PercentComplete()),
	)
}
