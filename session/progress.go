package session

// TimeAtOffset maps a horizontal hit position within a progress bar onto a
// playback time: offset/width of the way into the media. The result is
// clamped so clicks on the very edge land exactly at 0 or the duration.
// A non-positive width or unknown duration yields 0.
func TimeAtOffset(offset, width int, durationSec float64) float64 {
	if width <= 0 || durationSec < 0 {
		return 0
	}

	ratio := float64(offset) / float64(width)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	return ratio * durationSec
}

// SeekToOffset resolves a progress-bar hit and issues the seek.
// The caller is responsible for consuming the originating input event so it
// does not also reach an enclosing seek-capable surface.
func (s *Session) SeekToOffset(offset, width int) {
	s.mu.Lock()
	duration := s.state.DurationSec
	s.mu.Unlock()

	if duration < 0 {
		return
	}

	s.Seek(TimeAtOffset(offset, width, duration))
}
