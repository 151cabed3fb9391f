package session

// The methods below satisfy registry.Handle, letting a session publish
// itself as the process-wide control surface.

// SeekToTime seeks the media session to an absolute position in seconds.
func (s *Session) SeekToTime(sec float64) {
	s.Seek(sec)
}

// PlayMedia starts playback.
func (s *Session) PlayMedia() {
	s.Play()
}

// PauseMedia suspends playback.
func (s *Session) PauseMedia() {
	s.Pause()
}
