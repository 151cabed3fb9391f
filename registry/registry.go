// Package registry exposes the process-wide playback control handle.
//
// UI surfaces living outside the coordinator's own component tree (the
// mini console player, scripted controls) drive the one active media
// session through this handle instead of having a session threaded through
// to them. Registration is replace-on-mount: a newly created coordinator
// simply takes over, and releasing is a no-op once somebody else has
// replaced you — a released stale handle can never dangle.
package registry

import "sync"

// Handle is the imperative control surface a coordinator publishes.
type Handle interface {
	SeekToTime(sec float64)
	PlayMedia()
	PauseMedia()
}

var (
	mu      sync.Mutex
	current Handle
)

// Register installs h as the process-wide control handle, replacing any
// previous one. The returned release func uninstalls h, but only while h is
// still the active handle.
func Register(h Handle) (release func()) {
	mu.Lock()
	current = h
	mu.Unlock()

	return func() {
		mu.Lock()
		defer mu.Unlock()
		if current == h {
			current = nil
		}
	}
}

// Current returns the active control handle, if any.
func Current() (Handle, bool) {
	mu.Lock()
	defer mu.Unlock()
	return current, current != nil
}

// SeekToTime forwards to the active handle; a no-op without one.
func SeekToTime(sec float64) {
	if h, ok := Current(); ok {
		h.SeekToTime(sec)
	}
}

// PlayMedia forwards to the active handle; a no-op without one.
func PlayMedia() {
	if h, ok := Current(); ok {
		h.PlayMedia()
	}
}

// PauseMedia forwards to the active handle; a no-op without one.
func PauseMedia() {
	if h, ok := Current(); ok {
		h.PauseMedia()
	}
}
