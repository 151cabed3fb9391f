// Package player defines a unified abstraction layer for media playback backends.
//
// Three mutually incompatible targets hide behind one interface: local video
// and audio files driven through mpv's JSON-IPC protocol, and embedded
// YouTube sessions driven through YouTube's fire-and-forget postMessage wire
// protocol. Callers never learn which one they hold.
package player

// EventKind identifies a playback state change reported by a backend.
type EventKind int

const (
	// EventTimeUpdate carries the current playback position in seconds.
	EventTimeUpdate EventKind = iota

	// EventDurationChange carries the media duration once known.
	EventDurationChange

	// EventPlay signals that playback actually started.
	EventPlay

	// EventPause signals that playback actually suspended.
	EventPause

	// EventEnded signals that playback reached the end of the media.
	EventEnded
)

func (k EventKind) String() string {
	switch k {
	case EventTimeUpdate:
		return "timeupdate"
	case EventDurationChange:
		return "durationchange"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event is one backend-originated notification. Seconds is meaningful for
// EventTimeUpdate and EventDurationChange only.
type Event struct {
	Kind    EventKind
	Seconds float64
}

// Backend encapsulates the required capabilities of a playback target.
//
// All methods are safe to call regardless of the backend's readiness state;
// commands issued before the target is ready degrade to best-effort no-ops.
// There is no synchronous confirmation for any command — actual state
// changes arrive later on the Events channel.
type Backend interface {
	// Play resumes (or starts) playback.
	Play() error

	// Pause suspends playback.
	Pause() error

	// Seek transitions playback to an absolute position in seconds.
	Seek(seconds float64) error

	// SetVolume sets the playback volume in [0, 1].
	SetVolume(v float64) error

	// SetMuted toggles audio muting without touching the volume level.
	SetMuted(muted bool) error

	// SetRate sets the playback speed multiplier, clamped to [0.5, 2.0].
	SetRate(rate float64) error

	// Events returns the stream of backend notifications. The channel is
	// closed when the backend shuts down.
	Events() <-chan Event

	// Close terminates the backend and releases all associated resources.
	Close() error
}

// Playback rate bounds shared by every backend.
const (
	MinRate = 0.5
	MaxRate = 2.0
)

func clampRate(rate float64) float64 {
	if rate < MinRate {
		return MinRate
	}
	if rate > MaxRate {
		return MaxRate
	}
	return rate
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Noop is the backend used when no media source is configured. Every
// command succeeds silently so callers never need readiness checks.
type Noop struct {
	events chan Event
}

// NewNoop creates a no-op backend with an already-drained event stream.
func NewNoop() *Noop {
	return &Noop{events: make(chan Event)}
}

func (n *Noop) Play() error             { return nil }
func (n *Noop) Pause() error            { return nil }
func (n *Noop) Seek(float64) error      { return nil }
func (n *Noop) SetVolume(float64) error { return nil }
func (n *Noop) SetMuted(bool) error     { return nil }
func (n *Noop) SetRate(float64) error   { return nil }
func (n *Noop) Events() <-chan Event    { return n.events }

func (n *Noop) Close() error {
	close(n.events)
	return nil
}
