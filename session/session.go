// Package session implements the playback coordinator: the single owner of
// playback state mediating between a backend adapter and every UI surface.
//
// Commands (seek, play, pause) flow in from transcript clicks, progress-bar
// hits, keyboard shortcuts, and the global control handle; state changes
// flow back out of the backend's event stream. Updates are optimistic —
// commands flip local state immediately and the matching backend event
// later confirms idempotently — because the YouTube wire protocol offers no
// synchronous acknowledgement at all.
package session

import (
	"sync"
	"time"

	"github.com/recap-cli/recap/key"
	"github.com/recap-cli/recap/log"
	"github.com/recap-cli/recap/player"
	"github.com/recap-cli/recap/timecode"
	"github.com/spf13/viper"
)

// Stage is the coordinator's lifecycle position.
type Stage int

const (
	// StageIdle: no media source configured.
	StageIdle Stage = iota

	// StageReady: source attached, duration not yet reported.
	StageReady

	// StageLoaded: duration known, nothing played yet.
	StageLoaded

	// StagePlaying and StagePaused are sub-states of loaded.
	StagePlaying
	StagePaused

	// StageEnded: playback ran off the end. Only an explicit seek leaves
	// this stage (no auto-restart).
	StageEnded
)

func (s Stage) String() string {
	switch s {
	case StageReady:
		return "ready"
	case StageLoaded:
		return "loaded"
	case StagePlaying:
		return "playing"
	case StagePaused:
		return "paused"
	case StageEnded:
		return "ended"
	default:
		return "idle"
	}
}

// State is the canonical playback snapshot. Owned exclusively by the
// Session; UI components read copies and never write it.
type State struct {
	IsPlaying      bool
	CurrentTimeSec float64
	DurationSec    float64 // negative while unknown
	Volume         float64 // [0, 1]
	Muted          bool
	Rate           float64 // [0.5, 2.0]
}

// SeekRequest is an externally supplied seek carrying an opaque event ID.
// The coordinator remembers the last applied ID so a redelivered identical
// request (the same value threaded through again by a re-render or retry
// loop) is not applied twice.
type SeekRequest struct {
	Seconds float64
	EventID string
}

// seekSettleDelay is how long a segment-click autoplay waits between the
// seek and the follow-up play: some backends cannot seek-and-play
// atomically, so the play lands after the seek settles.
const seekSettleDelay = 100 * time.Millisecond

// Session coordinates one backend with all its UI surfaces.
type Session struct {
	mu      sync.Mutex
	backend player.Backend
	stage   Stage
	state   State

	lastAppliedSeek string

	onTimeUpdate func(sec float64)
	onChange     func()

	done chan struct{}
}

// New creates a coordinator over the given backend and starts consuming
// its event stream. A nil backend degrades to the no-op adapter, keeping
// every method safe to call.
func New(backend player.Backend) *Session {
	if backend == nil {
		backend = player.NewNoop()
	}

	stage := StageReady
	if _, ok := backend.(*player.Noop); ok {
		stage = StageIdle
	}

	s := &Session{
		backend: backend,
		stage:   stage,
		state: State{
			DurationSec: -1,
			Volume:      1,
			Rate:        1,
		},
		done: make(chan struct{}),
	}

	go s.consume()

	return s
}

// OnTimeUpdate registers the callback receiving every backend-driven time
// update, in seconds. Drives transcript highlighting and progress renders.
func (s *Session) OnTimeUpdate(fn func(sec float64)) {
	s.mu.Lock()
	s.onTimeUpdate = fn
	s.mu.Unlock()
}

// OnChange registers a callback fired after any state transition.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Snapshot returns a copy of the current playback state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stage returns the coordinator's current lifecycle stage.
func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// TogglePlayPause flips the play state optimistically and commands the
// backend. A failed play (autoplay policy, dead process) logs and reverts
// to paused — never fatal, the user can simply retry.
func (s *Session) TogglePlayPause() {
	s.mu.Lock()
	wantPlay := !s.state.IsPlaying
	s.applyPlayState(wantPlay)
	s.mu.Unlock()
	s.notifyChange()

	var err error
	verb := "pause"
	if wantPlay {
		err = s.backend.Play()
		verb = "play"
	} else {
		err = s.backend.Pause()
	}

	if err != nil {
		log.Warnf("session: %s failed: %v", verb, err)
		s.mu.Lock()
		s.applyPlayState(false)
		s.mu.Unlock()
		s.notifyChange()
	}
}

// Play starts playback (idempotent).
func (s *Session) Play() {
	s.mu.Lock()
	playing := s.state.IsPlaying
	s.mu.Unlock()
	if !playing {
		s.TogglePlayPause()
	}
}

// Pause suspends playback (idempotent).
func (s *Session) Pause() {
	s.mu.Lock()
	playing := s.state.IsPlaying
	s.mu.Unlock()
	if playing {
		s.TogglePlayPause()
	}
}

// Seek moves playback to an absolute position. The value is normalized
// through the millisecond heuristic and clamped to the known duration;
// current time updates optimistically ahead of the backend's confirmation.
func (s *Session) Seek(sec float64) {
	s.mu.Lock()
	target := timecode.Clamp(timecode.NormalizeSeconds(sec), 0, s.state.DurationSec)
	s.state.CurrentTimeSec = target
	if s.stage == StageEnded {
		// Leaving Ended requires exactly this: an explicit seek.
		s.stage = StagePaused
		s.state.IsPlaying = false
	}
	s.mu.Unlock()
	s.notifyChange()

	if err := s.backend.Seek(target); err != nil {
		log.Warnf("session: seek to %v failed: %v", target, err)
	}
}

// Apply performs an external seek request exactly once per event ID.
// Requests with an empty ID are always applied.
func (s *Session) Apply(req SeekRequest) {
	s.mu.Lock()
	if req.EventID != "" && req.EventID == s.lastAppliedSeek {
		s.mu.Unlock()
		return
	}
	s.lastAppliedSeek = req.EventID
	s.mu.Unlock()

	s.Seek(req.Seconds)
}

// SeekThenPlay seeks and starts playback once the seek settles. Used by
// transcript segment clicks when autoplay-on-seek is enabled.
func (s *Session) SeekThenPlay(sec float64) {
	s.Seek(sec)
	time.AfterFunc(seekSettleDelay, s.Play)
}

// SkipForward jumps ahead by the configured skip interval.
func (s *Session) SkipForward() {
	s.skip(1)
}

// SkipBackward jumps back by the configured skip interval.
func (s *Session) SkipBackward() {
	s.skip(-1)
}

func (s *Session) skip(direction float64) {
	step := viper.GetFloat64(key.PlayerSkipSeconds)
	if step <= 0 {
		step = 10
	}

	s.mu.Lock()
	current := s.state.CurrentTimeSec
	s.mu.Unlock()

	s.Seek(current + direction*step)
}

// SetVolume sets the playback volume in [0, 1].
func (s *Session) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	s.mu.Lock()
	s.state.Volume = v
	s.mu.Unlock()
	s.notifyChange()

	if err := s.backend.SetVolume(v); err != nil {
		log.Warnf("session: set volume failed: %v", err)
	}
}

// ToggleMute flips the mute flag without touching the volume level.
func (s *Session) ToggleMute() {
	s.mu.Lock()
	s.state.Muted = !s.state.Muted
	muted := s.state.Muted
	s.mu.Unlock()
	s.notifyChange()

	if err := s.backend.SetMuted(muted); err != nil {
		log.Warnf("session: set muted failed: %v", err)
	}
}

// SetRate sets the playback speed multiplier.
func (s *Session) SetRate(rate float64) {
	if rate < player.MinRate {
		rate = player.MinRate
	}
	if rate > player.MaxRate {
		rate = player.MaxRate
	}

	s.mu.Lock()
	s.state.Rate = rate
	s.mu.Unlock()
	s.notifyChange()

	if err := s.backend.SetRate(rate); err != nil {
		log.Warnf("session: set rate failed: %v", err)
	}
}

// Close shuts the backend down and stops the event loop.
func (s *Session) Close() error {
	err := s.backend.Close()
	<-s.done
	return err
}

// consume is the single reader of the backend's event stream. Backend
// events are the ground truth that optimistic command updates reconcile
// against.
func (s *Session) consume() {
	defer close(s.done)

	for e := range s.backend.Events() {
		var timeUpdate func(float64)
		var sec float64

		s.mu.Lock()
		switch e.Kind {
		case player.EventTimeUpdate:
			s.state.CurrentTimeSec = e.Seconds
			timeUpdate, sec = s.onTimeUpdate, e.Seconds
		case player.EventDurationChange:
			s.state.DurationSec = e.Seconds
			if s.stage == StageReady {
				s.stage = StageLoaded
			}
		case player.EventPlay:
			s.applyPlayState(true)
		case player.EventPause:
			s.applyPlayState(false)
		case player.EventEnded:
			s.state.IsPlaying = false
			s.stage = StageEnded
		}
		s.mu.Unlock()

		if timeUpdate != nil {
			timeUpdate(sec)
		}
		s.notifyChange()
	}
}

// applyPlayState flips IsPlaying and the matching stage. Idempotent, so an
// optimistic command update and its later backend confirmation coexist.
// Callers hold s.mu.
func (s *Session) applyPlayState(playing bool) {
	s.state.IsPlaying = playing

	switch {
	case playing:
		s.stage = StagePlaying
	case s.stage == StagePlaying || s.stage == StageLoaded:
		s.stage = StagePaused
	}
}

func (s *Session) notifyChange() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}
