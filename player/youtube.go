// Package player defines a unified abstraction layer for media playback backends.
package player

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/recap-cli/recap/log"
)

// TrustedYouTubeOrigin is the only origin whose inbound messages are
// believed. Anything else on the channel is dropped before parsing.
const TrustedYouTubeOrigin = "https://www.youtube.com"

// YouTube player state codes carried in info payloads.
const (
	ytStateEnded   = 0
	ytStatePlaying = 1
	ytStatePaused  = 2
)

// Message is one inbound frame from the embedded player's message channel,
// tagged with the origin it claims to come from.
type Message struct {
	Origin string
	Data   []byte
}

// MessageTransport is the channel a hosting environment provides for
// talking to an embedded YouTube player. Post delivers a serialized command
// frame; Inbound streams the player's state broadcasts.
type MessageTransport interface {
	Post(payload []byte) error
	Inbound() <-chan Message
}

// ytCommand is the outbound wire format, fixed by YouTube's embed protocol.
type ytCommand struct {
	Event string        `json:"event"`
	Func  string        `json:"func"`
	Args  []interface{} `json:"args"`
}

// ytInbound is the subset of inbound frames the backend cares about.
type ytInbound struct {
	Event string `json:"event"`
	Info  *struct {
		CurrentTime *float64 `json:"currentTime"`
		Duration    *float64 `json:"duration"`
		PlayerState *int     `json:"playerState"`
	} `json:"info"`
}

// YouTube implements Backend over YouTube's asynchronous postMessage-style
// control protocol. Control is one-way-trusted: commands are fire-and-forget
// with no success signal, and observed state arrives later (or never) on the
// inbound channel. Callers must treat position and play state as eventually
// consistent.
type YouTube struct {
	transport MessageTransport
	events    chan Event
	stopCh    chan struct{}

	mu        sync.Mutex
	lastState int

	closeOnce sync.Once
}

// NewYouTube creates a YouTube backend over the given transport and starts
// consuming its inbound messages.
func NewYouTube(source MediaSource, transport MessageTransport) (*YouTube, error) {
	if source.Kind != KindYouTube {
		return nil, fmt.Errorf("youtube backend cannot play %s sources", source.Kind)
	}
	if transport == nil {
		return nil, fmt.Errorf("youtube backend requires a message transport")
	}

	yt := &YouTube{
		transport: transport,
		events:    make(chan Event, 64),
		stopCh:    make(chan struct{}),
		lastState: -1,
	}

	// Announce the listener so the embed starts broadcasting state.
	_ = yt.post(map[string]interface{}{"event": "listening", "id": 1, "channel": "widget"})

	go yt.readLoop()

	return yt, nil
}

func (y *YouTube) Play() error             { return y.command("playVideo") }
func (y *YouTube) Pause() error            { return y.command("pauseVideo") }
func (y *YouTube) SetRate(r float64) error { return y.command("setPlaybackRate", clampRate(r)) }

// Seek requests an absolute position. allowSeekAhead is always true: the
// player may seek into unbuffered territory.
func (y *YouTube) Seek(seconds float64) error {
	return y.command("seekTo", seconds, true)
}

// SetVolume sets the volume. The interface speaks [0, 1]; YouTube takes 0-100.
func (y *YouTube) SetVolume(v float64) error {
	return y.command("setVolume", clampVolume(v)*100)
}

func (y *YouTube) SetMuted(muted bool) error {
	if muted {
		return y.command("mute")
	}
	return y.command("unMute")
}

// Events returns the stream of playback notifications.
func (y *YouTube) Events() <-chan Event {
	return y.events
}

// Close stops consuming the transport. The transport itself belongs to the
// hosting environment and is not torn down here.
func (y *YouTube) Close() error {
	y.closeOnce.Do(func() {
		close(y.stopCh)
	})
	return nil
}

// command serializes one control frame and posts it. There is no
// acknowledgement to wait for; a post failure is logged and swallowed
// because playback commands are best-effort by contract.
func (y *YouTube) command(fn string, args ...interface{}) error {
	if args == nil {
		args = []interface{}{}
	}

	if err := y.post(ytCommand{Event: "command", Func: fn, Args: args}); err != nil {
		log.Warnf("youtube command %s failed to post: %v", fn, err)
	}
	return nil
}

func (y *YouTube) post(frame interface{}) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}
	return y.transport.Post(payload)
}

// readLoop consumes inbound frames until Close or the transport drains.
// It owns the events channel: the channel closes only when this goroutine
// exits, so emits can never race a close.
func (y *YouTube) readLoop() {
	defer close(y.events)

	for {
		select {
		case <-y.stopCh:
			return
		case msg, ok := <-y.transport.Inbound():
			if !ok {
				return
			}
			y.handle(msg)
		}
	}
}

// handle filters, parses, and translates one inbound frame. The origin
// check runs before any parsing; malformed JSON and unknown events are
// silently discarded, never raised.
func (y *YouTube) handle(msg Message) {
	if msg.Origin != TrustedYouTubeOrigin {
		return
	}

	var frame ytInbound
	if err := json.Unmarshal(msg.Data, &frame); err != nil {
		return
	}

	switch frame.Event {
	case "video-progress", "infoDelivery":
	default:
		return
	}

	if frame.Info == nil {
		return
	}

	if frame.Info.CurrentTime != nil {
		y.emit(Event{Kind: EventTimeUpdate, Seconds: *frame.Info.CurrentTime})
	}

	if frame.Info.Duration != nil && *frame.Info.Duration > 0 {
		y.emit(Event{Kind: EventDurationChange, Seconds: *frame.Info.Duration})
	}

	if frame.Info.PlayerState != nil {
		y.emitStateChange(*frame.Info.PlayerState)
	}
}

// emitStateChange collapses repeated state broadcasts into edge events.
func (y *YouTube) emitStateChange(state int) {
	y.mu.Lock()
	changed := state != y.lastState
	y.lastState = state
	y.mu.Unlock()

	if !changed {
		return
	}

	switch state {
	case ytStatePlaying:
		y.emit(Event{Kind: EventPlay})
	case ytStatePaused:
		y.emit(Event{Kind: EventPause})
	case ytStateEnded:
		y.emit(Event{Kind: EventEnded})
	}
}

func (y *YouTube) emit(e Event) {
	select {
	case <-y.stopCh:
	case y.events <- e:
	default:
	}
}
