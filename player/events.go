// Package player defines a unified abstraction layer for media playback backends.
package player

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/recap-cli/recap/log"
)

// eventListener bridges mpv's observe_property notifications onto the
// backend's typed Event stream over a persistent IPC connection.
type eventListener struct {
	socketPath string
	conn       net.Conn
	out        chan<- Event
	exited     <-chan struct{}
	stopCh     chan struct{}
	mu         sync.Mutex
	listening  bool
}

func newEventListener(socketPath string, out chan<- Event, exited <-chan struct{}) *eventListener {
	return &eventListener{
		socketPath: socketPath,
		out:        out,
		exited:     exited,
		stopCh:     make(chan struct{}),
	}
}

// start subscribes to the properties backing the Event kinds and launches
// the dedicated read loop.
func (el *eventListener) start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	properties := []struct {
		id   int
		name string
	}{
		{1, "time-pos"},    // EventTimeUpdate
		{2, "duration"},    // EventDurationChange
		{3, "pause"},       // EventPlay / EventPause
		{4, "eof-reached"}, // EventEnded
	}

	for _, prop := range properties {
		if _, err := doSendCommand(el.socketPath, []interface{}{"observe_property", prop.id, prop.name}); err != nil {
			return fmt.Errorf("observe %s: %w", prop.name, err)
		}
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}
	el.conn = conn
	el.listening = true

	go el.readLoop()

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// stop terminates the listener.
func (el *eventListener) stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	close(el.stopCh)
	if el.conn != nil {
		el.conn.Close()
	}
	el.listening = false
}

// readLoop continuously reads newline-delimited JSON events from the
// persistent connection.
func (el *eventListener) readLoop() {
	// The loop owns the outbound channel: closing it here, after the last
	// dispatch, means emits can never race a close.
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
		close(el.out)
	}()

	buf := make([]byte, 4096)
	var remainder []byte

	for {
		select {
		case <-el.stopCh:
			return
		case <-el.exited:
			return
		default:
		}

		if err := el.conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}

		n, err := el.conn.Read(buf)
		if err != nil {
			if strings.Contains(err.Error(), "timeout") || strings.Contains(err.Error(), "deadline") {
				continue // timeout is normal, keep listening
			}
			log.Warnf("event listener read error: %v", err)
			return
		}

		data := append(remainder, buf[:n]...)
		remainder = nil

		lines := strings.Split(string(data), "\n")
		for i, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			// Last incomplete line carries over to the next read.
			if i == len(lines)-1 && !strings.HasSuffix(string(data), "\n") {
				remainder = []byte(line)
				continue
			}

			el.dispatch(line)
		}
	}
}

// dispatch parses a single mpv event line and emits the corresponding
// typed Event. Unparseable lines and unobserved properties are skipped.
func (el *eventListener) dispatch(line string) {
	var event struct {
		Event string      `json:"event"`
		Name  string      `json:"name"`
		Data  interface{} `json:"data"`
	}
	if err := json.Unmarshal([]byte(line), &event); err != nil {
		return
	}

	if event.Event != "property-change" {
		return
	}

	switch event.Name {
	case "time-pos":
		if sec, ok := event.Data.(float64); ok {
			el.emit(Event{Kind: EventTimeUpdate, Seconds: sec})
		}
	case "duration":
		if sec, ok := event.Data.(float64); ok && sec > 0 {
			el.emit(Event{Kind: EventDurationChange, Seconds: sec})
		}
	case "pause":
		if paused, ok := event.Data.(bool); ok {
			kind := EventPlay
			if paused {
				kind = EventPause
			}
			el.emit(Event{Kind: kind})
		}
	case "eof-reached":
		if reached, ok := event.Data.(bool); ok && reached {
			el.emit(Event{Kind: EventEnded})
		}
	}
}

// emit forwards an event without ever blocking the read loop; a consumer
// that stalls loses intermediate time updates, not the channel.
func (el *eventListener) emit(e Event) {
	select {
	case el.out <- e:
	default:
	}
}
