// Package player defines a unified abstraction layer for media playback backends.
package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/recap-cli/recap/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV implements Backend for local video and audio sources using mpv's
// JSON-IPC protocol. An audio source runs the same process with its video
// track disabled, which is what makes the two "native" variants one
// implementation here.
type MPV struct {
	source     MediaSource
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when the mpv process exits
	events     chan Event
	listener   *eventListener
	mu         sync.Mutex // protects socket writes

	closeOnce sync.Once
}

// NewMPV creates an mpv-backed player for a video or audio source.
// The process is not launched until Start.
func NewMPV(source MediaSource) (*MPV, error) {
	if source.Kind != KindVideo && source.Kind != KindAudio {
		return nil, fmt.Errorf("mpv backend cannot play %s sources", source.Kind)
	}

	return &MPV{
		source: source,
		exited: make(chan struct{}),
		events: make(chan Event, 64),
	}, nil
}

// Start launches the mpv process paused at position zero and attaches the
// event listener once the IPC socket accepts connections. Listener
// attachment is necessarily deferred: the socket is not ready synchronously
// with process start.
func (m *MPV) Start(title string) error {
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("recap-%x.sock", randomBytes))
	}

	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--force-media-title=%s", sanitizeTitle(title)),
		"--pause", // the coordinator decides when playback begins
		"--idle=yes",
		"--keep-open=yes", // reaching EOF must not kill the session
	}

	if m.source.Kind == KindAudio {
		args = append(args, "--video=no")
	} else {
		args = append(args, "--force-window=yes")
	}

	args = append(args, m.source.URL)

	m.cmd = exec.Command("mpv", args...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	// Reap the process to prevent zombies.
	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		if m.cmd.Process != nil {
			select {
			case <-m.exited:
			default:
				log.Warnf("killing mpv: socket never became ready")
				_ = m.cmd.Process.Kill()
			}
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	listener := newEventListener(m.socketPath, m.events, m.exited)
	if err := listener.start(); err != nil {
		return fmt.Errorf("attach event listener: %w", err)
	}
	m.listener = listener

	return nil
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Events returns the stream of playback notifications.
func (m *MPV) Events() <-chan Event {
	return m.events
}

// Play resumes playback.
func (m *MPV) Play() error {
	return m.setProperty("pause", false)
}

// Pause suspends playback.
func (m *MPV) Pause() error {
	return m.setProperty("pause", true)
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand([]interface{}{"seek", seconds, "absolute"})
	return err
}

// SetVolume sets the volume. The interface speaks [0, 1]; mpv takes 0-100.
func (m *MPV) SetVolume(v float64) error {
	return m.setProperty("volume", clampVolume(v)*100)
}

// SetMuted toggles muting independently of the volume level.
func (m *MPV) SetMuted(muted bool) error {
	return m.setProperty("mute", muted)
}

// SetRate sets the playback speed multiplier.
func (m *MPV) SetRate(rate float64) error {
	return m.setProperty("speed", clampRate(rate))
}

// Position returns the current playback position in seconds.
func (m *MPV) Position() (float64, error) {
	return m.getFloatProperty("time-pos")
}

// Duration returns the total duration of the loaded media in seconds.
func (m *MPV) Duration() (float64, error) {
	return m.getFloatProperty("duration")
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]interface{}{"get_property", "pid"})
	return err == nil
}

// Close shuts down the mpv process and releases resources. Safe to call
// more than once.
func (m *MPV) Close() error {
	m.closeOnce.Do(func() {
		if m.listener != nil {
			// The listener's read loop closes the events channel on exit.
			m.listener.stop()
		} else {
			close(m.events)
		}

		if m.socketPath != "" {
			// Graceful quit via IPC first, force kill as a fallback.
			_, _ = m.sendCommand([]interface{}{"quit"})

			select {
			case <-m.exited:
			case <-time.After(3 * time.Second):
				_ = killProcess(m.cmd)
			}

			_ = os.Remove(m.socketPath)
		}
	})

	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

func (m *MPV) setProperty(property string, value interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", property, value})
	return err
}

// getFloatProperty retrieves a float64 mpv property via IPC.
func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeTitle cleans up a window title for mpv.
func sanitizeTitle(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return ' '
		case '\x00':
			return -1
		}
		return r
	}, title)

	return strings.TrimSpace(cleaned)
}
