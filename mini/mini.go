// Package mini implements a lightweight, minimalist interface for transcript navigation and playback.
package mini

import (
	"github.com/recap-cli/recap/meeting"
	"github.com/recap-cli/recap/session"
	"github.com/recap-cli/recap/transcript"
	"github.com/recap-cli/recap/util"
	"github.com/samber/lo"
)

var (
	truncateAt = 100
)

type Options struct {
	// Target is the meeting descriptor to open, a local path or an URL.
	Target string

	// Continue starts on the saved-positions screen.
	Continue bool
}

type mini struct {
	width, height int

	state         state
	statesHistory util.Stack[state]

	target   string
	meeting  *meeting.Meeting
	segments []transcript.Segment

	playback      *session.Session
	releaseHandle func()

	query string
}

func newMini() *mini {
	return &mini{
		statesHistory: util.Stack[state]{},
	}
}

func (m *mini) previousState() {
	if m.statesHistory.Len() > 0 {
		m.setState(m.statesHistory.Pop())
	}
}

func (m *mini) setState(s state) {
	m.state = s
}

func (m *mini) newState(s state) {
	if m.state == s {
		return
	}

	if !lo.Contains([]state{quitState}, m.state) {
		m.statesHistory.Push(m.state)
	}

	m.setState(s)
}

func Run(options *Options) error {
	m := newMini()
	m.target = options.Target

	switch {
	case options.Continue:
		m.state = historySelectState
	case options.Target != "":
		m.state = loadState
	default:
		m.state = targetInputState
	}

	if w, h, err := util.TerminalSize(); err == nil {
		m.width, m.height = w, h
		truncateAt = w
	}

	defer m.teardown()

	for m.state != quitState {
		if err := m.handleState(); err != nil {
			return err
		}
	}

	return nil
}

func (m *mini) handleState() error {
	switch m.state {
	case historySelectState:
		return m.handleHistorySelectState()
	case targetInputState:
		return m.handleTargetInputState()
	case loadState:
		return m.handleLoadState()
	case playbackState:
		return m.handlePlaybackState()
	case segmentSelectState:
		return m.handleSegmentSelectState()
	}

	return nil
}
