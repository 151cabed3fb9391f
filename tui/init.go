// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Init initializes the terminal user interface, triggering the initial
// meeting load and arming the playback message pumps.
func (b *statefulBubble) Init() tea.Cmd {
	pumps := tea.Batch(b.waitForTimeUpdate(), b.waitForStateChange())

	if b.target != "" {
		b.setState(loadingState)
		return tea.Batch(b.startLoading(), b.loadMeeting(b.target), b.waitForMeeting(), pumps)
	}

	return tea.Batch(textinput.Blink, b.pendingHistoryCmd, pumps)
}
