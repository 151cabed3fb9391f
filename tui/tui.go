// Package tui provides the primary terminal user interface implementation.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/recap-cli/recap/history"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Target is the meeting descriptor to open, a local path or an URL.
	// Empty means start on the history screen.
	Target string

	// Continue resumes playback from the last saved position.
	Continue bool
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(options *Options) error {
	if options.Target == "" && options.Continue {
		options.Target = latestDescriptor()
	}

	bubble := newBubble(options)

	if options.Target == "" {
		cmd, err := bubble.loadHistory()
		if err != nil {
			return err
		}
		bubble.pendingHistoryCmd = cmd
		bubble.newState(historyState)
	}

	_, err := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// latestDescriptor returns the descriptor of the most recently played
// meeting, or "" when the history is empty.
func latestDescriptor() string {
	positions, err := history.Get()
	if err != nil {
		return ""
	}

	var best *history.Position
	for _, pos := range positions {
		if pos.Descriptor == "" {
			continue
		}
		if best == nil || pos.UpdatedAt.After(best.UpdatedAt) {
			best = pos
		}
	}

	if best == nil {
		return ""
	}

	return best.Descriptor
}
