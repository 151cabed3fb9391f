// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
	"github.com/recap-cli/recap/history"
	"github.com/recap-cli/recap/icon"
	"github.com/recap-cli/recap/key"
	"github.com/recap-cli/recap/style"
	"github.com/recap-cli/recap/transcript"
	"github.com/spf13/viper"
)

// segmentEntry pairs a transcript segment with its index in the editor's
// canonical (unfiltered) slice, so edits land on the right segment even
// while a filter narrows the visible list.
type segmentEntry struct {
	index   int
	segment transcript.Segment
	active  bool
}

// listItem implements the list.Item interface, wrapping various domain models for terminal display.
type listItem struct {
	internal interface{}
}

var speakerPalette = []lipgloss.Color{
	style.Blue,
	style.Peach,
	style.Green,
	style.Mauve,
	style.Teal,
	style.Yellow,
	style.Pink,
	style.Sapphire,
}

// speakerColor deterministically assigns a palette color to a speaker label.
func speakerColor(label string) lipgloss.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(label))
	return speakerPalette[h.Sum32()%uint32(len(speakerPalette))]
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() (title string) {
	switch e := t.internal.(type) {
	case *segmentEntry:
		speaker := e.segment.SpeakerLabel
		if viper.GetBool(key.TUIShowSpeakerColors) {
			speaker = lipgloss.NewStyle().Foreground(speakerColor(e.segment.SpeakerLabel)).Bold(true).Render(speaker)
		}

		title = fmt.Sprintf("%s %s", style.Faint(e.segment.Display), speaker)
		if e.active {
			title = fmt.Sprintf("%s %s", title, icon.Get(icon.Play))
		}
	case *history.Position:
		title = e.MeetingTitle
	case string:
		title = e
	}

	return
}

// Description retrieves the secondary metadata line for the list item.
func (t *listItem) Description() (description string) {
	switch e := t.internal.(type) {
	case *segmentEntry:
		description = e.segment.Text
		if viper.GetBool(key.TUIShowConfidence) && e.segment.Confidence > 0 {
			description = transcript.TierOf(e.segment.Confidence).Style().Render(description)
		}
	case *history.Position:
		description = e.String()
	case string:
		description = ""
	}

	return
}

// FilterValue returns the string used for real-time list filtering and searching.
func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *segmentEntry:
		return e.segment.SpeakerLabel + " " + e.segment.Text
	case *history.Position:
		return e.MeetingTitle
	case string:
		return e
	default:
		return ""
	}
}
