// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"

	"github.com/recap-cli/recap/color"
	"github.com/recap-cli/recap/icon"
	"github.com/recap-cli/recap/style"
	"github.com/recap-cli/recap/timecode"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

// speakerAllLabel is the display label for the unfiltered speaker option.
const speakerAllLabel = "All speakers"

// playerHeaderHeight is the line count of the playback header above the
// transcript list; resize subtracts it from the list height.
const playerHeaderHeight = 6

// progressBarRow is the screen row of the seek bar, for mouse clicks.
// Row 0 is the top padding line, row 1 the title, row 2 blank.
const progressBarRow = 3

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case historyState:
		output = b.viewHistory()
	case playerState:
		output = b.viewPlayer()
	case searchState:
		output = b.viewSearch()
	case speakerState:
		output = b.viewSpeakers()
	case editState:
		output = b.viewEdit()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " " + b.progressStatus,
		},
	)
}

func (b *statefulBubble) viewHistory() string {
	return listExtraPaddingStyle.Render(b.historyC.View())
}

func (b *statefulBubble) viewPlayer() string {
	header := b.playerHeader()
	list := listExtraPaddingStyle.Render(b.segmentsC.View())
	return lipgloss.JoinVertical(lipgloss.Left, header, list)
}

// playerHeader renders the title bar, seek bar and status line above the
// transcript. Its height is playerHeaderHeight including the top padding.
func (b *statefulBubble) playerHeader() string {
	var title string
	if b.meeting != nil {
		title = b.meeting.Title
	}

	lines := []string{
		style.Title("Now Playing") + " " + style.Fg(color.Purple)(style.Truncate(b.width)(title)),
		"",
	}

	if b.playback == nil {
		note := "no playback"
		if b.processing {
			note = "still processing, playback and editing disabled"
		}
		lines = append(lines, style.Faint(note), "")
		return paddingStyle.Render(strings.Join(lines, "\n"))
	}

	snapshot := b.playback.Snapshot()

	percent := 0.0
	if snapshot.DurationSec > 0 {
		percent = snapshot.CurrentTimeSec / snapshot.DurationSec
	}
	lines = append(lines, b.progressC.ViewAs(percent))

	playIcon := icon.Get(icon.Pause)
	if snapshot.IsPlaying {
		playIcon = icon.Get(icon.Play)
	}

	duration := "--:--"
	if snapshot.DurationSec >= 0 {
		duration = timecode.FormatMMSS(snapshot.DurationSec)
	}

	status := []string{
		fmt.Sprintf("%s %s / %s", playIcon, timecode.FormatMMSS(snapshot.CurrentTimeSec), duration),
		fmt.Sprintf("%.1fx", snapshot.Rate),
	}

	if snapshot.Muted {
		status = append(status, "muted")
	} else {
		status = append(status, fmt.Sprintf("vol %d%%", int(snapshot.Volume*100)))
	}

	if b.follow {
		status = append(status, style.Fg(style.Teal)("follow"))
	}

	lines = append(lines, style.Faint(strings.Join(status, "  ")))

	return paddingStyle.Render(strings.Join(lines, "\n"))
}

func (b *statefulBubble) viewSearch() string {
	lines := []string{
		style.Title("Search Transcript"),
		"",
		b.searchC.View(),
		"",
		style.Faint(fmt.Sprintf("%d matching segments", len(b.segmentsC.Items()))),
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewSpeakers() string {
	return listExtraPaddingStyle.Render(b.speakersC.View())
}

func (b *statefulBubble) viewEdit() string {
	what := "Edit Text"
	if b.editingSpeaker {
		what = "Edit Speaker"
	}

	lines := []string{
		style.Title(what),
		"",
		b.editC.View(),
	}

	if b.editingSpeaker && b.editor != nil {
		if suggestion := b.editor.SuggestSpeaker(b.editC.Value()); suggestion != "" {
			lines = append(lines, "", style.Faint("Did you mean ")+style.Fg(color.Cyan)(suggestion)+style.Faint("?"))
		}
	}

	lines = append(lines, "", style.Faint("(Enter to confirm, Esc to cancel)"))

	return b.renderLines(false, lines)
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorBody := errorStyle.Render(fmt.Sprintf("Critical Failure: %v", b.lastError.Error()))
	errorMsg := wrap.String(errorBody, b.width)
	return b.renderLines(
		true,
		append([]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
		},
			errorMsg,
		),
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
