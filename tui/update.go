// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"time"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/recap-cli/recap/history"
	"github.com/recap-cli/recap/internal/ui"
	"github.com/recap-cli/recap/key"
	"github.com/recap-cli/recap/query"
	"github.com/recap-cli/recap/session"
	"github.com/recap-cli/recap/transcript"
)

// positionSaveInterval throttles history writes during playback.
const positionSaveInterval = 15 * time.Second

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Process Ephemeral UI Notifications (captures `string` and `ui.ClearNotificationMsg`)
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = tea.Batch(cmd, uiCmd)
	}

	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case timeUpdateMsg:
		b.syncActiveSegment(float64(msg))

		if time.Since(b.lastPositionSave) > positionSaveInterval {
			b.lastPositionSave = time.Now()
			go b.savePosition()
		}

		return b, tea.Batch(cmd, b.waitForTimeUpdate())
	case playerStateChangedMsg:
		// The view reads the snapshot directly; re-arm the pump.
		return b, tea.Batch(cmd, b.waitForStateChange())
	case transcriptSavedMsg:
		b.busy = false
		b.segmentsC.Title = b.segmentsTitle()
		return b, tea.Batch(cmd, func() tea.Msg { return "Transcript saved" })
	case transcriptSaveFailedMsg:
		b.busy = false
		return b, tea.Batch(cmd, ui.NotifySaveFailure())
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.forceQuit):
			b.teardown()
			return b, tea.Quit
		}

		// Input Guard: Ignore non-priority keys during asynchronous operations.
		if b.busy && b.state != errorState {
			return b, nil
		}

		// Global shortcuts stay inert while a text input owns the keyboard.
		if b.state != searchState && b.state != editState {
			switch {
			case bubblesKey.Matches(msg, b.keymap.quit):
				b.teardown()
				return b, tea.Quit
			case bubblesKey.Matches(msg, b.keymap.back):
				onListBack := func(l *list.Model) tea.Cmd {
					l.ResetSelected()
					l.ResetFilter()
					return tea.Batch(cmd, l.NewStatusMessage(""))
				}

				switch b.state {
				case playerState:
					// Leaving the player releases the backend and the
					// global handle before the previous screen shows.
					b.teardown()
				case speakerState:
					cmd = onListBack(&b.speakersC)
				case historyState:
					if b.historyC.FilterState() != list.Unfiltered {
						b.historyC, cmd = b.historyC.Update(msg)
						return b, cmd
					}
					cmd = onListBack(&b.historyC)
				}

				b.previousState()
				b.stopLoading()
				return b, cmd
			}
		}
	}

	switch b.state {
	case loadingState:
		return b.updateLoading(msg)
	case historyState:
		return b.updateHistory(msg)
	case playerState:
		return b.updatePlayer(msg)
	case searchState:
		return b.updateSearch(msg)
	case speakerState:
		return b.updateSpeaker(msg)
	case editState:
		return b.updateEdit(msg)
	case errorState:
		return b.updateError(msg)
	}

	return b, nil
}

func (b *statefulBubble) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds = make([]tea.Cmd, 0)
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.statesHistory.Len() > 0 {
				b.previousState()
			} else {
				b.teardown()
				return b, tea.Quit
			}
		}
	case *loadedMeeting:
		b.meeting = msg.meeting
		b.editor = transcript.NewEditor(msg.segments, msg.wasHierarchical)
		b.activeIndex = -1
		b.query = ""
		b.speakerFilter = transcript.SpeakerAll
		b.processing = msg.processing

		cmds = append(cmds, b.applyFilter())
		b.newState(playerState)
		b.stopLoading()

		if msg.processing {
			// No backend while transcription runs; controls stay inert.
			cmds = append(cmds, func() tea.Msg { return "Recording is still processing" })
			return b, tea.Batch(cmds...)
		}

		return b, tea.Batch(append(cmds, b.startPlayback(msg))...)
	}

	b.spinnerC, cmd = b.spinnerC.Update(msg)
	return b, tea.Batch(append(cmds, cmd)...)
}

func (b *statefulBubble) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.up):
			if n := len(b.historyC.Items()); n > 0 && b.historyC.Index() == 0 {
				b.historyC.Select(n - 1)
				return b, nil
			}
		case bubblesKey.Matches(msg, b.keymap.down):
			p := b.historyC.Items()
			if len(p) > 0 && b.historyC.Index() == len(p)-1 {
				b.historyC.Select(0)
				return b, nil
			}
		case bubblesKey.Matches(msg, b.keymap.remove):
			if b.historyC.SelectedItem() != nil {
				entry := b.historyC.SelectedItem().(*listItem).internal.(*history.Position)
				_ = history.Remove(entry.MediaURL)
				cmd, err := b.loadHistory()
				if err != nil {
					b.raiseError(err)
					return b, nil
				}
				return b, cmd
			}
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if b.historyC.SelectedItem() != nil {
				entry := b.historyC.SelectedItem().(*listItem).internal.(*history.Position)
				if entry.Descriptor == "" {
					return b, b.historyC.NewStatusMessage("No descriptor recorded for this entry")
				}

				b.target = entry.Descriptor
				b.progressStatus = "Loading " + entry.MeetingTitle
				b.newState(loadingState)
				return b, tea.Batch(b.startLoading(), b.loadMeeting(b.target), b.waitForMeeting())
			}
		}
	}

	b.historyC, cmd = b.historyC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updatePlayer(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == progressBarRow {
			if b.playback != nil {
				b.playback.SeekToOffset(msg.X-paddingStyle.GetPaddingLeft(), b.progressC.Width)
			}
			return b, nil
		}
	case tea.KeyMsg:
		if b.playback == nil {
			break
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.playPause):
			b.playback.TogglePlayPause()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			entry, ok := b.selectedSegment()
			if !ok {
				break
			}

			if viper.GetBool(key.PlayerAutoplayOnSeek) {
				b.playback.SeekThenPlay(entry.segment.StartSec)
			} else {
				b.playback.Apply(session.SeekRequest{
					Seconds: entry.segment.StartSec,
					EventID: uuid.NewString(),
				})
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.skipForward):
			b.playback.SkipForward()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.skipBackward):
			b.playback.SkipBackward()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.mute):
			b.playback.ToggleMute()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.volumeUp):
			b.playback.SetVolume(b.playback.Snapshot().Volume + 0.05)
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.volumeDown):
			b.playback.SetVolume(b.playback.Snapshot().Volume - 0.05)
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.rateUp):
			b.playback.SetRate(b.playback.Snapshot().Rate + 0.25)
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.rateDown):
			b.playback.SetRate(b.playback.Snapshot().Rate - 0.25)
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.follow):
			b.follow = !b.follow
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.search):
			b.newState(searchState)
			b.searchC.SetValue(b.query)
			b.searchC.CursorEnd()
			b.searchC.Focus()
			return b, textinput.Blink
		case bubblesKey.Matches(msg, b.keymap.speakerFilter):
			b.newState(speakerState)
			return b, b.loadSpeakers()
		case bubblesKey.Matches(msg, b.keymap.editText):
			entry, ok := b.selectedSegment()
			if !ok {
				break
			}

			b.editingIndex = entry.index
			b.editingSpeaker = false
			b.editC.Placeholder = "Segment text"
			b.editC.SetValue(entry.segment.Text)
			b.editC.CursorEnd()
			b.editC.Focus()
			b.newState(editState)
			return b, textinput.Blink
		case bubblesKey.Matches(msg, b.keymap.editSpeaker):
			entry, ok := b.selectedSegment()
			if !ok {
				break
			}

			b.editingIndex = entry.index
			b.editingSpeaker = true
			b.editC.Placeholder = "Speaker label"
			b.editC.SetValue(entry.segment.SpeakerLabel)
			b.editC.CursorEnd()
			b.editC.Focus()
			b.newState(editState)
			return b, textinput.Blink
		case bubblesKey.Matches(msg, b.keymap.save):
			if b.editor == nil || !b.editor.Dirty() {
				return b, func() tea.Msg { return "No unsaved changes" }
			}

			b.busy = true
			return b, tea.Batch(b.saveTranscript(), b.waitForSaved())

		case bubblesKey.Matches(msg, b.keymap.up):
			if n := len(b.segmentsC.Items()); n > 0 && b.segmentsC.Index() == 0 {
				b.segmentsC.Select(n - 1)
				return b, nil
			}
		case bubblesKey.Matches(msg, b.keymap.down):
			if n := len(b.segmentsC.Items()); n > 0 && b.segmentsC.Index() == n-1 {
				b.segmentsC.Select(0)
				return b, nil
			}
		}
	}

	b.segmentsC, cmd = b.segmentsC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			b.searchC.Blur()
			if b.query != "" {
				_ = query.Remember(b.query, 1)
			}
			b.setState(playerState)
			return b, b.applyFilter()
		case bubblesKey.Matches(msg, b.keymap.back):
			b.searchC.SetValue("")
			b.searchC.Blur()
			b.query = ""
			b.setState(playerState)
			return b, b.applyFilter()
		}
	}

	b.searchC, cmd = b.searchC.Update(msg)

	// Live filtering: every keystroke narrows the transcript immediately.
	if b.searchC.Value() != b.query {
		b.query = b.searchC.Value()
		return b, tea.Batch(cmd, b.applyFilter())
	}

	return b, cmd
}

func (b *statefulBubble) loadSpeakers() tea.Cmd {
	items := []list.Item{&listItem{internal: speakerAllLabel}}
	for _, label := range transcript.Speakers(b.editor.Segments()) {
		items = append(items, &listItem{internal: label})
	}

	return b.speakersC.SetItems(items)
}

func (b *statefulBubble) updateSpeaker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.up):
			if n := len(b.speakersC.Items()); n > 0 && b.speakersC.Index() == 0 {
				b.speakersC.Select(n - 1)
				return b, nil
			}
		case bubblesKey.Matches(msg, b.keymap.down):
			if n := len(b.speakersC.Items()); n > 0 && b.speakersC.Index() == n-1 {
				b.speakersC.Select(0)
				return b, nil
			}
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if b.speakersC.SelectedItem() == nil {
				break
			}

			label := b.speakersC.SelectedItem().(*listItem).internal.(string)
			if label == speakerAllLabel {
				b.speakerFilter = transcript.SpeakerAll
			} else {
				b.speakerFilter = label
			}

			b.previousState()
			return b, b.applyFilter()
		}
	}

	b.speakersC, cmd = b.speakersC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			value := b.editC.Value()

			var err error
			if b.editingSpeaker {
				err = b.editor.SetSpeaker(b.editingIndex, value)
			} else {
				err = b.editor.SetText(b.editingIndex, value)
			}
			if err != nil {
				b.raiseError(err)
				return b, nil
			}

			b.editC.Blur()
			b.setState(playerState)
			return b, b.applyFilter()
		case bubblesKey.Matches(msg, b.keymap.back):
			b.editC.Blur()
			b.setState(playerState)
			return b, nil
		}
	}

	b.editC, cmd = b.editC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.quit):
			b.teardown()
			return b, tea.Quit
		}
	}

	return b, nil
}
