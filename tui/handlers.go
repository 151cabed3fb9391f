// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/recap-cli/recap/history"
	"github.com/recap-cli/recap/key"
	"github.com/recap-cli/recap/log"
	"github.com/recap-cli/recap/meeting"
	"github.com/recap-cli/recap/open"
	"github.com/recap-cli/recap/player"
	"github.com/recap-cli/recap/registry"
	"github.com/recap-cli/recap/session"
	"github.com/recap-cli/recap/style"
	"github.com/recap-cli/recap/transcript"
	"github.com/recap-cli/recap/util"
)

type timeUpdateMsg float64

type playerStateChangedMsg struct{}

type transcriptSavedMsg struct{}

type transcriptSaveFailedMsg struct{}

// loadMeeting fetches and canonicalizes the meeting descriptor at target.
func (b *statefulBubble) loadMeeting(target string) tea.Cmd {
	return func() tea.Msg {
		log.Info("loading meeting " + target)
		b.progressStatus = "Loading meeting"

		m, err := meeting.Load(target)
		if err != nil {
			log.Error(err)
			b.errorChannel <- err
			return nil
		}

		segments, wasHierarchical, err := m.Segments()
		if err != nil {
			log.Error(err)
			b.errorChannel <- err
			return nil
		}

		log.Infof("loaded %s", util.Quantify(len(segments), "segment", "segments"))

		loaded := &loadedMeeting{
			meeting:         m,
			segments:        segments,
			wasHierarchical: wasHierarchical,
			processing:      m.IsProcessing,
		}

		if m.IsProcessing {
			// Transcription is still running; open in a degraded state
			// with playback controls suppressed instead of refusing.
			log.Warnf("recording %q is still processing", m.Title)
		} else if viper.GetBool(key.PlayerResume) {
			if source, err := m.Source(); err == nil && source.Kind != player.KindNone {
				if pos, ok, err := history.Lookup(source.URL); err == nil && ok {
					loaded.resumeAt = pos.PositionSec
				}
			}
		}

		b.meetingLoadedChannel <- loaded
		return nil
	}
}

func (b *statefulBubble) waitForMeeting() tea.Cmd {
	return func() tea.Msg {
		select {
		case loaded := <-b.meetingLoadedChannel:
			return loaded
		case err := <-b.errorChannel:
			b.lastError = err
			return err
		}
	}
}

// startPlayback creates the playback backend for the loaded meeting and
// wires the coordinator into the UI channels and the global handle.
func (b *statefulBubble) startPlayback(loaded *loadedMeeting) tea.Cmd {
	return func() tea.Msg {
		source, err := loaded.meeting.Source()
		if err != nil {
			b.errorChannel <- err
			return nil
		}

		var backend player.Backend

		switch source.Kind {
		case player.KindVideo, player.KindAudio:
			mpv, err := player.NewMPV(source)
			if err != nil {
				b.errorChannel <- err
				return nil
			}
			if err := mpv.Start(loaded.meeting.Title); err != nil {
				b.errorChannel <- fmt.Errorf("mpv launch failed: %w", err)
				return nil
			}
			log.Infof("mpv launched on socket %s", mpv.Socket())
			backend = mpv
		case player.KindYouTube:
			// No embeddable player in a terminal; hand the URL to the
			// browser and keep transcript navigation on a no-op backend.
			log.Warn("youtube recordings have no local playback")
			if err := open.Start(source.URL); err != nil {
				log.Warnf("failed to open %s: %v", source.URL, err)
			}
			backend = nil
		default:
			backend = nil
		}

		b.playback = session.New(backend)
		b.playback.OnTimeUpdate(func(sec float64) {
			select {
			case b.timeUpdateChannel <- sec:
			default:
			}
		})
		b.playback.OnChange(func() {
			select {
			case b.stateChangeChannel <- struct{}{}:
			default:
			}
		})

		// Replace-on-mount: a newer session always wins the global handle.
		b.releaseHandle = registry.Register(b.playback)

		if loaded.resumeAt > 0 {
			b.playback.Seek(loaded.resumeAt)
		}

		initialVolume := viper.GetInt(key.PlayerVolume)
		if initialVolume >= 0 && initialVolume < 100 {
			b.playback.SetVolume(float64(initialVolume) / 100)
		}

		if initialRate := viper.GetFloat64(key.PlayerRate); initialRate > 0 && initialRate != 1.0 {
			b.playback.SetRate(initialRate)
		}

		return playerStateChangedMsg{}
	}
}

func (b *statefulBubble) waitForTimeUpdate() tea.Cmd {
	return func() tea.Msg {
		return timeUpdateMsg(<-b.timeUpdateChannel)
	}
}

func (b *statefulBubble) waitForStateChange() tea.Cmd {
	return func() tea.Msg {
		<-b.stateChangeChannel
		return playerStateChangedMsg{}
	}
}

// loadHistory populates the recent-recordings list from the persisted positions.
func (b *statefulBubble) loadHistory() (tea.Cmd, error) {
	saved, err := history.Get()
	if err != nil {
		return nil, err
	}

	entries := lo.Values(saved)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})

	var items []list.Item
	for _, e := range entries {
		items = append(items, &listItem{
			internal: e,
		})
	}

	return b.historyC.SetItems(items), nil
}

// savePosition persists the current playback position for resume.
func (b *statefulBubble) savePosition() {
	if b.playback == nil || b.meeting == nil || !viper.GetBool(key.HistorySaveOnPlay) {
		return
	}

	source, err := b.meeting.Source()
	if err != nil || source.Kind == player.KindNone {
		return
	}

	snapshot := b.playback.Snapshot()
	if snapshot.CurrentTimeSec <= 0 {
		return
	}

	err = history.Save(&history.Position{
		MeetingTitle: b.meeting.Title,
		MediaURL:     source.URL,
		Descriptor:   b.target,
		PositionSec:  snapshot.CurrentTimeSec,
		DurationSec:  snapshot.DurationSec,
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		log.Warnf("failed to save playback position: %v", err)
	}
}

// saveTranscript persists pending edits back into the meeting descriptor.
func (b *statefulBubble) saveTranscript() tea.Cmd {
	return func() tea.Msg {
		b.progressStatus = "Saving transcript"

		err := b.editor.Save(context.Background(), func(_ context.Context, payload transcript.SavePayload) error {
			return meeting.SaveTranscript(b.target, b.meeting, payload)
		})
		if err != nil {
			log.Error(err)
		}

		b.savedChannel <- err
		return nil
	}
}

func (b *statefulBubble) waitForSaved() tea.Cmd {
	return func() tea.Msg {
		if err := <-b.savedChannel; err != nil {
			return transcriptSaveFailedMsg{}
		}

		return transcriptSavedMsg{}
	}
}

// applyFilter recomputes the visible transcript slice from the active
// query and speaker filter and rebuilds the segment list items.
func (b *statefulBubble) applyFilter() tea.Cmd {
	if b.editor == nil {
		return nil
	}

	all := b.editor.Segments()
	filtered := transcript.Filter(all, b.query, b.speakerFilter)

	// Map filtered segments back to their editor indices. Filtering keeps
	// order, so a single forward scan suffices.
	b.visible = b.visible[:0]
	items := make([]list.Item, 0, len(filtered))
	next := 0
	for _, seg := range filtered {
		for next < len(all) {
			if all[next].StartSec == seg.StartSec && all[next].Text == seg.Text && all[next].SpeakerLabel == seg.SpeakerLabel {
				break
			}
			next++
		}
		if next >= len(all) {
			break
		}

		b.visible = append(b.visible, next)
		items = append(items, &listItem{internal: &segmentEntry{
			index:   next,
			segment: all[next],
			active:  next == b.activeIndex,
		}})
		next++
	}

	b.segmentsC.Title = b.segmentsTitle()
	return b.segmentsC.SetItems(items)
}

func (b *statefulBubble) segmentsTitle() string {
	var parts []string
	parts = append(parts, "Transcript")
	if b.query != "" {
		parts = append(parts, fmt.Sprintf("matching %q", b.query))
	}
	if b.speakerFilter != transcript.SpeakerAll {
		parts = append(parts, "by "+b.speakerFilter)
	}
	if b.editor != nil && b.editor.Dirty() {
		parts = append(parts, style.Fg(style.Yellow)("unsaved"))
	}
	return strings.Join(parts, " ")
}

// syncActiveSegment moves the active highlight to the segment containing
// sec, optionally scrolling the list when follow mode is on.
func (b *statefulBubble) syncActiveSegment(sec float64) {
	if b.editor == nil {
		return
	}

	idx := transcript.SegmentAt(b.editor.Segments(), sec)
	if idx == b.activeIndex {
		return
	}
	b.activeIndex = idx

	for i, item := range b.segmentsC.Items() {
		entry, ok := item.(*listItem).internal.(*segmentEntry)
		if !ok {
			continue
		}

		wasActive := entry.active
		entry.active = entry.index == idx
		if entry.active && !wasActive && b.follow {
			b.segmentsC.Select(i)
		}
	}
}

// selectedSegment returns the entry under the cursor, if any.
func (b *statefulBubble) selectedSegment() (*segmentEntry, bool) {
	item := b.segmentsC.SelectedItem()
	if item == nil {
		return nil, false
	}

	entry, ok := item.(*listItem).internal.(*segmentEntry)
	return entry, ok
}

// teardown releases the playback session and the global handle.
func (b *statefulBubble) teardown() {
	b.savePosition()

	if b.releaseHandle != nil {
		b.releaseHandle()
		b.releaseHandle = nil
	}

	if b.playback != nil {
		if err := b.playback.Close(); err != nil {
			log.Warnf("failed to close playback session: %v", err)
		}
		b.playback = nil
	}
}
