// Package mini implements a lightweight, minimalist interface for transcript navigation and playback.
package mini

import (
	"fmt"
	"sort"
	"time"

	"github.com/recap-cli/recap/history"
	"github.com/recap-cli/recap/key"
	"github.com/recap-cli/recap/log"
	"github.com/recap-cli/recap/meeting"
	"github.com/recap-cli/recap/open"
	"github.com/recap-cli/recap/player"
	"github.com/recap-cli/recap/query"
	"github.com/recap-cli/recap/registry"
	"github.com/recap-cli/recap/session"
	"github.com/recap-cli/recap/style"
	"github.com/recap-cli/recap/timecode"
	"github.com/recap-cli/recap/transcript"
	"github.com/recap-cli/recap/util"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

type state int

const (
	targetInputState state = iota + 1
	loadState
	playbackState
	segmentSelectState
	historySelectState
	quitState
)

// segmentChoice adapts a transcript segment for menu rendering.
type segmentChoice struct {
	segment transcript.Segment
}

func (c segmentChoice) String() string {
	return fmt.Sprintf("%s %s: %s", c.segment.Display, c.segment.SpeakerLabel, c.segment.Text)
}

func (m *mini) handleTargetInputState() error {
	title("Open Recording")
	fmt.Println(style.Faint("Path or URL of a meeting descriptor"))

	in, err := getInput(func(s string) bool {
		return s != ""
	})
	if err != nil {
		return err
	}

	m.target = in.value
	m.newState(loadState)
	return nil
}

func (m *mini) handleLoadState() error {
	erase := progress("Loading meeting..")
	mt, err := meeting.Load(m.target)
	erase()
	if err != nil {
		return err
	}

	if mt.IsProcessing {
		fail("Recording is still processing; transcript preview only")
	}

	segments, _, err := mt.Segments()
	if err != nil {
		return err
	}

	m.meeting = mt
	m.segments = segments

	source, err := mt.Source()
	if err != nil {
		return err
	}

	var backend player.Backend
	switch {
	case mt.IsProcessing:
		// Controls over a nil backend are safe no-ops.
	case source.Kind == player.KindVideo || source.Kind == player.KindAudio:
		erase = progress("Launching player..")
		mpv, err := player.NewMPV(source)
		if err != nil {
			return err
		}
		if err := mpv.Start(mt.Title); err != nil {
			erase()
			return fmt.Errorf("mpv launch failed: %w", err)
		}
		erase()
		backend = mpv
	case source.Kind == player.KindYouTube:
		fail("No local playback for youtube recordings; opening in browser")
		if err := open.Start(source.URL); err != nil {
			log.Warnf("failed to open %s: %v", source.URL, err)
		}
	default:
		fail("No locally playable media; transcript navigation only")
	}

	m.teardown()
	m.playback = session.New(backend)
	m.releaseHandle = registry.Register(m.playback)

	if !mt.IsProcessing && viper.GetBool(key.PlayerResume) && source.Kind != player.KindNone {
		if pos, ok, err := history.Lookup(source.URL); err == nil && ok && pos.PositionSec > 0 {
			registry.SeekToTime(pos.PositionSec)
		}
	}

	m.newState(playbackState)
	return nil
}

func (m *mini) handlePlaybackState() error {
	util.ClearScreen()
	title(fmt.Sprintf("Playing %s", m.meeting.Title))

	snapshot := m.playback.Snapshot()

	position := timecode.FormatMMSS(snapshot.CurrentTimeSec)
	duration := "--:--"
	if snapshot.DurationSec >= 0 {
		duration = timecode.FormatMMSS(snapshot.DurationSec)
	}
	fmt.Printf("%s / %s  %.1fx\n", position, duration, snapshot.Rate)

	if idx := transcript.SegmentAt(m.segments, snapshot.CurrentTimeSec); idx >= 0 {
		seg := m.segments[idx]
		fmt.Println(style.Faint(style.Truncate(truncateAt)(seg.SpeakerLabel + ": " + seg.Text)))
	}

	binds := []*bind{playPause, rewind, forward, jump, search, quit}
	if m.meeting.IsProcessing {
		fmt.Println(style.Faint("Still processing; playback controls disabled"))
		binds = []*bind{jump, search, quit}
	}

	b, _, err := menu([]fmt.Stringer{}, binds...)
	if err != nil {
		return err
	}

	switch b {
	case playPause:
		// Exercise the shared control handle the way an embedding
		// surface would, instead of the session directly.
		if m.playback.Snapshot().IsPlaying {
			registry.PauseMedia()
		} else {
			registry.PlayMedia()
		}
	case rewind:
		m.playback.SkipBackward()
	case forward:
		m.playback.SkipForward()
	case jump:
		m.query = ""
		m.newState(segmentSelectState)
	case search:
		in, err := getInput(func(string) bool { return true })
		if err != nil {
			return err
		}
		m.query = in.value
		if m.query != "" {
			_ = query.Remember(m.query, 1)
		}
		m.newState(segmentSelectState)
	case quit:
		m.savePosition()
		m.newState(quitState)
	}

	return nil
}

func (m *mini) handleSegmentSelectState() error {
	filtered := transcript.Filter(m.segments, m.query, transcript.SpeakerAll)
	limit := lo.Min([]int{len(filtered), viper.GetInt(key.MiniResultLimit)})
	filtered = filtered[:limit]

	if len(filtered) == 0 {
		fail("No matching segments")
		m.previousState()
		return nil
	}

	title("Jump To Segment")
	choices := lo.Map(filtered, func(s transcript.Segment, _ int) segmentChoice {
		return segmentChoice{segment: s}
	})

	b, choice, err := menu(choices, back, quit)
	if err != nil {
		return err
	}

	switch {
	case back.eq(b):
		m.previousState()
		return nil
	case quit.eq(b):
		m.savePosition()
		m.newState(quitState)
		return nil
	}

	if viper.GetBool(key.PlayerAutoplayOnSeek) {
		// Some backends cannot seek and play atomically; let the seek
		// settle before starting playback.
		m.playback.SeekThenPlay(choice.segment.StartSec)
	} else {
		registry.SeekToTime(choice.segment.StartSec)
	}

	m.newState(playbackState)
	return nil
}

func (m *mini) handleHistorySelectState() error {
	saved, err := history.Get()
	if err != nil {
		return err
	}

	positions := lo.Values(saved)
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].UpdatedAt.After(positions[j].UpdatedAt)
	})
	if len(positions) == 0 {
		fail("No saved positions")
		m.newState(targetInputState)
		return nil
	}

	title("Resume Recording")
	b, pos, err := menu(positions, quit)
	if err != nil {
		return err
	}

	if quit.eq(b) {
		m.newState(quitState)
		return nil
	}

	if pos.Descriptor == "" {
		fail("No descriptor recorded for this entry")
		return nil
	}

	m.target = pos.Descriptor
	m.newState(loadState)
	return nil
}

func (m *mini) savePosition() {
	if m.playback == nil || m.meeting == nil || !viper.GetBool(key.HistorySaveOnPlay) {
		return
	}

	source, err := m.meeting.Source()
	if err != nil || source.Kind == player.KindNone {
		return
	}

	snapshot := m.playback.Snapshot()
	if snapshot.CurrentTimeSec <= 0 {
		return
	}

	err = history.Save(&history.Position{
		MeetingTitle: m.meeting.Title,
		MediaURL:     source.URL,
		Descriptor:   m.target,
		PositionSec:  snapshot.CurrentTimeSec,
		DurationSec:  snapshot.DurationSec,
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		log.Warnf("failed to save playback position: %v", err)
	}
}

func (m *mini) teardown() {
	if m.releaseHandle != nil {
		m.releaseHandle()
		m.releaseHandle = nil
	}

	if m.playback != nil {
		if err := m.playback.Close(); err != nil {
			log.Warnf("failed to close playback session: %v", err)
		}
		m.playback = nil
	}
}
