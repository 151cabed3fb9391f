// Package meeting models the hosting input surface: one recorded meeting's
// media locations and transcript payload, loaded from a local descriptor
// file or a remote URL.
//
// The descriptor carries at most one meaningful media URL. When several are
// present anyway, precedence is video, then audio, then YouTube.
package meeting

import (
	"encoding/json"
	"fmt"

	"github.com/recap-cli/recap/key"
	"github.com/recap-cli/recap/player"
	"github.com/recap-cli/recap/transcript"
	"github.com/spf13/viper"
)

// Meeting is one recorded meeting as supplied by the hosting side.
type Meeting struct {
	Title        string `json:"title"`
	VideoURL     string `json:"video_url,omitempty"`
	AudioURL     string `json:"audio_url,omitempty"`
	YouTubeURL   string `json:"youtube_url,omitempty"`
	IsProcessing bool   `json:"is_processing,omitempty"`

	// Transcript holds the raw transcript payload in either source shape;
	// shape detection happens in Segments.
	Transcript json.RawMessage `json:"transcript,omitempty"`

	// TranscriptURL points at an external transcript payload to fetch when
	// the descriptor does not embed one.
	TranscriptURL string `json:"transcript_url,omitempty"`
}

// Source resolves the meeting's media into a validated MediaSource.
// A meeting with no media at all yields the zero (KindNone) source, which
// downstream degrades to the no-op backend.
func (m *Meeting) Source() (player.MediaSource, error) {
	switch {
	case m.VideoURL != "":
		return player.NewMediaSource(player.KindVideo, m.VideoURL)
	case m.AudioURL != "":
		return player.NewMediaSource(player.KindAudio, m.AudioURL)
	case m.YouTubeURL != "":
		return player.NewMediaSource(player.KindYouTube, m.YouTubeURL)
	default:
		return player.MediaSource{}, nil
	}
}

// Segments canonicalizes the meeting's transcript payload.
// wasHierarchical reports which source shape the payload used, so edits can
// round-trip back into it on save.
func (m *Meeting) Segments() (segments []transcript.Segment, wasHierarchical bool, err error) {
	if len(m.Transcript) == 0 {
		return nil, false, nil
	}

	segments, wasHierarchical, err = ParsePayload(m.Transcript)
	if err != nil {
		return nil, false, fmt.Errorf("meeting %q: %w", m.Title, err)
	}

	if viper.GetBool(key.TranscriptValidateWords) {
		transcript.Validate(segments)
	}

	return segments, wasHierarchical, nil
}
