// Package transcript converts heterogeneous speech-to-text payloads into one canonical,
// time-ordered segment sequence and supports searching and editing it.
//
// Two source shapes exist in the wild: a flat list of speaker/text/timestamp
// rows and a hierarchical speaker-segment/utterance/word tree with per-word
// confidence. Both collapse into []Segment; the hierarchical shape can be
// reconstructed from the canonical one for persistence.
package transcript

import (
	"sort"

	"github.com/recap-cli/recap/timecode"
)

// Word is a single transcribed word with its time span and vendor confidence.
type Word struct {
	Text       string  `json:"text"`
	StartSec   float64 `json:"start_sec"`
	EndSec     float64 `json:"end_sec"`
	Confidence float64 `json:"confidence"`
}

// Utterance is one continuous stretch of speech inside a speaker segment.
type Utterance struct {
	Text       string  `json:"text"`
	StartSec   float64 `json:"start_sec"`
	EndSec     float64 `json:"end_sec"`
	Confidence float64 `json:"confidence"`
	Words      []Word  `json:"words,omitempty"`
}

// SpeakerSegment is the hierarchical source shape: one speaker turn holding
// its utterances. Its span aggregates the spans of the utterances.
type SpeakerSegment struct {
	SpeakerLabel string      `json:"speaker_label"`
	StartSec     float64     `json:"start_sec"`
	EndSec       float64     `json:"end_sec"`
	Utterances   []Utterance `json:"utterances"`
}

// Segment is the canonical unit every consumer works with: one contiguous
// span of text attributed to one speaker, optionally carrying word timings.
type Segment struct {
	SpeakerLabel string  `json:"speaker_label"`
	Text         string  `json:"text"`
	StartSec     float64 `json:"start_sec"`
	EndSec       float64 `json:"end_sec"`
	Confidence   float64 `json:"confidence,omitempty"`
	Words        []Word  `json:"words,omitempty"`

	// Display is the human-readable "MM:SS - MM:SS" span string.
	Display string `json:"display,omitempty"`
}

// FlatEntry is one row of the flat vendor shape. Timestamps are raw and may
// arrive in milliseconds; they are normalized during canonicalization.
type FlatEntry struct {
	Speaker      string  `json:"speaker"`
	Text         string  `json:"text"`
	TimestampRaw float64 `json:"timestamp_raw"`
	EndRaw       float64 `json:"end_raw"`
	Confidence   float64 `json:"confidence"`
}

// FromFlat canonicalizes flat vendor rows. Raw timestamps go through the
// millisecond heuristic; a missing end timestamp reuses the start so the
// span invariant start <= end always holds.
func FromFlat(entries []FlatEntry) []Segment {
	segments := make([]Segment, 0, len(entries))

	for _, e := range entries {
		start := timecode.NormalizeSeconds(e.TimestampRaw)
		end := timecode.NormalizeSeconds(e.EndRaw)
		if end < start {
			end = start
		}

		segments = append(segments, Segment{
			SpeakerLabel: e.Speaker,
			Text:         e.Text,
			StartSec:     start,
			EndSec:       end,
			Confidence:   e.Confidence,
			Display:      timecode.FormatRange(start, end),
		})
	}

	return sortSegments(segments)
}

// FromHierarchical flattens a speaker-segment tree into canonical segments,
// one per utterance, each carrying its parent's speaker label and its own
// word list. Hierarchical sources are assumed pre-normalized to seconds.
func FromHierarchical(speakers []SpeakerSegment) []Segment {
	var segments []Segment

	for _, sp := range speakers {
		for _, u := range sp.Utterances {
			segments = append(segments, Segment{
				SpeakerLabel: sp.SpeakerLabel,
				Text:         u.Text,
				StartSec:     u.StartSec,
				EndSec:       u.EndSec,
				Confidence:   u.Confidence,
				Words:        u.Words,
				Display:      timecode.FormatRange(u.StartSec, u.EndSec),
			})
		}
	}

	return sortSegments(segments)
}

// ToHierarchical reconstructs the speaker-segment tree by grouping
// consecutive canonical segments with the same speaker label. Each
// reconstructed speaker segment spans [min start, max end] of its
// utterances.
func ToHierarchical(segments []Segment) []SpeakerSegment {
	var speakers []SpeakerSegment

	for _, seg := range segments {
		u := Utterance{
			Text:       seg.Text,
			StartSec:   seg.StartSec,
			EndSec:     seg.EndSec,
			Confidence: seg.Confidence,
			Words:      seg.Words,
		}

		if n := len(speakers); n > 0 && speakers[n-1].SpeakerLabel == seg.SpeakerLabel {
			last := &speakers[n-1]
			last.Utterances = append(last.Utterances, u)
			if u.StartSec < last.StartSec {
				last.StartSec = u.StartSec
			}
			if u.EndSec > last.EndSec {
				last.EndSec = u.EndSec
			}
			continue
		}

		speakers = append(speakers, SpeakerSegment{
			SpeakerLabel: seg.SpeakerLabel,
			StartSec:     seg.StartSec,
			EndSec:       seg.EndSec,
			Utterances:   []Utterance{u},
		})
	}

	return speakers
}

// Speakers returns the distinct speaker labels in order of first appearance.
func Speakers(segments []Segment) []string {
	var labels []string
	seen := make(map[string]struct{})

	for _, seg := range segments {
		if _, ok := seen[seg.SpeakerLabel]; ok {
			continue
		}
		seen[seg.SpeakerLabel] = struct{}{}
		labels = append(labels, seg.SpeakerLabel)
	}

	return labels
}

// sortSegments orders segments ascending by start time. The sort is stable:
// equal start times keep their original input order.
func sortSegments(segments []Segment) []Segment {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].StartSec < segments[j].StartSec
	})
	return segments
}

// SegmentAt returns the index of the segment covering the given playback
// position, or the latest segment already started when the position falls in
// a gap. Returns -1 before the first segment.
func SegmentAt(segments []Segment, sec float64) int {
	idx := -1
	for i, seg := range segments {
		if seg.StartSec > sec {
			break
		}
		idx = i
	}
	return idx
}
