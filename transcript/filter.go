package transcript

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/recap-cli/recap/key"
	"github.com/spf13/viper"
)

// SpeakerAll is the speaker filter value that matches every speaker.
const SpeakerAll = "all"

// Filter returns the subsequence of segments whose text or speaker label
// contains the query (case-insensitive) AND whose speaker matches the
// filter. An empty query matches everything; SpeakerAll disables the
// speaker constraint. When fuzzy search is enabled in the configuration,
// the text match uses case-folded fuzzy matching instead of substring
// containment; the speaker constraint always stays exact.
func Filter(segments []Segment, query, speaker string) []Segment {
	matchText := containsFold
	if viper.GetBool(key.TranscriptFuzzySearch) {
		matchText = fuzzy.MatchFold
	}

	var out []Segment
	for _, seg := range segments {
		if speaker != SpeakerAll && seg.SpeakerLabel != speaker {
			continue
		}

		if query != "" && !matchText(query, seg.Text) && !containsFold(query, seg.SpeakerLabel) {
			continue
		}

		out = append(out, seg)
	}

	return out
}

func containsFold(query, s string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(query))
}
