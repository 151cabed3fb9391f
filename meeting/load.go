package meeting

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/recap-cli/recap/constant"
	"github.com/recap-cli/recap/filesystem"
	"github.com/recap-cli/recap/log"
	"github.com/recap-cli/recap/network"
	"github.com/recap-cli/recap/transcript"
)

// Load reads a meeting descriptor from a local path or an http(s) URL.
// A descriptor referencing an external transcript gets it fetched and
// inlined here, so callers always see a self-contained Meeting.
func Load(target string) (*Meeting, error) {
	raw, err := fetch(target)
	if err != nil {
		return nil, fmt.Errorf("load meeting descriptor: %w", err)
	}

	var m Meeting
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse meeting descriptor: %w", err)
	}

	if len(m.Transcript) == 0 && m.TranscriptURL != "" {
		payload, err := fetch(m.TranscriptURL)
		if err != nil {
			// A missing transcript degrades to playback-only, not failure.
			log.Warnf("meeting: transcript fetch failed: %v", err)
		} else {
			m.Transcript = payload
		}
	}

	return &m, nil
}

func fetch(target string) ([]byte, error) {
	if !strings.Contains(target, "://") {
		return filesystem.API().ReadFile(target)
	}

	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := network.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", target, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// ParsePayload canonicalizes a raw transcript payload, auto-detecting its
// shape. A payload whose rows carry utterances is hierarchical; anything
// else is treated as the flat vendor shape. Rows that cannot be made sense
// of are skipped with a warning — one bad row never aborts the rest.
func ParsePayload(payload []byte) (segments []transcript.Segment, wasHierarchical bool, err error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, false, fmt.Errorf("transcript payload is not a JSON array: %w", err)
	}

	if isHierarchical(rows) {
		return parseHierarchical(rows), true, nil
	}

	return parseFlat(rows), false, nil
}

// isHierarchical probes the first decodable row for an utterances key.
func isHierarchical(rows []json.RawMessage) bool {
	for _, row := range rows {
		var probe map[string]json.RawMessage
		if json.Unmarshal(row, &probe) != nil {
			continue
		}
		_, ok := probe["utterances"]
		return ok
	}
	return false
}

func parseHierarchical(rows []json.RawMessage) []transcript.Segment {
	var speakers []transcript.SpeakerSegment

	for i, row := range rows {
		var sp transcript.SpeakerSegment
		if err := json.Unmarshal(row, &sp); err != nil {
			log.Warnf("transcript: skipping malformed speaker segment %d: %v", i, err)
			continue
		}
		speakers = append(speakers, sp)
	}

	return transcript.FromHierarchical(speakers)
}

// flatRow tolerates the timestamp key aliases seen across vendor exports.
type flatRow struct {
	Speaker      string   `json:"speaker"`
	SpeakerLabel string   `json:"speaker_label"`
	Text         string   `json:"text"`
	TimestampRaw *float64 `json:"timestamp_raw"`
	Timestamp    *float64 `json:"timestamp"`
	Start        *float64 `json:"start"`
	End          *float64 `json:"end"`
	Confidence   float64  `json:"confidence"`
}

func parseFlat(rows []json.RawMessage) []transcript.Segment {
	var entries []transcript.FlatEntry

	for i, row := range rows {
		var r flatRow
		if err := json.Unmarshal(row, &r); err != nil {
			log.Warnf("transcript: skipping malformed row %d: %v", i, err)
			continue
		}

		start := firstTimestamp(r.TimestampRaw, r.Timestamp, r.Start)
		if r.Text == "" || start == nil {
			log.Warnf("transcript: skipping row %d: missing text or timestamp", i)
			continue
		}

		speaker := r.Speaker
		if speaker == "" {
			speaker = r.SpeakerLabel
		}

		entry := transcript.FlatEntry{
			Speaker:      speaker,
			Text:         r.Text,
			TimestampRaw: *start,
			Confidence:   r.Confidence,
		}
		if r.End != nil {
			entry.EndRaw = *r.End
		}

		entries = append(entries, entry)
	}

	return transcript.FromFlat(entries)
}

func firstTimestamp(candidates ...*float64) *float64 {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}
