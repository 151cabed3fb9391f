package meeting

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/recap-cli/recap/filesystem"
	"github.com/recap-cli/recap/transcript"
)

// flatSaveRow serializes a canonical segment back into the flat vendor
// shape, using the aliases the loader accepts so the file round-trips.
type flatSaveRow struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	Timestamp  float64 `json:"timestamp"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence,omitempty"`
}

// SaveTranscript writes an edited transcript back into a local meeting
// descriptor, preserving the payload shape the descriptor used.
// Remote descriptors are read-only.
func SaveTranscript(target string, m *Meeting, payload transcript.SavePayload) error {
	if strings.Contains(target, "://") {
		return fmt.Errorf("descriptor %s is remote; transcript edits cannot be written back", target)
	}

	var (
		rows []byte
		err  error
	)

	if payload.Hierarchical != nil {
		rows, err = json.Marshal(payload.Hierarchical)
	} else {
		flat := make([]flatSaveRow, len(payload.Segments))
		for i, s := range payload.Segments {
			flat[i] = flatSaveRow{
				Speaker:    s.SpeakerLabel,
				Text:       s.Text,
				Timestamp:  s.StartSec,
				End:        s.EndSec,
				Confidence: s.Confidence,
			}
		}
		rows, err = json.Marshal(flat)
	}
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}

	m.Transcript = rows
	m.TranscriptURL = ""

	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode meeting descriptor: %w", err)
	}

	if err := filesystem.API().WriteFile(target, out, os.FileMode(0644)); err != nil {
		return fmt.Errorf("write meeting descriptor: %w", err)
	}

	return nil
}
