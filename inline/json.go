// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"encoding/json"
	"io"

	"github.com/recap-cli/recap/meeting"
	"github.com/recap-cli/recap/transcript"
)

type Output struct {
	Meeting    string               `json:"meeting"`
	Processing bool                 `json:"processing,omitempty"`
	Query      string               `json:"query,omitempty"`
	Speaker    string               `json:"speaker,omitempty"`
	Segments   []transcript.Segment `json:"segments"`
}

type SpeakersOutput struct {
	Meeting    string   `json:"meeting"`
	Processing bool     `json:"processing,omitempty"`
	Speakers   []string `json:"speakers"`
}

func writeJson(options *Options, m *meeting.Meeting, segments []transcript.Segment) error {
	if !options.IncludeWords {
		stripped := make([]transcript.Segment, len(segments))
		for i, s := range segments {
			s.Words = nil
			stripped[i] = s
		}
		segments = stripped
	}

	data, err := json.Marshal(&Output{
		Meeting:    m.Title,
		Processing: m.IsProcessing,
		Query:      options.Query,
		Speaker:    options.Speaker,
		Segments:   segments,
	})
	if err != nil {
		return err
	}

	_, err = options.Out.Write(data)
	return err
}

func writeSpeakersJson(out io.Writer, m *meeting.Meeting, labels []string) error {
	data, err := json.Marshal(&SpeakersOutput{
		Meeting:    m.Title,
		Processing: m.IsProcessing,
		Speakers:   labels,
	})
	if err != nil {
		return err
	}

	_, err = out.Write(data)
	return err
}
