// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"fmt"
	"os"

	"github.com/recap-cli/recap/log"
	"github.com/recap-cli/recap/meeting"
	"github.com/recap-cli/recap/transcript"
)

func Run(options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	m, err := meeting.Load(options.Target)
	if err != nil {
		return err
	}

	if m.IsProcessing {
		// Degrade to whatever transcript exists so far; the JSON shapes
		// carry a processing flag so consumers can tell.
		log.Warnf("recording %q is still processing; transcript may be incomplete", m.Title)
	}

	segments, _, err := m.Segments()
	if err != nil {
		return err
	}

	if options.Speakers {
		return writeSpeakers(options, m, segments)
	}

	speaker := options.Speaker
	if speaker == "" {
		speaker = transcript.SpeakerAll
	}

	selected := transcript.Filter(segments, options.Query, speaker)

	if filter, ok := options.SegmentsFilter.Get(); ok {
		selected, err = filter(selected)
		if err != nil {
			return err
		}
	}

	if options.Json {
		return writeJson(options, m, selected)
	}

	for _, s := range selected {
		fmt.Fprintf(options.Out, "%s\t%s\t%s\n", s.Display, s.SpeakerLabel, s.Text)
	}

	return nil
}

func writeSpeakers(options *Options, m *meeting.Meeting, segments []transcript.Segment) error {
	labels := transcript.Speakers(segments)

	if options.Json {
		return writeSpeakersJson(options.Out, m, labels)
	}

	for _, label := range labels {
		fmt.Fprintln(options.Out, label)
	}

	return nil
}
