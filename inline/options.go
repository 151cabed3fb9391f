// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/recap-cli/recap/transcript"
	"github.com/recap-cli/recap/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// SegmentsFilter narrows the already query-filtered segment list before output.
type SegmentsFilter func([]transcript.Segment) ([]transcript.Segment, error)

type Options struct {
	Out io.Writer

	// Target is the meeting descriptor, a local path or an URL.
	Target string

	// Query and Speaker feed the transcript filter.
	Query   string
	Speaker string

	Json bool

	// Speakers lists distinct speaker labels instead of segments.
	Speakers bool

	// IncludeWords keeps word-level timings in JSON output.
	IncludeWords bool

	SegmentsFilter mo.Option[SegmentsFilter]
}

// ParseSegmentsFilter parses a string description of a segment filter.
// Format: "first", "last", "all", "1-5", "@text@", "5"
func ParseSegmentsFilter(description string) (SegmentsFilter, error) {
	if description == "first" {
		return func(segments []transcript.Segment) ([]transcript.Segment, error) {
			if len(segments) == 0 {
				return segments, nil
			}
			return segments[:1], nil
		}, nil
	}
	if description == "last" {
		return func(segments []transcript.Segment) ([]transcript.Segment, error) {
			if len(segments) == 0 {
				return segments, nil
			}
			return segments[len(segments)-1:], nil
		}, nil
	}
	if description == "all" {
		return func(segments []transcript.Segment) ([]transcript.Segment, error) {
			return segments, nil
		}, nil
	}

	// Range: "1-5"
	if strings.Contains(description, "-") {
		parts := strings.Split(description, "-")
		if len(parts) == 2 {
			from, err1 := strconv.ParseUint(parts[0], 10, 16)
			to, err2 := strconv.ParseUint(parts[1], 10, 16)
			if err1 == nil && err2 == nil {
				return func(segments []transcript.Segment) ([]transcript.Segment, error) {
					start := util.Min(from, uint64(len(segments)))
					end := util.Min(to+1, uint64(len(segments)))
					if start > end {
						return []transcript.Segment{}, nil
					}
					return segments[start:end], nil
				}, nil
			}
		}
	}

	// Substring: "@text@"
	if strings.HasPrefix(description, "@") && strings.HasSuffix(description, "@") && len(description) > 1 {
		sub := description[1 : len(description)-1]
		return func(segments []transcript.Segment) ([]transcript.Segment, error) {
			return lo.Filter(segments, func(s transcript.Segment, _ int) bool {
				return strings.Contains(strings.ToLower(s.Text), strings.ToLower(sub))
			}), nil
		}, nil
	}

	// Single index: "5"
	if idx, err := strconv.ParseUint(description, 10, 16); err == nil {
		return func(segments []transcript.Segment) ([]transcript.Segment, error) {
			if uint64(len(segments)) <= idx {
				return []transcript.Segment{}, nil
			}
			return []transcript.Segment{segments[idx]}, nil
		}, nil
	}

	return nil, fmt.Errorf("invalid segment filter: %s", description)
}
