package transcript

import (
	"context"
	"fmt"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
)

// SavePayload carries both representations of an edited transcript to the
// persistence callback. Hierarchical is nil when the source shape was flat.
type SavePayload struct {
	Segments     []Segment        `json:"segments"`
	Hierarchical []SpeakerSegment `json:"hierarchical_data,omitempty"`
}

// SaveFunc persists an edited transcript. Supplied by the hosting caller;
// recap itself never talks to the backing store.
type SaveFunc func(ctx context.Context, payload SavePayload) error

// Editor wraps a canonical segment sequence with in-place editing and an
// unsaved-changes flag. Edits survive failed saves so the user can retry
// without losing work.
type Editor struct {
	segments        []Segment
	wasHierarchical bool
	dirty           bool
}

// NewEditor creates an editor over the given segments. wasHierarchical
// records whether the source payload was the speaker-segment tree, in which
// case saves also deliver the regrouped hierarchical shape.
func NewEditor(segments []Segment, wasHierarchical bool) *Editor {
	return &Editor{
		segments:        segments,
		wasHierarchical: wasHierarchical,
	}
}

// Segments exposes the live segment slice (reads and iteration only; all
// mutation goes through the setters so the dirty flag stays truthful).
func (e *Editor) Segments() []Segment {
	return e.segments
}

// Dirty reports whether unsaved edits exist.
func (e *Editor) Dirty() bool {
	return e.dirty
}

// SetSpeaker replaces the speaker label of the segment at index i.
func (e *Editor) SetSpeaker(i int, label string) error {
	if i < 0 || i >= len(e.segments) {
		return fmt.Errorf("segment index %d out of range", i)
	}

	if e.segments[i].SpeakerLabel == label {
		return nil
	}

	e.segments[i].SpeakerLabel = label
	e.dirty = true
	return nil
}

// SetText replaces the text of the segment at index i.
func (e *Editor) SetText(i int, text string) error {
	if i < 0 || i >= len(e.segments) {
		return fmt.Errorf("segment index %d out of range", i)
	}

	if e.segments[i].Text == text {
		return nil
	}

	e.segments[i].Text = text
	e.dirty = true
	return nil
}

// Save hands the current state to the persistence callback. The dirty flag
// clears only when the callback succeeds; on failure the local edits are
// untouched and the error surfaces to the caller for display.
func (e *Editor) Save(ctx context.Context, save SaveFunc) error {
	payload := SavePayload{Segments: e.segments}
	if e.wasHierarchical {
		payload.Hierarchical = ToHierarchical(e.segments)
	}

	if err := save(ctx, payload); err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}

	e.dirty = false
	return nil
}

// SuggestSpeaker returns the existing speaker label closest to the typed
// input by edit distance, for the edit prompt's "did you mean" hint.
// Returns "" when there is nothing to suggest.
func (e *Editor) SuggestSpeaker(input string) string {
	labels := Speakers(e.segments)
	if input == "" || len(labels) == 0 {
		return ""
	}

	closest := lo.MinBy(labels, func(a, b string) bool {
		return levenshtein.Distance(input, a) < levenshtein.Distance(input, b)
	})

	if closest == input {
		return ""
	}
	return closest
}
