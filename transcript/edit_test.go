package transcript

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEditor(t *testing.T) {
	Convey("Editor", t, func() {
		segments := FromHierarchical(sampleHierarchy())
		editor := NewEditor(segments, true)

		Convey("Starts clean", func() {
			So(editor.Dirty(), ShouldBeFalse)
		})

		Convey("SetSpeaker marks unsaved changes", func() {
			So(editor.SetSpeaker(0, "Sara H."), ShouldBeNil)
			So(editor.Dirty(), ShouldBeTrue)
			So(editor.Segments()[0].SpeakerLabel, ShouldEqual, "Sara H.")
		})

		Convey("Setting an identical value stays clean", func() {
			So(editor.SetSpeaker(0, "Sarah"), ShouldBeNil)
			So(editor.SetText(1, segments[1].Text), ShouldBeNil)
			So(editor.Dirty(), ShouldBeFalse)
		})

		Convey("Out-of-range index is rejected", func() {
			So(editor.SetText(99, "nope"), ShouldNotBeNil)
			So(editor.SetSpeaker(-1, "nope"), ShouldNotBeNil)
		})

		Convey("Save", func() {
			So(editor.SetText(0, "good morning, everyone"), ShouldBeNil)

			Convey("Delivers both shapes and clears the flag on success", func() {
				var got SavePayload
				err := editor.Save(context.Background(), func(_ context.Context, p SavePayload) error {
					got = p
					return nil
				})

				So(err, ShouldBeNil)
				So(editor.Dirty(), ShouldBeFalse)
				So(got.Segments, ShouldHaveLength, 3)
				So(got.Hierarchical, ShouldNotBeNil)
				So(got.Hierarchical[0].Utterances[0].Text, ShouldEqual, "good morning, everyone")
			})

			Convey("Preserves edits and the flag on failure", func() {
				err := editor.Save(context.Background(), func(context.Context, SavePayload) error {
					return errors.New("backend unavailable")
				})

				So(err, ShouldNotBeNil)
				So(editor.Dirty(), ShouldBeTrue)
				So(editor.Segments()[0].Text, ShouldEqual, "good morning, everyone")
			})

			Convey("Flat-sourced editors omit the hierarchical shape", func() {
				flat := NewEditor(FromFlat([]FlatEntry{{Speaker: "A", Text: "x", TimestampRaw: 1}}), false)
				_ = flat.SetText(0, "y")

				var got SavePayload
				So(flat.Save(context.Background(), func(_ context.Context, p SavePayload) error {
					got = p
					return nil
				}), ShouldBeNil)
				So(got.Hierarchical, ShouldBeNil)
			})
		})

		Convey("SuggestSpeaker proposes the closest existing label", func() {
			So(editor.SuggestSpeaker("Sara"), ShouldEqual, "Sarah")
			So(editor.SuggestSpeaker("Tim"), ShouldEqual, "Tom")
			So(editor.SuggestSpeaker("Sarah"), ShouldBeEmpty)
			So(editor.SuggestSpeaker(""), ShouldBeEmpty)
		})
	})
}
