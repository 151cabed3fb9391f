package transcript

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func sampleHierarchy() []SpeakerSegment {
	return []SpeakerSegment{
		{
			SpeakerLabel: "Sarah",
			StartSec:     0,
			EndSec:       12,
			Utterances: []Utterance{
				{Text: "good morning everyone", StartSec: 0, EndSec: 4, Confidence: 0.92, Words: []Word{
					{Text: "good", StartSec: 0, EndSec: 0.5, Confidence: 0.95},
					{Text: "morning", StartSec: 0.5, EndSec: 1.2, Confidence: 0.9},
					{Text: "everyone", StartSec: 1.2, EndSec: 2.0, Confidence: 0.91},
				}},
				{Text: "let's get started", StartSec: 5, EndSec: 12, Confidence: 0.88},
			},
		},
		{
			SpeakerLabel: "Tom",
			StartSec:     13,
			EndSec:       20,
			Utterances: []Utterance{
				{Text: "sounds good to me", StartSec: 13, EndSec: 20, Confidence: 0.75},
			},
		},
	}
}

func TestCanonicalization(t *testing.T) {
	Convey("FromHierarchical", t, func() {
		segments := FromHierarchical(sampleHierarchy())

		Convey("Should flatten one segment per utterance", func() {
			So(segments, ShouldHaveLength, 3)
			So(segments[0].SpeakerLabel, ShouldEqual, "Sarah")
			So(segments[0].Words, ShouldHaveLength, 3)
			So(segments[2].SpeakerLabel, ShouldEqual, "Tom")
		})

		Convey("Should compute the display span string", func() {
			So(segments[1].Display, ShouldEqual, "00:05 - 00:12")
		})

		Convey("Round-trip through ToHierarchical should preserve structure", func() {
			back := ToHierarchical(segments)

			So(back, ShouldHaveLength, 2)
			So(back[0].SpeakerLabel, ShouldEqual, "Sarah")
			So(back[0].Utterances, ShouldHaveLength, 2)
			So(back[0].Utterances[0].Text, ShouldEqual, "good morning everyone")
			So(back[0].Utterances[0].Words, ShouldHaveLength, 3)
			So(back[1].Utterances[0].Text, ShouldEqual, "sounds good to me")

			Convey("Reconstructed span equals min/max of utterance spans", func() {
				So(back[0].StartSec, ShouldEqual, 0)
				So(back[0].EndSec, ShouldEqual, 12)
				So(back[1].StartSec, ShouldEqual, 13)
				So(back[1].EndSec, ShouldEqual, 20)
			})
		})
	})

	Convey("FromFlat", t, func() {
		Convey("Should normalize millisecond timestamps", func() {
			segments := FromFlat([]FlatEntry{
				{Speaker: "Sarah", Text: "hello", TimestampRaw: 5000000, EndRaw: 8000000},
			})

			So(segments[0].StartSec, ShouldEqual, 5000)
			So(segments[0].EndSec, ShouldEqual, 8000)
		})

		Convey("Should reuse the start when the end is missing", func() {
			segments := FromFlat([]FlatEntry{{Speaker: "A", Text: "x", TimestampRaw: 42}})
			So(segments[0].EndSec, ShouldEqual, 42)
		})

		Convey("Should sort ascending by start time, stably", func() {
			segments := FromFlat([]FlatEntry{
				{Speaker: "C", Text: "third", TimestampRaw: 30},
				{Speaker: "A", Text: "first-a", TimestampRaw: 10},
				{Speaker: "B", Text: "first-b", TimestampRaw: 10},
			})

			So(segments[0].Text, ShouldEqual, "first-a")
			So(segments[1].Text, ShouldEqual, "first-b")
			So(segments[2].Text, ShouldEqual, "third")
		})
	})
}

func TestSegmentAt(t *testing.T) {
	Convey("SegmentAt", t, func() {
		segments := FromHierarchical(sampleHierarchy())

		So(SegmentAt(segments, -1), ShouldEqual, -1)
		So(SegmentAt(segments, 0), ShouldEqual, 0)
		So(SegmentAt(segments, 4.5), ShouldEqual, 0) // gap keeps the last started segment
		So(SegmentAt(segments, 6), ShouldEqual, 1)
		So(SegmentAt(segments, 500), ShouldEqual, 2)
	})
}

func TestValidate(t *testing.T) {
	Convey("Validate", t, func() {
		Convey("Should clamp inverted word spans", func() {
			segments := []Segment{
				{SpeakerLabel: "A", StartSec: 0, EndSec: 10, Words: []Word{
					{Text: "bad", StartSec: 7, EndSec: 3},
				}},
			}

			repaired := Validate(segments)

			So(repaired, ShouldEqual, 1)
			So(segments[0].Words[0].EndSec, ShouldEqual, 7)
		})

		Convey("Should pull words inside the parent span", func() {
			segments := []Segment{
				{SpeakerLabel: "A", StartSec: 5, EndSec: 10, Words: []Word{
					{Text: "early", StartSec: 1, EndSec: 6},
				}},
			}

			So(Validate(segments), ShouldEqual, 1)
			So(segments[0].Words[0].StartSec, ShouldEqual, 5)
		})

		Convey("Should leave well-formed data untouched", func() {
			segments := FromHierarchical(sampleHierarchy())
			So(Validate(segments), ShouldEqual, 0)
		})
	})
}
