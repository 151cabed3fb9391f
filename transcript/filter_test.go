package transcript

import (
	"testing"

	"github.com/recap-cli/recap/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func filterFixture() []Segment {
	return []Segment{
		{SpeakerLabel: "A", Text: "Hello there", StartSec: 0, EndSec: 2},
		{SpeakerLabel: "B", Text: "well HELLO again", StartSec: 3, EndSec: 5},
		{SpeakerLabel: "B", Text: "moving on", StartSec: 6, EndSec: 8},
		{SpeakerLabel: "A", Text: "agreed", StartSec: 9, EndSec: 11},
	}
}

func TestFilter(t *testing.T) {
	Convey("Filter", t, func() {
		viper.Set(key.TranscriptFuzzySearch, false)
		segments := filterFixture()

		Convey("Empty query with speaker 'all' returns everything", func() {
			So(Filter(segments, "", SpeakerAll), ShouldHaveLength, 4)
		})

		Convey("Query matches text case-insensitively", func() {
			out := Filter(segments, "hello", SpeakerAll)
			So(out, ShouldHaveLength, 2)
		})

		Convey("Speaker filter combines with the query", func() {
			out := Filter(segments, "hello", "B")
			So(out, ShouldHaveLength, 1)
			So(out[0].Text, ShouldEqual, "well HELLO again")
		})

		Convey("Query also matches the speaker label", func() {
			out := Filter(segments, "b", "B")
			So(out, ShouldHaveLength, 2)
		})

		Convey("Non-matching query returns nothing", func() {
			So(Filter(segments, "zzz", SpeakerAll), ShouldBeEmpty)
		})

		Convey("Fuzzy mode widens the text match", func() {
			viper.Set(key.TranscriptFuzzySearch, true)
			defer viper.Set(key.TranscriptFuzzySearch, false)

			out := Filter(segments, "mvng", SpeakerAll)
			So(out, ShouldHaveLength, 1)
			So(out[0].Text, ShouldEqual, "moving on")
		})
	})
}

func TestTierOf(t *testing.T) {
	Convey("TierOf", t, func() {
		Convey("Should map scores to the four display tiers", func() {
			So(TierOf(0.95), ShouldEqual, TierHigh)
			So(TierOf(0.7), ShouldEqual, TierMedium)
			So(TierOf(0.45), ShouldEqual, TierLow)
			So(TierOf(0.1), ShouldEqual, TierVeryLow)
		})

		Convey("Boundaries belong to the higher tier", func() {
			So(TierOf(0.8), ShouldEqual, TierHigh)
			So(TierOf(0.6), ShouldEqual, TierMedium)
			So(TierOf(0.4), ShouldEqual, TierLow)
		})

		Convey("Names match the tier", func() {
			So(TierHigh.String(), ShouldEqual, "high")
			So(TierVeryLow.String(), ShouldEqual, "very-low")
		})
	})
}
