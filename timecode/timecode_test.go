package timecode

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalizeSeconds(t *testing.T) {
	Convey("NormalizeSeconds", t, func() {
		Convey("Should pass values at or below the threshold through unchanged", func() {
			for _, v := range []float64{0, 1, 5, 59.5, 3600, 9999.99, 10000} {
				So(NormalizeSeconds(v), ShouldEqual, v)
			}
		})

		Convey("Should treat values above the threshold as milliseconds", func() {
			So(NormalizeSeconds(5000000), ShouldEqual, 5000)
			So(NormalizeSeconds(10001), ShouldAlmostEqual, 10.001)
			So(NormalizeSeconds(123456), ShouldAlmostEqual, 123.456)
		})

		Convey("Should clamp negative input to zero", func() {
			So(NormalizeSeconds(-1), ShouldEqual, 0)
			So(NormalizeSeconds(-50000), ShouldEqual, 0)
		})

		Convey("Should clamp non-finite input to zero", func() {
			So(NormalizeSeconds(math.NaN()), ShouldEqual, 0)
			So(NormalizeSeconds(math.Inf(1)), ShouldEqual, 0)
			So(NormalizeSeconds(math.Inf(-1)), ShouldEqual, 0)
		})
	})
}

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		Convey("Should constrain within known bounds", func() {
			So(Clamp(5, 0, 10), ShouldEqual, 5)
			So(Clamp(-3, 0, 10), ShouldEqual, 0)
			So(Clamp(42, 0, 10), ShouldEqual, 10)
		})

		Convey("Should only apply the lower bound when duration is unknown", func() {
			So(Clamp(99999, 0, -1), ShouldEqual, 99999)
			So(Clamp(-5, 0, -1), ShouldEqual, 0)
		})

		Convey("Should collapse non-finite values to the lower bound", func() {
			So(Clamp(math.NaN(), 0, 10), ShouldEqual, 0)
			So(Clamp(math.Inf(1), 0, 10), ShouldEqual, 0)
		})
	})
}

func TestFormat(t *testing.T) {
	Convey("FormatMMSS", t, func() {
		So(FormatMMSS(0), ShouldEqual, "00:00")
		So(FormatMMSS(5), ShouldEqual, "00:05")
		So(FormatMMSS(65), ShouldEqual, "01:05")
		So(FormatMMSS(3661), ShouldEqual, "61:01")

		Convey("Should normalize millisecond input before formatting", func() {
			So(FormatMMSS(65000), ShouldEqual, "01:05")
		})
	})

	Convey("FormatRange", t, func() {
		So(FormatRange(5, 125), ShouldEqual, "00:05 - 02:05")
	})
}
