package history

import (
	"testing"
	"time"

	"github.com/recap-cli/recap/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given a playback position", t, func() {
		position := &Position{
			MeetingTitle: "Weekly Sync",
			MediaURL:     "https://example.com/recordings/weekly-sync.mp4",
			PositionSec:  125,
			DurationSec:  1800,
			UpdatedAt:    time.Now(),
		}

		Convey("When saving the position", func() {
			err := Save(position)

			Convey("Then the error should be nil", func() {
				So(err, ShouldBeNil)

				Convey("And the position should be saved", func() {
					saved, ok, err := Lookup(position.MediaURL)
					So(err, ShouldBeNil)
					So(ok, ShouldBeTrue)
					So(saved.MeetingTitle, ShouldEqual, position.MeetingTitle)
					So(saved.PositionSec, ShouldEqual, position.PositionSec)
				})
			})

			Convey("And saving an earlier position keeps the furthest progress", func() {
				rewound := &Position{
					MeetingTitle: position.MeetingTitle,
					MediaURL:     position.MediaURL,
					PositionSec:  30,
					DurationSec:  1800,
					UpdatedAt:    time.Now(),
				}

				So(Save(rewound), ShouldBeNil)

				saved, ok, err := Lookup(position.MediaURL)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(saved.PositionSec, ShouldEqual, position.PositionSec)
			})

			Convey("And removing the position forgets it", func() {
				So(Remove(position.MediaURL), ShouldBeNil)

				_, ok, err := Lookup(position.MediaURL)
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a position with unknown duration", t, func() {
		position := &Position{
			MediaURL:    "https://example.com/recordings/partial.mp4",
			PositionSec: 10,
			DurationSec: -1,
		}

		Convey("Then percent complete should report zero", func() {
			So(position.PercentComplete(), ShouldEqual, 0)
		})
	})
}
