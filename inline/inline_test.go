package inline

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/recap-cli/recap/filesystem"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

const descriptorPath = "/meetings/standup.json"

const descriptor = `{
	"title": "Standup",
	"audio_url": "https://example.com/standup.mp3",
	"transcript": [
		{"speaker": "Sarah", "text": "Good morning everyone", "timestamp": 0, "end": 2.5},
		{"speaker": "Tom", "text": "Morning, let's get started", "timestamp": 2.5, "end": 5},
		{"speaker": "Sarah", "text": "I finished the migration", "timestamp": 5, "end": 9}
	]
}`

const processingPath = "/meetings/retro.json"

const processingDescriptor = `{
	"title": "Retro",
	"is_processing": true,
	"audio_url": "https://example.com/retro.mp3",
	"transcript": [
		{"speaker": "Tom", "text": "Partial so far", "timestamp": 0, "end": 2}
	]
}`

func init() {
	filesystem.SetMemMapFs()
	_ = filesystem.API().WriteFile(descriptorPath, []byte(descriptor), os.FileMode(0644))
	_ = filesystem.API().WriteFile(processingPath, []byte(processingDescriptor), os.FileMode(0644))
}

func TestRun(t *testing.T) {
	Convey("Given a meeting descriptor", t, func() {
		Convey("When printing all segments as text", func() {
			var out strings.Builder
			err := Run(&Options{Out: &out, Target: descriptorPath})

			So(err, ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			So(lines, ShouldHaveLength, 3)
			So(lines[0], ShouldContainSubstring, "Sarah")
			So(lines[0], ShouldContainSubstring, "Good morning everyone")
		})

		Convey("When filtering by query", func() {
			var out strings.Builder
			err := Run(&Options{Out: &out, Target: descriptorPath, Query: "migration"})

			So(err, ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			So(lines, ShouldHaveLength, 1)
			So(lines[0], ShouldContainSubstring, "I finished the migration")
		})

		Convey("When filtering by speaker with JSON output", func() {
			var out strings.Builder
			err := Run(&Options{Out: &out, Target: descriptorPath, Speaker: "Tom", Json: true})

			So(err, ShouldBeNil)

			var output Output
			So(json.Unmarshal([]byte(out.String()), &output), ShouldBeNil)
			So(output.Meeting, ShouldEqual, "Standup")
			So(output.Segments, ShouldHaveLength, 1)
			So(output.Segments[0].SpeakerLabel, ShouldEqual, "Tom")
		})

		Convey("When applying a segments filter", func() {
			filter, err := ParseSegmentsFilter("first")
			So(err, ShouldBeNil)

			var out strings.Builder
			err = Run(&Options{
				Out:            &out,
				Target:         descriptorPath,
				SegmentsFilter: mo.Some(filter),
			})

			So(err, ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			So(lines, ShouldHaveLength, 1)
		})

		Convey("When the recording is still processing", func() {
			Convey("Text output degrades to the partial transcript", func() {
				var out strings.Builder
				err := Run(&Options{Out: &out, Target: processingPath})

				So(err, ShouldBeNil)
				So(out.String(), ShouldContainSubstring, "Partial so far")
			})

			Convey("JSON output carries the processing flag", func() {
				var out strings.Builder
				err := Run(&Options{Out: &out, Target: processingPath, Json: true})

				So(err, ShouldBeNil)

				var output Output
				So(json.Unmarshal([]byte(out.String()), &output), ShouldBeNil)
				So(output.Processing, ShouldBeTrue)
				So(output.Segments, ShouldHaveLength, 1)
			})
		})

		Convey("When listing speakers", func() {
			var out strings.Builder
			err := Run(&Options{Out: &out, Target: descriptorPath, Speakers: true})

			So(err, ShouldBeNil)
			So(out.String(), ShouldContainSubstring, "Sarah")
			So(out.String(), ShouldContainSubstring, "Tom")
		})
	})

	Convey("ParseSegmentsFilter", t, func() {
		Convey("Rejects garbage", func() {
			_, err := ParseSegmentsFilter("not a filter")
			So(err, ShouldNotBeNil)
		})

		Convey("Parses ranges", func() {
			filter, err := ParseSegmentsFilter("0-1")
			So(err, ShouldBeNil)
			So(filter, ShouldNotBeNil)
		})
	})
}
