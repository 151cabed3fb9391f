package meeting

import (
	"testing"

	"github.com/recap-cli/recap/filesystem"
	"github.com/recap-cli/recap/player"
	"github.com/recap-cli/recap/transcript"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSourceSelection(t *testing.T) {
	Convey("Meeting.Source", t, func() {
		Convey("Prefers video over audio over youtube", func() {
			m := &Meeting{
				VideoURL:   "https://cdn.example.com/v.mp4",
				AudioURL:   "https://cdn.example.com/a.ogg",
				YouTubeURL: "https://www.youtube.com/watch?v=x",
			}

			src, err := m.Source()
			So(err, ShouldBeNil)
			So(src.Kind, ShouldEqual, player.KindVideo)
		})

		Convey("Falls through to audio, then youtube", func() {
			m := &Meeting{AudioURL: "/tmp/a.ogg", YouTubeURL: "https://www.youtube.com/watch?v=x"}
			src, err := m.Source()
			So(err, ShouldBeNil)
			So(src.Kind, ShouldEqual, player.KindAudio)

			m.AudioURL = ""
			src, err = m.Source()
			So(err, ShouldBeNil)
			So(src.Kind, ShouldEqual, player.KindYouTube)
		})

		Convey("No media yields the zero source", func() {
			src, err := (&Meeting{Title: "standup"}).Source()
			So(err, ShouldBeNil)
			So(src.Kind, ShouldEqual, player.KindNone)
		})

		Convey("Propagates sanitization failures", func() {
			_, err := (&Meeting{VideoURL: "--not-a-url"}).Source()
			So(err, ShouldNotBeNil)
		})
	})
}

func TestParsePayload(t *testing.T) {
	Convey("ParsePayload", t, func() {
		Convey("Detects and canonicalizes the flat shape", func() {
			payload := []byte(`[
				{"speaker":"Sarah","text":"hello","timestamp_raw":5000000},
				{"speaker":"Tom","text":"hi there","timestamp_raw":8000000,"end":9000000}
			]`)

			segments, wasHierarchical, err := ParsePayload(payload)

			So(err, ShouldBeNil)
			So(wasHierarchical, ShouldBeFalse)
			So(segments, ShouldHaveLength, 2)
			So(segments[0].StartSec, ShouldEqual, 5000)
			So(segments[1].EndSec, ShouldEqual, 9000)
		})

		Convey("Detects the hierarchical shape", func() {
			payload := []byte(`[
				{"speaker_label":"Sarah","start_sec":0,"end_sec":4,"utterances":[
					{"text":"good morning","start_sec":0,"end_sec":4,"confidence":0.9,
					 "words":[{"text":"good","start_sec":0,"end_sec":1,"confidence":0.95}]}
				]}
			]`)

			segments, wasHierarchical, err := ParsePayload(payload)

			So(err, ShouldBeNil)
			So(wasHierarchical, ShouldBeTrue)
			So(segments, ShouldHaveLength, 1)
			So(segments[0].Words, ShouldHaveLength, 1)
		})

		Convey("Tolerates timestamp key aliases", func() {
			payload := []byte(`[
				{"speaker":"A","text":"one","timestamp":5},
				{"speaker_label":"B","text":"two","start":8}
			]`)

			segments, _, err := ParsePayload(payload)

			So(err, ShouldBeNil)
			So(segments, ShouldHaveLength, 2)
			So(segments[1].SpeakerLabel, ShouldEqual, "B")
		})

		Convey("Skips malformed rows without aborting the rest", func() {
			payload := []byte(`[
				{"speaker":"A","text":"kept","timestamp_raw":1},
				{"speaker":"B"},
				{"speaker":"C","timestamp_raw":3},
				{"speaker":"D","text":"also kept","timestamp_raw":4}
			]`)

			segments, _, err := ParsePayload(payload)

			So(err, ShouldBeNil)
			So(segments, ShouldHaveLength, 2)
			So(segments[0].Text, ShouldEqual, "kept")
			So(segments[1].Text, ShouldEqual, "also kept")
		})

		Convey("Rejects payloads that are not arrays", func() {
			_, _, err := ParsePayload([]byte(`{"not":"an array"}`))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Load", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		Convey("Reads a self-contained descriptor from disk", func() {
			descriptor := `{
				"title": "weekly sync",
				"audio_url": "/recordings/sync.ogg",
				"transcript": [{"speaker":"Sarah","text":"hello","timestamp_raw":5000}]
			}`
			So(filesystem.API().WriteFile("/meetings/sync.json", []byte(descriptor), 0644), ShouldBeNil)

			m, err := Load("/meetings/sync.json")

			So(err, ShouldBeNil)
			So(m.Title, ShouldEqual, "weekly sync")

			segments, wasHierarchical, err := m.Segments()
			So(err, ShouldBeNil)
			So(wasHierarchical, ShouldBeFalse)
			So(segments, ShouldHaveLength, 1)
			So(segments[0].StartSec, ShouldEqual, 5000)
		})

		Convey("Fails on a missing file", func() {
			_, err := Load("/meetings/nope.json")
			So(err, ShouldNotBeNil)
		})

		Convey("Fails on malformed descriptor JSON", func() {
			So(filesystem.API().WriteFile("/meetings/bad.json", []byte("{"), 0644), ShouldBeNil)
			_, err := Load("/meetings/bad.json")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSaveTranscript(t *testing.T) {
	Convey("SaveTranscript", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		Convey("Round-trips flat edits through the descriptor", func() {
			descriptor := `{
				"title": "retro",
				"audio_url": "/recordings/retro.ogg",
				"transcript": [{"speaker":"Sarah","text":"hello","timestamp":5,"end":9}]
			}`
			So(filesystem.API().WriteFile("/meetings/retro.json", []byte(descriptor), 0644), ShouldBeNil)

			m, err := Load("/meetings/retro.json")
			So(err, ShouldBeNil)

			segments, _, err := m.Segments()
			So(err, ShouldBeNil)
			segments[0].Text = "hello everyone"

			err = SaveTranscript("/meetings/retro.json", m, transcript.SavePayload{Segments: segments})
			So(err, ShouldBeNil)

			reloaded, err := Load("/meetings/retro.json")
			So(err, ShouldBeNil)
			So(reloaded.Title, ShouldEqual, "retro")

			again, wasHierarchical, err := reloaded.Segments()
			So(err, ShouldBeNil)
			So(wasHierarchical, ShouldBeFalse)
			So(again, ShouldHaveLength, 1)
			So(again[0].Text, ShouldEqual, "hello everyone")
			So(again[0].StartSec, ShouldEqual, 5)
			So(again[0].EndSec, ShouldEqual, 9)
		})

		Convey("Preserves the hierarchical shape when it was the source", func() {
			descriptor := `{
				"title": "planning",
				"audio_url": "/recordings/planning.ogg",
				"transcript": [
					{"speaker_label":"Tom","start_sec":0,"end_sec":4,"utterances":[
						{"text":"first item","start_sec":0,"end_sec":4,"confidence":0.9}
					]}
				]
			}`
			So(filesystem.API().WriteFile("/meetings/planning.json", []byte(descriptor), 0644), ShouldBeNil)

			m, err := Load("/meetings/planning.json")
			So(err, ShouldBeNil)

			segments, wasHierarchical, err := m.Segments()
			So(err, ShouldBeNil)
			So(wasHierarchical, ShouldBeTrue)

			payload := transcript.SavePayload{
				Segments:     segments,
				Hierarchical: transcript.ToHierarchical(segments),
			}
			So(SaveTranscript("/meetings/planning.json", m, payload), ShouldBeNil)

			reloaded, err := Load("/meetings/planning.json")
			So(err, ShouldBeNil)

			again, stillHierarchical, err := reloaded.Segments()
			So(err, ShouldBeNil)
			So(stillHierarchical, ShouldBeTrue)
			So(again, ShouldHaveLength, 1)
			So(again[0].Text, ShouldEqual, "first item")
		})

		Convey("Refuses to write back to a remote descriptor", func() {
			m := &Meeting{Title: "remote"}
			err := SaveTranscript("https://api.example.com/meetings/1", m, transcript.SavePayload{})
			So(err, ShouldNotBeNil)
		})
	})
}
