package player

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewMediaSource(t *testing.T) {
	Convey("NewMediaSource", t, func() {
		Convey("Accepts http(s) URLs", func() {
			src, err := NewMediaSource(KindVideo, "https://cdn.example.com/meeting.mp4")
			So(err, ShouldBeNil)
			So(src.Kind, ShouldEqual, KindVideo)
			So(src.URL, ShouldEqual, "https://cdn.example.com/meeting.mp4")
		})

		Convey("Accepts and cleans local paths", func() {
			src, err := NewMediaSource(KindAudio, "./recordings//standup.ogg")
			So(err, ShouldBeNil)
			So(src.URL, ShouldEqual, "recordings/standup.ogg")
		})

		Convey("Rejects flag-shaped input", func() {
			_, err := NewMediaSource(KindVideo, "--script=evil.lua")
			So(err, ShouldNotBeNil)
		})

		Convey("Rejects control characters", func() {
			_, err := NewMediaSource(KindAudio, "file\n.mp3")
			So(err, ShouldNotBeNil)
		})

		Convey("Rejects unsupported schemes", func() {
			_, err := NewMediaSource(KindYouTube, "ftp://example.com/video")
			So(err, ShouldNotBeNil)
		})

		Convey("Rejects empty URLs", func() {
			_, err := NewMediaSource(KindVideo, "   ")
			So(err, ShouldNotBeNil)
		})

		Convey("KindNone yields the zero source without validation", func() {
			src, err := NewMediaSource(KindNone, "")
			So(err, ShouldBeNil)
			So(src.Kind, ShouldEqual, KindNone)
		})
	})
}

func TestNoop(t *testing.T) {
	Convey("Noop backend", t, func() {
		n := NewNoop()

		Convey("Every command is safe with no source configured", func() {
			So(n.Play(), ShouldBeNil)
			So(n.Pause(), ShouldBeNil)
			So(n.Seek(10), ShouldBeNil)
			So(n.SetVolume(0.5), ShouldBeNil)
			So(n.SetMuted(true), ShouldBeNil)
			So(n.SetRate(1.5), ShouldBeNil)
		})

		Convey("Close drains the event stream", func() {
			So(n.Close(), ShouldBeNil)
			_, ok := <-n.Events()
			So(ok, ShouldBeFalse)
		})
	})
}

func TestMPVConstruction(t *testing.T) {
	Convey("NewMPV", t, func() {
		Convey("Accepts video and audio sources", func() {
			for _, kind := range []SourceKind{KindVideo, KindAudio} {
				src, err := NewMediaSource(kind, "/tmp/meeting.mp4")
				So(err, ShouldBeNil)

				m, err := NewMPV(src)
				So(err, ShouldBeNil)
				So(m, ShouldNotBeNil)
			}
		})

		Convey("Rejects youtube sources", func() {
			src, _ := NewMediaSource(KindYouTube, "https://www.youtube.com/watch?v=x")
			_, err := NewMPV(src)
			So(err, ShouldNotBeNil)
		})
	})
}
