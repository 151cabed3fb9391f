package tui

import (
	"os"
	"testing"

	"github.com/spf13/viper"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/recap-cli/recap/filesystem"
	"github.com/recap-cli/recap/key"
	"github.com/recap-cli/recap/meeting"
)

const processingDescriptor = `{
	"title": "Retro",
	"is_processing": true,
	"audio_url": "https://example.com/retro.mp3",
	"transcript": [
		{"speaker": "Tom", "text": "Partial so far", "timestamp": 0, "end": 2}
	]
}`

func TestProcessingMeeting(t *testing.T) {
	Convey("Given a recording whose transcription is still running", t, func() {
		filesystem.SetMemMapFs()
		path := "/meetings/retro.json"
		So(filesystem.API().WriteFile(path, []byte(processingDescriptor), os.FileMode(0644)), ShouldBeNil)

		b := newBubble(&Options{Target: path})
		b.setState(loadingState)

		go b.loadMeeting(path)()

		var loaded *loadedMeeting
		select {
		case loaded = <-b.meetingLoadedChannel:
		case err := <-b.errorChannel:
			So(err, ShouldBeNil)
		}

		So(loaded, ShouldNotBeNil)
		So(loaded.processing, ShouldBeTrue)
		So(loaded.segments, ShouldHaveLength, 1)

		Convey("The player opens degraded with no backend attached", func() {
			_, _ = b.updateLoading(loaded)

			So(b.state, ShouldEqual, playerState)
			So(b.processing, ShouldBeTrue)
			So(b.playback, ShouldBeNil)
		})
	})
}

func TestStartPlaybackInitialRate(t *testing.T) {
	Convey("startPlayback applies the configured initial rate", t, func() {
		viper.Set(key.PlayerRate, 1.5)
		defer viper.Set(key.PlayerRate, 1.0)

		b := newBubble(&Options{})
		loaded := &loadedMeeting{meeting: &meeting.Meeting{Title: "Standup"}}

		msg := b.startPlayback(loaded)()
		defer b.teardown()

		So(msg, ShouldNotBeNil)
		So(b.playback, ShouldNotBeNil)
		So(b.playback.Snapshot().Rate, ShouldEqual, 1.5)
	})
}
