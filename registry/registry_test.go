package registry

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// recordingHandle counts forwarded commands.
type recordingHandle struct {
	seeks  []float64
	plays  int
	pauses int
}

func (r *recordingHandle) SeekToTime(sec float64) { r.seeks = append(r.seeks, sec) }
func (r *recordingHandle) PlayMedia()             { r.plays++ }
func (r *recordingHandle) PauseMedia()            { r.pauses++ }

func TestRegistry(t *testing.T) {
	Convey("Registry", t, func() {
		// Isolate from other tests sharing process-wide state.
		mu.Lock()
		current = nil
		mu.Unlock()

		Convey("Forwarding without a handle is a safe no-op", func() {
			SeekToTime(10)
			PlayMedia()
			PauseMedia()

			_, ok := Current()
			So(ok, ShouldBeFalse)
		})

		Convey("Register installs the handle and forwards commands", func() {
			h := &recordingHandle{}
			release := Register(h)
			defer release()

			SeekToTime(12)
			PlayMedia()
			PauseMedia()

			So(h.seeks, ShouldResemble, []float64{12})
			So(h.plays, ShouldEqual, 1)
			So(h.pauses, ShouldEqual, 1)
		})

		Convey("A newer registration replaces the old handle", func() {
			first := &recordingHandle{}
			second := &recordingHandle{}

			releaseFirst := Register(first)
			releaseSecond := Register(second)
			defer releaseSecond()

			PlayMedia()
			So(first.plays, ShouldEqual, 0)
			So(second.plays, ShouldEqual, 1)

			Convey("Releasing a replaced handle does not evict the active one", func() {
				releaseFirst()

				PlayMedia()
				So(second.plays, ShouldEqual, 2)
			})
		})

		Convey("Releasing the active handle clears the registry", func() {
			h := &recordingHandle{}
			release := Register(h)
			release()

			_, ok := Current()
			So(ok, ShouldBeFalse)
		})
	})
}
