package session

import (
	"sync"
	"testing"
	"time"

	"github.com/recap-cli/recap/player"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeBackend records every command and lets tests inject events.
type fakeBackend struct {
	mu      sync.Mutex
	seeks   []float64
	plays   int
	pauses  int
	volumes []float64
	rates   []float64
	muted   []bool
	playErr error
	events  chan player.Event

	closeOnce sync.Once
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{events: make(chan player.Event, 16)}
}

func (f *fakeBackend) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays++
	return f.playErr
}

func (f *fakeBackend) Pause() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauses++
	return nil
}

func (f *fakeBackend) Seek(sec float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seeks = append(f.seeks, sec)
	return nil
}

func (f *fakeBackend) SetVolume(v float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volumes = append(f.volumes, v)
	return nil
}

func (f *fakeBackend) SetMuted(m bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.muted = append(f.muted, m)
	return nil
}

func (f *fakeBackend) SetRate(r float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rates = append(f.rates, r)
	return nil
}

func (f *fakeBackend) Events() <-chan player.Event {
	return f.events
}

func (f *fakeBackend) Close() error {
	f.closeOnce.Do(func() { close(f.events) })
	return nil
}

func (f *fakeBackend) seekLog() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]float64(nil), f.seeks...)
}

func (f *fakeBackend) playCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays
}

// eventually polls cond for up to a second.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestSeekDeduplication(t *testing.T) {
	Convey("Apply", t, func() {
		backend := newFakeBackend()
		s := New(backend)
		defer s.Close()

		Convey("Applies an identical event ID exactly once", func() {
			req := SeekRequest{Seconds: 42, EventID: "evt-1"}
			s.Apply(req)
			s.Apply(req)

			So(backend.seekLog(), ShouldResemble, []float64{42})
		})

		Convey("A new event ID is applied even at the same position", func() {
			s.Apply(SeekRequest{Seconds: 42, EventID: "evt-1"})
			s.Apply(SeekRequest{Seconds: 42, EventID: "evt-2"})

			So(backend.seekLog(), ShouldHaveLength, 2)
		})

		Convey("Requests without an ID are always applied", func() {
			s.Apply(SeekRequest{Seconds: 10})
			s.Apply(SeekRequest{Seconds: 10})

			So(backend.seekLog(), ShouldHaveLength, 2)
		})
	})
}

func TestSeekClamping(t *testing.T) {
	Convey("Seek", t, func() {
		backend := newFakeBackend()
		s := New(backend)
		defer s.Close()

		Convey("Clamps to zero while duration is unknown", func() {
			s.Seek(-15)
			So(backend.seekLog(), ShouldResemble, []float64{0})
		})

		Convey("Clamps to the duration once known", func() {
			backend.events <- player.Event{Kind: player.EventDurationChange, Seconds: 120}
			So(eventually(func() bool { return s.Snapshot().DurationSec == 120 }), ShouldBeTrue)

			s.Seek(500)
			So(backend.seekLog(), ShouldResemble, []float64{120})
		})

		Convey("Normalizes millisecond-domain values", func() {
			s.Seek(50000) // above the 10000s threshold: milliseconds
			So(backend.seekLog(), ShouldResemble, []float64{50})
		})

		Convey("Updates current time optimistically", func() {
			s.Seek(30)
			So(s.Snapshot().CurrentTimeSec, ShouldEqual, 30)
		})
	})
}

func TestStageMachine(t *testing.T) {
	Convey("Stage transitions", t, func() {
		backend := newFakeBackend()
		s := New(backend)
		defer s.Close()

		Convey("Starts ready with a real backend", func() {
			So(s.Stage(), ShouldEqual, StageReady)
		})

		Convey("A nil backend starts idle and stays safe", func() {
			idle := New(nil)
			So(idle.Stage(), ShouldEqual, StageIdle)
			idle.TogglePlayPause()
			idle.Seek(10)
			So(idle.Close(), ShouldBeNil)
		})

		Convey("Duration report moves ready to loaded", func() {
			backend.events <- player.Event{Kind: player.EventDurationChange, Seconds: 60}
			So(eventually(func() bool { return s.Stage() == StageLoaded }), ShouldBeTrue)
		})

		Convey("Toggle is optimistic and the backend event is idempotent", func() {
			s.TogglePlayPause()
			So(s.Snapshot().IsPlaying, ShouldBeTrue)
			So(s.Stage(), ShouldEqual, StagePlaying)

			backend.events <- player.Event{Kind: player.EventPlay}
			So(eventually(func() bool { return s.Snapshot().IsPlaying }), ShouldBeTrue)
			So(s.Stage(), ShouldEqual, StagePlaying)
		})

		Convey("A failed play reverts to paused", func() {
			backend.playErr = errPlayRejected
			s.TogglePlayPause()
			So(eventually(func() bool { return !s.Snapshot().IsPlaying }), ShouldBeTrue)
		})

		Convey("Ended is left only by an explicit seek", func() {
			s.TogglePlayPause()
			backend.events <- player.Event{Kind: player.EventEnded}
			So(eventually(func() bool { return s.Stage() == StageEnded }), ShouldBeTrue)
			So(s.Snapshot().IsPlaying, ShouldBeFalse)

			s.Seek(0)
			So(s.Stage(), ShouldEqual, StagePaused)
		})
	})
}

var errPlayRejected = &playbackErr{"playback rejected"}

type playbackErr struct{ msg string }

func (e *playbackErr) Error() string { return e.msg }

func TestTimeUpdateFanOut(t *testing.T) {
	Convey("Time updates", t, func() {
		backend := newFakeBackend()
		s := New(backend)
		defer s.Close()

		var mu sync.Mutex
		var got []float64
		s.OnTimeUpdate(func(sec float64) {
			mu.Lock()
			got = append(got, sec)
			mu.Unlock()
		})

		backend.events <- player.Event{Kind: player.EventTimeUpdate, Seconds: 1.5}
		backend.events <- player.Event{Kind: player.EventTimeUpdate, Seconds: 2.0}

		So(eventually(func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(got) == 2
		}), ShouldBeTrue)

		mu.Lock()
		defer mu.Unlock()
		So(got, ShouldResemble, []float64{1.5, 2.0})
		So(s.Snapshot().CurrentTimeSec, ShouldEqual, 2.0)
	})
}

func TestSeekThenPlay(t *testing.T) {
	Convey("SeekThenPlay", t, func() {
		backend := newFakeBackend()
		s := New(backend)
		defer s.Close()

		s.SeekThenPlay(5)

		So(backend.seekLog(), ShouldResemble, []float64{5})
		So(backend.playCount(), ShouldEqual, 0) // play waits for the seek to settle

		So(eventually(func() bool { return backend.playCount() == 1 }), ShouldBeTrue)
	})
}

func TestProgressMapping(t *testing.T) {
	Convey("TimeAtOffset", t, func() {
		Convey("Maps click ratios onto the duration", func() {
			const duration = 400.0
			for ratio, want := range map[int]float64{0: 0, 25: 100, 50: 200, 75: 300, 100: 400} {
				So(TimeAtOffset(ratio, 100, duration), ShouldEqual, want)
			}
		})

		Convey("Clamps out-of-band offsets", func() {
			So(TimeAtOffset(-10, 100, 400), ShouldEqual, 0)
			So(TimeAtOffset(150, 100, 400), ShouldEqual, 400)
		})

		Convey("Unknown duration or degenerate width yields zero", func() {
			So(TimeAtOffset(50, 0, 400), ShouldEqual, 0)
			So(TimeAtOffset(50, 100, -1), ShouldEqual, 0)
		})
	})

	Convey("SeekToOffset", t, func() {
		backend := newFakeBackend()
		s := New(backend)
		defer s.Close()

		Convey("Ignores clicks while duration is unknown", func() {
			s.SeekToOffset(50, 100)
			So(backend.seekLog(), ShouldBeEmpty)
		})

		Convey("Seeks to the resolved position", func() {
			backend.events <- player.Event{Kind: player.EventDurationChange, Seconds: 200}
			So(eventually(func() bool { return s.Snapshot().DurationSec == 200 }), ShouldBeTrue)

			s.SeekToOffset(50, 100)
			So(backend.seekLog(), ShouldResemble, []float64{100})
		})
	})
}
