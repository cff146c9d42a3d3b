package player

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func makeClips(n int) []Clip {
	clips := make([]Clip, n)
	for i := range clips {
		key := fmt.Sprintf("1:%d", i+1)
		clips[i] = Clip{VerseKey: key, URL: "https://verses.quran.com/Alafasy/mp3/00100" + fmt.Sprint(i+1) + ".mp3"}
	}
	return clips
}

func TestSequentialPlaybackEndsIdle(t *testing.T) {
	el := &RecordingElement{}
	c := NewController(makeClips(5), el)

	snap, err := c.Select(2)
	if err != nil {
		t.Fatalf("Select(2) error: %v", err)
	}
	if snap.State != Playing || snap.Index != 2 {
		t.Fatalf("after Select(2) = %v(%d), want playing(2)", snap.State, snap.Index)
	}

	wantIndex := []int{3, 4}
	for i, want := range wantIndex {
		snap = c.Ended()
		if snap.State != Playing || snap.Index != want {
			t.Fatalf("Ended() #%d = %v(%d), want playing(%d)", i+1, snap.State, snap.Index, want)
		}
	}

	snap = c.Ended()
	if snap.State != Idle {
		t.Fatalf("Ended() on last clip = %v, want idle", snap.State)
	}

	loads := el.Loads()
	snap = c.Ended()
	if snap.State != Idle {
		t.Errorf("Ended() in idle = %v, want idle", snap.State)
	}
	if el.Loads() != loads {
		t.Error("Ended() in idle must not load another clip")
	}
	// Select + two advances.
	if loads != 3 {
		t.Errorf("Loads() = %d, want 3", loads)
	}
}

func TestNextPrevClamp(t *testing.T) {
	c := NewController(makeClips(3), &RecordingElement{})

	if _, err := c.Select(0); err != nil {
		t.Fatalf("Select(0) error: %v", err)
	}

	steps := []struct {
		name string
		move func() Snapshot
		want int
	}{
		{name: "prev at start", move: c.Prev, want: 0},
		{name: "next", move: c.Next, want: 1},
		{name: "next", move: c.Next, want: 2},
		{name: "next at end", move: c.Next, want: 2},
		{name: "next at end again", move: c.Next, want: 2},
		{name: "prev", move: c.Prev, want: 1},
	}

	for _, st := range steps {
		snap := st.move()
		if snap.Index < 0 || snap.Index > 2 {
			t.Fatalf("%s: index %d escaped [0, 2]", st.name, snap.Index)
		}
		if snap.Index != st.want {
			t.Errorf("%s: index = %d, want %d", st.name, snap.Index, st.want)
		}
	}
}

func TestClampedMoveDoesNotReload(t *testing.T) {
	el := &RecordingElement{}
	c := NewController(makeClips(2), el)
	_, _ = c.Select(1)

	before := el.Loads()
	c.Next()
	if el.Loads() != before {
		t.Errorf("Next() at the last clip reloaded: loads %d -> %d", before, el.Loads())
	}
}

func TestToggleKeepsIndex(t *testing.T) {
	el := &RecordingElement{}
	c := NewController(makeClips(4), el)
	_, _ = c.Select(1)

	snap := c.Toggle()
	if snap.State != Paused || snap.Index != 1 {
		t.Fatalf("Toggle() = %v(%d), want paused(1)", snap.State, snap.Index)
	}
	if el.IsPlaying() {
		t.Error("element should be paused")
	}

	snap = c.Toggle()
	if snap.State != Playing || snap.Index != 1 {
		t.Fatalf("Toggle() = %v(%d), want playing(1)", snap.State, snap.Index)
	}
}

func TestSelectCurrentTogglesWithoutReload(t *testing.T) {
	el := &RecordingElement{}
	c := NewController(makeClips(3), el)
	_, _ = c.Select(1)
	loads := el.Loads()

	snap, _ := c.Select(1)
	if snap.State != Paused {
		t.Errorf("Select() on playing clip = %v, want paused", snap.State)
	}
	snap, _ = c.Select(1)
	if snap.State != Playing {
		t.Errorf("Select() on paused clip = %v, want playing", snap.State)
	}
	if el.Loads() != loads {
		t.Error("re-selecting the current clip must not reload")
	}

	snap, _ = c.Select(0)
	if snap.State != Playing || snap.Index != 0 || el.Source() != makeClips(3)[0].URL {
		t.Errorf("Select(0) = %+v, source %q", snap, el.Source())
	}
}

func TestIdleIgnoresMoves(t *testing.T) {
	c := NewController(makeClips(3), &RecordingElement{})

	want := Snapshot{State: Idle, Index: 0, Total: 3}
	for name, move := range map[string]func() Snapshot{"next": c.Next, "prev": c.Prev, "toggle": c.Toggle, "ended": c.Ended} {
		if diff := cmp.Diff(want, move()); diff != "" {
			t.Errorf("%s in idle (-want +got):\n%s", name, diff)
		}
	}
}

func TestSelectOutOfRange(t *testing.T) {
	c := NewController(makeClips(3), &RecordingElement{})
	for _, i := range []int{-1, 3} {
		if _, err := c.Select(i); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Select(%d) error = %v, want ErrOutOfRange", i, err)
		}
	}
}

func TestSkipsClipsWithoutAudio(t *testing.T) {
	withGap := func(empty ...int) []Clip {
		clips := makeClips(4)
		for _, i := range empty {
			clips[i].URL = ""
		}
		return clips
	}

	tests := []struct {
		name      string
		clips     []Clip
		start     int
		move      func(c *Controller) Snapshot
		wantState State
		wantIndex int
		wantLoads int // loads after the initial Select
	}{
		{name: "ended steps over gap", clips: withGap(1), start: 0, move: (*Controller).Ended, wantState: Playing, wantIndex: 2, wantLoads: 1},
		{name: "ended with only gaps left goes idle", clips: withGap(2, 3), start: 1, move: (*Controller).Ended, wantState: Idle, wantIndex: 0},
		{name: "next steps over gap", clips: withGap(1), start: 0, move: (*Controller).Next, wantState: Playing, wantIndex: 2, wantLoads: 1},
		{name: "next onto empty last clip clamps", clips: withGap(3), start: 2, move: (*Controller).Next, wantState: Playing, wantIndex: 2},
		{name: "prev steps back over gap", clips: withGap(1), start: 2, move: (*Controller).Prev, wantState: Playing, wantIndex: 0, wantLoads: 1},
		{name: "prev onto empty first clip clamps", clips: withGap(0), start: 1, move: (*Controller).Prev, wantState: Playing, wantIndex: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := &RecordingElement{}
			c := NewController(tt.clips, el)
			if _, err := c.Select(tt.start); err != nil {
				t.Fatalf("Select(%d) error: %v", tt.start, err)
			}
			before := el.Loads()

			snap := tt.move(c)
			if snap.State != tt.wantState || snap.Index != tt.wantIndex {
				t.Errorf("got %v(%d), want %v(%d)", snap.State, snap.Index, tt.wantState, tt.wantIndex)
			}
			if got := el.Loads() - before; got != tt.wantLoads {
				t.Errorf("loads = %d, want %d", got, tt.wantLoads)
			}
		})
	}
}

func TestSelectClipWithoutAudio(t *testing.T) {
	clips := makeClips(3)
	clips[1].URL = ""
	el := &RecordingElement{}
	c := NewController(clips, el)

	if _, err := c.Select(1); !errors.Is(err, ErrNoAudio) {
		t.Fatalf("Select(1) from idle error = %v, want ErrNoAudio", err)
	}
	if snap := c.Snapshot(); snap.State != Idle || el.Loads() != 0 {
		t.Errorf("after refused Select = %v, loads %d, want idle without load", snap.State, el.Loads())
	}

	if _, err := c.Select(2); err != nil {
		t.Fatalf("Select(2) error: %v", err)
	}
	snap, err := c.Select(1)
	if !errors.Is(err, ErrNoAudio) {
		t.Fatalf("Select(1) while playing error = %v, want ErrNoAudio", err)
	}
	if snap.State != Playing || snap.Index != 2 || el.Loads() != 1 {
		t.Errorf("refused Select moved to %v(%d), loads %d; want playing(2), 1 load", snap.State, snap.Index, el.Loads())
	}
}

type failingElement struct{ RecordingElement }

func (f *failingElement) Play() error { return errors.New("autoplay prevented") }

func TestPlayFailureLeavesPaused(t *testing.T) {
	c := NewController(makeClips(2), &failingElement{})

	snap, err := c.Select(1)
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if snap.State != Paused || snap.Index != 1 {
		t.Errorf("Select() with blocked playback = %v(%d), want paused(1)", snap.State, snap.Index)
	}
}

func TestSessionsSweep(t *testing.T) {
	s := NewSessions()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	old := s.Create(1, makeClips(7))
	now = now.Add(time.Hour)
	fresh := s.Create(2, makeClips(3))

	if removed := s.Sweep(30 * time.Minute); removed != 1 {
		t.Fatalf("Sweep() removed %d, want 1", removed)
	}
	if _, err := s.Get(old.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("old session should be collected, got %v", err)
	}
	if _, err := s.Get(fresh.ID); err != nil {
		t.Errorf("fresh session should survive: %v", err)
	}

	s.Delete(fresh.ID)
	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
}

func TestStateText(t *testing.T) {
	for _, s := range []State{Idle, Playing, Paused} {
		text, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error: %v", s, err)
		}
		var back State
		if err := back.UnmarshalText(text); err != nil || back != s {
			t.Errorf("UnmarshalText(%q) = %v, %v; want %v", text, back, err, s)
		}
	}
	if got := State(7).String(); got != "state(7)" {
		t.Errorf("State(7).String() = %q", got)
	}
	var s State
	if err := s.UnmarshalText([]byte("stopped")); err == nil {
		t.Error("UnmarshalText(stopped) should fail")
	}
}
