// Package player steps one audio element through the per-verse clips of a chapter.
package player

import (
	"fmt"
	"sync"
)

// State of the controller.
type State int

const (
	// Idle means no clip is selected. Ended, Next, Prev and Toggle do nothing.
	Idle State = iota
	// Playing means the clip at the current index is loaded and playing.
	Playing
	// Paused means the clip at the current index is loaded and paused.
	Paused
)

// String returns the lowercase state name used in snapshots.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText renders the state name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name written by MarshalText.
func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = Idle
	case "playing":
		*s = Playing
	case "paused":
		*s = Paused
	default:
		return fmt.Errorf("unknown player state %q", b)
	}
	return nil
}

// Clip is the audio of a single verse.
type Clip struct {
	VerseKey string `json:"verseKey"`
	URL      string `json:"url"`
}

// Element is the single audio element driven by the controller.
type Element interface {
	Load(url string) error
	Play() error
	Pause() error
}

// Snapshot is a read-only view of the controller.
type Snapshot struct {
	State    State  `json:"state"`
	Index    int    `json:"index"`
	VerseKey string `json:"verseKey,omitempty"`
	URL      string `json:"url,omitempty"`
	Total    int    `json:"total"`
}

// Controller is the Idle / Playing(i) / Paused(i) state machine.
// Every index change loads the target clip fresh; nothing is prefetched.
type Controller struct {
	mu      sync.Mutex
	clips   []Clip
	element Element
	state   State
	index   int
}

// NewController creates an idle controller over clips.
func NewController(clips []Clip, element Element) *Controller {
	return &Controller{
		clips:   append([]Clip(nil), clips...),
		element: element,
		state:   Idle,
	}
}

// Select starts clip i. Selecting the current clip toggles pause instead of reloading.
// A clip without audio is refused and the state is left as is.
func (c *Controller) Select(i int) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.clips) {
		return c.snapshotLocked(), fmt.Errorf("%w: clip index %d out of range [0, %d)", ErrOutOfRange, i, len(c.clips))
	}

	if c.state != Idle && c.index == i {
		c.toggleLocked()
		return c.snapshotLocked(), nil
	}

	if c.clips[i].URL == "" {
		return c.snapshotLocked(), fmt.Errorf("%w: verse %s", ErrNoAudio, c.clips[i].VerseKey)
	}

	c.startLocked(i)
	return c.snapshotLocked(), nil
}

// Ended advances to the next clip with audio after the current one completes,
// or goes idle when none is left. In Idle it does nothing.
func (c *Controller) Ended() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Idle {
		return c.snapshotLocked()
	}
	if next := c.playableFrom(c.index+1, +1); next >= 0 {
		c.startLocked(next)
		return c.snapshotLocked()
	}

	c.state = Idle
	c.index = 0
	return c.snapshotLocked()
}

// Toggle switches Playing and Paused without touching the index.
func (c *Controller) Toggle() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.toggleLocked()
	return c.snapshotLocked()
}

// Next moves one clip forward, clamped to the last clip.
// Clips without audio are stepped over.
func (c *Controller) Next() Snapshot {
	return c.step(+1)
}

// Prev moves one clip back, clamped to the first clip.
// Clips without audio are stepped over.
func (c *Controller) Prev() Snapshot {
	return c.step(-1)
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Len returns the number of clips.
func (c *Controller) Len() int {
	return len(c.clips)
}

func (c *Controller) step(delta int) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Idle {
		return c.snapshotLocked()
	}

	// nothing playable in that direction clamps to the current clip
	if target := c.playableFrom(c.index+delta, delta); target >= 0 {
		c.startLocked(target)
	}
	return c.snapshotLocked()
}

// playableFrom returns the first clip with audio from i in direction dir,
// or -1 when the playlist ends first.
func (c *Controller) playableFrom(i, dir int) int {
	for ; i >= 0 && i < len(c.clips); i += dir {
		if c.clips[i].URL != "" {
			return i
		}
	}
	return -1
}

// startLocked loads and plays clip i, which must have audio.
// A failed load or play leaves the controller Paused on that clip.
func (c *Controller) startLocked(i int) {
	c.index = i
	if err := c.element.Load(c.clips[i].URL); err != nil {
		c.state = Paused
		return
	}
	if err := c.element.Play(); err != nil {
		c.state = Paused
		return
	}
	c.state = Playing
}

func (c *Controller) toggleLocked() {
	switch c.state {
	case Playing:
		if err := c.element.Pause(); err == nil {
			c.state = Paused
		}
	case Paused:
		if err := c.element.Play(); err == nil {
			c.state = Playing
		}
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{State: c.state, Index: c.index, Total: len(c.clips)}
	if c.state != Idle && c.index < len(c.clips) {
		snap.VerseKey = c.clips[c.index].VerseKey
		snap.URL = c.clips[c.index].URL
	}
	return snap
}
