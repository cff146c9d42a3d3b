package player

import (
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/myquran/internal/domain"
)

// ErrOutOfRange is returned when a clip index is outside the playlist.
var ErrOutOfRange = fmt.Errorf("%w: clip out of range", domain.ErrInvalidInput)

// ErrNoAudio is returned when a selected clip has no recitation.
var ErrNoAudio = fmt.Errorf("%w: clip has no audio", domain.ErrNotFound)

// RecordingElement stands in for the client's audio element: it remembers
// what was loaded and whether it plays. The client does the actual playback.
type RecordingElement struct {
	mu      sync.Mutex
	src     string
	playing bool
	loads   int
}

func (e *RecordingElement) Load(url string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.src = url
	e.playing = false
	e.loads++
	return nil
}

func (e *RecordingElement) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.src == "" {
		return fmt.Errorf("no source loaded")
	}
	e.playing = true
	return nil
}

func (e *RecordingElement) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.playing = false
	return nil
}

// Source returns the loaded URL.
func (e *RecordingElement) Source() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.src
}

// Loads counts Load calls.
func (e *RecordingElement) Loads() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loads
}

// IsPlaying reports the play flag.
func (e *RecordingElement) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}
