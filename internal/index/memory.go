package index

import (
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/myquran/internal/domain"
)

// ChapterIndex provides in-memory storage and lookup for chapter metadata.
// It is filled from the upstream chapter list and lets views resolve chapter
// names and run name search without another round trip.
type ChapterIndex struct {
	mu         sync.RWMutex
	chapters   map[int]domain.Chapter // ID -> Chapter
	lastReload time.Time              // Timestamp of last catalogue reload
}

// NewChapterIndex creates an empty chapter index
func NewChapterIndex() *ChapterIndex {
	return &ChapterIndex{
		chapters: make(map[int]domain.Chapter),
	}
}

// Update replaces all chapters in the index
func (idx *ChapterIndex) Update(chapters []domain.Chapter) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	// Clear and rebuild
	idx.chapters = make(map[int]domain.Chapter, len(chapters))
	for _, ch := range chapters {
		idx.chapters[ch.ID] = ch
	}
	idx.lastReload = time.Now()
}

// Get retrieves a chapter by number
func (idx *ChapterIndex) Get(id int) (domain.Chapter, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ch, ok := idx.chapters[id]
	return ch, ok
}

// Name returns the display name of a chapter, "" when unknown
func (idx *ChapterIndex) Name(id int) string {
	ch, ok := idx.Get(id)
	if !ok {
		return ""
	}
	return ch.DisplayName()
}

// All returns every chapter ordered by number
func (idx *ChapterIndex) All() []domain.Chapter {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	chapters := make([]domain.Chapter, 0, len(idx.chapters))
	for _, ch := range idx.chapters {
		chapters = append(chapters, ch)
	}
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].ID < chapters[j].ID })
	return chapters
}

// Count returns the number of chapters in the index
func (idx *ChapterIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.chapters)
}

// Complete reports whether every chapter is present
func (idx *ChapterIndex) Complete() bool {
	return idx.Count() == domain.MaxChapter
}

// GetLastReload returns the timestamp of the last reload
func (idx *ChapterIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
