// Package bookmark owns the user's saved verses.
//
// The whole list is serialized as one JSON array under a fixed key of a KV
// backend. Storage failures never reach callers: they are logged and degrade
// to an empty list, false, or a no-op.
package bookmark

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/MrSnakeDoc/myquran/internal/domain"
	"github.com/MrSnakeDoc/myquran/internal/logger"
	"github.com/MrSnakeDoc/myquran/internal/store"
)

// StorageKey is the fixed key holding the serialized bookmark array.
const StorageKey = "quran-bookmarks"

// Store is the single owner of the bookmark list. Views receive it by
// reference and mutate the list only through its methods.
type Store struct {
	kv     store.KV
	logger logger.Logger
	now    func() time.Time

	// mu serializes read-modify-write cycles on the stored array.
	mu sync.Mutex
}

// NewStore creates a bookmark store over kv.
func NewStore(kv store.KV, log logger.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: log,
		now:    time.Now,
	}
}

// Save inserts b unless a bookmark for the same verse exists.
// It reports whether the insertion happened; existing records are never updated.
func (s *Store) Save(ctx context.Context, b domain.Bookmark) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, ok := s.load(ctx)
	if !ok || indexOf(bookmarks, b.ChapterNumber, b.VerseNumber) >= 0 {
		return false
	}
	return s.insertLocked(ctx, bookmarks, b)
}

// Remove deletes the bookmark for (chapter, verse) and reports whether a
// record was removed. Missing records are a no-op.
func (s *Store) Remove(ctx context.Context, chapter, verse int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, ok := s.load(ctx)
	if !ok {
		return false
	}
	i := indexOf(bookmarks, chapter, verse)
	if i < 0 {
		return false
	}
	return s.deleteLocked(ctx, bookmarks, i)
}

// Toggle removes the bookmark for b's verse if present, otherwise saves b,
// in one read-modify-write. It returns whether the verse is bookmarked afterwards.
func (s *Store) Toggle(ctx context.Context, b domain.Bookmark) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, ok := s.load(ctx)
	if !ok {
		return false
	}
	if i := indexOf(bookmarks, b.ChapterNumber, b.VerseNumber); i >= 0 {
		// still stored when the write fails
		return !s.deleteLocked(ctx, bookmarks, i)
	}
	return s.insertLocked(ctx, bookmarks, b)
}

func (s *Store) insertLocked(ctx context.Context, bookmarks []domain.Bookmark, b domain.Bookmark) bool {
	b.Normalize()
	b.SavedAt = s.now().UTC()
	bookmarks = append(bookmarks, b)

	if !s.persist(ctx, bookmarks) {
		return false
	}

	s.logger.Debug("bookmark saved",
		logger.String("verse_key", b.VerseKey),
		logger.Int("count", len(bookmarks)))
	return true
}

func (s *Store) deleteLocked(ctx context.Context, bookmarks []domain.Bookmark, i int) bool {
	key := domain.FormatVerseKey(bookmarks[i].ChapterNumber, bookmarks[i].VerseNumber)
	bookmarks = append(bookmarks[:i], bookmarks[i+1:]...)
	if !s.persist(ctx, bookmarks) {
		return false
	}

	s.logger.Debug("bookmark removed", logger.String("verse_key", key))
	return true
}

// List returns every bookmark in insertion order.
func (s *Store) List(ctx context.Context) []domain.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, ok := s.load(ctx)
	if !ok {
		return []domain.Bookmark{}
	}
	return bookmarks
}

// ListByChapter returns the bookmarks of one chapter in insertion order.
func (s *Store) ListByChapter(ctx context.Context, chapter int) []domain.Bookmark {
	all := s.List(ctx)
	out := make([]domain.Bookmark, 0, len(all))
	for _, b := range all {
		if b.ChapterNumber == chapter {
			out = append(out, b)
		}
	}
	return out
}

// Exists reports whether (chapter, verse) is bookmarked.
func (s *Store) Exists(ctx context.Context, chapter, verse int) bool {
	return indexOf(s.List(ctx), chapter, verse) >= 0
}

// Count returns the number of stored bookmarks.
func (s *Store) Count(ctx context.Context) int {
	return len(s.List(ctx))
}

// ClearAll empties the store.
func (s *Store) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		s.logger.Warn("failed to clear bookmarks",
			logger.String("backend", s.kv.Name()),
			logger.Error(err))
		return
	}
	s.logger.Info("bookmarks cleared")
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// Backend names the KV backend in use.
func (s *Store) Backend() string {
	return s.kv.Name()
}

// load reads and decodes the array. ok is false when the backend failed;
// a missing key or a corrupt value yields an empty list.
func (s *Store) load(ctx context.Context) ([]domain.Bookmark, bool) {
	raw, found, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("failed to read bookmarks",
			logger.String("backend", s.kv.Name()),
			logger.Error(err))
		return nil, false
	}
	if !found || raw == "" {
		return []domain.Bookmark{}, true
	}

	var bookmarks []domain.Bookmark
	if err := json.Unmarshal([]byte(raw), &bookmarks); err != nil {
		s.logger.Warn("failed to decode bookmarks, treating as empty",
			logger.String("backend", s.kv.Name()),
			logger.Error(err))
		return []domain.Bookmark{}, true
	}
	if bookmarks == nil {
		bookmarks = []domain.Bookmark{}
	}
	return bookmarks, true
}

func (s *Store) persist(ctx context.Context, bookmarks []domain.Bookmark) bool {
	data, err := json.Marshal(bookmarks)
	if err != nil {
		s.logger.Warn("failed to encode bookmarks", logger.Error(err))
		return false
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		s.logger.Warn("failed to write bookmarks",
			logger.String("backend", s.kv.Name()),
			logger.Error(err))
		return false
	}
	return true
}

func indexOf(bookmarks []domain.Bookmark, chapter, verse int) int {
	for i, b := range bookmarks {
		if b.SameVerse(chapter, verse) {
			return i
		}
	}
	return -1
}
