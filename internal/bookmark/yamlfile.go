package bookmark

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/myquran/internal/domain"
	"github.com/MrSnakeDoc/myquran/internal/logger"
)

// File is the root structure of an exported bookmarks.yaml
type File struct {
	Version   int               `yaml:"version"`
	Bookmarks []domain.Bookmark `yaml:"bookmarks"`
}

const fileVersion = 1

// ExportFile writes every bookmark to a YAML file at path
func (s *Store) ExportFile(ctx context.Context, path string) (int, error) {
	list := s.List(ctx)

	data, err := yaml.Marshal(File{Version: fileVersion, Bookmarks: list})
	if err != nil {
		return 0, fmt.Errorf("failed to encode bookmarks yaml: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create export dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write bookmarks file: %w", err)
	}
	return len(list), nil
}

// ImportFile reads a bookmarks.yaml and merges it into the store.
// Verses already bookmarked keep their existing record. Imported records keep
// their SavedAt when present. It returns how many records were added.
func (s *Store) ImportFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read bookmarks file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("failed to parse bookmarks yaml: %w", err)
	}
	if file.Version > fileVersion {
		return 0, fmt.Errorf("%w: bookmarks file version %d is newer than %d", domain.ErrInvalidInput, file.Version, fileVersion)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, ok := s.load(ctx)
	if !ok {
		return 0, fmt.Errorf("failed to load bookmarks from %s", s.kv.Name())
	}

	added := 0
	for _, b := range file.Bookmarks {
		if err := b.Validate(); err != nil {
			s.logger.Warn("skipping invalid bookmark",
				logger.Int("chapter", b.ChapterNumber),
				logger.Int("verse", b.VerseNumber),
				logger.Error(err))
			continue
		}
		if indexOf(bookmarks, b.ChapterNumber, b.VerseNumber) >= 0 {
			continue
		}
		b.VerseKey = ""
		b.Normalize()
		if b.SavedAt.IsZero() {
			b.SavedAt = s.now().UTC()
		}
		bookmarks = append(bookmarks, b)
		added++
	}

	if added == 0 {
		return 0, nil
	}
	if !s.persist(ctx, bookmarks) {
		return 0, fmt.Errorf("failed to persist bookmarks to %s", s.kv.Name())
	}

	s.logger.Info("bookmarks imported",
		logger.String("file", path),
		logger.Int("added", added))
	return added, nil
}
