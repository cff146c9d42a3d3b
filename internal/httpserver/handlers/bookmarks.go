package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/myquran/internal/domain"
	"github.com/MrSnakeDoc/myquran/internal/httpserver/deps"
	"github.com/MrSnakeDoc/myquran/internal/reader"
)

// bookmarkRequest identifies a verse by verseKey or by its two numbers.
// Without arabicText the verse text is fetched upstream.
type bookmarkRequest struct {
	VerseKey        string `json:"verseKey"`
	ChapterNumber   int    `json:"chapterNumber"`
	VerseNumber     int    `json:"verseNumber"`
	ChapterName     string `json:"chapterName"`
	ArabicText      string `json:"arabicText"`
	TranslationText string `json:"translationText"`
}

type bookmarkList struct {
	Bookmarks []domain.Bookmark `json:"bookmarks"`
	Count     int               `json:"count"`
}

type bookmarkSaved struct {
	Saved    bool             `json:"saved"`
	Bookmark *domain.Bookmark `json:"bookmark,omitempty"`
}

type bookmarkState struct {
	VerseKey   string `json:"verseKey"`
	Bookmarked bool   `json:"bookmarked"`
}

// key returns the canonical verse key of the request.
func (req bookmarkRequest) key() (string, error) {
	if req.VerseKey == "" {
		return domain.FormatVerseKey(req.ChapterNumber, req.VerseNumber), nil
	}
	ch, v, err := domain.ParseVerseKey(req.VerseKey)
	if err != nil {
		return "", err
	}
	if (req.ChapterNumber != 0 && req.ChapterNumber != ch) || (req.VerseNumber != 0 && req.VerseNumber != v) {
		return "", fmt.Errorf("%w: verseKey %q does not match %d:%d", domain.ErrInvalidInput, req.VerseKey, req.ChapterNumber, req.VerseNumber)
	}
	return domain.FormatVerseKey(ch, v), nil
}

func (req bookmarkRequest) resolve(ctx context.Context, d deps.Deps) (domain.Bookmark, error) {
	key, err := req.key()
	if err != nil {
		return domain.Bookmark{}, err
	}
	if req.ArabicText == "" {
		return d.Reader.ResolveBookmark(ctx, key)
	}
	return reader.BookmarkFromVerse(req.ChapterName, key, req.ArabicText, req.TranslationText)
}

// ListBookmarks returns every bookmark, or those of ?chapter= only.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var list []domain.Bookmark
		if raw := r.URL.Query().Get("chapter"); raw != "" {
			ch, err := domain.ParseNumber("chapter", raw)
			if err == nil {
				err = domain.ValidateChapter(ch)
			}
			if err != nil {
				writeError(w, d.Logger, err)
				return
			}
			list = d.Bookmarks.ListByChapter(r.Context(), ch)
		} else {
			list = d.Bookmarks.List(r.Context())
		}
		writeJSON(w, http.StatusOK, bookmarkList{Bookmarks: list, Count: len(list)})
	}
}

// SaveBookmark inserts a bookmark. An already bookmarked verse is left as is
// and answers 200 with saved=false.
func SaveBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookmarkRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		b, err := req.resolve(r.Context(), d)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		if !d.Bookmarks.Save(r.Context(), b) {
			writeJSON(w, http.StatusOK, bookmarkSaved{Saved: false})
			return
		}
		for _, saved := range d.Bookmarks.ListByChapter(r.Context(), b.ChapterNumber) {
			if saved.SameVerse(b.ChapterNumber, b.VerseNumber) {
				b = saved
				break
			}
		}
		writeJSON(w, http.StatusCreated, bookmarkSaved{Saved: true, Bookmark: &b})
	}
}

// ToggleBookmark removes the bookmark of a verse if present, otherwise saves it.
func ToggleBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookmarkRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		key, err := req.key()
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		ch, v, err := domain.ParseVerseKey(key)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		// removal needs no verse text; a verse saved meanwhile is removed by Toggle
		if d.Bookmarks.Remove(r.Context(), ch, v) {
			writeJSON(w, http.StatusOK, bookmarkState{VerseKey: key, Bookmarked: false})
			return
		}

		b, err := req.resolve(r.Context(), d)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, bookmarkState{VerseKey: key, Bookmarked: d.Bookmarks.Toggle(r.Context(), b)})
	}
}

// BookmarkExists reports whether /{chapter}/{verse} is bookmarked.
func BookmarkExists(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ch, v, err := verseFromPath(r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, bookmarkState{
			VerseKey:   domain.FormatVerseKey(ch, v),
			Bookmarked: d.Bookmarks.Exists(r.Context(), ch, v),
		})
	}
}

// RemoveBookmark deletes the bookmark of /{chapter}/{verse}. Missing ones are a no-op.
func RemoveBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ch, v, err := verseFromPath(r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		d.Bookmarks.Remove(r.Context(), ch, v)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ClearBookmarks empties the store.
func ClearBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Bookmarks.ClearAll(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

func verseFromPath(r *http.Request) (int, int, error) {
	ch, err := pathNumber(r, "chapter")
	if err != nil {
		return 0, 0, err
	}
	v, err := pathNumber(r, "verse")
	if err != nil {
		return 0, 0, err
	}
	return domain.ParseVerseKey(domain.FormatVerseKey(ch, v))
}
