package reader

import (
	"github.com/MrSnakeDoc/myquran/internal/domain"
	"github.com/MrSnakeDoc/myquran/internal/quran"
)

const (
	// TafsirFallback is shown for verses the commentary does not cover.
	TafsirFallback = "Tafsir tidak tersedia"
	// TranslationFallback is saved when a verse has no translation.
	TranslationFallback = "Terjemahan tidak tersedia."
)

// ChapterList is the browse-by-chapter view.
type ChapterList struct {
	Chapters []domain.Chapter `json:"chapters"`
}

// ChapterView is the chapter reading view.
type ChapterView struct {
	Chapter  domain.Chapter `json:"chapter"`
	Tafsir   ChapterTafsir  `json:"tafsir"`
	AudioURL string         `json:"audioURL,omitempty"`
	Verses   []VerseView    `json:"verses"`
}

// ChapterTafsir is the chapter-level commentary header.
type ChapterTafsir struct {
	Name        string `json:"name"`
	LatinName   string `json:"latinName"`
	Meaning     string `json:"meaning"`
	Revelation  string `json:"revelation"`
	VersesCount int    `json:"versesCount"`
	Description string `json:"description"`
}

// VerseView is one verse of the chapter view.
type VerseView struct {
	VerseNumber int    `json:"verseNumber"`
	VerseKey    string `json:"verseKey"`
	TextUthmani string `json:"textUthmani"`
	Tajweed     string `json:"tajweed,omitempty"`
	Translation string `json:"translation"`
	Tafsir      string `json:"tafsir"`
	AudioURL    string `json:"audioURL,omitempty"`
	Bookmarked  bool   `json:"bookmarked"`
}

// JuzList is the browse-by-juz view.
type JuzList struct {
	Juzs []domain.Juz `json:"juzs"`
}

// JuzView is the juz reading view. Prev and Next are 0 at the ends.
type JuzView struct {
	Juz      domain.Juz   `json:"juz"`
	Chapters []JuzChapter `json:"chapters"`
	Verses   []JuzVerse   `json:"verses"`
	Prev     int          `json:"prev,omitempty"`
	Next     int          `json:"next,omitempty"`
}

// JuzChapter is the part of a chapter contained in a juz.
type JuzChapter struct {
	Number int    `json:"number"`
	Name   string `json:"name,omitempty"`
	Verses string `json:"verses"`
}

// JuzVerse is one verse of the juz view.
type JuzVerse struct {
	VerseKey    string `json:"verseKey"`
	TextUthmani string `json:"textUthmani"`
}

// PageView is the mushaf page view. Prev and Next are 0 at the ends.
type PageView struct {
	Page   int             `json:"page"`
	Verses []PageVerseView `json:"verses"`
	Prev   int             `json:"prev,omitempty"`
	Next   int             `json:"next,omitempty"`
}

// PageVerseView is one verse of the page view.
type PageVerseView struct {
	VerseKey      string `json:"verseKey"`
	ChapterNumber int    `json:"chapterNumber"`
	VerseNumber   int    `json:"verseNumber"`
	ChapterName   string `json:"chapterName,omitempty"`
	TextUthmani   string `json:"textUthmani"`
	Translation   string `json:"translation"`
	Bookmarked    bool   `json:"bookmarked"`
}

// SearchView is the search page. Chapters holds the chapters containing a
// result; NameMatches holds chapters whose name matches the query.
type SearchView struct {
	Query       string           `json:"query"`
	Results     []SearchHit      `json:"results"`
	Chapters    []domain.Chapter `json:"chapters"`
	NameMatches []domain.Chapter `json:"nameMatches,omitempty"`
	Degraded    bool             `json:"degraded,omitempty"`
}

// SearchHit is one verse found by the full-text search.
type SearchHit struct {
	VerseKey    string `json:"verseKey"`
	ChapterName string `json:"chapterName,omitempty"`
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
}

// WordsView is the word-by-word breakdown of a verse.
type WordsView struct {
	VerseKey string       `json:"verseKey"`
	Words    []quran.Word `json:"words"`
}
