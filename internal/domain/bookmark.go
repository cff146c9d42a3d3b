package domain

import "time"

// Bookmark is a user-saved reference to a single verse, with the display
// text cached at save time so the bookmark list renders without a fetch.
//
// A Bookmark is uniquely identified by (ChapterNumber, VerseNumber).
// It is created and deleted on user action, never mutated in between.
type Bookmark struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ChapterNumber is the chapter (surah) number, 1..114.
	ChapterNumber int `json:"chapterNumber" yaml:"chapterNumber"`

	// VerseNumber is the verse (ayah) number within the chapter.
	VerseNumber int `json:"verseNumber" yaml:"verseNumber"`

	// VerseKey is the "chapter:verse" form of the identity.
	// Example: 2:255
	VerseKey string `json:"verseKey" yaml:"verseKey"`

	// ─────────────────────────────
	// Cached display text
	// ─────────────────────────────

	// ChapterName is the transliterated chapter name.
	// Example: Al-Baqarah
	ChapterName string `json:"chapterName" yaml:"chapterName"`

	// ArabicText is the uthmani script of the verse.
	ArabicText string `json:"arabicText" yaml:"arabicText"`

	// TranslationText is the translation with markup stripped.
	TranslationText string `json:"translationText" yaml:"translationText"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// SavedAt is stamped by the store on insertion.
	SavedAt time.Time `json:"savedAt" yaml:"savedAt"`
}

// SameVerse reports whether b and other point at the same verse.
func (b Bookmark) SameVerse(chapter, verse int) bool {
	return b.ChapterNumber == chapter && b.VerseNumber == verse
}

// Normalize fills VerseKey from the numeric identity when missing.
func (b *Bookmark) Normalize() {
	if b.VerseKey == "" {
		b.VerseKey = FormatVerseKey(b.ChapterNumber, b.VerseNumber)
	}
}

// Validate checks that the bookmark identity is addressable.
func (b Bookmark) Validate() error {
	if err := ValidateChapter(b.ChapterNumber); err != nil {
		return err
	}
	return ValidateVerse(b.VerseNumber)
}
