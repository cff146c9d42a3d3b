package domain

// Chapter is the canonical metadata of a named section (surah) of the text.
type Chapter struct {
	ID              int    `json:"id"`
	NameSimple      string `json:"nameSimple"`
	NameComplex     string `json:"nameComplex"`
	NameArabic      string `json:"nameArabic"`
	TranslatedName  string `json:"translatedName"`
	RevelationPlace string `json:"revelationPlace"`
	VersesCount     int    `json:"versesCount"`
}

// DisplayName prefers the transliterated name, falling back to the arabic one.
func (c Chapter) DisplayName() string {
	if c.NameComplex != "" {
		return c.NameComplex
	}
	if c.NameSimple != "" {
		return c.NameSimple
	}
	return c.NameArabic
}

// Juz is one of the thirty parts with the chapters and verse ranges it spans.
type Juz struct {
	Number       int               `json:"number"`
	FirstVerse   string            `json:"firstVerseKey"`
	LastVerse    string            `json:"lastVerseKey"`
	VersesCount  int               `json:"versesCount"`
	VerseMapping map[string]string `json:"verseMapping"`
}
