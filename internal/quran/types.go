package quran

import (
	"github.com/MrSnakeDoc/myquran/internal/domain"
)

// VerseText is a verse as returned by the /quran/verses/* endpoints.
type VerseText struct {
	ID       int    `json:"id"`
	VerseKey string `json:"verse_key"`
	Uthmani  string `json:"text_uthmani"`
	Tajweed  string `json:"text_uthmani_tajweed"`
}

// Translation is one translated verse.
type Translation struct {
	ResourceID int    `json:"resource_id"`
	Text       string `json:"text"`
	Name       string `json:"name,omitempty"`
}

// PageVerse is a verse of a mushaf page with its translations.
type PageVerse struct {
	ID           int           `json:"id"`
	VerseKey     string        `json:"verse_key"`
	VerseNumber  int           `json:"verse_number"`
	Uthmani      string        `json:"text_uthmani"`
	Translations []Translation `json:"translations"`
}

// Word is one word of a verse for the word-by-word view.
type Word struct {
	Position        int    `json:"position"`
	Text            string `json:"text"`
	CharType        string `json:"charType"`
	Transliteration string `json:"transliteration"`
	Translation     string `json:"translation"`
}

// SearchResult is a verse hit of a full-text search.
type SearchResult struct {
	VerseKey     string        `json:"verse_key"`
	VerseID      int           `json:"verse_id"`
	Text         string        `json:"text"`
	Translations []Translation `json:"translations"`
}

// AudioFile is the recitation of one verse.
type AudioFile struct {
	VerseKey string `json:"verse_key"`
	URL      string `json:"url"`
}

// Tafsir is the equran.id commentary of a chapter.
type Tafsir struct {
	Number      int          `json:"nomor"`
	Name        string       `json:"nama"`
	LatinName   string       `json:"namaLatin"`
	VersesCount int          `json:"jumlahAyat"`
	Revelation  string       `json:"tempatTurun"`
	Meaning     string       `json:"arti"`
	Description string       `json:"deskripsi"`
	Verses      []TafsirItem `json:"tafsir"`
}

// TafsirItem is the commentary of one verse.
type TafsirItem struct {
	Verse int    `json:"ayat"`
	Text  string `json:"teks"`
}

// ByVerse indexes the commentary by verse number.
func (t Tafsir) ByVerse() map[int]string {
	m := make(map[int]string, len(t.Verses))
	for _, item := range t.Verses {
		m[item.Verse] = item.Text
	}
	return m
}

type chapterWire struct {
	ID              int    `json:"id"`
	RevelationPlace string `json:"revelation_place"`
	NameSimple      string `json:"name_simple"`
	NameComplex     string `json:"name_complex"`
	NameArabic      string `json:"name_arabic"`
	VersesCount     int    `json:"verses_count"`
	TranslatedName  struct {
		Name string `json:"name"`
	} `json:"translated_name"`
}

func (w chapterWire) toDomain() domain.Chapter {
	return domain.Chapter{
		ID:              w.ID,
		NameSimple:      w.NameSimple,
		NameComplex:     w.NameComplex,
		NameArabic:      w.NameArabic,
		TranslatedName:  w.TranslatedName.Name,
		RevelationPlace: w.RevelationPlace,
		VersesCount:     w.VersesCount,
	}
}

type juzWire struct {
	ID           int               `json:"id"`
	JuzNumber    int               `json:"juz_number"`
	VerseMapping map[string]string `json:"verse_mapping"`
	VersesCount  int               `json:"verses_count"`
}

type wordWire struct {
	Position        int    `json:"position"`
	TextUthmani     string `json:"text_uthmani"`
	CharTypeName    string `json:"char_type_name"`
	Transliteration struct {
		Text string `json:"text"`
	} `json:"transliteration"`
	Translation struct {
		Text string `json:"text"`
	} `json:"translation"`
}

type pagination struct {
	CurrentPage int  `json:"current_page"`
	NextPage    *int `json:"next_page"`
	TotalPages  int  `json:"total_pages"`
}
