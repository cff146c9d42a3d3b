package quran

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/myquran/internal/domain"
)

// Language of translated metadata and search.
const Language = "id"

const recitationsPerPage = 50

// Chapters lists all chapters.
func (c *Client) Chapters(ctx context.Context) ([]domain.Chapter, error) {
	var resp struct {
		Chapters []chapterWire `json:"chapters"`
	}
	if err := c.getJSON(ctx, c.quranURL, "/chapters", url.Values{"language": {Language}}, &resp); err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}

	chapters := make([]domain.Chapter, 0, len(resp.Chapters))
	for _, w := range resp.Chapters {
		chapters = append(chapters, w.toDomain())
	}
	return chapters, nil
}

// Chapter returns the metadata of one chapter.
func (c *Client) Chapter(ctx context.Context, id int) (domain.Chapter, error) {
	if err := domain.ValidateChapter(id); err != nil {
		return domain.Chapter{}, err
	}

	var resp struct {
		Chapter chapterWire `json:"chapter"`
	}
	path := "/chapters/" + strconv.Itoa(id)
	if err := c.getJSON(ctx, c.quranURL, path, url.Values{"language": {Language}}, &resp); err != nil {
		return domain.Chapter{}, fmt.Errorf("failed to get chapter %d: %w", id, err)
	}
	return resp.Chapter.toDomain(), nil
}

// UthmaniByChapter returns the uthmani text of every verse of a chapter, in order.
func (c *Client) UthmaniByChapter(ctx context.Context, id int) ([]VerseText, error) {
	if err := domain.ValidateChapter(id); err != nil {
		return nil, err
	}
	return c.verses(ctx, "/quran/verses/uthmani", url.Values{"chapter_number": {strconv.Itoa(id)}})
}

// UthmaniByJuz returns the uthmani text of every verse of a juz, in order.
func (c *Client) UthmaniByJuz(ctx context.Context, juz int) ([]VerseText, error) {
	if err := domain.ValidateJuz(juz); err != nil {
		return nil, err
	}
	return c.verses(ctx, "/quran/verses/uthmani", url.Values{"juz_number": {strconv.Itoa(juz)}})
}

// TajweedByChapter returns the tajweed-annotated text of a chapter.
func (c *Client) TajweedByChapter(ctx context.Context, id int) ([]VerseText, error) {
	if err := domain.ValidateChapter(id); err != nil {
		return nil, err
	}
	return c.verses(ctx, "/quran/verses/uthmani_tajweed", url.Values{"chapter_number": {strconv.Itoa(id)}})
}

func (c *Client) verses(ctx context.Context, path string, query url.Values) ([]VerseText, error) {
	var resp struct {
		Verses []VerseText `json:"verses"`
	}
	if err := c.getJSON(ctx, c.quranURL, path, query, &resp); err != nil {
		return nil, fmt.Errorf("failed to get verses: %w", err)
	}
	return resp.Verses, nil
}

// TranslationByChapter returns the translation of every verse of a chapter, in order.
func (c *Client) TranslationByChapter(ctx context.Context, translationID, id int) ([]Translation, error) {
	if err := domain.ValidateChapter(id); err != nil {
		return nil, err
	}

	var resp struct {
		Translations []Translation `json:"translations"`
	}
	path := "/quran/translations/" + strconv.Itoa(translationID)
	if err := c.getJSON(ctx, c.quranURL, path, url.Values{"chapter_number": {strconv.Itoa(id)}}, &resp); err != nil {
		return nil, fmt.Errorf("failed to get translation %d of chapter %d: %w", translationID, id, err)
	}
	return resp.Translations, nil
}

// VersesByPage returns the verses printed on a mushaf page with one translation.
func (c *Client) VersesByPage(ctx context.Context, page, translationID int) ([]PageVerse, error) {
	if err := domain.ValidatePage(page); err != nil {
		return nil, err
	}

	query := url.Values{
		"language":     {Language},
		"words":        {"false"},
		"fields":       {"text_uthmani"},
		"translations": {strconv.Itoa(translationID)},
		"per_page":     {"50"},
	}
	var resp struct {
		Verses []PageVerse `json:"verses"`
	}
	if err := c.getJSON(ctx, c.quranURL, "/verses/by_page/"+strconv.Itoa(page), query, &resp); err != nil {
		return nil, fmt.Errorf("failed to get page %d: %w", page, err)
	}
	return resp.Verses, nil
}

// Verse returns one verse with its uthmani text and one translation.
func (c *Client) Verse(ctx context.Context, key string, translationID int) (PageVerse, error) {
	ch, v, err := domain.ParseVerseKey(key)
	if err != nil {
		return PageVerse{}, err
	}
	key = domain.FormatVerseKey(ch, v)

	query := url.Values{
		"language":     {Language},
		"words":        {"false"},
		"fields":       {"text_uthmani"},
		"translations": {strconv.Itoa(translationID)},
	}
	var resp struct {
		Verse PageVerse `json:"verse"`
	}
	if err := c.getJSON(ctx, c.quranURL, "/verses/by_key/"+key, query, &resp); err != nil {
		return PageVerse{}, fmt.Errorf("failed to get verse %s: %w", key, err)
	}
	return resp.Verse, nil
}

// VerseWords returns the words of one verse with transliteration and translation.
// End-of-verse markers are dropped.
func (c *Client) VerseWords(ctx context.Context, key string) ([]Word, error) {
	ch, v, err := domain.ParseVerseKey(key)
	if err != nil {
		return nil, err
	}
	key = domain.FormatVerseKey(ch, v)

	query := url.Values{
		"language":    {Language},
		"words":       {"true"},
		"word_fields": {"text_uthmani"},
	}
	var resp struct {
		Verse struct {
			Words []wordWire `json:"words"`
		} `json:"verse"`
	}
	if err := c.getJSON(ctx, c.quranURL, "/verses/by_key/"+key, query, &resp); err != nil {
		return nil, fmt.Errorf("failed to get words of %s: %w", key, err)
	}

	words := make([]Word, 0, len(resp.Verse.Words))
	for _, w := range resp.Verse.Words {
		if w.CharTypeName == "end" {
			continue
		}
		words = append(words, Word{
			Position:        w.Position,
			Text:            w.TextUthmani,
			CharType:        w.CharTypeName,
			Transliteration: w.Transliteration.Text,
			Translation:     w.Translation.Text,
		})
	}
	return words, nil
}

// Juzs lists the thirty juz. The upstream list carries duplicates and
// out-of-range entries, so it is filtered to 1..30 and sorted by number.
func (c *Client) Juzs(ctx context.Context) ([]domain.Juz, error) {
	var resp struct {
		Juzs []juzWire `json:"juzs"`
	}
	if err := c.getJSON(ctx, c.quranURL, "/juzs", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list juzs: %w", err)
	}

	seen := make(map[int]bool, domain.MaxJuz)
	juzs := make([]domain.Juz, 0, domain.MaxJuz)
	for _, w := range resp.Juzs {
		n := w.number()
		if domain.ValidateJuz(n) != nil || seen[n] {
			continue
		}
		seen[n] = true
		juzs = append(juzs, w.toDomain())
	}
	sort.Slice(juzs, func(i, j int) bool { return juzs[i].Number < juzs[j].Number })
	return juzs, nil
}

// Juz returns one juz with the verse ranges it spans.
func (c *Client) Juz(ctx context.Context, n int) (domain.Juz, error) {
	if err := domain.ValidateJuz(n); err != nil {
		return domain.Juz{}, err
	}

	var resp struct {
		Juz juzWire `json:"juz"`
	}
	if err := c.getJSON(ctx, c.quranURL, "/juzs/"+strconv.Itoa(n), nil, &resp); err != nil {
		return domain.Juz{}, fmt.Errorf("failed to get juz %d: %w", n, err)
	}
	juz := resp.Juz.toDomain()
	juz.Number = n
	return juz, nil
}

// Search runs a full-text search and returns at most size verse hits.
func (c *Client) Search(ctx context.Context, q string, size int) ([]SearchResult, error) {
	query := url.Values{
		"q":        {q},
		"language": {Language},
		"size":     {strconv.Itoa(size)},
	}
	var resp struct {
		Search struct {
			Results []SearchResult `json:"results"`
		} `json:"search"`
	}
	if err := c.getJSON(ctx, c.quranURL, "/search", query, &resp); err != nil {
		return nil, fmt.Errorf("failed to search %q: %w", q, err)
	}
	return resp.Search.Results, nil
}

// ChapterRecitation returns the full-chapter audio URL for a reciter.
func (c *Client) ChapterRecitation(ctx context.Context, reciter, id int) (string, error) {
	if err := domain.ValidateChapter(id); err != nil {
		return "", err
	}

	var resp struct {
		AudioFile struct {
			AudioURL string `json:"audio_url"`
		} `json:"audio_file"`
	}
	path := fmt.Sprintf("/chapter_recitations/%d/%d", reciter, id)
	if err := c.getJSON(ctx, c.quranURL, path, nil, &resp); err != nil {
		return "", fmt.Errorf("failed to get chapter audio of %d: %w", id, err)
	}
	return c.AudioURL(resp.AudioFile.AudioURL), nil
}

// VerseRecitations returns the per-verse audio of a chapter with absolute URLs.
// The upstream endpoint is paginated; every page is followed.
func (c *Client) VerseRecitations(ctx context.Context, reciter, id int) ([]AudioFile, error) {
	if err := domain.ValidateChapter(id); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/recitations/%d/by_chapter/%d", reciter, id)
	var files []AudioFile
	page := 1
	for {
		var resp struct {
			AudioFiles []AudioFile `json:"audio_files"`
			Pagination pagination  `json:"pagination"`
		}
		query := url.Values{
			"per_page": {strconv.Itoa(recitationsPerPage)},
			"page":     {strconv.Itoa(page)},
		}
		if err := c.getJSON(ctx, c.quranURL, path, query, &resp); err != nil {
			return nil, fmt.Errorf("failed to get verse audio of %d: %w", id, err)
		}
		for _, f := range resp.AudioFiles {
			f.URL = c.AudioURL(f.URL)
			files = append(files, f)
		}

		next := resp.Pagination.NextPage
		if next == nil || *next <= page {
			break
		}
		page = *next
	}
	return files, nil
}

// Tafsir returns the equran.id commentary of a chapter.
func (c *Client) Tafsir(ctx context.Context, id int) (Tafsir, error) {
	if err := domain.ValidateChapter(id); err != nil {
		return Tafsir{}, err
	}

	var resp struct {
		Data Tafsir `json:"data"`
	}
	if err := c.getJSON(ctx, c.equranURL, "/tafsir/"+strconv.Itoa(id), nil, &resp); err != nil {
		return Tafsir{}, fmt.Errorf("failed to get tafsir of %d: %w", id, err)
	}
	return resp.Data, nil
}

func (w juzWire) number() int {
	if w.JuzNumber != 0 {
		return w.JuzNumber
	}
	return w.ID
}

func (w juzWire) toDomain() domain.Juz {
	first, last := mappingBounds(w.VerseMapping)
	return domain.Juz{
		Number:       w.number(),
		FirstVerse:   first,
		LastVerse:    last,
		VersesCount:  w.VersesCount,
		VerseMapping: w.VerseMapping,
	}
}

// mappingBounds turns {"2":"142-252","3":"1-92"} into "2:142" and "3:92".
func mappingBounds(mapping map[string]string) (string, string) {
	lo, hi := 0, 0
	for raw := range mapping {
		ch, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		if lo == 0 || ch < lo {
			lo = ch
		}
		if ch > hi {
			hi = ch
		}
	}
	if lo == 0 {
		return "", ""
	}

	start, _, _ := strings.Cut(mapping[strconv.Itoa(lo)], "-")
	_, end, found := strings.Cut(mapping[strconv.Itoa(hi)], "-")
	if !found {
		end = mapping[strconv.Itoa(hi)]
	}
	return strconv.Itoa(lo) + ":" + start, strconv.Itoa(hi) + ":" + end
}
