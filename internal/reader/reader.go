// Package reader builds the browse, read and search views on top of the
// upstream content client and the local bookmark store.
package reader

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/myquran/internal/domain"
	"github.com/MrSnakeDoc/myquran/internal/index"
	"github.com/MrSnakeDoc/myquran/internal/logger"
	"github.com/MrSnakeDoc/myquran/internal/player"
	"github.com/MrSnakeDoc/myquran/internal/quran"
)

// Content is the upstream surface used by the views. *quran.Client implements it.
type Content interface {
	Chapters(ctx context.Context) ([]domain.Chapter, error)
	Chapter(ctx context.Context, id int) (domain.Chapter, error)
	UthmaniByChapter(ctx context.Context, id int) ([]quran.VerseText, error)
	UthmaniByJuz(ctx context.Context, juz int) ([]quran.VerseText, error)
	TajweedByChapter(ctx context.Context, id int) ([]quran.VerseText, error)
	TranslationByChapter(ctx context.Context, translationID, id int) ([]quran.Translation, error)
	VersesByPage(ctx context.Context, page, translationID int) ([]quran.PageVerse, error)
	Verse(ctx context.Context, key string, translationID int) (quran.PageVerse, error)
	VerseWords(ctx context.Context, key string) ([]quran.Word, error)
	Juzs(ctx context.Context) ([]domain.Juz, error)
	Juz(ctx context.Context, n int) (domain.Juz, error)
	Search(ctx context.Context, q string, size int) ([]quran.SearchResult, error)
	ChapterRecitation(ctx context.Context, reciter, id int) (string, error)
	VerseRecitations(ctx context.Context, reciter, id int) ([]quran.AudioFile, error)
	Tafsir(ctx context.Context, id int) (quran.Tafsir, error)
}

// Bookmarks is the read side of the bookmark store used to mark saved verses.
type Bookmarks interface {
	List(ctx context.Context) []domain.Bookmark
	ListByChapter(ctx context.Context, chapter int) []domain.Bookmark
}

// Options selects the translation, reciter and search page size.
type Options struct {
	TranslationID int
	ReciterID     int
	SearchSize    int
}

// Reader serves the views.
type Reader struct {
	content   Content
	bookmarks Bookmarks
	chapters  *index.ChapterIndex
	opts      Options
	logger    logger.Logger
}

// New creates a Reader. chapters may be shared with the catalogue reloader.
func New(content Content, bookmarks Bookmarks, chapters *index.ChapterIndex, opts Options, log logger.Logger) *Reader {
	if opts.TranslationID <= 0 {
		opts.TranslationID = 33
	}
	if opts.ReciterID <= 0 {
		opts.ReciterID = 7
	}
	if opts.SearchSize <= 0 {
		opts.SearchSize = 10
	}
	if chapters == nil {
		chapters = index.NewChapterIndex()
	}
	return &Reader{
		content:   content,
		bookmarks: bookmarks,
		chapters:  chapters,
		opts:      opts,
		logger:    log.Named("reader"),
	}
}

// ChapterList returns all chapters, from the catalogue when it is complete.
func (r *Reader) ChapterList(ctx context.Context) (ChapterList, error) {
	chapters, err := r.allChapters(ctx)
	if err != nil {
		return ChapterList{}, err
	}
	return ChapterList{Chapters: chapters}, nil
}

// RefreshChapters reloads the chapter catalogue from upstream.
func (r *Reader) RefreshChapters(ctx context.Context) (int, error) {
	chapters, err := r.content.Chapters(ctx)
	if err != nil {
		return 0, err
	}
	r.chapters.Update(chapters)
	return len(chapters), nil
}

func (r *Reader) allChapters(ctx context.Context) ([]domain.Chapter, error) {
	if r.chapters.Complete() {
		return r.chapters.All(), nil
	}
	if _, err := r.RefreshChapters(ctx); err != nil {
		return nil, err
	}
	return r.chapters.All(), nil
}

// ChapterDetail combines verse text, translation and commentary of a chapter.
// The three are fetched concurrently and any failure fails the view. Tajweed,
// audio and metadata are then fetched best-effort.
func (r *Reader) ChapterDetail(ctx context.Context, id int) (ChapterView, error) {
	if err := domain.ValidateChapter(id); err != nil {
		return ChapterView{}, err
	}

	var (
		verses       []quran.VerseText
		translations []quran.Translation
		tafsir       quran.Tafsir
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		verses, err = r.content.UthmaniByChapter(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		translations, err = r.content.TranslationByChapter(gctx, r.opts.TranslationID, id)
		return err
	})
	g.Go(func() (err error) {
		tafsir, err = r.content.Tafsir(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return ChapterView{}, fmt.Errorf("failed to load chapter %d: %w", id, err)
	}

	var (
		tajweed  []quran.VerseText
		audio    []quran.AudioFile
		audioURL string
		meta     domain.Chapter
		metaOK   bool
	)
	// Best-effort group: every func logs and returns nil.
	var opt errgroup.Group
	opt.Go(func() error {
		var err error
		if tajweed, err = r.content.TajweedByChapter(ctx, id); err != nil {
			r.degraded("tajweed", id, err)
		}
		return nil
	})
	opt.Go(func() error {
		var err error
		if audioURL, err = r.content.ChapterRecitation(ctx, r.opts.ReciterID, id); err != nil {
			r.degraded("chapter audio", id, err)
		}
		return nil
	})
	opt.Go(func() error {
		var err error
		if audio, err = r.content.VerseRecitations(ctx, r.opts.ReciterID, id); err != nil {
			r.degraded("verse audio", id, err)
		}
		return nil
	})
	opt.Go(func() error {
		meta, metaOK = r.chapterMeta(ctx, id)
		return nil
	})
	_ = opt.Wait()

	if !metaOK {
		meta = domain.Chapter{
			ID:              id,
			NameSimple:      tafsir.LatinName,
			NameArabic:      tafsir.Name,
			TranslatedName:  tafsir.Meaning,
			RevelationPlace: tafsir.Revelation,
			VersesCount:     tafsir.VersesCount,
		}
	}

	tafsirByVerse := tafsir.ByVerse()
	audioByKey := make(map[string]string, len(audio))
	for _, f := range audio {
		audioByKey[f.VerseKey] = f.URL
	}
	marked := r.markedVerses(ctx, id)

	view := ChapterView{
		Chapter:  meta,
		AudioURL: audioURL,
		Tafsir: ChapterTafsir{
			Name:        tafsir.Name,
			LatinName:   tafsir.LatinName,
			Meaning:     tafsir.Meaning,
			Revelation:  tafsir.Revelation,
			VersesCount: tafsir.VersesCount,
			Description: domain.TagsToNewlines(tafsir.Description),
		},
		Verses: make([]VerseView, 0, len(verses)),
	}

	for i, v := range verses {
		number := verseNumber(v.VerseKey, i)
		key := domain.FormatVerseKey(id, number)

		vv := VerseView{
			VerseNumber: number,
			VerseKey:    key,
			TextUthmani: v.Uthmani,
			Tafsir:      TafsirFallback,
			AudioURL:    audioByKey[key],
			Bookmarked:  marked[number],
		}
		if i < len(translations) {
			vv.Translation = domain.StripTags(translations[i].Text)
		}
		if i < len(tajweed) {
			vv.Tajweed = tajweed[i].Tajweed
		}
		if t, ok := tafsirByVerse[number]; ok && t != "" {
			vv.Tafsir = t
		}
		view.Verses = append(view.Verses, vv)
	}
	return view, nil
}

// Clips returns the per-verse audio playlist of a chapter in verse order.
// Verses without a recitation get an empty URL so indexes match the chapter view.
func (r *Reader) Clips(ctx context.Context, id int) ([]player.Clip, error) {
	if err := domain.ValidateChapter(id); err != nil {
		return nil, err
	}

	var (
		verses []quran.VerseText
		audio  []quran.AudioFile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		verses, err = r.content.UthmaniByChapter(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		audio, err = r.content.VerseRecitations(gctx, r.opts.ReciterID, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load audio of chapter %d: %w", id, err)
	}

	byKey := make(map[string]string, len(audio))
	for _, f := range audio {
		byKey[f.VerseKey] = f.URL
	}
	clips := make([]player.Clip, 0, len(verses))
	for i, v := range verses {
		key := domain.FormatVerseKey(id, verseNumber(v.VerseKey, i))
		clips = append(clips, player.Clip{VerseKey: key, URL: byKey[key]})
	}
	return clips, nil
}

// JuzList returns the thirty juz.
func (r *Reader) JuzList(ctx context.Context) (JuzList, error) {
	juzs, err := r.content.Juzs(ctx)
	if err != nil {
		return JuzList{}, err
	}
	return JuzList{Juzs: juzs}, nil
}

// JuzDetail returns a juz with its verses and neighbours.
func (r *Reader) JuzDetail(ctx context.Context, n int) (JuzView, error) {
	if err := domain.ValidateJuz(n); err != nil {
		return JuzView{}, err
	}

	var (
		juz    domain.Juz
		verses []quran.VerseText
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		juz, err = r.content.Juz(gctx, n)
		return err
	})
	g.Go(func() (err error) {
		verses, err = r.content.UthmaniByJuz(gctx, n)
		return err
	})
	if err := g.Wait(); err != nil {
		return JuzView{}, fmt.Errorf("failed to load juz %d: %w", n, err)
	}

	view := JuzView{
		Juz:    juz,
		Verses: make([]JuzVerse, 0, len(verses)),
		Prev:   neighbour(n-1, domain.MinJuz, domain.MaxJuz),
		Next:   neighbour(n+1, domain.MinJuz, domain.MaxJuz),
	}
	for ch := domain.MinChapter; ch <= domain.MaxChapter; ch++ {
		rng, ok := juz.VerseMapping[strconv.Itoa(ch)]
		if !ok {
			continue
		}
		view.Chapters = append(view.Chapters, JuzChapter{Number: ch, Name: r.chapters.Name(ch), Verses: rng})
	}
	for _, v := range verses {
		view.Verses = append(view.Verses, JuzVerse{VerseKey: v.VerseKey, TextUthmani: v.Uthmani})
	}
	return view, nil
}

// Page returns the verses of a mushaf page with bookmarks marked.
func (r *Reader) Page(ctx context.Context, n int) (PageView, error) {
	if err := domain.ValidatePage(n); err != nil {
		return PageView{}, err
	}

	verses, err := r.content.VersesByPage(ctx, n, r.opts.TranslationID)
	if err != nil {
		return PageView{}, err
	}

	saved := make(map[string]bool)
	for _, b := range r.bookmarks.List(ctx) {
		saved[domain.FormatVerseKey(b.ChapterNumber, b.VerseNumber)] = true
	}

	view := PageView{
		Page:   n,
		Verses: make([]PageVerseView, 0, len(verses)),
		Prev:   neighbour(n-1, domain.MinPage, domain.MaxPage),
		Next:   neighbour(n+1, domain.MinPage, domain.MaxPage),
	}
	for _, v := range verses {
		ch, num, err := domain.ParseVerseKey(v.VerseKey)
		if err != nil {
			r.logger.Warn("skipping verse with bad key",
				logger.String("verse_key", v.VerseKey),
				logger.Int("page", n))
			continue
		}
		view.Verses = append(view.Verses, PageVerseView{
			VerseKey:      v.VerseKey,
			ChapterNumber: ch,
			VerseNumber:   num,
			ChapterName:   r.chapters.Name(ch),
			TextUthmani:   v.Uthmani,
			Translation:   firstTranslation(v.Translations),
			Bookmarked:    saved[domain.FormatVerseKey(ch, num)],
		})
	}
	return view, nil
}

// Search runs a full-text search. A blank query returns every chapter and no
// results. A failed search degrades to every chapter and no results.
func (r *Reader) Search(ctx context.Context, q string) (SearchView, error) {
	q = strings.TrimSpace(q)

	all, err := r.allChapters(ctx)
	if err != nil {
		r.logger.Warn("chapter list unavailable for search", logger.Error(err))
		all = []domain.Chapter{}
	}

	view := SearchView{Query: q, Results: []SearchHit{}, Chapters: all}
	if q == "" {
		return view, nil
	}

	for _, c := range domain.RankChapters(q, all) {
		view.NameMatches = append(view.NameMatches, c.Chapter)
	}

	results, err := r.content.Search(ctx, q, r.opts.SearchSize)
	if err != nil {
		r.logger.Warn("search failed, showing all chapters",
			logger.String("query", q),
			logger.Error(err))
		view.Degraded = true
		return view, nil
	}

	hitChapters := make(map[int]bool)
	for _, res := range results {
		ch, _, err := domain.ParseVerseKey(res.VerseKey)
		if err != nil {
			continue
		}
		hitChapters[ch] = true
		view.Results = append(view.Results, SearchHit{
			VerseKey:    res.VerseKey,
			ChapterName: r.chapters.Name(ch),
			Text:        res.Text,
			Translation: firstTranslation(res.Translations),
		})
	}

	view.Chapters = make([]domain.Chapter, 0, len(hitChapters))
	for _, ch := range all {
		if hitChapters[ch.ID] {
			view.Chapters = append(view.Chapters, ch)
		}
	}
	return view, nil
}

// Words returns the word-by-word breakdown of a verse.
func (r *Reader) Words(ctx context.Context, key string) (WordsView, error) {
	ch, v, err := domain.ParseVerseKey(key)
	if err != nil {
		return WordsView{}, err
	}
	key = domain.FormatVerseKey(ch, v)

	words, err := r.content.VerseWords(ctx, key)
	if err != nil {
		return WordsView{}, err
	}
	return WordsView{VerseKey: key, Words: words}, nil
}

// ResolveBookmark fetches the text of a verse and builds the record to save.
func (r *Reader) ResolveBookmark(ctx context.Context, key string) (domain.Bookmark, error) {
	verse, err := r.content.Verse(ctx, key, r.opts.TranslationID)
	if err != nil {
		return domain.Bookmark{}, err
	}
	ch, _, err := domain.ParseVerseKey(key)
	if err != nil {
		return domain.Bookmark{}, err
	}

	name, ok := r.chapterMeta(ctx, ch)
	chapterName := ""
	if ok {
		chapterName = name.DisplayName()
	}
	return BookmarkFromVerse(chapterName, key, verse.Uthmani, firstTranslation(verse.Translations))
}

// BookmarkFromVerse builds the record saved from a chapter or page view.
// Markup is stripped from the translation, an empty one gets the fallback text
// and an unknown chapter name falls back to the chapter number.
func BookmarkFromVerse(chapterName, verseKey, arabic, translation string) (domain.Bookmark, error) {
	ch, v, err := domain.ParseVerseKey(verseKey)
	if err != nil {
		return domain.Bookmark{}, err
	}

	translation = domain.StripTags(translation)
	if translation == "" {
		translation = TranslationFallback
	}
	if strings.TrimSpace(chapterName) == "" {
		chapterName = strconv.Itoa(ch)
	}

	return domain.Bookmark{
		ChapterNumber:   ch,
		VerseNumber:     v,
		VerseKey:        domain.FormatVerseKey(ch, v),
		ChapterName:     chapterName,
		ArabicText:      arabic,
		TranslationText: translation,
	}, nil
}

func (r *Reader) chapterMeta(ctx context.Context, id int) (domain.Chapter, bool) {
	if ch, ok := r.chapters.Get(id); ok {
		return ch, true
	}
	ch, err := r.content.Chapter(ctx, id)
	if err != nil {
		r.degraded("chapter metadata", id, err)
		return domain.Chapter{}, false
	}
	return ch, true
}

func (r *Reader) markedVerses(ctx context.Context, chapter int) map[int]bool {
	marked := make(map[int]bool)
	for _, b := range r.bookmarks.ListByChapter(ctx, chapter) {
		marked[b.VerseNumber] = true
	}
	return marked
}

func (r *Reader) degraded(what string, chapter int, err error) {
	r.logger.Warn("optional content unavailable",
		logger.String("content", what),
		logger.Int("chapter", chapter),
		logger.Error(err))
}

// verseNumber takes the verse number from the key, falling back to the position.
func verseNumber(key string, i int) int {
	if _, v, err := domain.ParseVerseKey(key); err == nil {
		return v
	}
	return i + 1
}

func firstTranslation(ts []quran.Translation) string {
	if len(ts) == 0 {
		return ""
	}
	return domain.StripTags(ts[0].Text)
}

func neighbour(n, lo, hi int) int {
	if n < lo || n > hi {
		return 0
	}
	return n
}
