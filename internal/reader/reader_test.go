package reader

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/MrSnakeDoc/myquran/internal/bookmark"
	"github.com/MrSnakeDoc/myquran/internal/domain"
	"github.com/MrSnakeDoc/myquran/internal/index"
	"github.com/MrSnakeDoc/myquran/internal/logger"
	"github.com/MrSnakeDoc/myquran/internal/player"
	"github.com/MrSnakeDoc/myquran/internal/quran"
	"github.com/MrSnakeDoc/myquran/internal/store/memory"
)

// fakeContent serves a three-verse Al-Fatihah excerpt and fails on demand.
type fakeContent struct {
	fail        map[string]error
	searchCalls int
}

func (f *fakeContent) err(name string) error {
	if f.fail == nil {
		return nil
	}
	return f.fail[name]
}

var testChapters = []domain.Chapter{
	{ID: 1, NameSimple: "Al-Fatihah", NameComplex: "Al-Fātiĥah", TranslatedName: "Pembukaan", VersesCount: 7},
	{ID: 2, NameSimple: "Al-Baqarah", NameComplex: "Al-Baqarah", TranslatedName: "Sapi Betina", VersesCount: 286},
	{ID: 36, NameSimple: "Ya-Sin", NameComplex: "Yā-Sīn", TranslatedName: "Yasin", VersesCount: 83},
}

func (f *fakeContent) Chapters(ctx context.Context) ([]domain.Chapter, error) {
	if err := f.err("chapters"); err != nil {
		return nil, err
	}
	return testChapters, nil
}

func (f *fakeContent) Chapter(ctx context.Context, id int) (domain.Chapter, error) {
	if err := f.err("chapter"); err != nil {
		return domain.Chapter{}, err
	}
	for _, c := range testChapters {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Chapter{}, domain.ErrNotFound
}

func (f *fakeContent) UthmaniByChapter(ctx context.Context, id int) ([]quran.VerseText, error) {
	if err := f.err("verses"); err != nil {
		return nil, err
	}
	return []quran.VerseText{
		{VerseKey: fmt.Sprintf("%d:1", id), Uthmani: "بِسْمِ ٱللَّهِ"},
		{VerseKey: fmt.Sprintf("%d:2", id), Uthmani: "ٱلْحَمْدُ لِلَّهِ"},
		{VerseKey: fmt.Sprintf("%d:3", id), Uthmani: "ٱلرَّحْمَٰنِ ٱلرَّحِيمِ"},
	}, nil
}

func (f *fakeContent) UthmaniByJuz(ctx context.Context, juz int) ([]quran.VerseText, error) {
	if err := f.err("juz_verses"); err != nil {
		return nil, err
	}
	return []quran.VerseText{{VerseKey: "1:1", Uthmani: "بِسْمِ"}, {VerseKey: "2:1", Uthmani: "الٓمٓ"}}, nil
}

func (f *fakeContent) TajweedByChapter(ctx context.Context, id int) ([]quran.VerseText, error) {
	if err := f.err("tajweed"); err != nil {
		return nil, err
	}
	return []quran.VerseText{{Tajweed: "<tajweed class=ham_wasl>ٱ</tajweed>"}}, nil
}

func (f *fakeContent) TranslationByChapter(ctx context.Context, tid, id int) ([]quran.Translation, error) {
	if err := f.err("translation"); err != nil {
		return nil, err
	}
	return []quran.Translation{
		{Text: "Dengan nama Allah<sup foot_note=1>1</sup>"},
		{Text: "Segala puji bagi Allah"},
	}, nil
}

func (f *fakeContent) VersesByPage(ctx context.Context, page, tid int) ([]quran.PageVerse, error) {
	if err := f.err("page"); err != nil {
		return nil, err
	}
	return []quran.PageVerse{
		{VerseKey: "2:1", Uthmani: "الٓمٓ", Translations: []quran.Translation{{Text: "Alif Lam Mim"}}},
		{VerseKey: "2:2", Uthmani: "ذَٰلِكَ", Translations: []quran.Translation{{Text: "<b>Kitab</b> ini"}}},
	}, nil
}

func (f *fakeContent) Verse(ctx context.Context, key string, tid int) (quran.PageVerse, error) {
	if err := f.err("verse"); err != nil {
		return quran.PageVerse{}, err
	}
	return quran.PageVerse{VerseKey: key, Uthmani: "ٱللَّهُ لَآ إِلَٰهَ", Translations: []quran.Translation{{Text: "Allah<sup>2</sup>"}}}, nil
}

func (f *fakeContent) VerseWords(ctx context.Context, key string) ([]quran.Word, error) {
	return []quran.Word{{Position: 1, Text: "ٱللَّهُ", Transliteration: "al-lahu", Translation: "Allah"}}, nil
}

func (f *fakeContent) Juzs(ctx context.Context) ([]domain.Juz, error) {
	return []domain.Juz{{Number: 1}, {Number: 2}}, nil
}

func (f *fakeContent) Juz(ctx context.Context, n int) (domain.Juz, error) {
	if err := f.err("juz"); err != nil {
		return domain.Juz{}, err
	}
	return domain.Juz{Number: n, VerseMapping: map[string]string{"2": "1-141", "1": "1-7"}}, nil
}

func (f *fakeContent) Search(ctx context.Context, q string, size int) ([]quran.SearchResult, error) {
	f.searchCalls++
	if err := f.err("search"); err != nil {
		return nil, err
	}
	return []quran.SearchResult{
		{VerseKey: "2:255", Text: "ٱللَّهُ"},
		{VerseKey: "2:256", Text: "لَآ إِكْرَاهَ"},
		{VerseKey: "36:1", Text: "يسٓ"},
	}, nil
}

func (f *fakeContent) ChapterRecitation(ctx context.Context, reciter, id int) (string, error) {
	if err := f.err("chapter_audio"); err != nil {
		return "", err
	}
	return "https://download.quranicaudio.com/001.mp3", nil
}

func (f *fakeContent) VerseRecitations(ctx context.Context, reciter, id int) ([]quran.AudioFile, error) {
	if err := f.err("verse_audio"); err != nil {
		return nil, err
	}
	return []quran.AudioFile{
		{VerseKey: fmt.Sprintf("%d:1", id), URL: "https://verses.quran.com/a/1.mp3"},
		{VerseKey: fmt.Sprintf("%d:3", id), URL: "https://verses.quran.com/a/3.mp3"},
	}, nil
}

func (f *fakeContent) Tafsir(ctx context.Context, id int) (quran.Tafsir, error) {
	if err := f.err("tafsir"); err != nil {
		return quran.Tafsir{}, err
	}
	return quran.Tafsir{
		Number:      id,
		Name:        "الفاتحة",
		LatinName:   "Al-Fatihah",
		Meaning:     "Pembukaan",
		Revelation:  "Mekah",
		VersesCount: 7,
		Description: "<p>Surat pertama</p><p></p><p>Tujuh ayat</p>",
		Verses:      []quran.TafsirItem{{Verse: 1, Text: "Tafsir ayat satu"}, {Verse: 2, Text: "Tafsir ayat dua"}},
	}, nil
}

func newTestReader(t *testing.T, content *fakeContent) (*Reader, *bookmark.Store) {
	t.Helper()
	store := bookmark.NewStore(memory.New(), logger.Nop())
	return New(content, store, index.NewChapterIndex(), Options{}, logger.Nop()), store
}

func TestChapterDetailCombines(t *testing.T) {
	ctx := context.Background()
	r, store := newTestReader(t, &fakeContent{})
	store.Save(ctx, domain.Bookmark{ChapterNumber: 1, VerseNumber: 2})

	view, err := r.ChapterDetail(ctx, 1)
	if err != nil {
		t.Fatalf("ChapterDetail() error: %v", err)
	}

	want := []VerseView{
		{VerseNumber: 1, VerseKey: "1:1", TextUthmani: "بِسْمِ ٱللَّهِ", Tajweed: "<tajweed class=ham_wasl>ٱ</tajweed>", Translation: "Dengan nama Allah", Tafsir: "Tafsir ayat satu", AudioURL: "https://verses.quran.com/a/1.mp3"},
		{VerseNumber: 2, VerseKey: "1:2", TextUthmani: "ٱلْحَمْدُ لِلَّهِ", Translation: "Segala puji bagi Allah", Tafsir: "Tafsir ayat dua", Bookmarked: true},
		{VerseNumber: 3, VerseKey: "1:3", TextUthmani: "ٱلرَّحْمَٰنِ ٱلرَّحِيمِ", Tafsir: TafsirFallback, AudioURL: "https://verses.quran.com/a/3.mp3"},
	}
	if diff := cmp.Diff(want, view.Verses); diff != "" {
		t.Errorf("verses mismatch (-want +got):\n%s", diff)
	}
	if view.Tafsir.Description != "Surat pertama\nTujuh ayat" {
		t.Errorf("Description = %q", view.Tafsir.Description)
	}
	if view.Chapter.NameComplex != "Al-Fātiĥah" {
		t.Errorf("Chapter = %+v", view.Chapter)
	}
	if view.AudioURL == "" {
		t.Error("chapter audio should be set")
	}
}

func TestChapterDetailEssentialFailure(t *testing.T) {
	for _, name := range []string{"verses", "translation", "tafsir"} {
		t.Run(name, func(t *testing.T) {
			content := &fakeContent{fail: map[string]error{name: fmt.Errorf("%w: boom", domain.ErrNetwork)}}
			r, _ := newTestReader(t, content)

			_, err := r.ChapterDetail(context.Background(), 1)
			if !errors.Is(err, domain.ErrNetwork) {
				t.Errorf("ChapterDetail() error = %v, want ErrNetwork", err)
			}
		})
	}
}

func TestChapterDetailOptionalFailureDegrades(t *testing.T) {
	content := &fakeContent{fail: map[string]error{
		"tajweed":       domain.ErrNetwork,
		"chapter_audio": domain.ErrNetwork,
		"verse_audio":   domain.ErrNetwork,
		"chapter":       domain.ErrNetwork,
	}}
	r, _ := newTestReader(t, content)

	view, err := r.ChapterDetail(context.Background(), 1)
	if err != nil {
		t.Fatalf("ChapterDetail() error: %v", err)
	}
	if view.AudioURL != "" || view.Verses[0].AudioURL != "" || view.Verses[0].Tajweed != "" {
		t.Error("optional fields should be empty when their fetch fails")
	}
	if view.Chapter.NameSimple != "Al-Fatihah" || view.Chapter.VersesCount != 7 {
		t.Errorf("metadata should fall back to the tafsir header, got %+v", view.Chapter)
	}
}

func TestChapterDetailInvalid(t *testing.T) {
	r, _ := newTestReader(t, &fakeContent{})
	for _, id := range []int{0, 115} {
		if _, err := r.ChapterDetail(context.Background(), id); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("ChapterDetail(%d) error = %v, want ErrInvalidInput", id, err)
		}
	}
}

func TestClipsAlignWithVerses(t *testing.T) {
	r, _ := newTestReader(t, &fakeContent{})

	clips, err := r.Clips(context.Background(), 1)
	if err != nil {
		t.Fatalf("Clips() error: %v", err)
	}
	want := []player.Clip{
		{VerseKey: "1:1", URL: "https://verses.quran.com/a/1.mp3"},
		{VerseKey: "1:2"},
		{VerseKey: "1:3", URL: "https://verses.quran.com/a/3.mp3"},
	}
	if diff := cmp.Diff(want, clips); diff != "" {
		t.Errorf("Clips() mismatch (-want +got):\n%s", diff)
	}
}

func TestJuzDetail(t *testing.T) {
	r, _ := newTestReader(t, &fakeContent{})
	if _, err := r.RefreshChapters(context.Background()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		n          int
		prev, next int
	}{
		{n: 1, prev: 0, next: 2},
		{n: 15, prev: 14, next: 16},
		{n: 30, prev: 29, next: 0},
	}
	for _, tt := range tests {
		view, err := r.JuzDetail(context.Background(), tt.n)
		if err != nil {
			t.Fatalf("JuzDetail(%d) error: %v", tt.n, err)
		}
		if view.Prev != tt.prev || view.Next != tt.next {
			t.Errorf("JuzDetail(%d) prev/next = %d/%d, want %d/%d", tt.n, view.Prev, view.Next, tt.prev, tt.next)
		}
		want := []JuzChapter{{Number: 1, Name: "Al-Fātiĥah", Verses: "1-7"}, {Number: 2, Name: "Al-Baqarah", Verses: "1-141"}}
		if diff := cmp.Diff(want, view.Chapters); diff != "" {
			t.Errorf("chapters (-want +got):\n%s", diff)
		}
	}

	if _, err := r.JuzDetail(context.Background(), 31); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("JuzDetail(31) error = %v", err)
	}
}

func TestPageMarksBookmarks(t *testing.T) {
	ctx := context.Background()
	r, store := newTestReader(t, &fakeContent{})
	store.Save(ctx, domain.Bookmark{ChapterNumber: 2, VerseNumber: 2})

	view, err := r.Page(ctx, 2)
	if err != nil {
		t.Fatalf("Page() error: %v", err)
	}
	if len(view.Verses) != 2 {
		t.Fatalf("Page() verses = %d, want 2", len(view.Verses))
	}
	if view.Verses[0].Bookmarked || !view.Verses[1].Bookmarked {
		t.Errorf("bookmark marks = %v, %v", view.Verses[0].Bookmarked, view.Verses[1].Bookmarked)
	}
	if view.Verses[1].Translation != "Kitab ini" {
		t.Errorf("Translation = %q", view.Verses[1].Translation)
	}
	if view.Prev != 1 || view.Next != 3 {
		t.Errorf("prev/next = %d/%d", view.Prev, view.Next)
	}

	for _, n := range []int{0, 605} {
		if _, err := r.Page(ctx, n); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Page(%d) error = %v", n, err)
		}
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("blank query lists every chapter", func(t *testing.T) {
		content := &fakeContent{}
		r, _ := newTestReader(t, content)

		view, err := r.Search(ctx, "   ")
		if err != nil {
			t.Fatal(err)
		}
		if len(view.Chapters) != len(testChapters) || len(view.Results) != 0 {
			t.Errorf("Search(blank) = %d chapters, %d results", len(view.Chapters), len(view.Results))
		}
		if content.searchCalls != 0 {
			t.Error("blank query must not hit the search endpoint")
		}
	})

	t.Run("results filter chapters", func(t *testing.T) {
		r, _ := newTestReader(t, &fakeContent{})

		view, err := r.Search(ctx, "allah")
		if err != nil {
			t.Fatal(err)
		}
		if len(view.Results) != 3 {
			t.Errorf("Results = %d, want 3", len(view.Results))
		}
		var ids []int
		for _, c := range view.Chapters {
			ids = append(ids, c.ID)
		}
		if diff := cmp.Diff([]int{2, 36}, ids); diff != "" {
			t.Errorf("chapter ids (-want +got):\n%s", diff)
		}
	})

	t.Run("failure degrades to every chapter", func(t *testing.T) {
		r, _ := newTestReader(t, &fakeContent{fail: map[string]error{"search": domain.ErrNetwork}})

		view, err := r.Search(ctx, "yasin")
		if err != nil {
			t.Fatalf("Search() must not fail, got %v", err)
		}
		if !view.Degraded || len(view.Results) != 0 || len(view.Chapters) != len(testChapters) {
			t.Errorf("Search() = %+v", view)
		}
		if len(view.NameMatches) == 0 || view.NameMatches[0].ID != 36 {
			t.Errorf("NameMatches = %+v, want Ya-Sin first", view.NameMatches)
		}
	})
}

func TestBookmarkFromVerse(t *testing.T) {
	tests := []struct {
		name        string
		chapterName string
		translation string
		want        domain.Bookmark
	}{
		{
			name:        "strips markup",
			chapterName: "Al-Baqarah",
			translation: "Allah, tidak ada Tuhan<sup foot_note=74>1</sup> selain <i>Dia</i>",
			want:        domain.Bookmark{ChapterNumber: 2, VerseNumber: 255, VerseKey: "2:255", ChapterName: "Al-Baqarah", ArabicText: "ٱللَّهُ", TranslationText: "Allah, tidak ada Tuhan selain Dia"},
		},
		{
			name:        "empty translation falls back",
			chapterName: "",
			translation: "",
			want:        domain.Bookmark{ChapterNumber: 2, VerseNumber: 255, VerseKey: "2:255", ChapterName: "2", ArabicText: "ٱللَّهُ", TranslationText: TranslationFallback},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BookmarkFromVerse(tt.chapterName, "2:255", "ٱللَّهُ", tt.translation)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BookmarkFromVerse() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := BookmarkFromVerse("x", "2-255", "", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("bad key error = %v", err)
	}
}

func TestResolveBookmark(t *testing.T) {
	r, _ := newTestReader(t, &fakeContent{})

	b, err := r.ResolveBookmark(context.Background(), "2:255")
	if err != nil {
		t.Fatalf("ResolveBookmark() error: %v", err)
	}
	if b.ChapterName != "Al-Baqarah" || b.TranslationText != "Allah" || b.VerseKey != "2:255" {
		t.Errorf("ResolveBookmark() = %+v", b)
	}
}

func TestWords(t *testing.T) {
	r, _ := newTestReader(t, &fakeContent{})

	view, err := r.Words(context.Background(), " 2:255 ")
	if err != nil {
		t.Fatal(err)
	}
	if view.VerseKey != "2:255" || len(view.Words) != 1 {
		t.Errorf("Words() = %+v", view)
	}
}
