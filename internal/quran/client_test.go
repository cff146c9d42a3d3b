package quran

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/MrSnakeDoc/myquran/internal/domain"
	"github.com/MrSnakeDoc/myquran/internal/logger"
	"github.com/MrSnakeDoc/myquran/internal/retry"
)

func newTestClient(t *testing.T, h http.Handler, mutate func(*Options)) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts := Options{
		QuranBaseURL:  srv.URL + "/api/v4",
		EquranBaseURL: srv.URL + "/api/v2",
		AudioBaseURL:  "https://verses.quran.com/",
		Retry:         retry.Policy{InitialWait: time.Millisecond, MaxWait: 2 * time.Millisecond, MaxAttempts: 3},
	}
	if mutate != nil {
		mutate(&opts)
	}
	return New(opts, logger.Nop()), srv
}

func TestChapters(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v4/chapters" {
			http.NotFound(w, r)
			return
		}
		if ua := r.Header.Get("User-Agent"); ua != DefaultUserAgent {
			t.Errorf("User-Agent = %q", ua)
		}
		fmt.Fprint(w, `{"chapters":[{"id":1,"revelation_place":"makkah","name_simple":"Al-Fatihah","name_complex":"Al-Fātiĥah","name_arabic":"الفاتحة","verses_count":7,"translated_name":{"name":"Pembukaan"}}]}`)
	})
	c, _ := newTestClient(t, h, nil)

	got, err := c.Chapters(context.Background())
	if err != nil {
		t.Fatalf("Chapters() error: %v", err)
	}
	want := []domain.Chapter{{
		ID:              1,
		NameSimple:      "Al-Fatihah",
		NameComplex:     "Al-Fātiĥah",
		NameArabic:      "الفاتحة",
		TranslatedName:  "Pembukaan",
		RevelationPlace: "makkah",
		VersesCount:     7,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Chapters() mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantErr   error
		wantCalls int32
	}{
		{name: "not found is not retried", status: http.StatusNotFound, wantErr: domain.ErrNotFound, wantCalls: 1},
		{name: "bad request is not retried", status: http.StatusBadRequest, wantErr: domain.ErrNetwork, wantCalls: 1},
		{name: "server error is retried", status: http.StatusBadGateway, wantErr: domain.ErrNetwork, wantCalls: 3},
		{name: "throttled is retried", status: http.StatusTooManyRequests, wantErr: domain.ErrNetwork, wantCalls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			})
			c, _ := newTestClient(t, h, nil)

			_, err := c.Chapter(context.Background(), 2)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Chapter() error = %v, want %v", err, tt.wantErr)
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("upstream calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestTransientFailureRecovers(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"verses":[{"id":1,"verse_key":"1:1","text_uthmani":"بِسْمِ"}]}`)
	})
	c, _ := newTestClient(t, h, nil)

	verses, err := c.UthmaniByChapter(context.Background(), 1)
	if err != nil {
		t.Fatalf("UthmaniByChapter() error: %v", err)
	}
	if len(verses) != 1 || verses[0].VerseKey != "1:1" {
		t.Errorf("verses = %+v", verses)
	}
}

func TestInvalidInputSkipsUpstream(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected upstream call %s", r.URL)
	})
	c, _ := newTestClient(t, h, nil)
	ctx := context.Background()

	if _, err := c.Chapter(ctx, 115); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Chapter(115) error = %v", err)
	}
	if _, err := c.Juz(ctx, 31); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Juz(31) error = %v", err)
	}
	if _, err := c.VersesByPage(ctx, 605, 33); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("VersesByPage(605) error = %v", err)
	}
	if _, err := c.VerseWords(ctx, "oops"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("VerseWords(oops) error = %v", err)
	}
}

func TestResponseCache(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"translations":[{"resource_id":33,"text":"Dengan nama Allah<sup foot_note=1>1</sup>"}]}`)
	})
	c, _ := newTestClient(t, h, func(o *Options) { o.CacheTTL = time.Minute })
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.TranslationByChapter(ctx, 33, 1); err != nil {
			t.Fatalf("TranslationByChapter() error: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("upstream calls = %d, want 1 with cache", calls.Load())
	}
	if c.CachedResponses() != 1 {
		t.Errorf("CachedResponses() = %d, want 1", c.CachedResponses())
	}

	c.FlushCache()
	if _, err := c.TranslationByChapter(ctx, 33, 1); err != nil {
		t.Fatalf("TranslationByChapter() error: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("upstream calls after flush = %d, want 2", calls.Load())
	}
}

func TestJuzsFilteredAndSorted(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"juzs":[
			{"id":3,"juz_number":2,"verse_mapping":{"2":"142-252"},"verses_count":111},
			{"id":1,"juz_number":1,"verse_mapping":{"1":"1-7","2":"1-141"},"verses_count":148},
			{"id":31,"juz_number":1,"verse_mapping":{"1":"1-7","2":"1-141"},"verses_count":148},
			{"id":99,"juz_number":99,"verse_mapping":{},"verses_count":0}
		]}`)
	})
	c, _ := newTestClient(t, h, nil)

	juzs, err := c.Juzs(context.Background())
	if err != nil {
		t.Fatalf("Juzs() error: %v", err)
	}

	var numbers []int
	for _, j := range juzs {
		numbers = append(numbers, j.Number)
	}
	if diff := cmp.Diff([]int{1, 2}, numbers); diff != "" {
		t.Errorf("juz numbers (-want +got):\n%s", diff)
	}
	if juzs[0].FirstVerse != "1:1" || juzs[0].LastVerse != "2:141" {
		t.Errorf("juz 1 bounds = %s..%s, want 1:1..2:141", juzs[0].FirstVerse, juzs[0].LastVerse)
	}
}

func TestVerseRecitationsFollowsPages(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/v4/recitations/7/by_chapter/1") {
			http.NotFound(w, r)
			return
		}
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `{"audio_files":[{"verse_key":"1:1","url":"Alafasy/mp3/001001.mp3"}],"pagination":{"current_page":1,"next_page":2,"total_pages":2}}`)
		default:
			fmt.Fprint(w, `{"audio_files":[{"verse_key":"1:2","url":"//mirrors.quranicaudio.com/001002.mp3"}],"pagination":{"current_page":2,"next_page":null,"total_pages":2}}`)
		}
	})
	c, _ := newTestClient(t, h, nil)

	files, err := c.VerseRecitations(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("VerseRecitations() error: %v", err)
	}
	want := []AudioFile{
		{VerseKey: "1:1", URL: "https://verses.quran.com/Alafasy/mp3/001001.mp3"},
		{VerseKey: "1:2", URL: "https://mirrors.quranicaudio.com/001002.mp3"},
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("VerseRecitations() mismatch (-want +got):\n%s", diff)
	}
}

func TestVerseWordsDropsEndMarker(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v4/verses/by_key/2:255" || r.URL.Query().Get("words") != "true" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"verse":{"words":[
			{"position":1,"text_uthmani":"ٱللَّهُ","char_type_name":"word","transliteration":{"text":"al-lahu"},"translation":{"text":"Allah"}},
			{"position":2,"text_uthmani":"٢٥٥","char_type_name":"end","transliteration":{"text":null},"translation":{"text":"(255)"}}
		]}}`)
	})
	c, _ := newTestClient(t, h, nil)

	words, err := c.VerseWords(context.Background(), "2:255")
	if err != nil {
		t.Fatalf("VerseWords() error: %v", err)
	}
	want := []Word{{Position: 1, Text: "ٱللَّهُ", CharType: "word", Transliteration: "al-lahu", Translation: "Allah"}}
	if diff := cmp.Diff(want, words); diff != "" {
		t.Errorf("VerseWords() mismatch (-want +got):\n%s", diff)
	}
}

func TestTafsirFromEquran(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/tafsir/112" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"code":200,"data":{"nomor":112,"namaLatin":"Al-Ikhlas","jumlahAyat":4,"tempatTurun":"Mekah","arti":"Ikhlas","deskripsi":"<i>Surat</i> pendek","tafsir":[{"ayat":1,"teks":"Katakanlah"}]}}`)
	})
	c, _ := newTestClient(t, h, nil)

	tafsir, err := c.Tafsir(context.Background(), 112)
	if err != nil {
		t.Fatalf("Tafsir() error: %v", err)
	}
	if tafsir.LatinName != "Al-Ikhlas" || tafsir.VersesCount != 4 {
		t.Errorf("Tafsir() = %+v", tafsir)
	}
	if got := tafsir.ByVerse()[1]; got != "Katakanlah" {
		t.Errorf("ByVerse()[1] = %q", got)
	}
}

func TestBodyLimit(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chapters":[`+strings.Repeat(" ", 256)+`]}`)
	})
	c, _ := newTestClient(t, h, func(o *Options) { o.MaxBodyBytes = 64 })

	if _, err := c.Chapters(context.Background()); !errors.Is(err, domain.ErrNetwork) {
		t.Errorf("Chapters() error = %v, want ErrNetwork for oversized body", err)
	}
}

func TestMalformedBody(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>maintenance</html>`)
	})
	c, _ := newTestClient(t, h, func(o *Options) { o.CacheTTL = time.Minute })

	if _, err := c.Chapters(context.Background()); !errors.Is(err, domain.ErrNetwork) {
		t.Errorf("Chapters() error = %v, want ErrNetwork", err)
	}
	if c.CachedResponses() != 0 {
		t.Error("undecodable bodies must not be cached")
	}
}

func TestAudioURL(t *testing.T) {
	c := New(Options{}, logger.Nop())

	tests := map[string]string{
		"":                                   "",
		"Alafasy/mp3/001001.mp3":             "https://verses.quran.com/Alafasy/mp3/001001.mp3",
		"/Alafasy/mp3/001001.mp3":            "https://verses.quran.com/Alafasy/mp3/001001.mp3",
		"//mirrors.quranicaudio.com/a.mp3":   "https://mirrors.quranicaudio.com/a.mp3",
		"https://download.quranicaudio.com/": "https://download.quranicaudio.com/",
	}
	for in, want := range tests {
		if got := c.AudioURL(in); got != want {
			t.Errorf("AudioURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMappingBounds(t *testing.T) {
	first, last := mappingBounds(map[string]string{"2": "253-286", "3": "1-92"})
	if first != "2:253" || last != "3:92" {
		t.Errorf("mappingBounds() = %s, %s", first, last)
	}
	if first, last := mappingBounds(nil); first != "" || last != "" {
		t.Errorf("mappingBounds(nil) = %q, %q", first, last)
	}
}
