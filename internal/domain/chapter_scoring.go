package domain

import (
	"sort"
	"strings"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier is better)
	ScorePositionBonus = 10.0

	// MinChapterScore filters out weak fuzzy hits from name search.
	MinChapterScore = 20.0
)

// ChapterCandidate is a chapter matched by name with its score.
type ChapterCandidate struct {
	Chapter Chapter
	Score   float64
}

// ScoreChapter scores a query against every name form of a chapter and keeps the best.
func ScoreChapter(query string, chapter Chapter) float64 {
	query = normalizeName(query)
	if query == "" {
		return 0.0
	}

	best := 0.0
	for _, name := range []string{chapter.NameSimple, chapter.NameComplex, chapter.TranslatedName} {
		if s := scoreName(query, normalizeName(name)); s > best {
			best = s
		}
	}
	return best
}

func scoreName(query, name string) float64 {
	if name == "" {
		return 0.0
	}

	// Exact match
	if query == name {
		return ScoreExactMatch
	}

	// Prefix match, also against the name without its article ("al", "an", ...)
	if strings.HasPrefix(name, query) || strings.HasPrefix(stripArticle(name), query) {
		return ScorePrefixMatch
	}

	// Substring match
	if idx := strings.Index(name, query); idx >= 0 {
		// Earlier substring matches get higher score
		substringBonus := ScorePositionBonus * (1.0 - float64(idx)/float64(len(name)))
		return ScoreSubstringMatch + substringBonus
	}

	// Character similarity, only for queries long enough to be meaningful
	if len(query) >= 3 {
		if similarity := calculateSimilarity(query, name); similarity > 0.8 {
			return ScoreFuzzyMatch * similarity
		}
	}

	return 0.0
}

// RankChapters returns chapters matching query by name, best first.
// Ties keep chapter order.
func RankChapters(query string, chapters []Chapter) []ChapterCandidate {
	candidates := make([]ChapterCandidate, 0)
	for _, ch := range chapters {
		score := ScoreChapter(query, ch)
		if score < MinChapterScore {
			continue
		}
		candidates = append(candidates, ChapterCandidate{Chapter: ch, Score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// calculateSimilarity is the ratio of query characters present in s2.
func calculateSimilarity(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0.0
	}

	matches := 0
	for _, c := range s1 {
		if strings.ContainsRune(s2, c) {
			matches++
		}
	}

	return float64(matches) / float64(len(s1))
}

// normalizeName lowercases and drops separators so "Al-Baqarah" == "albaqarah".
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '-', ' ', '\'', '’', '`':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func stripArticle(name string) string {
	for _, article := range []string{"ash", "al", "an", "ar", "as", "at", "ad", "az"} {
		if rest, ok := strings.CutPrefix(name, article); ok && len(rest) > 2 {
			return rest
		}
	}
	return name
}
