package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MinChapter = 1
	MaxChapter = 114

	MinJuz = 1
	MaxJuz = 30

	MinPage = 1
	MaxPage = 604

	// MaxVerse is the verse count of the longest chapter (Al-Baqarah).
	MaxVerse = 286
)

// FormatVerseKey renders the "chapter:verse" identity of a verse.
func FormatVerseKey(chapter, verse int) string {
	return strconv.Itoa(chapter) + ":" + strconv.Itoa(verse)
}

// ParseVerseKey splits "2:255" into its chapter and verse numbers.
func ParseVerseKey(key string) (int, int, error) {
	chPart, vPart, ok := strings.Cut(strings.TrimSpace(key), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: verse key %q must be chapter:verse", ErrInvalidInput, key)
	}

	chapter, err := strconv.Atoi(chPart)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: verse key %q has a non-numeric chapter", ErrInvalidInput, key)
	}
	verse, err := strconv.Atoi(vPart)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: verse key %q has a non-numeric verse", ErrInvalidInput, key)
	}

	if err := ValidateChapter(chapter); err != nil {
		return 0, 0, err
	}
	if err := ValidateVerse(verse); err != nil {
		return 0, 0, err
	}
	return chapter, verse, nil
}

// ValidateChapter checks 1..114.
func ValidateChapter(n int) error {
	return validateRange("chapter", n, MinChapter, MaxChapter)
}

// ValidateJuz checks 1..30.
func ValidateJuz(n int) error {
	return validateRange("juz", n, MinJuz, MaxJuz)
}

// ValidatePage checks 1..604.
func ValidatePage(n int) error {
	return validateRange("page", n, MinPage, MaxPage)
}

// ValidateVerse checks 1..286. The per-chapter upper bound is left to the API.
func ValidateVerse(n int) error {
	return validateRange("verse", n, 1, MaxVerse)
}

func validateRange(what string, n, lo, hi int) error {
	if n < lo || n > hi {
		return fmt.Errorf("%w: %s number must be between %d and %d, got %d", ErrInvalidInput, what, lo, hi, n)
	}
	return nil
}

// ParseNumber parses a path segment such as a chapter id.
func ParseNumber(what, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalidInput, what, raw)
	}
	return n, nil
}
