package task

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugLength = 50
	minIDWidth    = 3
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// foldMarks strips combining marks after decomposition, so "Café" slugs as "cafe".
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// GenerateSlug converts a task name to the filename-safe part of its file name.
// The slug is cut at a word boundary when it exceeds the maximum length.
func GenerateSlug(name string) string {
	folded, _, err := transform.String(foldMarks, name)
	if err != nil {
		folded = name
	}
	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(folded), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "task"
	}
	if len(slug) <= maxSlugLength {
		return slug
	}

	cut := slug[:maxSlugLength]
	if slug[maxSlugLength] != '-' {
		if idx := strings.LastIndexByte(cut, '-'); idx > 0 {
			cut = cut[:idx]
		}
	}
	return strings.TrimRight(cut, "-")
}

// GenerateFilename returns "<zero-padded id>-<slug>.md".
func GenerateFilename(id int, slug string) string {
	return fmt.Sprintf("%0*d-%s.md", minIDWidth, id, slug)
}
