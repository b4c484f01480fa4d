package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	turkishLower = cases.Lower(language.Turkish)
	dotlessI     = strings.NewReplacer("ı", "i")
)

// Slugify turns a display name into a URL segment.
// Lowercasing is Turkish-aware so "İstanbul" becomes "istanbul", and
// diacritics are folded so "Kadıköy" becomes "kadikoy".
func Slugify(name string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		dotlessI.Replace(turkishLower.String(name)),
	)
	if err != nil {
		folded = strings.ToLower(name)
	}

	var result strings.Builder
	dash := false
	for _, char := range folded {
		if (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9') {
			result.WriteRune(char)
			dash = false
			continue
		}
		if !dash && result.Len() > 0 {
			result.WriteByte('-')
			dash = true
		}
	}

	return strings.Trim(result.String(), "-")
}

// IsValidSlug checks lowercase alphanumeric words joined by single hyphens.
func IsValidSlug(slug string) bool {
	return len(slug) <= 200 && slugPattern.MatchString(slug)
}

// SlugOrDerive returns slug when set, otherwise the slug of name.
func SlugOrDerive(slug, name string) string {
	slug = strings.TrimSpace(slug)
	if slug != "" {
		return slug
	}
	return Slugify(name)
}
