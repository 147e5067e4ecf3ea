package product

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

const fallbackSlug = "item"

var (
	slugTransliterator = strings.NewReplacer("æ", "ae", "ø", "o", "å", "aa")
	slugSeparators     = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify lowercases name, transliterates æ/ø/å and joins the remaining
// alphanumeric runs with dashes.
func Slugify(name string) string {
	slug := strings.TrimSpace(strings.ToLower(name))
	slug = slugTransliterator.Replace(slug)
	slug = slugSeparators.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

type slugChecker interface {
	SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error)
}

// GenerateUniqueSlug returns Slugify(name), suffixed -2, -3, ... until no row
// other than excludeID holds it.
func GenerateUniqueSlug(ctx context.Context, repo slugChecker, name string, excludeID uint) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = fallbackSlug
	}
	candidate := base
	for counter := 2; ; counter++ {
		taken, err := repo.SlugTaken(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}
