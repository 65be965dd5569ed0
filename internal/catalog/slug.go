package catalog

import (
	"regexp"
	"strings"

	pkgerrors "github.com/nuthub-il/nuthub-backend/pkg/errors"
)

var (
	slugStripRe    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaceRe    = regexp.MustCompile(`\s+`)
	slugCollapseRe = regexp.MustCompile(`-+`)
)

// GenerateSlug derives a URL slug from a display name: lowercase, ASCII
// letters/digits/hyphens only, spaces collapsed to single hyphens.
// Names with no sluggable characters (all-Hebrew names, for example)
// produce an empty slug and are rejected rather than silently stored.
func GenerateSlug(name string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugSpaceRe.ReplaceAllString(slug, "-")
	slug = slugCollapseRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "name produces an empty slug; provide a slug explicitly").
			WithDetails(map[string]string{"name": name})
	}
	return slug, nil
}
