package catalog

import (
	"regexp"
	"strings"
)

var (
	slugRegex   = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	apostrophes = strings.NewReplacer("'", "", "’", "")
)

// Slug derives the routing identifier of a display name:
// lowercase words joined by single hyphens ("Heavy Shuttle" -> "heavy-shuttle").
func Slug(s string) string {
	s = strings.ToLower(apostrophes.Replace(s))
	s = slugRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
