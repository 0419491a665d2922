package catalog

import (
	"net/url"
	"strings"

	"github.com/meur/skyatlas/internal/models"
)

// DefaultSpriteBaseURL points at the game's image directory
const DefaultSpriteBaseURL = "https://raw.githubusercontent.com/endless-sky/endless-sky/master/images/"

// ImageURL returns the sprite of a ship below base.
// Animated sprites are addressed by their first frame.
func ImageURL(base string, s models.Ship) string {
	if base == "" {
		base = DefaultSpriteBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	var filename string
	switch {
	case s.Name == "Shuttle":
		// the shuttle sprite does not follow the naming scheme
		filename = "ship/shuttle=0.png"
	case s.Sprite.Animated:
		filename = escapePath(s.Sprite.Path) + "-0.png"
	default:
		filename = escapePath(s.Sprite.Path) + ".png"
	}
	return base + filename
}

func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
