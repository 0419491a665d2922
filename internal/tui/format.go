package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/meur/skyatlas/internal/catalog"
)

const maxCellWidth = 28

// FormatCell renders one typed cell of a catalog row for the terminal
func FormatCell(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return FormatNumber(v)
	case []string:
		return strings.Join(v, ", ")
	case catalog.CrewBunks:
		if v.Crew == 0 {
			return ""
		}
		return FormatNumber(v.Crew) + " / " + FormatNumber(v.Bunks)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// FormatNumber groups thousands and keeps at most two decimals
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return humanize.Comma(int64(v))
	}
	return humanize.CommafWithDigits(v, 2)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
