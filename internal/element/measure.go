package element

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Text layout metrics in canvas units, one monospace cell per column.
const (
	CharWidth   = 10
	LineHeight  = 20
	TextPadding = 8
)

// MeasureText returns the laid-out size of a text block. An empty block
// still occupies one cell.
func MeasureText(text string) (float64, float64) {
	lines := strings.Split(text, "\n")
	cols := 1
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > cols {
			cols = w
		}
	}
	return float64(cols*CharWidth + TextPadding), float64(len(lines)*LineHeight + TextPadding)
}

func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}
