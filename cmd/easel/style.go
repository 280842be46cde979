package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"easel/internal/element"
	"easel/internal/export"
)

var (
	toolbarStyle    = lipgloss.NewStyle().Bold(true)
	activeToolStyle = lipgloss.NewStyle().Reverse(true).Bold(true)
	toolStyle       = lipgloss.NewStyle()
	statusStyle     = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))
	successStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
)

// palette is what "c" and "C" cycle through: eight evenly spaced hues.
var palette = func() []string {
	out := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		out = append(out, colorful.Hcl(float64(i)*45, 0.6, 0.55).Clamped().Hex())
	}
	return out
}()

// nextColor returns the palette entry after cur, or the first one when cur
// is not in the palette.
func nextColor(cur string) string {
	for i, c := range palette {
		if strings.EqualFold(c, cur) {
			return palette[(i+1)%len(palette)]
		}
	}
	return palette[0]
}

// inkFor is the terminal color an element is drawn with: the fill for
// rectangles and the text color for text, with the export fallbacks.
func inkFor(el element.Element) lipgloss.Color {
	if el.Kind == element.Text {
		return lipgloss.Color(hexOr(el.Color, export.TextColor))
	}
	return lipgloss.Color(hexOr(el.Background, export.RectangleBackground))
}

func hexOr(s, fallback string) string {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return c.Hex()
}

func elementStyle(el element.Element) lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(inkFor(el))
	if el.Kind == element.Text {
		if el.Background != "" {
			st = st.Background(lipgloss.Color(hexOr(el.Background, "#ffffff")))
		}
		st = st.Bold(el.FontWeight == element.WeightBold).
			Italic(el.FontStyle == element.StyleItalic).
			Underline(el.TextDecoration == element.DecorationUnderline)
	}
	return st
}
