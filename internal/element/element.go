// Package element defines the persisted element record.
package element

import (
	"strings"

	"easel/internal/geom"
)

type Kind string

const (
	Rectangle Kind = "rectangle"
	Text      Kind = "text"
)

func (k Kind) Valid() bool {
	return k == Rectangle || k == Text
}

const (
	MinWidth  = 100
	MinHeight = 80

	// Text elements are sized by their content; resizing keeps at least
	// one line.
	MinTextWidth  = CharWidth
	MinTextHeight = LineHeight

	DefaultWidth  = 400
	DefaultHeight = 250
)

// Font weights, styles and decorations accepted on Style.
const (
	WeightNormal = "normal"
	WeightBold   = "bold"

	StyleNormal = "normal"
	StyleItalic = "italic"

	DecorationNone      = "none"
	DecorationUnderline = "underline"
)

type Style struct {
	Background     string `json:"bg,omitempty"`
	Color          string `json:"color,omitempty"`
	FontWeight     string `json:"fontWeight,omitempty"`
	FontStyle      string `json:"fontStyle,omitempty"`
	TextDecoration string `json:"textDecoration,omitempty"`
}

// Element is one record of the store. ZIndex is derived from the record's
// position in the store and is never persisted.
type Element struct {
	ID       string  `json:"id"`
	Kind     Kind    `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	Style
	Text string `json:"text,omitempty"`

	ZIndex int `json:"-"`
}

func (e Element) Rect() geom.Rect {
	return geom.Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

func (e *Element) SetRect(r geom.Rect) {
	e.X, e.Y, e.Width, e.Height = r.X, r.Y, r.Width, r.Height
}

// MinSize is the smallest size a resize may produce for the element's kind.
func (e Element) MinSize() (float64, float64) {
	if e.Kind == Text {
		return MinTextWidth, MinTextHeight
	}
	return MinWidth, MinHeight
}

// Empty reports whether a text element has nothing but whitespace.
func (e Element) Empty() bool {
	return strings.TrimSpace(e.Text) == ""
}

// Label is a short human name used by the layer list.
func (e Element) Label() string {
	if e.Kind == Text {
		line, _, _ := strings.Cut(e.Text, "\n")
		if line = strings.TrimSpace(line); line != "" {
			return truncate(line, 24)
		}
		return "Text"
	}
	return "Rectangle"
}

// Normalize fills the lenient defaults for records read from storage.
func (e *Element) Normalize() {
	if e.Kind == "" {
		e.Kind = Rectangle
	}
	if e.Kind == Text && (e.Width <= 0 || e.Height <= 0) {
		e.Width, e.Height = MeasureText(e.Text)
	}
	if e.Kind != Text {
		e.Text = ""
	}
}
