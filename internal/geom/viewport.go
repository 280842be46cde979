package geom

import (
	"fmt"
	"math"
)

const (
	MinScale  = 0.4
	MaxScale  = 2.0
	ScaleStep = 0.1

	DefaultCanvasWidth  = 4000
	DefaultCanvasHeight = 4000
)

// Viewport is the zoom and scroll state of the surface. Stored element
// coordinates never depend on it.
type Viewport struct {
	Scale   float64
	ScrollX float64
	ScrollY float64

	// Origin is the screen position of the surface's top-left corner.
	Origin Point

	// ViewWidth/ViewHeight is the visible area in screen units. Zero means
	// unknown, in which case scrolling is only bounded below.
	ViewWidth  float64
	ViewHeight float64

	CanvasWidth  float64
	CanvasHeight float64
}

func NewViewport(canvasW, canvasH float64) *Viewport {
	if canvasW <= 0 {
		canvasW = DefaultCanvasWidth
	}
	if canvasH <= 0 {
		canvasH = DefaultCanvasHeight
	}
	return &Viewport{
		Scale:        1,
		CanvasWidth:  canvasW,
		CanvasHeight: canvasH,
	}
}

func (v *Viewport) ZoomIn() {
	v.setScale(v.Scale + ScaleStep)
}

func (v *Viewport) ZoomOut() {
	v.setScale(v.Scale - ScaleStep)
}

func (v *Viewport) setScale(s float64) {
	// round to one decimal so repeated steps land exactly on the bounds
	s = math.Round(s*10) / 10
	v.Scale = clamp(s, MinScale, MaxScale)
	v.ScrollTo(v.ScrollX, v.ScrollY)
}

// ToCanvas converts a screen point into canvas space.
func (v *Viewport) ToCanvas(p Point) Point {
	return p.Sub(v.Origin).Add(Point{v.ScrollX, v.ScrollY}).Scale(1 / v.Scale)
}

// ToScreen converts a canvas point into screen space.
func (v *Viewport) ToScreen(p Point) Point {
	return p.Scale(v.Scale).Sub(Point{v.ScrollX, v.ScrollY}).Add(v.Origin)
}

// ScreenRect is r's screen-space bounding box, ignoring rotation.
func (v *Viewport) ScreenRect(r Rect) Rect {
	tl := v.ToScreen(Point{r.X, r.Y})
	return Rect{X: tl.X, Y: tl.Y, Width: r.Width * v.Scale, Height: r.Height * v.Scale}
}

func (v *Viewport) Scroll() Point {
	return Point{v.ScrollX, v.ScrollY}
}

// ScrollTo moves the outer viewport, saturating at the scrollable range.
func (v *Viewport) ScrollTo(x, y float64) {
	v.ScrollX = clamp(x, 0, v.maxScroll(v.CanvasWidth, v.ViewWidth))
	v.ScrollY = clamp(y, 0, v.maxScroll(v.CanvasHeight, v.ViewHeight))
}

func (v *Viewport) maxScroll(canvas, view float64) float64 {
	if view <= 0 {
		return math.Inf(1)
	}
	return math.Max(0, canvas*v.Scale-view)
}

// Transform is the single surface transform for the current scale.
func (v *Viewport) Transform() string {
	return fmt.Sprintf("scale(%g)", v.Scale)
}
