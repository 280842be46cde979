// Package geom holds the canvas coordinate types and the viewport that maps
// between screen space and canvas space.
package geom

import "math"

type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// ContainsRotated reports whether p lies inside r after r has been rotated
// by deg degrees around its center.
func (r Rect) ContainsRotated(p Point, deg float64) bool {
	if deg == 0 {
		return r.Contains(p)
	}
	c := r.Center()
	rad := -deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	d := p.Sub(c)
	local := Point{d.X*cos - d.Y*sin, d.X*sin + d.Y*cos}.Add(c)
	return r.Contains(local)
}

// Bounds is the axis-aligned box around r rotated by deg degrees about its
// center.
func (r Rect) Bounds(deg float64) Rect {
	if deg == 0 {
		return r
	}
	sin, cos := math.Sincos(deg * math.Pi / 180)
	w := math.Abs(r.Width*cos) + math.Abs(r.Height*sin)
	h := math.Abs(r.Width*sin) + math.Abs(r.Height*cos)
	c := r.Center()
	return Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
}

// ClampPosition keeps r inside [0, canvasW-width] x [0, canvasH-height].
// Size is left alone.
func ClampPosition(r Rect, canvasW, canvasH float64) Rect {
	r.X = clamp(r.X, 0, canvasW-r.Width)
	r.Y = clamp(r.Y, 0, canvasH-r.Height)
	return r
}

// AngleDeg returns the angle of p around c in degrees.
func AngleDeg(c, p Point) float64 {
	return math.Atan2(p.Y-c.Y, p.X-c.X) * 180 / math.Pi
}

// clamp saturates v into [lo, hi]; when hi < lo the lower bound wins.
func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
