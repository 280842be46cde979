package scene

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"easel/internal/element"
	"easel/internal/geom"
)

// Grid is a character-cell rendering of a scene. Owner holds the id of the
// node painted last in each cell, or "".
type Grid struct {
	Cells [][]rune
	Owner [][]string
}

func newGrid(cols, rows int) *Grid {
	g := &Grid{Cells: make([][]rune, rows), Owner: make([][]string, rows)}
	for y := range g.Cells {
		g.Cells[y] = []rune(strings.Repeat(" ", cols))
		g.Owner[y] = make([]string, cols)
	}
	return g
}

func (g *Grid) set(x, y int, r rune, owner string) {
	if y < 0 || y >= len(g.Cells) || x < 0 || x >= len(g.Cells[y]) {
		return
	}
	g.Cells[y][x] = r
	g.Owner[y][x] = owner
}

// Lines returns the grid rows as strings.
func (g *Grid) Lines() []string {
	out := make([]string, len(g.Cells))
	for i, row := range g.Cells {
		out[i] = string(row)
	}
	return out
}

// Raster paints the scene bottom to top into a cols x rows grid whose cells
// are cellW x cellH screen units, as seen through v. Rotation is not drawn.
func Raster(m *Memory, v *geom.Viewport, cols, rows int, cellW, cellH float64) *Grid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	g := newGrid(cols, rows)
	for _, n := range m.Painted() {
		sr := v.ScreenRect(geom.Rect{X: n.Left, Y: n.Top, Width: n.Width, Height: n.Height})
		// clip to one cell past each grid edge so off-grid borders stay hidden
		x0, x1 := cellRange(sr.X, sr.Right(), cellW, -1, float64(cols))
		y0, y1 := cellRange(sr.Y, sr.Bottom(), cellH, -1, float64(rows))
		if n.Kind == element.Text {
			tx0, tx1 := cellRange(sr.X, sr.Right(), cellW, -farCell, farCell)
			ty0, _ := cellRange(sr.Y, sr.Bottom(), cellH, -farCell, farCell)
			drawText(g, n, x0, y0, x1, y1, tx0, ty0, tx1-tx0+1)
			continue
		}
		drawBox(g, n, x0, y0, x1, y1)
	}
	return g
}

// farCell bounds text origins so huge coordinates stay representable.
const farCell = 1 << 30

// cellRange maps the screen span [lo, hi) to an inclusive cell range
// saturated into [minCell, maxCell]. The range is at least one cell.
func cellRange(lo, hi, size, minCell, maxCell float64) (int, int) {
	a := clampCell(math.Floor(lo/size), minCell, maxCell)
	b := clampCell(math.Ceil(hi/size)-1, minCell, maxCell)
	if b < a {
		b = a
	}
	return int(a), int(b)
}

func clampCell(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func drawBox(g *Grid, n Node, x0, y0, x1, y1 int) {
	corner, horizontal, vertical := '+', '-', '|'
	if n.Selected {
		corner, horizontal, vertical = '#', '#', '#'
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			switch {
			case (y == y0 || y == y1) && (x == x0 || x == x1):
				g.set(x, y, corner, n.ID)
			case y == y0 || y == y1:
				g.set(x, y, horizontal, n.ID)
			case x == x0 || x == x1:
				g.set(x, y, vertical, n.ID)
			default:
				g.set(x, y, ' ', n.ID)
			}
		}
	}
	if n.Selected && n.Resizable {
		g.set(x0, y0, 'o', n.ID)
		g.set(x1, y0, 'o', n.ID)
		g.set(x0, y1, 'o', n.ID)
		g.set(x1, y1, 'o', n.ID)
	}
}

// drawText blanks the clipped cells, then lays the text out from its
// unclipped origin (tx0, ty0) truncated to width columns.
func drawText(g *Grid, n Node, x0, y0, x1, y1, tx0, ty0, width int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			g.set(x, y, ' ', n.ID)
		}
	}
	for i, line := range strings.Split(n.Text, "\n") {
		y := ty0 + i
		if y > y1 {
			break
		}
		if y < 0 {
			continue
		}
		x := tx0
		for _, r := range runewidth.Truncate(line, width, "") {
			if x > x1 {
				break
			}
			g.set(x, y, r, n.ID)
			x += runewidth.RuneWidth(r)
		}
	}
	if n.Focused && n.Text == "" {
		g.set(tx0, ty0, '_', n.ID)
	}
}
