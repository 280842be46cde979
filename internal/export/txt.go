package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"easel/internal/element"
	"easel/internal/geom"
	"easel/internal/scene"
)

// TXT draws the whole canvas from its origin to the furthest element as
// character cells, one CharWidth x LineHeight cell per character.
func TXT(w io.Writer, elems []element.Element) error {
	if len(elems) == 0 {
		return ErrEmpty
	}
	m := scene.NewMemory()
	proj := scene.NewProjector(m)
	var right, bottom float64
	for i, el := range elems {
		el.ZIndex = i + 1
		proj.Project(el, scene.Flags{})
		right = math.Max(right, el.X+el.Width)
		bottom = math.Max(bottom, el.Y+el.Height)
	}
	cols := int(math.Ceil(right / element.CharWidth))
	rows := int(math.Ceil(bottom / element.LineHeight))

	v := geom.NewViewport(0, 0)
	grid := scene.Raster(m, v, cols, rows, element.CharWidth, element.LineHeight)

	bw := bufio.NewWriter(w)
	for _, line := range grid.Lines() {
		fmt.Fprintln(bw, strings.TrimRight(line, " "))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write txt: %w", err)
	}
	return nil
}
