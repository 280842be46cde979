package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"easel/internal/element"
	"easel/internal/geom"
)

func noFlags(string) Flags { return Flags{} }

func TestProjectCreatesAndUpdates(t *testing.T) {
	m := NewMemory()
	p := NewProjector(m)

	e := element.Element{ID: "el-1", Kind: element.Rectangle, X: 10, Y: 20, Width: 100, Height: 80, ZIndex: 1,
		Style: element.Style{Background: "#abcdef"}}
	p.Project(e, Flags{Selected: true})

	n, ok := m.Node("el-1")
	require.True(t, ok)
	assert.Equal(t, 10.0, n.Left)
	assert.Equal(t, "#abcdef", n.Background)
	assert.True(t, n.Selected)

	e.X = 50
	p.Project(e, Flags{})
	n, _ = m.Node("el-1")
	assert.Equal(t, 50.0, n.Left)
	assert.False(t, n.Selected)
	assert.Equal(t, 1, m.Len())
}

func TestSyncKeepsOneNodePerRecord(t *testing.T) {
	m := NewMemory()
	p := NewProjector(m)
	m.CreateNode("orphan", element.Rectangle)

	elems := []element.Element{
		{ID: "el-1", Kind: element.Rectangle, ZIndex: 1},
		{ID: "el-2", Kind: element.Text, ZIndex: 2},
	}
	p.Sync(elems, noFlags)
	assert.Equal(t, []string{"el-1", "el-2"}, m.NodeIDs())

	p.Sync(elems[:1], noFlags)
	assert.Equal(t, []string{"el-1"}, m.NodeIDs())
}

func TestRebuildDropsEverything(t *testing.T) {
	m := NewMemory()
	p := NewProjector(m)
	p.Project(element.Element{ID: "el-9", Kind: element.Rectangle}, Flags{})

	p.Rebuild([]element.Element{{ID: "el-1", Kind: element.Text, Text: "x", ZIndex: 1}}, noFlags)
	assert.Equal(t, []string{"el-1"}, m.NodeIDs())
}

func TestPaintedOrder(t *testing.T) {
	m := NewMemory()
	p := NewProjector(m)
	p.Project(element.Element{ID: "el-1", Kind: element.Rectangle, ZIndex: 2}, Flags{})
	p.Project(element.Element{ID: "el-2", Kind: element.Rectangle, ZIndex: 1}, Flags{})

	painted := m.Painted()
	require.Len(t, painted, 2)
	assert.Equal(t, "el-2", painted[0].ID)
	assert.Equal(t, "el-1", painted[1].ID)
}

func TestRaster(t *testing.T) {
	m := NewMemory()
	p := NewProjector(m)
	v := geom.NewViewport(0, 0)
	p.Project(element.Element{ID: "el-1", Kind: element.Rectangle, X: 0, Y: 0, Width: 50, Height: 60, ZIndex: 1}, Flags{})
	p.Project(element.Element{ID: "el-2", Kind: element.Text, X: 100, Y: 0, Width: 30, Height: 20, Text: "hey", ZIndex: 2}, Flags{})

	g := Raster(m, v, 15, 4, 10, 20)
	lines := g.Lines()
	require.Len(t, lines, 4)
	assert.Equal(t, "+---+     hey  ", lines[0])
	assert.Equal(t, "|   |          ", lines[1])
	assert.Equal(t, "+---+          ", lines[2])
	assert.Equal(t, "el-1", g.Owner[1][2])
	assert.Equal(t, "", g.Owner[3][0])
}

func TestRasterSelectedUsesHashBorder(t *testing.T) {
	m := NewMemory()
	p := NewProjector(m)
	p.Project(element.Element{ID: "el-1", Kind: element.Rectangle, Width: 30, Height: 40, ZIndex: 1},
		Flags{Selected: true, Resizable: true})

	lines := Raster(m, geom.NewViewport(0, 0), 4, 2, 10, 20).Lines()
	assert.Equal(t, "o#o ", lines[0])
	assert.Equal(t, "o#o ", lines[1])
}

func TestRasterClipsHugeElements(t *testing.T) {
	m := NewMemory()
	p := NewProjector(m)
	p.Project(element.Element{ID: "el-1", Kind: element.Rectangle, X: -1e9, Y: 0, Width: 2e9, Height: 1e5, ZIndex: 1}, Flags{})
	p.Project(element.Element{ID: "el-2", Kind: element.Text, X: -25, Y: 20, Width: 1e9, Height: 20, Text: "abcdef", ZIndex: 2}, Flags{})

	lines := Raster(m, geom.NewViewport(0, 0), 6, 3, 10, 20).Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "------", lines[0])
	// text keeps its true origin three cells left of the grid
	assert.Equal(t, "def   ", lines[1])
	assert.Equal(t, "      ", lines[2])
}
