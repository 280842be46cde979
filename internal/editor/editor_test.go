package editor

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"easel/internal/element"
	"easel/internal/geom"
	"easel/internal/persist"
	"easel/internal/scene"
	"easel/internal/store"
)

type harness struct {
	*Editor
	surface *scene.Memory
	backend *persist.MemoryBackend
	repo    *persist.Repository
}

func newHarness(t *testing.T, conf Confirmer) *harness {
	t.Helper()
	backend := persist.NewMemoryBackend()
	return newHarnessOn(t, backend, conf)
}

func newHarnessOn(t *testing.T, backend *persist.MemoryBackend, conf Confirmer) *harness {
	t.Helper()
	repo := persist.NewRepository(backend, "")
	surface := scene.NewMemory()
	ed := New(Config{
		Store:     store.New(repo),
		Surface:   surface,
		Source:    repo,
		Confirmer: conf,
	})
	return &harness{Editor: ed, surface: surface, backend: backend, repo: repo}
}

func (h *harness) persisted(t *testing.T) []element.Element {
	t.Helper()
	elems, _, err := h.repo.Load(context.Background())
	require.NoError(t, err)
	return elems
}

func (h *harness) down(x, y float64) { h.PointerDown(PointerEvent{Screen: geom.Point{X: x, Y: y}}) }
func (h *harness) move(x, y float64) { h.PointerMove(PointerEvent{Screen: geom.Point{X: x, Y: y}}) }

// rect creates a default rectangle centered at (500,300), i.e. at (300,175).
func (h *harness) rect(t *testing.T) string {
	t.Helper()
	h.SetTool(ToolRectangle)
	h.down(500, 300)
	h.PointerUp()
	id := h.SelectedID()
	require.NotEmpty(t, id)
	return id
}

func (h *harness) get(t *testing.T, id string) element.Element {
	t.Helper()
	el, ok := h.Element(id)
	require.True(t, ok, "element %s missing", id)
	return el
}

func TestCreateRectangleCenteredOnPointer(t *testing.T) {
	h := newHarness(t, nil)
	id := h.rect(t)

	el := h.get(t, id)
	assert.Equal(t, element.Rectangle, el.Kind)
	assert.Equal(t, 300.0, el.X)
	assert.Equal(t, 175.0, el.Y)
	assert.Equal(t, float64(element.DefaultWidth), el.Width)
	assert.Equal(t, float64(element.DefaultHeight), el.Height)
	assert.Equal(t, 1, el.ZIndex)
	assert.Equal(t, ToolSelect, h.Tool())

	node, ok := h.surface.Node(id)
	require.True(t, ok)
	assert.True(t, node.Selected)
	require.Len(t, h.persisted(t), 1)
}

func TestCreateRectangleRespectsZoomAndScroll(t *testing.T) {
	h := newHarness(t, nil)
	h.ZoomIn()
	h.ZoomIn()
	h.ScrollBy(100, 60)
	h.SetTool(ToolRectangle)
	// (1100+100)/1.2 = 1000, (300+60)/1.2 = 300
	h.down(1100, 300)

	el := h.get(t, h.SelectedID())
	assert.InDelta(t, 800, el.X, 1e-9)
	assert.InDelta(t, 175, el.Y, 1e-9)
}

func TestSecondElementOnTopThenMoveDown(t *testing.T) {
	h := newHarness(t, nil)
	first := h.rect(t)
	second := h.rect(t)

	assert.Equal(t, 1, h.get(t, first).ZIndex)
	assert.Equal(t, 2, h.get(t, second).ZIndex)

	require.True(t, h.MoveDown(second))
	assert.Equal(t, 2, h.get(t, first).ZIndex)
	assert.Equal(t, 1, h.get(t, second).ZIndex)

	n, _ := h.surface.Node(second)
	assert.Equal(t, 1, n.ZIndex)
	assert.Equal(t, []string{second, first}, ids(h.persisted(t)))

	assert.False(t, h.MoveDown(second))
	assert.False(t, h.MoveUp(first))
}

func TestEmptyTextRemovedOnBlur(t *testing.T) {
	h := newHarness(t, nil)
	h.SetTool(ToolText)
	h.down(100, 100)

	id := h.SelectedID()
	require.NotEmpty(t, id)
	assert.Equal(t, id, h.FocusedID())
	assert.Equal(t, StateTextEditing, h.State())
	assert.Equal(t, ToolSelect, h.Tool())

	h.TextInput("hello")
	assert.Equal(t, "hello", h.get(t, id).Text)
	assert.Equal(t, "hello", h.persisted(t)[0].Text)

	h.TextInput("")
	h.FocusLost()

	_, ok := h.Element(id)
	assert.False(t, ok)
	_, ok = h.surface.Node(id)
	assert.False(t, ok)
	assert.Empty(t, h.persisted(t))
	assert.Empty(t, h.SelectedID())
}

func TestClickingAwayCommitsText(t *testing.T) {
	h := newHarness(t, nil)
	h.SetTool(ToolText)
	h.down(100, 100)
	id := h.SelectedID()

	// nothing typed: clicking the empty canvas drops it
	h.down(2000, 2000)
	_, ok := h.Element(id)
	assert.False(t, ok)
	assert.Empty(t, h.SelectedID())

	h.SetTool(ToolText)
	h.down(100, 100)
	id = h.SelectedID()
	h.TextInput("keep")
	h.down(2000, 2000)
	el := h.get(t, id)
	assert.Equal(t, "keep", el.Text)
	assert.Empty(t, h.FocusedID())
}

func TestSelectingTextFocusesIt(t *testing.T) {
	h := newHarness(t, nil)
	h.SetTool(ToolText)
	h.down(100, 100)
	id := h.SelectedID()
	h.TextInput("note")
	h.Key(KeyEscape)
	assert.Empty(t, h.FocusedID())
	assert.Equal(t, id, h.SelectedID())

	h.down(105, 105)
	assert.Equal(t, id, h.FocusedID())
}

func TestDragClampedAtRightEdge(t *testing.T) {
	h := newHarness(t, nil)
	id := h.rect(t)
	require.True(t, h.Update(id, element.Position(0, 0)))

	h.SetTool(ToolPan)
	h.down(10, 10)
	assert.Equal(t, StateDragging, h.State())
	h.move(10000, 10)
	h.PointerUp()

	el := h.get(t, id)
	assert.Equal(t, geom.DefaultCanvasWidth-el.Width, el.X)
	assert.Equal(t, 0.0, el.Y)
	assert.Equal(t, el.X, h.persisted(t)[0].X)
}

func TestDragIsIncrementalAndScaled(t *testing.T) {
	h := newHarness(t, nil)
	id := h.rect(t)
	h.Update(id, element.Position(0, 0))
	h.ZoomIn()
	for h.Viewport().Scale < geom.MaxScale {
		h.ZoomIn()
	}

	h.SetTool(ToolPan)
	h.down(10, 10)
	h.move(110, 60)
	el := h.get(t, id)
	assert.InDelta(t, 50, el.X, 1e-9)
	assert.InDelta(t, 25, el.Y, 1e-9)

	h.move(210, 60)
	el = h.get(t, id)
	assert.InDelta(t, 100, el.X, 1e-9)
	assert.InDelta(t, 25, el.Y, 1e-9)
}

func TestLoadMalformedKeepsState(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.backend.Put(context.Background(), persist.DefaultKey, []byte(`"not an array"`)))

	assert.NotPanics(t, func() { assert.False(t, h.Load(context.Background())) })
	assert.Empty(t, h.Elements())

	id := h.rect(t)
	require.NoError(t, h.backend.Put(context.Background(), persist.DefaultKey, []byte(`{"broken":`)))
	assert.False(t, h.Load(context.Background()))
	require.Len(t, h.Elements(), 1)
	assert.Equal(t, id, h.Elements()[0].ID)
	assert.Equal(t, 1, h.surface.Len())
}

func TestLoadAbsentLeavesEmpty(t *testing.T) {
	h := newHarness(t, nil)
	assert.False(t, h.Load(context.Background()))
	assert.Empty(t, h.Elements())
}

func TestRotateAccumulatesFromBaseline(t *testing.T) {
	h := newHarness(t, nil)
	id := h.rect(t) // center (500,300)
	h.Update(id, element.Rotation(10))

	h.PointerDown(PointerEvent{Screen: geom.Point{X: 600, Y: 300}, Rotate: true})
	assert.Equal(t, StateRotating, h.State())
	h.move(500, 400)
	h.move(400, 300)
	assert.InDelta(t, 190, h.get(t, id).Rotation, 1e-9)

	// keep going: rotation is never wrapped into [0,360)
	h.move(500, 200)
	h.move(600, 300)
	h.move(500, 400)
	assert.InDelta(t, 460, h.get(t, id).Rotation, 1e-9)

	h.PointerUp()
	assert.Equal(t, StateIdle, h.State())
	assert.InDelta(t, 460, h.persisted(t)[0].Rotation, 1e-9)
}

func TestRotateNeedsSelection(t *testing.T) {
	h := newHarness(t, nil)
	h.PointerDown(PointerEvent{Screen: geom.Point{X: 10, Y: 10}, Rotate: true})
	assert.Equal(t, StateIdle, h.State())
}

func TestResizeBottomRightClampsToMinimum(t *testing.T) {
	h := newHarness(t, nil)
	id := h.rect(t)
	h.SetTool(ToolResize)

	n, _ := h.surface.Node(id)
	assert.True(t, n.Resizable)

	h.down(700, 425)
	require.Equal(t, StateResizing, h.State())
	h.move(100, 100)

	el := h.get(t, id)
	assert.Equal(t, float64(element.MinWidth), el.Width)
	assert.Equal(t, float64(element.MinHeight), el.Height)
	assert.Equal(t, 300.0, el.X)
	assert.Equal(t, 175.0, el.Y)
}

func TestResizeTopLeftKeepsOppositeEdge(t *testing.T) {
	h := newHarness(t, nil)
	id := h.rect(t)
	h.SetTool(ToolResize)

	h.down(300, 175)
	h.move(650, 400)
	el := h.get(t, id)
	assert.Equal(t, 100.0, el.Width)
	assert.Equal(t, 600.0, el.X)
	assert.Equal(t, 80.0, el.Height)
	assert.Equal(t, 345.0, el.Y)

	h.move(-500, -500)
	el = h.get(t, id)
	assert.Equal(t, 0.0, el.X)
	assert.Equal(t, 0.0, el.Y)
	assert.Equal(t, 700.0, el.Width)
	assert.Equal(t, 425.0, el.Height)
}

func TestResizeOnlyFromHandles(t *testing.T) {
	h := newHarness(t, nil)
	id := h.rect(t)
	h.SetTool(ToolResize)

	h.down(500, 300)
	assert.Equal(t, StateIdle, h.State())
	assert.Equal(t, id, h.SelectedID())
}

func TestResizeClampsToCanvas(t *testing.T) {
	h := newHarness(t, nil)
	id := h.rect(t)
	h.Update(id, element.Position(3500, 3700))
	h.SetTool(ToolResize)

	h.down(3900, 3950)
	h.move(9000, 9000)
	el := h.get(t, id)
	assert.Equal(t, 500.0, el.Width)
	assert.Equal(t, 300.0, el.Height)
}

func TestPanScrollsViewportUnscaled(t *testing.T) {
	h := newHarness(t, nil)
	h.ZoomIn()
	h.ScrollBy(200, 200)
	h.SetTool(ToolPan)

	h.down(500, 500)
	require.Equal(t, StatePanning, h.State())
	h.move(400, 450)
	assert.Equal(t, geom.Point{X: 300, Y: 250}, h.Viewport().Scroll())
	h.PointerUp()
	assert.Equal(t, StateIdle, h.State())
}

func TestDoubleClickDisablesDrag(t *testing.T) {
	h := newHarness(t, nil)
	id := h.rect(t)
	h.DoubleClick(PointerEvent{Screen: geom.Point{X: 500, Y: 300}})
	assert.True(t, h.DragDisabled(id))

	h.SetTool(ToolPan)
	h.down(500, 300)
	assert.Equal(t, id, h.SelectedID())
	assert.Equal(t, StateIdle, h.State())
	assert.Equal(t, "default", h.Cursor())

	h.DoubleClick(PointerEvent{Screen: geom.Point{X: 500, Y: 300}})
	h.down(500, 300)
	assert.Equal(t, StateDragging, h.State())
	assert.Equal(t, "grabbing", h.Cursor())
	h.Blur()
	assert.Equal(t, StateIdle, h.State())
	assert.Equal(t, "move", h.Cursor())
}

func TestClickEmptyClearsSelection(t *testing.T) {
	h := newHarness(t, nil)
	h.rect(t)
	h.down(3000, 3000)
	assert.Empty(t, h.SelectedID())
}

func TestToolSwitching(t *testing.T) {
	h := newHarness(t, nil)
	h.rect(t)

	h.SetTool(ToolPan)
	assert.Empty(t, h.SelectedID())

	h.ToggleTool(ToolPan)
	assert.Equal(t, ToolSelect, h.Tool())
	h.ToggleTool(ToolPan)
	assert.Equal(t, ToolPan, h.Tool())

	tool, ok := ParseTool("rectangle")
	assert.True(t, ok)
	assert.Equal(t, ToolRectangle, tool)
	_, ok = ParseTool("ellipse")
	assert.False(t, ok)
}

func TestToolSwitchStopsGesture(t *testing.T) {
	h := newHarness(t, nil)
	h.SetTool(ToolPan)
	h.down(10, 10)
	require.Equal(t, StatePanning, h.State())
	h.SetTool(ToolSelect)
	assert.Equal(t, StateIdle, h.State())
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	answer := false
	h := newHarness(t, ConfirmFunc(func(string) bool { return answer }))
	id := h.rect(t)

	assert.True(t, h.Key(KeyDelete))
	_, ok := h.Element(id)
	assert.True(t, ok)
	assert.Equal(t, id, h.SelectedID())

	answer = true
	h.SetTool(ToolResize)
	assert.True(t, h.Key(KeyBackspace))
	_, ok = h.Element(id)
	assert.False(t, ok)
	assert.Zero(t, h.surface.Len())
	assert.Empty(t, h.persisted(t))
	assert.Equal(t, ToolSelect, h.Tool())
}

func TestKeysIgnoredWhileTyping(t *testing.T) {
	h := newHarness(t, nil)
	h.SetTool(ToolText)
	h.down(100, 100)
	id := h.SelectedID()
	h.TextInput("abc")

	assert.False(t, h.Key(KeyDelete))
	assert.False(t, h.Key(KeyBackspace))
	assert.False(t, h.Key(KeyLeft))
	el := h.get(t, id)
	assert.Equal(t, 100.0, el.X)
}

func TestKeysWithoutSelection(t *testing.T) {
	h := newHarness(t, nil)
	assert.False(t, h.Key(KeyDelete))
	assert.False(t, h.Key(KeyUp))
}

func TestNudge(t *testing.T) {
	h := newHarness(t, nil)
	id := h.rect(t)
	h.Update(id, element.Position(2, 0))

	assert.True(t, h.Key(KeyLeft))
	assert.True(t, h.Key(KeyLeft))
	assert.True(t, h.Key(KeyDown))
	assert.False(t, h.Key(Key("x")))

	el := h.get(t, id)
	assert.Equal(t, 0.0, el.X)
	assert.Equal(t, 5.0, el.Y)
}

func TestUpdateFromPropertyPanel(t *testing.T) {
	h := newHarness(t, nil)
	id := h.rect(t)

	bg, bold := "#123456", element.WeightBold
	assert.True(t, h.Update(id, element.Patch{Background: &bg, FontWeight: &bold}))
	w := 10.0
	assert.True(t, h.Update(id, element.Patch{Width: &w}))
	assert.False(t, h.Update("el-404", element.Patch{Background: &bg}))

	el := h.get(t, id)
	assert.Equal(t, "#123456", el.Background)
	assert.Equal(t, float64(element.MinWidth), el.Width)
	n, _ := h.surface.Node(id)
	assert.Equal(t, "#123456", n.Background)
	assert.Equal(t, "#123456", h.persisted(t)[0].Background)
}

func TestRoundTripThroughLoad(t *testing.T) {
	backend := persist.NewMemoryBackend()
	h := newHarnessOn(t, backend, nil)
	a := h.rect(t)
	h.Update(a, element.Rotation(37.5))
	h.SetTool(ToolText)
	h.down(50, 60)
	h.TextInput("caption\nline two")
	h.FocusLost()
	c := h.rect(t)
	color := "#ff00ff"
	h.Update(c, element.Patch{Color: &color})
	h.MoveDown(c)
	want := h.Elements()

	fresh := newHarnessOn(t, backend, nil)
	require.True(t, fresh.Load(context.Background()))
	assert.Equal(t, want, fresh.Elements())
	assert.Equal(t, len(want), fresh.surface.Len())
	for _, el := range want {
		n, ok := fresh.surface.Node(el.ID)
		require.True(t, ok)
		assert.Equal(t, el.Rotation, n.Rotation)
		assert.Equal(t, el.ZIndex, n.ZIndex)
	}

	fresh.SetTool(ToolRectangle)
	fresh.down(500, 300)
	assert.Equal(t, "el-4", fresh.SelectedID())
}

func TestLoadReplacesExistingNodes(t *testing.T) {
	backend := persist.NewMemoryBackend()
	require.NoError(t, backend.Put(context.Background(), persist.DefaultKey,
		[]byte(`[{"id":"el-7","type":"rectangle","x":1,"y":2,"width":120,"height":90}]`)))

	h := newHarnessOn(t, backend, nil)
	// store writes overwrite the key, so stage the payload again after creating
	h.rect(t)
	require.NoError(t, backend.Put(context.Background(), persist.DefaultKey,
		[]byte(`[{"id":"el-7","type":"rectangle","x":1,"y":2,"width":120,"height":90}]`)))

	require.True(t, h.Load(context.Background()))
	assert.Equal(t, []string{"el-7"}, h.surface.NodeIDs())
	assert.Empty(t, h.SelectedID())
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	h := newHarness(t, nil)
	id := h.rect(t)
	require.NoError(t, h.backend.Put(context.Background(), persist.DefaultKey,
		[]byte(`[{"id":"el-1","type":"rectangle","x":0,"y":0,"width":100,"height":80},`+
			`{"id":"el-1","type":"rectangle","x":500,"y":500,"width":100,"height":80}]`)))

	assert.False(t, h.Load(context.Background()))
	require.Len(t, h.Elements(), 1)
	assert.Equal(t, id, h.Elements()[0].ID)
	assert.Equal(t, []string{id}, h.surface.NodeIDs())
}

func TestLoadFitsOversizedGeometry(t *testing.T) {
	backend := persist.NewMemoryBackend()
	require.NoError(t, backend.Put(context.Background(), persist.DefaultKey,
		[]byte(`[{"id":"el-1","type":"rectangle","x":-50,"y":3900,"width":1e9,"height":1e5}]`)))

	h := newHarnessOn(t, backend, nil)
	require.True(t, h.Load(context.Background()))

	el := h.get(t, "el-1")
	assert.Equal(t, geom.Rect{X: 0, Y: 0, Width: 4000, Height: 4000}, el.Rect())

	lines := scene.Raster(h.surface, h.Viewport(), 80, 24, element.CharWidth, element.LineHeight).Lines()
	require.Len(t, lines, 24)
	assert.Equal(t, '+', []rune(lines[0])[0])
}

func TestGeometryInvariantsUnderRandomGestures(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	h := newHarness(t, nil)
	for i := 0; i < 3; i++ {
		h.rect(t)
	}

	check := func(step int) {
		for _, el := range h.Elements() {
			require.GreaterOrEqual(t, el.X, 0.0, "step %d", step)
			require.GreaterOrEqual(t, el.Y, 0.0, "step %d", step)
			require.LessOrEqual(t, el.X+el.Width, float64(geom.DefaultCanvasWidth), "step %d", step)
			require.LessOrEqual(t, el.Y+el.Height, float64(geom.DefaultCanvasHeight), "step %d", step)
			require.GreaterOrEqual(t, el.Width, float64(element.MinWidth), "step %d", step)
			require.GreaterOrEqual(t, el.Height, float64(element.MinHeight), "step %d", step)
		}
	}

	randPoint := func() (float64, float64) {
		return rng.Float64()*9000 - 2000, rng.Float64()*9000 - 2000
	}

	for step := 0; step < 400; step++ {
		elems := h.Elements()
		el := elems[rng.Intn(len(elems))]
		switch rng.Intn(3) {
		case 0: // drag
			h.SetTool(ToolPan)
			h.Select(el.ID)
			sr := h.Viewport().ScreenRect(el.Rect())
			h.down(sr.Center().X, sr.Center().Y)
			for k := 0; k < 3; k++ {
				h.move(randPoint())
				check(step)
			}
		case 1: // resize from a random corner
			h.SetTool(ToolSelect)
			h.Select(el.ID)
			h.SetTool(ToolResize)
			sr := h.Viewport().ScreenRect(el.Rect())
			corners := []geom.Point{{X: sr.X, Y: sr.Y}, {X: sr.Right(), Y: sr.Y}, {X: sr.X, Y: sr.Bottom()}, {X: sr.Right(), Y: sr.Bottom()}}
			c := corners[rng.Intn(4)]
			h.down(c.X, c.Y)
			for k := 0; k < 3; k++ {
				h.move(randPoint())
				check(step)
			}
		case 2: // nudge
			h.SetTool(ToolSelect)
			h.Select(el.ID)
			keys := []Key{KeyUp, KeyDown, KeyLeft, KeyRight}
			for k := 0; k < 5; k++ {
				h.Key(keys[rng.Intn(4)])
				check(step)
			}
		}
		h.PointerUp()
		if rng.Intn(10) == 0 {
			h.ZoomIn()
		} else if rng.Intn(10) == 0 {
			h.ZoomOut()
		}
	}
}

func TestResizeRectTable(t *testing.T) {
	start := geom.Rect{X: 100, Y: 100, Width: 200, Height: 200}
	tests := []struct {
		name string
		h    Handle
		d    geom.Point
		want geom.Rect
	}{
		{"grow br", HandleBottomRight, geom.Point{X: 50, Y: 20}, geom.Rect{X: 100, Y: 100, Width: 250, Height: 220}},
		{"grow tl", HandleTopLeft, geom.Point{X: -50, Y: -20}, geom.Rect{X: 50, Y: 80, Width: 250, Height: 220}},
		{"shrink tr", HandleTopRight, geom.Point{X: -150, Y: 150}, geom.Rect{X: 100, Y: 220, Width: 100, Height: 80}},
		{"shrink bl", HandleBottomLeft, geom.Point{X: 150, Y: -150}, geom.Rect{X: 200, Y: 100, Width: 100, Height: 80}},
		{"past origin", HandleTopLeft, geom.Point{X: -500, Y: -500}, geom.Rect{X: 0, Y: 0, Width: 300, Height: 300}},
		{"past far edge", HandleBottomRight, geom.Point{X: 5000, Y: 5000}, geom.Rect{X: 100, Y: 100, Width: 900, Height: 900}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resizeRect(start, tt.h, tt.d, element.MinWidth, element.MinHeight, 1000, 1000)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrapDeg(t *testing.T) {
	assert.Equal(t, 180.0, wrapDeg(180))
	assert.Equal(t, 180.0, wrapDeg(-180))
	assert.Equal(t, 20.0, wrapDeg(-340))
	assert.Equal(t, -90.0, wrapDeg(270))
}

func ids(elems []element.Element) []string {
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.ID
	}
	return out
}
