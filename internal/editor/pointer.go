package editor

import (
	"math"

	"easel/internal/element"
	"easel/internal/geom"
)

// gesture is the single active pointer gesture and what it captured at
// pointer-down.
type gesture struct {
	state  State
	handle Handle
	cursor string

	start       geom.Point
	startScroll geom.Point
	startRect   geom.Rect

	baseRotation float64
	lastAngle    float64
	sweep        float64
}

// stopAll ends whatever gesture is running. Partial geometry already applied
// stays.
func (e *Editor) stopAll() {
	e.g = gesture{}
}

// PointerDown dispatches a press in priority order: rotate, text tool,
// rectangle tool, resize handle, element, pan, empty canvas.
func (e *Editor) PointerDown(ev PointerEvent) {
	defer e.flush()

	target := e.HitTest(ev.Screen)
	if e.focused != "" && target.ID != e.focused {
		e.blurText()
		if _, ok := e.store.Get(target.ID); !ok {
			target = Target{}
		}
	}

	switch {
	case e.selected != "" && ev.Rotate:
		e.startRotate(ev.Screen)
	case e.tool == ToolText:
		e.createText(ev.Screen)
	case e.tool == ToolRectangle:
		e.createRectangle(ev.Screen)
	case e.tool == ToolResize && target.Handle != HandleNone:
		e.startResize(target.Handle, ev.Screen)
	case target.ID != "":
		e.Select(target.ID)
		switch e.tool {
		case ToolPan:
			if !e.noDrag[target.ID] {
				e.g = gesture{state: StateDragging, start: ev.Screen, cursor: cursorGrabbing}
			}
		case ToolSelect:
			if el, ok := e.store.Get(target.ID); ok && el.Kind == element.Text {
				e.focus(target.ID)
			}
		}
	case e.tool == ToolPan:
		e.g = gesture{
			state:       StatePanning,
			start:       ev.Screen,
			startScroll: e.view.Scroll(),
			cursor:      cursorGrabbing,
		}
	default:
		e.ClearSelection()
	}
}

// PointerMove advances the active gesture.
func (e *Editor) PointerMove(ev PointerEvent) {
	switch e.g.state {
	case StateRotating:
		e.rotateTo(ev.Screen)
	case StateResizing:
		e.resizeTo(ev.Screen)
	case StatePanning:
		d := ev.Screen.Sub(e.g.start)
		e.view.ScrollTo(e.g.startScroll.X-d.X, e.g.startScroll.Y-d.Y)
	case StateDragging:
		e.dragTo(ev.Screen)
	}
}

// PointerUp ends any gesture.
func (e *Editor) PointerUp() {
	e.stopAll()
}

// Blur is the window losing focus; it ends any gesture like PointerUp.
func (e *Editor) Blur() {
	e.stopAll()
}

// DoubleClick toggles whether the element under the pointer can be dragged.
func (e *Editor) DoubleClick(ev PointerEvent) {
	t := e.HitTest(ev.Screen)
	if t.ID == "" {
		return
	}
	e.noDrag[t.ID] = !e.noDrag[t.ID]
	e.reproject(t.ID)
}

// HitTest finds what is under a screen point: a resize handle of the
// selected element first (resize tool only), then the top-most element.
func (e *Editor) HitTest(p geom.Point) Target {
	if e.tool == ToolResize {
		if h := e.handleAt(p); h != HandleNone {
			return Target{ID: e.selected, Handle: h}
		}
	}
	c := e.view.ToCanvas(p)
	elems := e.store.Elements()
	for i := len(elems) - 1; i >= 0; i-- {
		if elems[i].Rect().ContainsRotated(c, elems[i].Rotation) {
			return Target{ID: elems[i].ID}
		}
	}
	return Target{}
}

func (e *Editor) handleAt(p geom.Point) Handle {
	el, ok := e.Selected()
	if !ok {
		return HandleNone
	}
	sr := e.view.ScreenRect(el.Rect())
	corners := []struct {
		h  Handle
		pt geom.Point
	}{
		{HandleTopLeft, geom.Point{X: sr.X, Y: sr.Y}},
		{HandleTopRight, geom.Point{X: sr.Right(), Y: sr.Y}},
		{HandleBottomLeft, geom.Point{X: sr.X, Y: sr.Bottom()}},
		{HandleBottomRight, geom.Point{X: sr.Right(), Y: sr.Bottom()}},
	}
	for _, c := range corners {
		if math.Abs(p.X-c.pt.X) <= HandleSize && math.Abs(p.Y-c.pt.Y) <= HandleSize {
			return c.h
		}
	}
	return HandleNone
}

func (e *Editor) createRectangle(screen geom.Point) {
	c := e.view.ToCanvas(screen)
	r := geom.Rect{
		X:      c.X - element.DefaultWidth/2,
		Y:      c.Y - element.DefaultHeight/2,
		Width:  element.DefaultWidth,
		Height: element.DefaultHeight,
	}
	r = geom.ClampPosition(r, e.view.CanvasWidth, e.view.CanvasHeight)
	attrs := element.Element{}
	attrs.SetRect(r)

	id := e.store.Create(element.Rectangle, attrs)
	e.log.Debug("created element", "id", id, "type", element.Rectangle, "x", r.X, "y", r.Y)
	e.place(id)
}

func (e *Editor) createText(screen geom.Point) {
	c := e.view.ToCanvas(screen)
	w, h := element.MeasureText("")
	r := geom.ClampPosition(geom.Rect{X: c.X, Y: c.Y, Width: w, Height: h}, e.view.CanvasWidth, e.view.CanvasHeight)
	attrs := element.Element{}
	attrs.SetRect(r)

	id := e.store.Create(element.Text, attrs)
	e.log.Debug("created element", "id", id, "type", element.Text, "x", r.X, "y", r.Y)
	e.place(id)
	// the node has to exist before it can take focus
	e.later(func() { e.focus(id) })
}

// place projects a freshly created record, selects it and returns to the
// select tool.
func (e *Editor) place(id string) {
	e.reproject(id)
	e.Select(id)
	e.SetTool(ToolSelect)
}

func (e *Editor) startRotate(screen geom.Point) {
	el, ok := e.Selected()
	if !ok {
		return
	}
	center := e.view.ScreenRect(el.Rect()).Center()
	angle := geom.AngleDeg(center, screen)
	e.g = gesture{
		state:        StateRotating,
		start:        screen,
		baseRotation: el.Rotation,
		lastAngle:    angle,
		cursor:       cursorRotate,
	}
}

// rotateTo accumulates the swept angle move by move so that crossing the
// atan2 discontinuity does not jump by 360.
func (e *Editor) rotateTo(screen geom.Point) {
	el, ok := e.Selected()
	if !ok {
		return
	}
	center := e.view.ScreenRect(el.Rect()).Center()
	angle := geom.AngleDeg(center, screen)
	e.g.sweep += wrapDeg(angle - e.g.lastAngle)
	e.g.lastAngle = angle
	el.Rotation = e.g.baseRotation + e.g.sweep
	e.commit(el)
}

// wrapDeg maps d into (-180, 180].
func wrapDeg(d float64) float64 {
	for d > 180 {
		d -= 360
	}
	for d <= -180 {
		d += 360
	}
	return d
}

func (e *Editor) startResize(h Handle, screen geom.Point) {
	el, ok := e.Selected()
	if !ok {
		return
	}
	e.g = gesture{
		state:     StateResizing,
		handle:    h,
		start:     screen,
		startRect: el.Rect(),
		cursor:    string(h) + "-resize",
	}
}

func (e *Editor) resizeTo(screen geom.Point) {
	el, ok := e.Selected()
	if !ok {
		return
	}
	d := screen.Sub(e.g.start).Scale(1 / e.view.Scale)
	minW, minH := el.MinSize()
	el.SetRect(resizeRect(e.g.startRect, e.g.handle, d, minW, minH, e.view.CanvasWidth, e.view.CanvasHeight))
	e.commit(el)
}

// resizeRect moves the edges named by h by d, then applies the minimum size
// and the canvas bounds. The edge opposite a moving edge stays fixed.
func resizeRect(start geom.Rect, h Handle, d geom.Point, minW, minH, canvasW, canvasH float64) geom.Rect {
	r := start
	switch {
	case h.right():
		r.Width = start.Width + d.X
	case h.left():
		r.Width = start.Width - d.X
		r.X = start.X + d.X
	}
	switch {
	case h.bottom():
		r.Height = start.Height + d.Y
	case h.top():
		r.Height = start.Height - d.Y
		r.Y = start.Y + d.Y
	}

	if r.Width < minW {
		r.Width = minW
		if h.left() {
			r.X = start.Right() - minW
		}
	}
	if r.Height < minH {
		r.Height = minH
		if h.top() {
			r.Y = start.Bottom() - minH
		}
	}

	if r.X < 0 {
		r.Width += r.X
		r.X = 0
	}
	if r.Y < 0 {
		r.Height += r.Y
		r.Y = 0
	}
	if r.Right() > canvasW {
		r.Width = canvasW - r.X
	}
	if r.Bottom() > canvasH {
		r.Height = canvasH - r.Y
	}

	// only reachable when the starting box already broke the bounds
	if r.Width < minW {
		r.Width = minW
		r.X = math.Max(0, math.Min(r.X, canvasW-minW))
	}
	if r.Height < minH {
		r.Height = minH
		r.Y = math.Max(0, math.Min(r.Y, canvasH-minH))
	}
	return r
}

func (e *Editor) dragTo(screen geom.Point) {
	el, ok := e.Selected()
	if !ok {
		return
	}
	d := screen.Sub(e.g.start).Scale(1 / e.view.Scale)
	r := el.Rect()
	r.X += d.X
	r.Y += d.Y
	el.SetRect(geom.ClampPosition(r, e.view.CanvasWidth, e.view.CanvasHeight))
	// incremental: the next delta is measured from here
	e.g.start = screen
	e.commit(el)
}
