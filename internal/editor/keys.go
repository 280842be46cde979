package editor

import (
	"easel/internal/element"
	"easel/internal/geom"
)

// Key handles a key press and reports whether it was consumed. Keys only act
// on a selection. While a text element has focus every key except Escape
// belongs to the text, including Delete and Backspace.
func (e *Editor) Key(k Key) bool {
	if e.selected == "" {
		return false
	}
	if e.focused != "" {
		if k == KeyEscape {
			e.blurText()
			return true
		}
		return false
	}

	switch k {
	case KeyDelete, KeyBackspace:
		e.DeleteSelected()
		return true
	case KeyUp:
		e.nudge(0, -NudgeStep)
	case KeyDown:
		e.nudge(0, NudgeStep)
	case KeyLeft:
		e.nudge(-NudgeStep, 0)
	case KeyRight:
		e.nudge(NudgeStep, 0)
	default:
		return false
	}
	return true
}

// DeleteSelected removes the selected element after confirmation. Declining
// changes nothing.
func (e *Editor) DeleteSelected() bool {
	el, ok := e.Selected()
	if !ok {
		return false
	}
	if e.conf != nil && !e.conf.Confirm("Delete "+el.Label()+"?") {
		return false
	}
	e.remove(el.ID)
	e.log.Debug("deleted element", "id", el.ID)
	e.SetTool(ToolSelect)
	return true
}

func (e *Editor) nudge(dx, dy float64) {
	el, ok := e.Selected()
	if !ok {
		return
	}
	r := el.Rect()
	r.X += dx
	r.Y += dy
	el.SetRect(geom.ClampPosition(r, e.view.CanvasWidth, e.view.CanvasHeight))
	e.commit(el)
}

// Focus gives a text element keyboard focus for in-place editing.
func (e *Editor) Focus(id string) {
	el, ok := e.store.Get(id)
	if !ok || el.Kind != element.Text {
		return
	}
	e.Select(id)
	e.focus(id)
}

func (e *Editor) focus(id string) {
	if _, ok := e.store.Get(id); !ok || e.focused == id {
		return
	}
	e.focused = id
	e.reproject(id)
}

// TextInput replaces the focused element's content. The element is
// re-measured and kept on the canvas.
func (e *Editor) TextInput(content string) {
	el, ok := e.store.Get(e.focused)
	if !ok {
		return
	}
	el.Text = content
	el.Width, el.Height = element.MeasureText(content)
	el.SetRect(geom.ClampPosition(el.Rect(), e.view.CanvasWidth, e.view.CanvasHeight))
	e.commit(el)
}

// FocusLost commits the focused text. Empty text is deleted without
// confirmation.
func (e *Editor) FocusLost() {
	e.blurText()
}

func (e *Editor) blurText() {
	id := e.focused
	if id == "" {
		return
	}
	e.focused = ""
	el, ok := e.store.Get(id)
	if !ok {
		return
	}
	if el.Empty() {
		e.remove(id)
		e.log.Debug("dropped empty text", "id", id)
		return
	}
	e.reproject(id)
}
