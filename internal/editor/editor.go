// Package editor is the interaction state machine. An Editor owns all
// mutable application state: viewport, tool, active gesture, selection,
// text focus and the element store. Handlers mutate the store first and
// re-project second. Editors are not safe for concurrent use; the host must
// deliver events from a single loop.
package editor

import (
	"context"
	"log/slog"

	"easel/internal/element"
	"easel/internal/geom"
	"easel/internal/scene"
	"easel/internal/store"
)

// Source provides persisted elements for Load.
type Source interface {
	Load(ctx context.Context) ([]element.Element, bool, error)
}

type Config struct {
	Store     *store.Store
	Surface   scene.Surface
	Source    Source
	Confirmer Confirmer
	Logger    *slog.Logger

	CanvasWidth  float64
	CanvasHeight float64
}

type Editor struct {
	store  *store.Store
	view   *geom.Viewport
	proj   *scene.Projector
	source Source
	conf   Confirmer
	log    *slog.Logger

	tool     Tool
	g        gesture
	selected string
	focused  string
	noDrag   map[string]bool
	deferred []func()
}

func New(cfg Config) *Editor {
	if cfg.Store == nil {
		cfg.Store = store.New(nil)
	}
	if cfg.Surface == nil {
		cfg.Surface = scene.NewMemory()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	e := &Editor{
		store:  cfg.Store,
		view:   geom.NewViewport(cfg.CanvasWidth, cfg.CanvasHeight),
		proj:   scene.NewProjector(cfg.Surface),
		source: cfg.Source,
		conf:   cfg.Confirmer,
		log:    cfg.Logger,
		noDrag: make(map[string]bool),
	}
	e.proj.SetScale(e.view.Scale)
	e.proj.Sync(e.store.Elements(), e.flags)
	return e
}

func (e *Editor) Viewport() *geom.Viewport { return e.view }

func (e *Editor) Tool() Tool { return e.tool }

func (e *Editor) SelectedID() string { return e.selected }

func (e *Editor) FocusedID() string { return e.focused }

// Selected returns the selected record, if any.
func (e *Editor) Selected() (element.Element, bool) {
	if e.selected == "" {
		return element.Element{}, false
	}
	return e.store.Get(e.selected)
}

func (e *Editor) Elements() []element.Element { return e.store.Elements() }

func (e *Editor) Element(id string) (element.Element, bool) { return e.store.Get(id) }

// State is the active gesture, or TextEditing while a text element holds
// focus and no pointer gesture runs.
func (e *Editor) State() State {
	if e.g.state != StateIdle {
		return e.g.state
	}
	if e.focused != "" {
		return StateTextEditing
	}
	return StateIdle
}

// Cursor is the pointer cursor the host should show.
func (e *Editor) Cursor() string {
	if e.g.cursor != "" {
		return e.g.cursor
	}
	if e.selected != "" && e.tool == ToolPan {
		if e.noDrag[e.selected] {
			return cursorDefault
		}
		return cursorMove
	}
	return cursorDefault
}

func (e *Editor) DragDisabled(id string) bool { return e.noDrag[id] }

// SetTool switches tools. Any running gesture stops; choosing pan drops the
// selection.
func (e *Editor) SetTool(t Tool) {
	e.stopAll()
	if t == ToolPan {
		e.ClearSelection()
	}
	e.tool = t
	e.reproject(e.selected)
}

// ToggleTool behaves like the toolbar: picking pan while pan is active
// returns to select.
func (e *Editor) ToggleTool(t Tool) {
	if t == ToolPan && e.tool == ToolPan {
		e.SetTool(ToolSelect)
		return
	}
	e.SetTool(t)
}

// Select makes id the single selected element. Unknown ids are ignored.
func (e *Editor) Select(id string) {
	if _, ok := e.store.Get(id); !ok {
		return
	}
	if e.focused != "" && e.focused != id {
		e.blurText()
		if _, ok := e.store.Get(id); !ok {
			return
		}
	}
	prev := e.selected
	e.selected = id
	e.reproject(prev)
	e.reproject(id)
}

func (e *Editor) ClearSelection() {
	if e.focused != "" {
		e.blurText()
	}
	if e.selected == "" {
		return
	}
	prev := e.selected
	e.selected = ""
	e.reproject(prev)
}

// Update is the property-panel path: it applies p to id with the same
// clamping as pointer gestures.
func (e *Editor) Update(id string, p element.Patch) bool {
	el, ok := e.store.Get(id)
	if !ok || p.Empty() {
		return false
	}
	p.Apply(&el)
	if el.Kind == element.Text && p.Text != nil && p.Width == nil && p.Height == nil {
		el.Width, el.Height = element.MeasureText(el.Text)
	}
	minW, minH := el.MinSize()
	r := el.Rect()
	r.Width = max(r.Width, minW)
	r.Height = max(r.Height, minH)
	el.SetRect(r)
	e.commit(e.fit(el))
	return true
}

// fit trims el to the canvas size and moves it inside the canvas.
func (e *Editor) fit(el element.Element) element.Element {
	r := el.Rect()
	r.Width = min(r.Width, e.view.CanvasWidth)
	r.Height = min(r.Height, e.view.CanvasHeight)
	el.SetRect(geom.ClampPosition(r, e.view.CanvasWidth, e.view.CanvasHeight))
	return el
}

// MoveUp raises id one step in paint order.
func (e *Editor) MoveUp(id string) bool {
	if !e.store.MoveUp(id) {
		return false
	}
	e.proj.Sync(e.store.Elements(), e.flags)
	return true
}

// MoveDown lowers id one step in paint order.
func (e *Editor) MoveDown(id string) bool {
	if !e.store.MoveDown(id) {
		return false
	}
	e.proj.Sync(e.store.Elements(), e.flags)
	return true
}

func (e *Editor) ZoomIn() {
	e.view.ZoomIn()
	e.proj.SetScale(e.view.Scale)
}

func (e *Editor) ZoomOut() {
	e.view.ZoomOut()
	e.proj.SetScale(e.view.Scale)
}

// ScrollBy pans the viewport outside of a pan gesture, e.g. for a wheel.
func (e *Editor) ScrollBy(dx, dy float64) {
	e.view.ScrollTo(e.view.ScrollX+dx, e.view.ScrollY+dy)
}

// Resize tells the editor the visible surface size in screen units.
func (e *Editor) Resize(width, height float64) {
	e.view.ViewWidth, e.view.ViewHeight = width, height
	e.view.ScrollTo(e.view.ScrollX, e.view.ScrollY)
}

// commit writes a full record back to the store, which persists it, then
// re-projects it.
func (e *Editor) commit(el element.Element) {
	if !e.store.Put(el) {
		return
	}
	e.reproject(el.ID)
}

func (e *Editor) reproject(id string) {
	if id == "" {
		return
	}
	el, ok := e.store.Get(id)
	if !ok {
		return
	}
	e.proj.Project(el, e.flags(id))
}

func (e *Editor) flags(id string) scene.Flags {
	return scene.Flags{
		Selected:     id == e.selected,
		Resizable:    id == e.selected && e.tool == ToolResize,
		DragDisabled: e.noDrag[id],
		Focused:      id == e.focused,
	}
}

// remove deletes id from the store and the surface together.
func (e *Editor) remove(id string) {
	if !e.store.Delete(id) {
		return
	}
	e.proj.Remove(id)
	delete(e.noDrag, id)
	if e.selected == id {
		e.selected = ""
	}
	if e.focused == id {
		e.focused = ""
	}
	e.proj.Sync(e.store.Elements(), e.flags)
}

func (e *Editor) later(fn func()) {
	e.deferred = append(e.deferred, fn)
}

// flush runs work queued during the current dispatch.
func (e *Editor) flush() {
	for len(e.deferred) > 0 {
		fn := e.deferred[0]
		e.deferred = e.deferred[1:]
		fn()
	}
}
