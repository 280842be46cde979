package editor

import "easel/internal/geom"

type Tool int

const (
	ToolSelect Tool = iota
	ToolPan
	ToolRectangle
	ToolText
	ToolResize
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolPan:
		return "pan"
	case ToolRectangle:
		return "rectangle"
	case ToolText:
		return "text"
	case ToolResize:
		return "resize"
	default:
		return "unknown"
	}
}

// ParseTool maps a toolbar name to a Tool.
func ParseTool(s string) (Tool, bool) {
	for t := ToolSelect; t <= ToolResize; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return ToolSelect, false
}

type State int

const (
	StateIdle State = iota
	StatePanning
	StateDragging
	StateResizing
	StateRotating
	StateTextEditing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePanning:
		return "panning"
	case StateDragging:
		return "dragging"
	case StateResizing:
		return "resizing"
	case StateRotating:
		return "rotating"
	case StateTextEditing:
		return "text-editing"
	default:
		return "unknown"
	}
}

// Handle names a resize corner.
type Handle string

const (
	HandleNone        Handle = ""
	HandleTopLeft     Handle = "tl"
	HandleTopRight    Handle = "tr"
	HandleBottomLeft  Handle = "bl"
	HandleBottomRight Handle = "br"
)

func (h Handle) left() bool   { return h == HandleTopLeft || h == HandleBottomLeft }
func (h Handle) right() bool  { return h == HandleTopRight || h == HandleBottomRight }
func (h Handle) top() bool    { return h == HandleTopLeft || h == HandleTopRight }
func (h Handle) bottom() bool { return h == HandleBottomLeft || h == HandleBottomRight }

// PointerEvent is a pointer position in screen space. Rotate is set while
// the rotate modifier is held.
type PointerEvent struct {
	Screen geom.Point
	Rotate bool
}

type Key string

const (
	KeyDelete    Key = "delete"
	KeyBackspace Key = "backspace"
	KeyEscape    Key = "escape"
	KeyUp        Key = "up"
	KeyDown      Key = "down"
	KeyLeft      Key = "left"
	KeyRight     Key = "right"
)

// Target is what lies under a pointer.
type Target struct {
	ID     string
	Handle Handle
}

// Confirmer asks the user before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

const (
	NudgeStep  = 5
	HandleSize = 12

	cursorMove     = "move"
	cursorDefault  = "default"
	cursorGrabbing = "grabbing"
	cursorRotate   = "crosshair"
)
