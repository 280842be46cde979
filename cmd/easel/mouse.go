package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"easel/internal/editor"
	"easel/internal/geom"
)

// screenPoint maps a terminal cell to the center of that cell in screen
// units. inCanvas is false for cells outside the drawing area; gestures
// still follow the pointer there.
func (m model) screenPoint(x, y int) (p geom.Point, inCanvas bool) {
	row := y - toolbarRows
	p = geom.Point{
		X: float64(x*cellWidth + cellWidth/2),
		Y: float64(row*cellHeight + cellHeight/2),
	}
	inCanvas = x >= 0 && x < m.canvasCols() && row >= 0 && row < m.canvasRows()
	return p, inCanvas
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNormal {
		return m, nil
	}

	switch msg.Type {
	case tea.MouseWheelUp:
		if msg.Ctrl {
			m.ed.ZoomIn()
		} else {
			m.ed.ScrollBy(0, -3*cellHeight)
		}
	case tea.MouseWheelDown:
		if msg.Ctrl {
			m.ed.ZoomOut()
		} else {
			m.ed.ScrollBy(0, 3*cellHeight)
		}

	case tea.MouseLeft:
		// some terminals report a held button as repeated presses
		if m.pressed {
			m.pointerMove(msg.X, msg.Y)
			return m, nil
		}
		if m.showLayers && msg.X >= m.canvasCols() {
			m.clickLayer(msg.Y)
			return m, nil
		}
		p, ok := m.screenPoint(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.errorMessage, m.successMessage = "", ""
		m.pressed = true
		creating := m.ed.Tool() == editor.ToolRectangle || m.ed.Tool() == editor.ToolText
		m.ed.PointerDown(editor.PointerEvent{Screen: p, Rotate: msg.Alt || msg.Ctrl})

		now := m.now()
		switch {
		case creating:
			m.lastClick = time.Time{}
		case msg.X == m.lastX && msg.Y == m.lastY && now.Sub(m.lastClick) <= doubleClickWindow:
			m.ed.DoubleClick(editor.PointerEvent{Screen: p})
			m.lastClick = time.Time{} // a third press starts over
		default:
			m.lastClick = now
		}
		m.lastX, m.lastY = msg.X, msg.Y
		m.syncEditText()

	case tea.MouseMotion:
		if m.pressed {
			m.pointerMove(msg.X, msg.Y)
		}

	case tea.MouseRelease:
		if m.pressed {
			m.pointerMove(msg.X, msg.Y)
			m.ed.PointerUp()
			m.pressed = false
		}
	}
	return m, nil
}

func (m *model) pointerMove(x, y int) {
	p, _ := m.screenPoint(x, y)
	m.ed.PointerMove(editor.PointerEvent{Screen: p})
}

// clickLayer selects the layer entry on terminal row y. The panel has a
// border row and a title row above the entries.
func (m *model) clickLayer(y int) {
	m.panel.SelectAt(y - toolbarRows - 2)
	m.syncEditText()
}
