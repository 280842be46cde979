package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"easel/internal/editor"
	"easel/internal/element"
	"easel/internal/export"
)

const rotateStep = 15

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeHelp:
		return m.handleHelpKey(key)
	case modeConfirm:
		return m.handleConfirmKey(key)
	}

	if m.ed.FocusedID() != "" {
		return m.handleTextKey(msg)
	}

	m.errorMessage, m.successMessage = "", ""
	switch key {
	case "q":
		return m, tea.Quit
	case "?":
		m.mode = modeHelp
		m.helpScroll = 0

	case "v":
		m.ed.SetTool(editor.ToolSelect)
	case " ", "space":
		m.ed.ToggleTool(editor.ToolPan)
	case "b":
		m.ed.SetTool(editor.ToolRectangle)
	case "t":
		m.ed.SetTool(editor.ToolText)
	case "r":
		m.ed.SetTool(editor.ToolResize)

	case "+", "=":
		m.ed.ZoomIn()
	case "-", "_":
		m.ed.ZoomOut()

	case "up", "down", "left", "right", "h", "j", "k", "l":
		m.handleArrow(key)
	case "shift+up", "shift+down", "shift+left", "shift+right", "H", "J", "K", "L":
		m.handlePan(key)

	case "delete", "backspace", "d":
		m.requestDelete()
	case "esc":
		m.ed.ClearSelection()
	case "enter", "e":
		if id := m.ed.SelectedID(); id != "" {
			m.ed.Focus(id)
			m.syncEditText()
		}

	case "]":
		m.panel.MoveUp(m.ed.SelectedID())
	case "[":
		m.panel.MoveDown(m.ed.SelectedID())
	case "tab":
		m.cycleLayer(1)
	case "shift+tab":
		m.cycleLayer(-1)
	case "ctrl+l":
		m.showLayers = !m.showLayers
		m.resizeView()

	case "c":
		m.cycleStyle(func(s *element.Style) *string { return &s.Background })
	case "C":
		m.cycleStyle(func(s *element.Style) *string { return &s.Color })
	case "B":
		m.toggleStyle(func(s *element.Style) *string { return &s.FontWeight }, element.WeightBold, element.WeightNormal)
	case "I":
		m.toggleStyle(func(s *element.Style) *string { return &s.FontStyle }, element.StyleItalic, element.StyleNormal)
	case "U":
		m.toggleStyle(func(s *element.Style) *string { return &s.TextDecoration }, element.DecorationUnderline, element.DecorationNone)
	case "<", ",":
		m.rotate(-rotateStep)
	case ">", ".":
		m.rotate(rotateStep)

	case "S":
		m.exportAs(export.FormatPNG)
	case "X":
		m.exportAs(export.FormatTXT)
	case "W":
		m.exportAs(export.FormatHTML)
	case "E":
		m.exportAs(export.FormatJSON)
	case "y":
		if err := export.Clipboard(m.ed.Elements()); err != nil {
			m.errorMessage = err.Error()
		} else {
			m.successMessage = "Copied JSON to clipboard"
		}
	case "R":
		if m.ed.Load(context.Background()) {
			m.successMessage = "Reloaded from storage"
		} else {
			m.errorMessage = "Nothing to reload"
		}
	}
	return m, nil
}

// handleArrow nudges the selection, or scrolls one cell when nothing is
// selected.
func (m *model) handleArrow(key string) {
	dir := map[string]editor.Key{
		"up": editor.KeyUp, "k": editor.KeyUp,
		"down": editor.KeyDown, "j": editor.KeyDown,
		"left": editor.KeyLeft, "h": editor.KeyLeft,
		"right": editor.KeyRight, "l": editor.KeyRight,
	}[key]
	if m.ed.Key(dir) {
		return
	}
	m.scroll(dir, 1)
}

func (m *model) handlePan(key string) {
	switch key {
	case "shift+up", "K":
		m.scroll(editor.KeyUp, 4)
	case "shift+down", "J":
		m.scroll(editor.KeyDown, 4)
	case "shift+left", "H":
		m.scroll(editor.KeyLeft, 4)
	case "shift+right", "L":
		m.scroll(editor.KeyRight, 4)
	}
}

func (m *model) scroll(dir editor.Key, cells float64) {
	switch dir {
	case editor.KeyUp:
		m.ed.ScrollBy(0, -cells*cellHeight)
	case editor.KeyDown:
		m.ed.ScrollBy(0, cells*cellHeight)
	case editor.KeyLeft:
		m.ed.ScrollBy(-cells*cellWidth, 0)
	case editor.KeyRight:
		m.ed.ScrollBy(cells*cellWidth, 0)
	}
}

func (m model) handleTextKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.ed.Key(editor.KeyEscape)
		m.editText = ""
		return m, nil
	case tea.KeyEnter:
		m.editText += "\n"
	case tea.KeyBackspace:
		r := []rune(m.editText)
		if len(r) == 0 {
			return m, nil
		}
		m.editText = string(r[:len(r)-1])
	case tea.KeyRunes, tea.KeySpace:
		m.editText += string(msg.Runes)
	default:
		return m, nil
	}
	m.ed.TextInput(m.editText)
	return m, nil
}

func (m model) handleConfirmKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		m.gate.allow = true
		m.ed.DeleteSelected()
		m.mode = modeNormal
	case "n", "N", "esc":
		m.mode = modeNormal
	}
	return m, nil
}

func (m model) handleHelpKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "q", "?":
		m.mode = modeNormal
		m.helpScroll = 0
	case "j", "down":
		if m.helpScroll < len(helpLines)-1 {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	}
	return m, nil
}

// requestDelete asks before deleting when confirmations are on.
func (m *model) requestDelete() {
	el, ok := m.ed.Selected()
	if !ok {
		return
	}
	if !m.cfg.Editor.Confirmations {
		m.ed.DeleteSelected()
		return
	}
	m.mode = modeConfirm
	m.prompt = fmt.Sprintf("Delete %s? (y/n)", el.Label())
}

func (m *model) cycleLayer(step int) {
	entries := m.panel.Entries()
	if len(entries) == 0 {
		return
	}
	i := -1
	for j, e := range entries {
		if e.Selected {
			i = j
		}
	}
	next := (i + step + len(entries)) % len(entries)
	if i < 0 && step < 0 {
		next = len(entries) - 1
	}
	m.panel.SelectAt(next)
}

// cycleStyle advances a color field of the selection through the palette.
func (m *model) cycleStyle(field func(*element.Style) *string) {
	el, ok := m.ed.Selected()
	if !ok {
		return
	}
	next := nextColor(*field(&el.Style))
	var p element.Patch
	*field(&el.Style) = next
	p.Background, p.Color = &el.Background, &el.Color
	m.ed.Update(el.ID, p)
}

func (m *model) toggleStyle(field func(*element.Style) *string, on, off string) {
	el, ok := m.ed.Selected()
	if !ok {
		return
	}
	v := field(&el.Style)
	if *v == on {
		*v = off
	} else {
		*v = on
	}
	m.ed.Update(el.ID, element.Patch{
		FontWeight:     &el.FontWeight,
		FontStyle:      &el.FontStyle,
		TextDecoration: &el.TextDecoration,
	})
}

func (m *model) rotate(deg float64) {
	el, ok := m.ed.Selected()
	if !ok {
		return
	}
	m.ed.Update(el.ID, element.Rotation(el.Rotation+deg))
}

func (m *model) exportAs(f export.Format) {
	path, err := m.exporter.Write(f, m.ed.Elements())
	switch {
	case errors.Is(err, export.ErrEmpty):
		m.errorMessage = "Nothing to export"
	case err != nil:
		m.log.Warn("export failed", "format", f, "error", err)
		m.errorMessage = err.Error()
	default:
		m.log.Info("exported canvas", "format", f, "path", path)
		m.successMessage = "Exported " + path
	}
}
