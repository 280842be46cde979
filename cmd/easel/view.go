package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"easel/internal/editor"
	"easel/internal/scene"
)

var tools = []struct {
	tool  editor.Tool
	key   string
	label string
}{
	{editor.ToolSelect, "v", "Select"},
	{editor.ToolPan, "space", "Pan"},
	{editor.ToolRectangle, "b", "Rect"},
	{editor.ToolText, "t", "Text"},
	{editor.ToolResize, "r", "Resize"},
}

func (m model) View() string {
	if m.mode == modeHelp {
		return m.helpView()
	}

	var result strings.Builder
	result.WriteString(m.toolbarView())
	result.WriteString("\n")

	canvas := m.canvasView()
	if m.showLayers {
		canvas = lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.panel.View(panelWidth, m.canvasRows()))
	}
	result.WriteString(canvas)
	result.WriteString("\n")
	result.WriteString(m.statusView())
	return result.String()
}

func (m model) toolbarView() string {
	parts := make([]string, 0, len(tools)+1)
	for _, t := range tools {
		label := fmt.Sprintf(" %s:%s ", t.key, t.label)
		if m.ed.Tool() == t.tool {
			parts = append(parts, activeToolStyle.Render(label))
		} else {
			parts = append(parts, toolStyle.Render(label))
		}
	}
	zoom := fmt.Sprintf(" %d%% ", int(math.Round(m.ed.Viewport().Scale*100)))
	parts = append(parts, toolbarStyle.Render(zoom))
	return strings.Join(parts, "|")
}

// canvasView rasterizes the scene and colors each run of cells by the
// element that painted it.
func (m model) canvasView() string {
	cols, rows := m.canvasCols(), m.canvasRows()
	grid := scene.Raster(m.surface, m.ed.Viewport(), cols, rows, cellWidth, cellHeight)

	styles := make(map[string]lipgloss.Style)
	for _, el := range m.ed.Elements() {
		styles[el.ID] = elementStyle(el)
	}

	lines := make([]string, len(grid.Cells))
	for y, row := range grid.Cells {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && grid.Owner[y][x] == grid.Owner[y][start] {
				continue
			}
			run := string(row[start:x])
			if st, ok := styles[grid.Owner[y][start]]; ok {
				run = st.Render(run)
			}
			b.WriteString(run)
			start = x
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

func (m model) statusView() string {
	switch m.mode {
	case modeConfirm:
		return fmt.Sprintf("Mode: CONFIRM | %s", m.prompt)
	}

	status := fmt.Sprintf("Mode: %s | %s", strings.ToUpper(m.ed.Tool().String()), m.ed.State())
	if el, ok := m.ed.Selected(); ok {
		status += fmt.Sprintf(" | %s %s (%.0f,%.0f %.0fx%.0f", el.ID, el.Label(), el.X, el.Y, el.Width, el.Height)
		if el.Rotation != 0 {
			status += fmt.Sprintf(" %g°", el.Rotation)
		}
		status += ")"
		if m.ed.DragDisabled(el.ID) {
			status += " locked"
		}
	}
	if m.ed.FocusedID() != "" {
		status += " | typing, Esc to finish"
	}

	switch {
	case m.errorMessage != "":
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	case m.successMessage != "":
		status += " | " + successStyle.Render(m.successMessage)
	default:
		status += " | ? for help | q to quit"
	}
	return statusStyle.Render(status)
}

var helpLines = []string{
	"Easel Help",
	"==========",
	"",
	"Tools:",
	"------",
	"  v                Select: click an element to select it, click text to edit it",
	"  space            Pan: drag empty canvas to scroll, drag an element to move it",
	"  b                Rectangle: click to place a rectangle centered on the pointer",
	"  t                Text: click to place a text block and start typing",
	"  r                Resize: drag a corner of the selected element",
	"",
	"Mouse:",
	"------",
	"  Alt/Ctrl+drag    Rotate the selected element around its center",
	"  Double-click     Lock or unlock dragging for an element",
	"  Wheel            Scroll; Ctrl+wheel zooms",
	"",
	"Selection:",
	"----------",
	"  h/j/k/l/arrows   Nudge by 5 (scroll one cell when nothing is selected)",
	"  H/J/K/L          Scroll four cells",
	"  d/Delete         Delete the selected element",
	"  e/Enter          Edit the selected text",
	"  Esc              Clear selection, or finish typing",
	"  </>              Rotate by 15 degrees",
	"  c / C            Cycle fill / text color",
	"  B / I / U        Toggle bold / italic / underline",
	"",
	"Layers:",
	"-------",
	"  ] / [            Raise / lower the selected element",
	"  Tab/Shift+Tab    Select the next / previous layer",
	"  Ctrl+L           Show or hide the layer panel",
	"",
	"View:",
	"-----",
	"  + / -            Zoom in / out",
	"",
	"Export:",
	"-------",
	"  E                JSON",
	"  W                HTML page",
	"  S                PNG image",
	"  X                Plain text drawing",
	"  y                Copy JSON to the clipboard",
	"  R                Reload from storage",
	"",
	"General:",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

func (m model) helpView() string {
	visibleHeight := m.height - 1
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	start := m.helpScroll
	if start > len(helpLines)-1 {
		start = len(helpLines) - 1
	}
	end := start + visibleHeight
	if end > len(helpLines) {
		end = len(helpLines)
	}

	result := strings.Join(helpLines[start:end], "\n")
	result += "\n" + fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		start+1, end, len(helpLines))
	return result
}
