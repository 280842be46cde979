// Package layers presents the store's paint order as a list, top-most
// element first, and forwards selection and reorder requests.
package layers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"easel/internal/element"
)

// Model is the part of the editor the layer list works against.
type Model interface {
	Elements() []element.Element
	SelectedID() string
	Select(id string)
	MoveUp(id string) bool
	MoveDown(id string) bool
}

type Entry struct {
	ID       string
	Label    string
	Kind     element.Kind
	ZIndex   int
	Selected bool
}

type Panel struct {
	model Model
}

func NewPanel(m Model) *Panel {
	return &Panel{model: m}
}

// Entries lists elements top-most first.
func (p *Panel) Entries() []Entry {
	elems := p.model.Elements()
	sel := p.model.SelectedID()
	out := make([]Entry, 0, len(elems))
	for i := len(elems) - 1; i >= 0; i-- {
		e := elems[i]
		out = append(out, Entry{
			ID:       e.ID,
			Label:    e.Label(),
			Kind:     e.Kind,
			ZIndex:   e.ZIndex,
			Selected: e.ID == sel,
		})
	}
	return out
}

// Select selects the element behind a list entry.
func (p *Panel) Select(id string) {
	p.model.Select(id)
}

// SelectAt selects the entry at row i of Entries. Out-of-range rows are
// ignored.
func (p *Panel) SelectAt(i int) {
	entries := p.Entries()
	if i < 0 || i >= len(entries) {
		return
	}
	p.model.Select(entries[i].ID)
}

// MoveUp raises the element one step in paint order. No-op at the top.
func (p *Panel) MoveUp(id string) bool {
	return p.model.MoveUp(id)
}

// MoveDown lowers the element one step in paint order. No-op at the bottom.
func (p *Panel) MoveDown(id string) bool {
	return p.model.MoveDown(id)
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	entryStyle    = lipgloss.NewStyle()
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
)

// View renders the list for a terminal side panel.
func (p *Panel) View(width, height int) string {
	inner := width - 4
	if inner < 8 {
		inner = 8
	}
	rows := []string{titleStyle.Render("Layers")}
	for _, e := range p.Entries() {
		if len(rows) >= height-2 && height > 2 {
			rows = append(rows, "…")
			break
		}
		marker := "▭"
		if e.Kind == element.Text {
			marker = "T"
		}
		line := fmt.Sprintf("%s %s %2d", marker, fitLabel(e.Label, inner-5), e.ZIndex)
		if e.Selected {
			rows = append(rows, selectedStyle.Render(line))
		} else {
			rows = append(rows, entryStyle.Render(line))
		}
	}
	// lipgloss widths include padding but not the border
	return panelStyle.Width(inner + 2).Render(strings.Join(rows, "\n"))
}

// fitLabel cuts or pads s to exactly n terminal columns.
func fitLabel(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, n, ""), n)
}
