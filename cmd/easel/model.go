package main

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"easel/internal/config"
	"easel/internal/editor"
	"easel/internal/element"
	"easel/internal/export"
	"easel/internal/layers"
	"easel/internal/persist"
	"easel/internal/scene"
	"easel/internal/store"
)

// One terminal cell covers cellWidth x cellHeight screen units, the same
// metrics text elements are measured with.
const (
	cellWidth  = element.CharWidth
	cellHeight = element.LineHeight

	toolbarRows = 1
	statusRows  = 1
	panelWidth  = 30

	doubleClickWindow = 400 * time.Millisecond
)

type mode int

const (
	modeNormal mode = iota
	modeConfirm
	modeHelp
)

// reloadMsg is sent by the file watcher when the store changed on disk.
type reloadMsg struct{}

// deleteGate answers the editor's delete prompt. The prompt itself is shown
// by the model; the gate opens for exactly one call once the user said yes.
type deleteGate struct {
	allow bool
}

func (g *deleteGate) Confirm(string) bool {
	ok := g.allow
	g.allow = false
	return ok
}

type model struct {
	cfg      *config.Config
	ed       *editor.Editor
	surface  *scene.Memory
	panel    *layers.Panel
	exporter *export.Exporter
	gate     *deleteGate
	log      *slog.Logger
	now      func() time.Time

	width      int
	height     int
	mode       mode
	prompt     string
	showLayers bool
	helpScroll int

	pressed   bool
	lastX     int
	lastY     int
	lastClick time.Time

	editText       string
	successMessage string
	errorMessage   string
}

func newModel(cfg *config.Config, repo *persist.Repository, log *slog.Logger) model {
	surface := scene.NewMemory()
	gate := &deleteGate{}
	var conf editor.Confirmer
	if cfg.Editor.Confirmations {
		conf = gate
	}
	ed := editor.New(editor.Config{
		Store:        store.New(repo, store.WithLogger(log)),
		Surface:      surface,
		Source:       repo,
		Confirmer:    conf,
		Logger:       log,
		CanvasWidth:  cfg.Canvas.Width,
		CanvasHeight: cfg.Canvas.Height,
	})
	return model{
		cfg:        cfg,
		ed:         ed,
		surface:    surface,
		panel:      layers.NewPanel(ed),
		exporter:   export.New(cfg.Export.Dir, cfg.Export.Name),
		gate:       gate,
		log:        log,
		now:        time.Now,
		showLayers: true,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeView()
		return m, nil

	case reloadMsg:
		m.pressed = false
		if m.ed.Load(context.Background()) {
			m.syncEditText()
			m.successMessage = "Reloaded from storage"
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) canvasCols() int {
	cols := m.width
	if m.showLayers {
		cols -= panelWidth
	}
	if cols < 1 {
		cols = 1
	}
	return cols
}

func (m model) canvasRows() int {
	rows := m.height - toolbarRows - statusRows
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *model) resizeView() {
	m.ed.Resize(float64(m.canvasCols()*cellWidth), float64(m.canvasRows()*cellHeight))
}

// syncEditText mirrors the focused element's content into the typing buffer.
func (m *model) syncEditText() {
	m.editText = ""
	if id := m.ed.FocusedID(); id != "" {
		if el, ok := m.ed.Element(id); ok {
			m.editText = el.Text
		}
	}
}
