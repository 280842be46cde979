// Package scene projects store records onto a rendering surface. The surface
// is derived state: it is rebuilt or updated from records and never read
// back into them.
package scene

import (
	"sort"

	"easel/internal/element"
)

// Attrs is everything a surface needs to draw one node. Geometry is in
// canvas space; the surface applies the viewport transform as a whole.
type Attrs struct {
	Kind     element.Kind
	Left     float64
	Top      float64
	Width    float64
	Height   float64
	Rotation float64
	ZIndex   int
	element.Style
	Text string

	Selected     bool
	Resizable    bool
	DragDisabled bool
	Focused      bool
}

// Surface is the scene graph the editor drives.
type Surface interface {
	CreateNode(id string, kind element.Kind)
	RemoveNode(id string)
	SetAttrs(id string, a Attrs)
	SetScale(scale float64)
	NodeIDs() []string
}

// Node is one node of a Memory scene.
type Node struct {
	ID string
	Attrs
}

// Memory is an in-process scene graph. The terminal host paints it and
// tests inspect it.
type Memory struct {
	nodes map[string]*Node
	scale float64
}

func NewMemory() *Memory {
	return &Memory{nodes: make(map[string]*Node), scale: 1}
}

func (m *Memory) CreateNode(id string, kind element.Kind) {
	if _, ok := m.nodes[id]; ok {
		return
	}
	m.nodes[id] = &Node{ID: id, Attrs: Attrs{Kind: kind}}
}

func (m *Memory) RemoveNode(id string) {
	delete(m.nodes, id)
}

func (m *Memory) SetAttrs(id string, a Attrs) {
	n, ok := m.nodes[id]
	if !ok {
		return
	}
	a.Kind = n.Kind
	n.Attrs = a
}

func (m *Memory) SetScale(scale float64) { m.scale = scale }

func (m *Memory) Scale() float64 { return m.scale }

func (m *Memory) NodeIDs() []string {
	ids := make([]string, 0, len(m.nodes))
	for id := range m.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Memory) Node(id string) (Node, bool) {
	n, ok := m.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

func (m *Memory) Len() int { return len(m.nodes) }

// Painted returns the nodes bottom to top.
func (m *Memory) Painted() []Node {
	out := make([]Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ZIndex != out[j].ZIndex {
			return out[i].ZIndex < out[j].ZIndex
		}
		return out[i].ID < out[j].ID
	})
	return out
}
