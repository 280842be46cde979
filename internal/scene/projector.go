package scene

import "easel/internal/element"

// Flags are the per-element UI states that are not part of the record.
type Flags struct {
	Selected     bool
	Resizable    bool
	DragDisabled bool
	Focused      bool
}

// Projector derives surface nodes from records.
type Projector struct {
	surface Surface
}

func NewProjector(s Surface) *Projector {
	return &Projector{surface: s}
}

// AttrsFor is the pure projection of one record.
func AttrsFor(e element.Element, f Flags) Attrs {
	return Attrs{
		Kind:         e.Kind,
		Left:         e.X,
		Top:          e.Y,
		Width:        e.Width,
		Height:       e.Height,
		Rotation:     e.Rotation,
		ZIndex:       e.ZIndex,
		Style:        e.Style,
		Text:         e.Text,
		Selected:     f.Selected,
		Resizable:    f.Resizable,
		DragDisabled: f.DragDisabled,
		Focused:      f.Focused,
	}
}

// Project creates the node for e if needed and updates its attributes.
func (p *Projector) Project(e element.Element, f Flags) {
	p.surface.CreateNode(e.ID, e.Kind)
	p.surface.SetAttrs(e.ID, AttrsFor(e, f))
}

func (p *Projector) Remove(id string) {
	p.surface.RemoveNode(id)
}

// Sync makes the surface hold exactly one node per record, removing any node
// without a record.
func (p *Projector) Sync(elems []element.Element, flags func(id string) Flags) {
	keep := make(map[string]bool, len(elems))
	for _, e := range elems {
		keep[e.ID] = true
	}
	for _, id := range p.surface.NodeIDs() {
		if !keep[id] {
			p.surface.RemoveNode(id)
		}
	}
	for _, e := range elems {
		p.Project(e, flags(e.ID))
	}
}

// Rebuild drops every node and creates one per record, as done on load.
func (p *Projector) Rebuild(elems []element.Element, flags func(id string) Flags) {
	for _, id := range p.surface.NodeIDs() {
		p.surface.RemoveNode(id)
	}
	for _, e := range elems {
		p.Project(e, flags(e.ID))
	}
}

func (p *Projector) SetScale(scale float64) {
	p.surface.SetScale(scale)
}
