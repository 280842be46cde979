package editor

import "context"

// Load replaces the store and the surface with the persisted elements.
// Nothing stored leaves the editor as it is. Unreadable or malformed data is
// logged and the current state is kept. Loaded geometry is fitted to the
// canvas. It reports whether state was replaced.
func (e *Editor) Load(ctx context.Context) bool {
	if e.source == nil {
		return false
	}
	elems, ok, err := e.source.Load(ctx)
	if err != nil {
		e.log.Warn("load canvas: keeping current state", "error", err)
		return false
	}
	if !ok {
		return false
	}

	for i := range elems {
		elems[i] = e.fit(elems[i])
	}
	e.stopAll()
	e.store.Replace(elems)
	e.selected = ""
	e.focused = ""
	for id := range e.noDrag {
		if _, ok := e.store.Get(id); !ok {
			delete(e.noDrag, id)
		}
	}
	e.proj.Rebuild(e.store.Elements(), e.flags)
	e.log.Info("loaded canvas", "elements", e.store.Len(), "counter", e.store.Counter())
	return true
}
