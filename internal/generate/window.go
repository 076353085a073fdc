package generate

// Window is the fixed-length history of vocabulary indices the scorer
// conditions on. The oldest entry is at position 0.
type Window struct {
	ids []int
}

// NewWindow returns a window of n entries, all set to boundary.
func NewWindow(n, boundary int) *Window {
	w := &Window{ids: make([]int, n)}
	w.Reset(boundary)
	return w
}

// Reset fills the window with boundary.
func (w *Window) Reset(boundary int) {
	for i := range w.ids {
		w.ids[i] = boundary
	}
}

// Push drops the oldest entry and appends id.
func (w *Window) Push(id int) {
	if len(w.ids) == 0 {
		return
	}
	copy(w.ids, w.ids[1:])
	w.ids[len(w.ids)-1] = id
}

// IDs returns the current entries, oldest first. The slice is owned by the
// window.
func (w *Window) IDs() []int { return w.ids }

// Len returns the window length.
func (w *Window) Len() int { return len(w.ids) }
