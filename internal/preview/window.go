// Package preview tracks which sampled frame the preview shows once leading
// and trailing frames are skipped.
package preview

import "sync"

// Window maps a slider position onto the sampled frames left after skipping
// SkipStart leading and SkipEnd trailing frames.
//
// effective = max(0, total - skipStart - skipEnd); the position is kept in
// [0, effective-1] and the shown frame is skipStart + position.
type Window struct {
	mu        sync.Mutex
	total     int
	skipStart int
	skipEnd   int
	position  int
	onChange  func(index int)
}

// NewWindow returns a window over total frames with no skips.
func NewWindow(total int) *Window {
	return &Window{total: max(total, 0)}
}

// OnChange registers fn to be called with the frame index after any change
// that leaves a frame to show.
func (w *Window) OnChange(fn func(index int)) {
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// SetTotal updates the number of cached frames.
func (w *Window) SetTotal(total int) {
	w.update(func() { w.total = max(total, 0) })
}

// SetSkipStart sets the leading frames to skip. Negative values clamp to 0.
func (w *Window) SetSkipStart(n int) {
	w.update(func() { w.skipStart = max(n, 0) })
}

// SetSkipEnd sets the trailing frames to skip. Negative values clamp to 0.
func (w *Window) SetSkipEnd(n int) {
	w.update(func() { w.skipEnd = max(n, 0) })
}

// SetPosition moves the slider, clamped into the effective range.
func (w *Window) SetPosition(p int) {
	w.update(func() { w.position = p })
}

// Effective returns the number of frames left after skipping.
func (w *Window) Effective() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.effective()
}

// MaxPosition returns the highest valid slider value, or 0 when nothing is
// left to show.
func (w *Window) MaxPosition() int {
	return max(w.Effective()-1, 0)
}

// Position returns the clamped slider value.
func (w *Window) Position() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.position
}

// Skips returns the configured skip counts.
func (w *Window) Skips() (start, end int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.skipStart, w.skipEnd
}

// Index returns the cache index to display. ok is false when the skips
// leave no frames.
func (w *Window) Index() (int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.index()
}

func (w *Window) effective() int {
	return max(0, w.total-w.skipStart-w.skipEnd)
}

func (w *Window) index() (int, bool) {
	if w.effective() == 0 {
		return 0, false
	}
	return w.skipStart + w.position, true
}

func (w *Window) clamp() {
	if w.position > w.effective()-1 {
		w.position = w.effective() - 1
	}
	if w.position < 0 {
		w.position = 0
	}
}

func (w *Window) update(mutate func()) {
	w.mu.Lock()
	mutate()
	w.clamp()
	idx, ok := w.index()
	fn := w.onChange
	w.mu.Unlock()
	if ok && fn != nil {
		fn(idx)
	}
}
