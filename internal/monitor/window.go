package monitor

// DetectionWindow is a bounded FIFO of the most recent per-tick object
// candidate verdicts. A detection requires a full, unanimous window.
type DetectionWindow struct {
	entries  []bool
	capacity int
}

func NewDetectionWindow(capacity int) *DetectionWindow {
	return &DetectionWindow{
		entries:  make([]bool, 0, capacity),
		capacity: capacity,
	}
}

// Push appends a verdict, evicting the oldest entry when full
func (w *DetectionWindow) Push(candidate bool) {
	if len(w.entries) == w.capacity {
		copy(w.entries, w.entries[1:])
		w.entries = w.entries[:len(w.entries)-1]
	}
	w.entries = append(w.entries, candidate)
}

// Full reports whether the window holds capacity entries
func (w *DetectionWindow) Full() bool {
	return len(w.entries) == w.capacity
}

// Unanimous reports whether every entry in the window is true.
// An empty window is not unanimous.
func (w *DetectionWindow) Unanimous() bool {
	if len(w.entries) == 0 {
		return false
	}
	for _, v := range w.entries {
		if !v {
			return false
		}
	}
	return true
}

func (w *DetectionWindow) Len() int {
	return len(w.entries)
}

func (w *DetectionWindow) Reset() {
	w.entries = w.entries[:0]
}
