package window

import "sync"

// Window holds the most recent readings of a single metric, up to a fixed
// capacity. When the window is full the oldest reading is evicted, one per
// insert. Writes come from the poll loop, reads from the HTTP handlers, so
// access is guarded by an RWMutex.
type Window struct {
	mu       sync.RWMutex
	capacity int
	values   []float64
}

// New creates an empty window holding at most capacity readings.
func New(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{
		capacity: capacity,
		values:   make([]float64, 0, capacity),
	}
}

// Record appends v to the window, evicting the oldest reading if the window
// is already full. Filtering out sensor faults is the caller's job; any value
// that reaches Record is treated as a valid reading.
func (w *Window) Record(v float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.values) == w.capacity {
		copy(w.values, w.values[1:])
		w.values = w.values[:len(w.values)-1]
	}
	w.values = append(w.values, v)
}

// Average returns the arithmetic mean of the readings currently held. The
// second result is false while the window is empty: there is no mean yet,
// and returning 0 would be indistinguishable from a real zero reading.
//
// The sum is recomputed on every call instead of being maintained
// incrementally, so rounding error cannot accumulate across evictions.
func (w *Window) Average() (float64, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if len(w.values) == 0 {
		return 0, false
	}

	sum := 0.0
	for _, v := range w.values {
		sum += v
	}
	return sum / float64(len(w.values)), true
}

// Len returns the number of readings currently held.
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.values)
}
