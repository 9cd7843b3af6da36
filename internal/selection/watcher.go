package selection

import (
	"log/slog"
	"sync"
	"time"
)

const DefaultDebounce = 250 * time.Millisecond

type Option func(*Watcher)

func WithClock(clock Clock) Option {
	return func(w *Watcher) {
		w.clock = clock
	}
}

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func WithMaxLength(n int) Option {
	return func(w *Watcher) {
		if n > 0 {
			w.maxLength = n
		}
	}
}

func WithEnabled(enabled bool) Option {
	return func(w *Watcher) {
		w.enabled = enabled
	}
}

// Watcher debounces pointer releases. Only the release present when the
// window elapses is evaluated; every emission is either a Selection or nil.
type Watcher struct {
	clock     Clock
	debounce  time.Duration
	maxLength int
	emit      func(*Selection)

	mu         sync.Mutex
	enabled    bool
	timer      Timer
	generation uint64
}

func NewWatcher(emit func(*Selection), opts ...Option) *Watcher {
	w := &Watcher{
		clock:     realClock{},
		debounce:  DefaultDebounce,
		maxLength: DefaultMaxLength,
		emit:      emit,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Release restarts the debounce window with event as the candidate.
func (w *Watcher) Release(event PointerRelease) {
	w.mu.Lock()
	defer w.mu.Unlock()

	generation := w.cancelLocked()
	w.timer = w.clock.AfterFunc(w.debounce, func() {
		w.evaluate(generation, event)
	})
}

func (w *Watcher) evaluate(generation uint64, event PointerRelease) {
	w.mu.Lock()
	if generation != w.generation {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	enabled := w.enabled
	w.mu.Unlock()

	if !enabled {
		w.emit(nil)
		return
	}
	selected := Filter(event.Text, event.Point, w.maxLength)
	if selected == nil {
		slog.Default().Debug("selection does not qualify", "length", len(event.Text))
	}
	w.emit(selected)
}

// Toggle flips the enabled flag and clears the current selection at once.
func (w *Watcher) Toggle() bool {
	w.mu.Lock()
	w.enabled = !w.enabled
	enabled := w.enabled
	w.cancelLocked()
	w.mu.Unlock()

	slog.Default().Debug("toggled selection watcher", "enabled", enabled)
	w.emit(nil)
	return enabled
}

func (w *Watcher) SetEnabled(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.enabled = enabled
}

func (w *Watcher) Enabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enabled
}

// Stop drops any pending evaluation.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cancelLocked()
}

func (w *Watcher) cancelLocked() uint64 {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.generation++
	return w.generation
}
