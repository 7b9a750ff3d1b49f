package workspace

import "sync"

// Binding is a caller-owned text value. The session never keeps its own
// copy: every edit goes through OnChange and is read back through Value.
type Binding interface {
	Value() string
	OnChange(value string)
}

// Surface is an editing surface holding a caret or selection in rune
// offsets.
type Surface interface {
	Selection() (start, end int)
	SetSelection(start, end int)
	Focus()
}

// ValueBinding is a Binding over an in-memory string that notifies
// subscribers on change.
type ValueBinding struct {
	mu        sync.Mutex
	value     string
	listeners []func(string)
}

// NewValueBinding creates a binding holding initial.
func NewValueBinding(initial string) *ValueBinding {
	return &ValueBinding{value: initial}
}

// Value returns the current value.
func (b *ValueBinding) Value() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

// OnChange stores value and notifies subscribers in subscription order.
func (b *ValueBinding) OnChange(value string) {
	b.mu.Lock()
	b.value = value
	listeners := append([]func(string){}, b.listeners...)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(value)
	}
}

// Subscribe registers fn to run after every change.
func (b *ValueBinding) Subscribe(fn func(string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}
