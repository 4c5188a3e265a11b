package workout

import "sync"

// Navigator tracks the current exercise of a playback, bounded by [0, total).
// It never wraps and never completes by itself: at the last exercise the
// caller decides to call Complete.
type Navigator struct {
	mu        sync.Mutex
	total     int
	current   int
	completed bool
}

func NewNavigator(total int) *Navigator {
	if total < 0 {
		total = 0
	}
	return &Navigator{
		total: total,
	}
}

func (n *Navigator) Current() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *Navigator) Total() int {
	return n.total
}

func (n *Navigator) IsLast() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current >= n.total-1
}

func (n *Navigator) Completed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.completed
}

// Next moves to the following exercise, it returns false when nothing moved.
func (n *Navigator) Next() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.completed || n.current >= n.total-1 {
		return false
	}
	n.current++
	return true
}

func (n *Navigator) Previous() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.completed || n.current == 0 {
		return false
	}
	n.current--
	return true
}

// Complete marks the playback as finished. It reports whether this call finished it.
func (n *Navigator) Complete() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.completed {
		return false
	}
	n.completed = true
	return true
}
