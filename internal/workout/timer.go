package workout

import (
	"sync"
)

// TimerState can be one of: idle, running, completed
type TimerState int

const (
	Idle TimerState = iota
	Running
	Completed
)

func (s TimerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Timer is the countdown of a single exercise, counted in whole seconds.
// It does not tick on its own, something has to call Tick once per second (see Runner).
// Completed is left only through SetDuration, so the completion callback
// fires at most once per countdown.
type Timer struct {
	mu         sync.Mutex
	duration   int
	remaining  int
	state      TimerState
	onComplete func()
}

func NewTimer(durationSeconds int, onComplete func()) *Timer {
	t := &Timer{
		onComplete: onComplete,
	}
	t.reset(durationSeconds)
	return t
}

func (t *Timer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Timer) TimeRemaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *Timer) Duration() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duration
}

// Play starts the countdown. Only an idle timer with time left can start.
func (t *Timer) Play() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Idle || t.remaining <= 0 {
		return false
	}
	t.state = Running
	return true
}

func (t *Timer) Pause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Running {
		return false
	}
	t.state = Idle
	return true
}

// Tick advances a running timer by one second. Ticks in any other state are ignored.
func (t *Timer) Tick() TimerState {
	state, fire := t.advance()
	if fire != nil {
		fire()
	}
	return state
}

// SetDuration loads a new exercise: the timer goes back to idle with the full duration.
func (t *Timer) SetDuration(durationSeconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reset(durationSeconds)
}

func (t *Timer) SetOnComplete(onComplete func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onComplete = onComplete
}

// advance returns the completion callback instead of calling it, so callers
// can run it after releasing their own locks.
func (t *Timer) advance() (TimerState, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Running {
		return t.state, nil
	}

	t.remaining--
	if t.remaining > 0 {
		return Running, nil
	}

	t.remaining = 0
	t.state = Completed
	if t.onComplete == nil {
		return Completed, nil
	}
	return Completed, t.onComplete
}

func (t *Timer) reset(durationSeconds int) {
	if durationSeconds < 0 {
		durationSeconds = 0
	}
	t.duration = durationSeconds
	t.remaining = durationSeconds
	t.state = Idle
}
