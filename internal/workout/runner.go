package workout

import (
	"sync"
	"time"
)

const DefaultTickInterval = time.Second

// Runner drives a Timer with a single ticker goroutine. The goroutine lives
// only while the timer is running: pause, completion, a duration change and
// Close all stop it.
//
// Runner methods may be called from the timer's completion callback,
// except Close, which waits for the ticker goroutine.
type Runner struct {
	timer    *Timer
	interval time.Duration
	onTick   func(remaining int)

	mu     sync.Mutex
	stop   chan struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewRunner creates a runner ticking every interval, the default is one second.
func NewRunner(timer *Timer, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Runner{
		timer:    timer,
		interval: interval,
	}
}

// OnTick registers a function called after every tick of a running timer.
func (r *Runner) OnTick(onTick func(remaining int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onTick = onTick
}

func (r *Runner) Timer() *Timer {
	return r.timer
}

// Ticking reports whether the ticker goroutine is active.
func (r *Runner) Ticking() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stop != nil
}

func (r *Runner) Play() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || !r.timer.Play() {
		return false
	}
	r.startTicker()
	return true
}

func (r *Runner) Pause() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopTicker()
	return r.timer.Pause()
}

// Toggle pauses a running timer and plays an idle one.
func (r *Runner) Toggle() bool {
	if r.timer.State() == Running {
		r.Pause()
		return false
	}
	return r.Play()
}

func (r *Runner) SetDuration(durationSeconds int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopTicker()
	r.timer.SetDuration(durationSeconds)
}

// Stop halts the ticker and pauses the timer without waiting for the
// ticker goroutine to exit.
func (r *Runner) Stop() {
	r.Pause()
}

// Close stops the runner for good and waits for the ticker goroutine.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	r.stopTicker()
	r.timer.Pause()
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Runner) startTicker() {
	r.stopTicker()

	stop := make(chan struct{})
	r.stop = stop

	r.wg.Add(1)
	go r.run(stop)
}

func (r *Runner) stopTicker() {
	if r.stop == nil {
		return
	}
	close(r.stop)
	r.stop = nil
}

func (r *Runner) run(stop chan struct{}) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		r.mu.Lock()
		if r.stop != stop {
			// stopped while waiting for the lock
			r.mu.Unlock()
			return
		}
		state, fire := r.timer.advance()
		remaining := r.timer.TimeRemaining()
		if state != Running {
			r.stop = nil
		}
		onTick := r.onTick
		r.mu.Unlock()

		if onTick != nil {
			onTick(remaining)
		}
		if fire != nil {
			fire()
		}
		if state != Running {
			return
		}
	}
}
