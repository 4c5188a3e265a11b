package workout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/2beens/nutrifit/internal/analytics"

	log "github.com/sirupsen/logrus"
)

type SessionOptions struct {
	UserID       string
	TickInterval time.Duration
	WakeLock     WakeLockDevice
	Sink         analytics.Sink

	// OnExercise is called every time an exercise is loaded.
	OnExercise func(index int, exercise Exercise)
	OnTick     func(remaining int)
	// OnFinished is called once, when the last exercise is done or the session is finished early.
	OnFinished func()
}

// Session is a guided playback of one workout: a timer per exercise,
// navigation between exercises and the screen wake lock.
// When an exercise timer completes, the session moves on by itself,
// and after the last exercise it finishes.
type Session struct {
	workout  Workout
	opts     SessionOptions
	nav      *Navigator
	runner   *Runner
	wakeLock *WakeLock
	now      func() time.Time

	mu       sync.Mutex
	started  bool
	finished bool
	closed   bool
	visible  bool
}

func NewSession(workout Workout, opts SessionOptions) (*Session, error) {
	if len(workout.Exercises) == 0 {
		return nil, errors.New("workout has no exercises")
	}

	s := &Session{
		workout:  workout,
		opts:     opts,
		nav:      NewNavigator(len(workout.Exercises)),
		wakeLock: NewWakeLock(opts.WakeLock),
		now:      time.Now,
		visible:  true,
	}

	timer := NewTimer(workout.Exercises[0].Duration, s.exerciseCompleted)
	s.runner = NewRunner(timer, opts.TickInterval)
	if opts.OnTick != nil {
		s.runner.OnTick(opts.OnTick)
	}

	return s, nil
}

func (s *Session) Workout() Workout {
	return s.workout
}

func (s *Session) CurrentIndex() int {
	return s.nav.Current()
}

func (s *Session) CurrentExercise() Exercise {
	return s.workout.Exercises[s.nav.Current()]
}

func (s *Session) TimeRemaining() int {
	return s.runner.Timer().TimeRemaining()
}

func (s *Session) TimerState() TimerState {
	return s.runner.Timer().State()
}

func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

func (s *Session) WakeLockHeld() bool {
	return s.wakeLock.Held()
}

// Start loads the first exercise and starts its countdown.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	notify := s.loadLocked(ctx, 0)
	s.mu.Unlock()

	s.emit(ctx, analytics.WorkoutStarted, 0, 0)
	notify()
}

// TogglePlay pauses or resumes the current exercise. It reports whether the timer is now running.
func (s *Session) TogglePlay(ctx context.Context) bool {
	s.mu.Lock()
	if !s.activeLocked() {
		s.mu.Unlock()
		return false
	}

	playing := s.runner.Toggle()
	if playing {
		s.acquireWakeLockLocked(ctx)
	} else {
		s.wakeLock.Release()
	}
	s.mu.Unlock()

	action := analytics.WorkoutPaused
	if playing {
		action = analytics.WorkoutResumed
	}
	s.emit(ctx, action, s.nav.Current(), s.runner.Timer().TimeRemaining())
	return playing
}

// Next moves to the following exercise and plays it. On the last exercise it finishes
// the session instead and returns false.
func (s *Session) Next(ctx context.Context) bool {
	s.mu.Lock()
	if !s.activeLocked() {
		s.mu.Unlock()
		return false
	}

	if s.nav.IsLast() {
		notify := s.finishLocked(ctx)
		s.mu.Unlock()
		notify()
		return false
	}

	s.nav.Next()
	notify := s.loadLocked(ctx, s.nav.Current())
	s.mu.Unlock()

	notify()
	return true
}

func (s *Session) Previous(ctx context.Context) bool {
	s.mu.Lock()
	if !s.activeLocked() || !s.nav.Previous() {
		s.mu.Unlock()
		return false
	}
	notify := s.loadLocked(ctx, s.nav.Current())
	s.mu.Unlock()

	notify()
	return true
}

// Finish ends the session early. OnFinished fires only once, whichever way the session ends.
func (s *Session) Finish(ctx context.Context) {
	s.mu.Lock()
	if !s.activeLocked() {
		s.mu.Unlock()
		return
	}
	notify := s.finishLocked(ctx)
	s.mu.Unlock()

	notify()
}

// HandleSwipe maps a left swipe to Next and a right swipe to Previous.
func (s *Session) HandleSwipe(ctx context.Context, swipe Swipe) {
	switch swipe {
	case SwipeLeft:
		s.Next(ctx)
	case SwipeRight:
		s.Previous(ctx)
	default:
		log.Tracef("session: ignoring swipe [%s]", swipe)
	}
}

// SetVisible releases the wake lock while the player is hidden, and takes it
// back when it shows up again with the timer running.
func (s *Session) SetVisible(ctx context.Context, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.visible = visible
	if !visible {
		s.wakeLock.Release()
		return
	}
	if s.activeLocked() && s.runner.Timer().State() == Running {
		s.acquireWakeLockLocked(ctx)
	}
}

// Close abandons the session: it stops the ticker, waits for it and releases the wake lock.
// It does not fire OnFinished. Calling Close more than once is fine.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	abandoned := s.started && !s.finished
	index := s.nav.Current()
	s.mu.Unlock()

	s.runner.Close()
	s.wakeLock.Release()

	if abandoned {
		s.emit(context.Background(), analytics.WorkoutAbandoned, index, 0)
	}
}

func (s *Session) exerciseCompleted() {
	ctx := context.Background()

	s.mu.Lock()
	if !s.activeLocked() {
		s.mu.Unlock()
		return
	}
	index := s.nav.Current()
	s.mu.Unlock()

	s.emit(ctx, analytics.WorkoutExerciseCompleted, index, s.workout.Exercises[index].Duration)

	s.mu.Lock()
	// the user may have navigated away in the meantime
	if !s.activeLocked() || s.nav.Current() != index {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.Next(ctx)
}

func (s *Session) activeLocked() bool {
	return s.started && !s.finished && !s.closed
}

func (s *Session) loadLocked(ctx context.Context, index int) func() {
	exercise := s.workout.Exercises[index]
	s.runner.SetDuration(exercise.Duration)
	s.runner.Play()
	s.acquireWakeLockLocked(ctx)

	return func() {
		if s.opts.OnExercise != nil {
			s.opts.OnExercise(index, exercise)
		}
	}
}

func (s *Session) finishLocked(ctx context.Context) func() {
	s.finished = true
	s.nav.Complete()
	s.runner.Stop()
	s.wakeLock.Release()

	return func() {
		s.emit(ctx, analytics.WorkoutCompleted, s.nav.Current(), s.workout.TotalDuration())
		if s.opts.OnFinished != nil {
			s.opts.OnFinished()
		}
	}
}

func (s *Session) acquireWakeLockLocked(ctx context.Context) {
	if s.visible {
		s.wakeLock.Acquire(ctx)
	}
}

func (s *Session) emit(ctx context.Context, action analytics.WorkoutAction, index, seconds int) {
	analytics.Emit(ctx, s.opts.Sink, analytics.NewEvent(s.opts.UserID, s.now(), analytics.Workout{
		WorkoutID:     s.workout.ID,
		Action:        action,
		ExerciseIndex: index,
		Seconds:       seconds,
	}))
}
