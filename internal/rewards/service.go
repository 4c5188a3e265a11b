package rewards

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/nutrifit/internal/analytics"
	"github.com/2beens/nutrifit/internal/gamification"
	"github.com/2beens/nutrifit/internal/telemetry/metrics"
	"github.com/2beens/nutrifit/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=rewards_test

const defaultSyncTimeout = 5 * time.Second

var ErrEmptyUserID = errors.New("user id empty")

type localStore interface {
	Get(ctx context.Context, userID string) (_ gamification.State, found bool, _ error)
	Save(ctx context.Context, userID string, state gamification.State) error
}

type remoteStore interface {
	Fetch(ctx context.Context, userID string) (_ gamification.State, found bool, _ error)
	Upsert(ctx context.Context, userID string, state gamification.State) error
}

// Outcome is what a rewarded user action produced.
type Outcome struct {
	State     gamification.State   `json:"state"`
	Award     gamification.Award   `json:"award"`
	NewBadges []gamification.Badge `json:"new_badges"`
}

type MealLogged struct {
	MealID   string
	MealType string
	Calories int
}

type ServiceParams struct {
	Local   localStore
	Remote  remoteStore
	Sink    analytics.Sink
	Metrics *metrics.Manager
	// SyncTimeout bounds a single remote upsert.
	SyncTimeout time.Duration
	Now         func() time.Time
}

// Service applies the gamification rules to user actions. The local store is
// authoritative: every mutation is saved there first, then mirrored to the
// remote store in the background. Failed remote syncs are kept as pending
// and retried by SyncPending.
//
// A state built while the remote store was unreachable and the local store
// was empty is never pushed as is: the next sync fetches the remote row and
// merges it first, so a fresh default cannot overwrite remote progress.
type Service struct {
	local       localStore
	remote      remoteStore
	sink        analytics.Sink
	metrics     *metrics.Manager
	syncTimeout time.Duration
	now         func() time.Time

	// serializes read-modify-write of user states
	mu sync.Mutex

	syncMu  sync.Mutex
	syncSeq uint64
	queued  map[string]syncItem
	// users with a running syncLoop
	inFlight map[string]bool
	// last failed sync per user, retried by SyncPending
	pending map[string]syncItem
	// users whose local state was started without seeing the remote row
	unreconciled map[string]bool
	closed       bool
	syncWg       sync.WaitGroup
}

// syncItem is a state queued for the remote store. A higher seq means a newer state.
type syncItem struct {
	state gamification.State
	seq   uint64
}

func NewService(params ServiceParams) *Service {
	if params.SyncTimeout <= 0 {
		params.SyncTimeout = defaultSyncTimeout
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.Metrics == nil {
		params.Metrics = metrics.NewTestManager()
	}

	return &Service{
		local:       params.Local,
		remote:      params.Remote,
		sink:        params.Sink,
		metrics:     params.Metrics,
		syncTimeout: params.SyncTimeout,
		now:         params.Now,
		queued:       map[string]syncItem{},
		inFlight:     map[string]bool{},
		pending:      map[string]syncItem{},
		unreconciled: map[string]bool{},
	}
}

// State returns the user's current state: local first, then remote, then a fresh default.
// Store failures are logged and never returned.
func (s *Service) State(ctx context.Context, userID string) (gamification.State, error) {
	if userID == "" {
		return gamification.State{}, ErrEmptyUserID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, _ := s.loadLocked(ctx, userID)
	return state, nil
}

func (s *Service) LogMeal(ctx context.Context, userID string, meal MealLogged) (Outcome, error) {
	outcome, err := s.apply(ctx, userID, gamification.AwardMealPoints)
	if err != nil {
		return Outcome{}, err
	}

	s.metrics.CounterMealsLogged.Inc()
	s.emit(ctx, userID, analytics.Meal{
		MealID:   meal.MealID,
		MealType: meal.MealType,
		Calories: meal.Calories,
	})
	s.recordOutcome(ctx, userID, outcome)

	return outcome, nil
}

func (s *Service) CompleteWorkout(ctx context.Context, userID, workoutID string) (Outcome, error) {
	outcome, err := s.apply(ctx, userID, gamification.AwardWorkoutPoints)
	if err != nil {
		return Outcome{}, err
	}

	s.metrics.CounterWorkoutsCompleted.Inc()
	s.emit(ctx, userID, analytics.Workout{
		WorkoutID: workoutID,
		Action:    analytics.WorkoutCompleted,
	})
	s.recordOutcome(ctx, userID, outcome)

	return outcome, nil
}

// Login records the daily login. Only the first login of a day earns points.
func (s *Service) Login(ctx context.Context, userID string) (Outcome, error) {
	outcome, err := s.apply(ctx, userID, gamification.RecordLogin)
	if err != nil {
		return Outcome{}, err
	}

	if outcome.Award.PointsAwarded > 0 {
		s.metrics.CounterLogins.Inc()
	}
	s.emit(ctx, userID, analytics.Engagement{
		Action: "login",
		Value:  float64(outcome.Award.PointsAwarded),
	})
	s.recordOutcome(ctx, userID, outcome)

	return outcome, nil
}

// Reconcile merges the local and the remote state of a user and stores the result in both.
// A remote fetch failure is returned, the local state stays untouched in that case.
func (s *Service) Reconcile(ctx context.Context, userID string) (gamification.State, error) {
	if userID == "" {
		return gamification.State{}, ErrEmptyUserID
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "rewards.reconcile")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	s.mu.Lock()
	defer s.mu.Unlock()

	local, localFound, err := s.local.Get(ctx, userID)
	if err != nil {
		s.metrics.CounterLocalStoreFailures.Inc()
		log.Errorf("reconcile [%s]: get local state: %s", userID, err)
		localFound = false
	}

	remote, remoteFound, err := s.remote.Fetch(ctx, userID)
	if err != nil {
		s.metrics.CounterRemoteSyncFailures.Inc()
		if !localFound {
			local = gamification.DefaultState()
		}
		return local, fmt.Errorf("fetch remote state: %w", err)
	}

	var merged gamification.State
	switch {
	case localFound && remoteFound:
		merged = gamification.Merge(local, remote)
	case remoteFound:
		merged = gamification.Normalize(remote)
	case localFound:
		merged = gamification.Normalize(local)
	default:
		merged = gamification.DefaultState()
	}

	merged = s.unlockBadges(ctx, userID, merged)
	s.saveLocalLocked(ctx, userID, merged)

	s.syncMu.Lock()
	delete(s.unreconciled, userID)
	s.syncMu.Unlock()
	s.scheduleSync(userID, merged)

	return merged, nil
}

// SyncPending schedules a new sync for every user whose last remote sync failed,
// and returns how many were scheduled. Users with a sync already queued or
// running are skipped, that sync carries a state at least as new.
func (s *Service) SyncPending() int {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	if s.closed {
		return 0
	}

	scheduled := 0
	for userID, item := range s.pending {
		if s.inFlight[userID] {
			continue
		}
		if _, ok := s.queued[userID]; ok {
			continue
		}
		s.startSyncLocked(userID, item)
		scheduled++
	}
	return scheduled
}

func (s *Service) PendingSyncs() int {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()
	return len(s.pending)
}

// WaitForSyncs blocks until all scheduled remote syncs are done.
func (s *Service) WaitForSyncs() {
	s.syncWg.Wait()
}

// Close stops accepting new remote syncs and waits for the running ones.
// Later mutations are still saved locally and kept as pending.
func (s *Service) Close() {
	s.syncMu.Lock()
	s.closed = true
	s.syncMu.Unlock()

	s.syncWg.Wait()
}

type rule func(gamification.State, time.Time) (gamification.State, gamification.Award)

func (s *Service) apply(ctx context.Context, userID string, r rule) (Outcome, error) {
	if userID == "" {
		return Outcome{}, ErrEmptyUserID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, unreconciled := s.loadLocked(ctx, userID)
	next, award := r(current, s.now())
	next, newBadges := gamification.CheckBadgeUnlocks(next)

	s.saveLocalLocked(ctx, userID, next)
	if unreconciled {
		s.syncMu.Lock()
		s.unreconciled[userID] = true
		s.syncMu.Unlock()
	}
	s.scheduleSync(userID, next)

	return Outcome{
		State:     next,
		Award:     award,
		NewBadges: newBadges,
	}, nil
}

// loadLocked returns the user's state. unreconciled is set when neither store
// could provide it and the remote row may still exist.
func (s *Service) loadLocked(ctx context.Context, userID string) (_ gamification.State, unreconciled bool) {
	state, found, err := s.local.Get(ctx, userID)
	if err != nil {
		s.metrics.CounterLocalStoreFailures.Inc()
		log.Errorf("get local state [%s]: %s", userID, err)
	} else if found {
		return state, false
	}

	state, found, err = s.remote.Fetch(ctx, userID)
	if err != nil {
		s.metrics.CounterRemoteSyncFailures.Inc()
		log.Warnf("fetch remote state [%s], using default until reconciled: %s", userID, err)
		return gamification.DefaultState(), true
	}
	if !found {
		log.Debugf("no state for user [%s], starting fresh", userID)
		return gamification.DefaultState(), false
	}

	state = gamification.Normalize(state)
	s.saveLocalLocked(ctx, userID, state)
	return state, false
}

func (s *Service) unlockBadges(ctx context.Context, userID string, state gamification.State) gamification.State {
	state, newBadges := gamification.CheckBadgeUnlocks(state)
	for _, b := range newBadges {
		s.metrics.CounterBadgesUnlocked.WithLabelValues(b.ID).Inc()
		s.emit(ctx, userID, analytics.BadgeUnlocked{BadgeID: b.ID, Name: b.Name})
	}
	return state
}

func (s *Service) saveLocalLocked(ctx context.Context, userID string, state gamification.State) {
	if err := s.local.Save(ctx, userID, state); err != nil {
		s.metrics.CounterLocalStoreFailures.Inc()
		log.Errorf("save local state [%s]: %s", userID, err)
	}
}

// scheduleSync queues the state for a remote upsert. There is at most one sync
// goroutine per user, it always pushes the most recently queued state.
func (s *Service) scheduleSync(userID string, state gamification.State) {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	s.syncSeq++
	item := syncItem{state: state, seq: s.syncSeq}

	if s.closed {
		s.setPendingLocked(userID, item)
		return
	}
	s.startSyncLocked(userID, item)
}

// startSyncLocked queues the item unless a newer one is already queued, and
// starts the user's syncLoop if it is not running. syncMu must be held.
func (s *Service) startSyncLocked(userID string, item syncItem) {
	if queued, ok := s.queued[userID]; !ok || queued.seq < item.seq {
		s.queued[userID] = item
	}
	if s.inFlight[userID] {
		return
	}
	s.inFlight[userID] = true

	s.syncWg.Add(1)
	go s.syncLoop(userID)
}

// setPendingLocked records a failed sync, keeping the newest one. syncMu must be held.
func (s *Service) setPendingLocked(userID string, item syncItem) {
	if pending, ok := s.pending[userID]; !ok || pending.seq < item.seq {
		s.pending[userID] = item
	}
	s.metrics.GaugePendingSyncs.Set(float64(len(s.pending)))
}

func (s *Service) syncLoop(userID string) {
	defer s.syncWg.Done()

	for {
		s.syncMu.Lock()
		item, ok := s.queued[userID]
		if !ok {
			delete(s.inFlight, userID)
			s.syncMu.Unlock()
			return
		}
		delete(s.queued, userID)
		unreconciled := s.unreconciled[userID]
		s.syncMu.Unlock()

		if unreconciled {
			if err := s.reconcileQueued(userID, item); err != nil {
				s.syncMu.Lock()
				s.setPendingLocked(userID, item)
				s.syncMu.Unlock()
			}
			continue
		}

		err := s.upsertRemote(userID, item.state)

		s.syncMu.Lock()
		if err != nil {
			s.setPendingLocked(userID, item)
		} else if pending, ok := s.pending[userID]; ok && pending.seq <= item.seq {
			delete(s.pending, userID)
		}
		s.metrics.GaugePendingSyncs.Set(float64(len(s.pending)))
		s.syncMu.Unlock()
	}
}

// reconcileQueued merges the remote row into a state that was built without it,
// saves the result locally and queues it for the upsert.
func (s *Service) reconcileQueued(userID string, item syncItem) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.syncTimeout)
	defer cancel()

	remote, found, err := s.remote.Fetch(ctx, userID)
	if err != nil {
		s.metrics.CounterRemoteSyncFailures.Inc()
		log.Warnf("remote sync [%s]: fetch before first upsert failed, will retry: %s", userID, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := item.state
	if local, localFound, err := s.local.Get(ctx, userID); err != nil {
		s.metrics.CounterLocalStoreFailures.Inc()
		log.Errorf("remote sync [%s]: get local state: %s", userID, err)
	} else if localFound {
		merged = gamification.Merge(merged, local)
	}
	if found {
		merged = gamification.Merge(merged, remote)
	}
	merged = s.unlockBadges(ctx, userID, merged)
	s.saveLocalLocked(ctx, userID, merged)

	s.syncMu.Lock()
	delete(s.unreconciled, userID)
	s.syncSeq++
	s.queued[userID] = syncItem{state: merged, seq: s.syncSeq}
	s.syncMu.Unlock()

	log.Debugf("remote sync [%s]: merged remote row before first upsert", userID)
	return nil
}

func (s *Service) upsertRemote(userID string, state gamification.State) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.syncTimeout)
	defer cancel()

	start := time.Now()
	err := s.remote.Upsert(ctx, userID, state)
	s.metrics.HistRemoteSyncDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.CounterRemoteSyncFailures.Inc()
		log.Warnf("remote sync [%s] failed, will retry: %s", userID, err)
		return err
	}

	log.Tracef("remote sync [%s] done", userID)
	return nil
}

func (s *Service) recordOutcome(ctx context.Context, userID string, outcome Outcome) {
	award := outcome.Award
	if award.PointsAwarded > 0 {
		s.metrics.CounterPointsAwarded.WithLabelValues(award.Kind.String()).Add(float64(award.PointsAwarded))
	}

	if award.LevelUp {
		s.metrics.CounterLevelUps.Inc()
		info := gamification.GetLevelInfo(award.NewLevel)
		s.emit(ctx, userID, analytics.LevelUp{
			PreviousLevel: award.PreviousLevel,
			Level:         award.NewLevel,
			Title:         info.Title,
		})
	}

	for _, b := range outcome.NewBadges {
		s.metrics.CounterBadgesUnlocked.WithLabelValues(b.ID).Inc()
		s.emit(ctx, userID, analytics.BadgeUnlocked{
			BadgeID: b.ID,
			Name:    b.Name,
		})
	}
}

func (s *Service) emit(ctx context.Context, userID string, payload analytics.Payload) {
	analytics.Emit(ctx, s.sink, analytics.NewEvent(userID, s.now(), payload))
}
