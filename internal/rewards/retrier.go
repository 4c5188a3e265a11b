package rewards

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"
)

const DefaultRetryInterval = time.Minute

type pendingSyncer interface {
	SyncPending() int
}

// SyncRetrier periodically reschedules remote syncs that failed earlier.
type SyncRetrier struct {
	scheduler *gocron.Scheduler
	syncer    pendingSyncer
}

func NewSyncRetrier(syncer pendingSyncer, interval time.Duration) (*SyncRetrier, error) {
	if interval <= 0 {
		interval = DefaultRetryInterval
	}

	r := &SyncRetrier{
		scheduler: gocron.NewScheduler(time.UTC),
		syncer:    syncer,
	}

	r.scheduler.SingletonModeAll()
	if _, err := r.scheduler.Every(interval).WaitForSchedule().Do(r.RunOnce); err != nil {
		return nil, fmt.Errorf("schedule sync retrier: %w", err)
	}

	return r, nil
}

// RunOnce reschedules all pending syncs right away.
func (r *SyncRetrier) RunOnce() {
	if n := r.syncer.SyncPending(); n > 0 {
		log.Infof("sync retrier: rescheduled %d pending remote syncs", n)
	}
}

func (r *SyncRetrier) Jobs() int {
	return r.scheduler.Len()
}

func (r *SyncRetrier) Start() {
	r.scheduler.StartAsync()
}

func (r *SyncRetrier) Stop() {
	r.scheduler.Stop()
}
