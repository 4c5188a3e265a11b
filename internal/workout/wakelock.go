package workout

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
)

var ErrWakeLockUnsupported = errors.New("wake lock not supported")

// WakeLockDevice keeps the screen on while a guided session runs.
type WakeLockDevice interface {
	Request(ctx context.Context) error
	Release() error
}

// WakeLock makes a WakeLockDevice idempotent and failure tolerant:
// device errors are logged and the lock simply stays released.
type WakeLock struct {
	mu     sync.Mutex
	device WakeLockDevice
	held   bool
}

func NewWakeLock(device WakeLockDevice) *WakeLock {
	return &WakeLock{
		device: device,
	}
}

func (wl *WakeLock) Held() bool {
	wl.mu.Lock()
	defer wl.mu.Unlock()
	return wl.held
}

func (wl *WakeLock) Acquire(ctx context.Context) {
	wl.mu.Lock()
	defer wl.mu.Unlock()

	if wl.held {
		return
	}
	if wl.device == nil {
		log.Debug("wake lock: no device, skipping acquire")
		return
	}

	if err := wl.device.Request(ctx); err != nil {
		if errors.Is(err, ErrWakeLockUnsupported) {
			log.Debugf("wake lock: %s", err)
		} else {
			log.Warnf("wake lock request failed: %s", err)
		}
		return
	}
	wl.held = true
}

func (wl *WakeLock) Release() {
	wl.mu.Lock()
	defer wl.mu.Unlock()

	if !wl.held {
		return
	}
	wl.held = false

	if err := wl.device.Release(); err != nil {
		log.Warnf("wake lock release failed: %s", err)
	}
}
