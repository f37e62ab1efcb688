package remotesync

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/polymath/internal/github"
)

// StartAutoSync pushes snapshot every interval until StopAutoSync is
// called or ctx ends. Failures land in Status and do not stop the
// schedule, except a rejected credential, which ends it. Starting again
// replaces the running schedule.
func (e *Engine) StartAutoSync(ctx context.Context, interval time.Duration, snapshot Snapshot) {
	if interval <= 0 {
		return
	}
	e.StopAutoSync()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	e.autoMu.Lock()
	e.stop = cancel
	e.done = done
	e.autoMu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.autoSyncTick(ctx, snapshot)
			}
		}
	}()
	e.logger.Info("auto-sync started", "interval", interval)
}

func (e *Engine) autoSyncTick(ctx context.Context, snapshot Snapshot) {
	doc, ok := snapshot(ctx)
	if !ok {
		return
	}
	err := e.PushRemote(ctx, doc)
	switch {
	case errors.Is(err, ErrSyncInFlight):
		e.logger.Debug("auto-sync skipped, push in flight")
	case errors.Is(err, github.ErrUnauthorized):
		e.cancelAutoSync()
		e.logger.Warn("auto-sync stopped, credential rejected")
	}
}

// cancelAutoSync ends the schedule without waiting, so the running tick
// may call it.
func (e *Engine) cancelAutoSync() {
	e.autoMu.Lock()
	stop := e.stop
	e.stop, e.done = nil, nil
	e.autoMu.Unlock()
	if stop != nil {
		stop()
	}
}

// StopAutoSync ends the schedule and waits for a running tick to return.
func (e *Engine) StopAutoSync() {
	e.autoMu.Lock()
	stop, done := e.stop, e.done
	e.stop, e.done = nil, nil
	e.autoMu.Unlock()

	if stop == nil {
		return
	}
	stop()
	<-done
	e.logger.Info("auto-sync stopped")
}

// AutoSyncRunning reports whether a schedule is active.
func (e *Engine) AutoSyncRunning() bool {
	e.autoMu.Lock()
	defer e.autoMu.Unlock()
	return e.stop != nil
}
