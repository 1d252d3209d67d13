package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/feedex/internal/domain"
)

const releaseTimeout = 5 * time.Second

// errLeaseLost fails a run whose lease expired or was taken over by another replica.
var errLeaseLost = errors.New("reconcile lease lost")

// lease is one run's hold on the cross-process lock. A nil *lease is a
// no-op, used when no Locker is configured.
type lease struct {
	locker Locker
	key    string
	owner  string
	ttl    time.Duration
	logger *zap.Logger

	lost atomic.Bool
	stop context.CancelFunc
	done chan struct{}
}

func (s *Service) acquire(ctx context.Context, owner string) (*lease, error) {
	if s.locker == nil {
		return nil, nil
	}
	ok, err := s.locker.TryLock(ctx, s.lockKey, owner, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire reconcile lease: %w", err)
	}
	if !ok {
		return nil, domain.ErrReconciliationRunning
	}
	return &lease{
		locker: s.locker,
		key:    s.lockKey,
		owner:  owner,
		ttl:    s.lockTTL,
		logger: s.logger.With(zap.String("run_id", owner)),
	}, nil
}

// keepAlive renews the lease every third of its ttl until release.
// Losing the lease cancels the run with errLeaseLost.
func (l *lease) keepAlive(ctx context.Context, abort context.CancelCauseFunc) {
	if l == nil {
		return
	}
	hctx, stop := context.WithCancel(ctx)
	l.stop, l.done = stop, make(chan struct{})

	go func() {
		defer close(l.done)
		t := time.NewTicker(max(l.ttl/3, time.Millisecond))
		defer t.Stop()
		for {
			select {
			case <-hctx.Done():
				return
			case <-t.C:
			}
			if err := l.renew(hctx); err != nil {
				abort(err)
				return
			}
		}
	}()
}

// renew extends the lease by a full ttl. Only a lost lease is returned;
// a failed round trip is logged and retried on the next renewal.
func (l *lease) renew(ctx context.Context) error {
	if l == nil {
		return nil
	}
	if l.lost.Load() {
		return errLeaseLost
	}
	ok, err := l.locker.Extend(ctx, l.key, l.owner, l.ttl)
	if err != nil {
		if ctx.Err() == nil {
			l.logger.Warn("reconcile lease renewal failed", zap.Error(err))
		}
		return nil
	}
	if !ok {
		l.lost.Store(true)
		return errLeaseLost
	}
	return nil
}

// release stops renewal and deletes the lease. It returns errLeaseLost when
// the lease was no longer held by the run.
func (l *lease) release(ctx context.Context) error {
	if l == nil {
		return nil
	}
	if l.stop != nil {
		l.stop()
		<-l.done
	}
	if l.lost.Load() {
		return errLeaseLost
	}

	// the run context may already be cancelled
	uctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	ok, err := l.locker.Unlock(uctx, l.key, l.owner)
	if err != nil {
		return fmt.Errorf("release reconcile lease: %w", err)
	}
	if !ok {
		l.lost.Store(true)
		return errLeaseLost
	}
	return nil
}
