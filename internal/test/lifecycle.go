package test

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/fx"
)

// LifecycleRecorder captures hooks appended by module constructors and
// replays them the way fx does.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

// Append stores hook for later invocation.
func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// Start runs OnStart hooks in registration order and stops at first error.
func (l *LifecycleRecorder) Start(ctx context.Context) error {
	for _, h := range l.Hooks {
		if h.OnStart == nil {
			continue
		}
		if err := h.OnStart(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Stop runs OnStop hooks in reverse order and joins their errors.
func (l *LifecycleRecorder) Stop(ctx context.Context) error {
	var errs []error
	for i := len(l.Hooks) - 1; i >= 0; i-- {
		if l.Hooks[i].OnStop == nil {
			continue
		}
		errs = append(errs, l.Hooks[i].OnStop(ctx))
	}
	return errors.Join(errs...)
}

// ShutdownerStub records shutdown requests and the options they carried.
type ShutdownerStub struct {
	Called chan struct{}

	mu      sync.Mutex
	options []fx.ShutdownOption
}

// Shutdown notifies tests about graceful termination.
func (s *ShutdownerStub) Shutdown(opts ...fx.ShutdownOption) error {
	s.mu.Lock()
	s.options = append([]fx.ShutdownOption(nil), opts...)
	s.mu.Unlock()

	if s.Called != nil {
		select {
		case s.Called <- struct{}{}:
		default:
		}
	}
	return nil
}

// Requested reports whether the last shutdown request carried opt.
func (s *ShutdownerStub) Requested(opt fx.ShutdownOption) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.options {
		if o == opt {
			return true
		}
	}
	return false
}
