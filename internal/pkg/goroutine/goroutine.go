// Package goroutine runs background work with a bounded number of goroutines.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/gocharity/internal/pkg/stacktrace"
)

// DefaultPerCPU is the per-CPU limit applied when NewManager receives a non-positive size.
const DefaultPerCPU = 100

// Manager starts tasks while a slot is free and gathers the errors they return.
// After Wait has been called the manager refuses new work.
type Manager struct {
	slots chan struct{}
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	errMu sync.Mutex
	errs  []error
}

// NewManager returns a Manager that runs at most size tasks at once.
func NewManager(size int) *Manager {
	if size < 1 {
		size = runtime.NumCPU() * DefaultPerCPU
	}
	return &Manager{slots: make(chan struct{}, size)}
}

// Go runs fn in a new goroutine. It reports false, without running fn, when the
// manager is closed or every slot is taken.
func (m *Manager) Go(ctx context.Context, fn func(ctx context.Context) error) bool {
	if m == nil {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		slog.WarnContext(ctx, "goroutine manager closed, task dropped")
		return false
	}

	select {
	case m.slots <- struct{}{}:
	default:
		slog.WarnContext(ctx, "goroutine limit reached, task dropped", "limit", cap(m.slots))
		return false
	}

	m.wg.Go(func() {
		defer func() {
			<-m.slots
			if rvr := recover(); rvr != nil {
				stack := debug.Stack()
				if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
					slog.ErrorContext(ctx, "panic in goroutine", "panic", rvr, "stack", paths)
				} else {
					slog.ErrorContext(ctx, "panic in goroutine", "panic", rvr, "stack", string(stack))
				}
			}
		}()

		if err := ctx.Err(); err != nil {
			slog.WarnContext(ctx, "goroutine skipped", "because", err)
			return
		}

		if err := fn(ctx); err != nil {
			m.errMu.Lock()
			m.errs = append(m.errs, err)
			m.errMu.Unlock()
		}
	})

	return true
}

// Wait closes the manager, blocks until running tasks return and joins their errors.
func (m *Manager) Wait() error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.wg.Wait()

	m.errMu.Lock()
	defer m.errMu.Unlock()
	return errors.Join(m.errs...)
}
