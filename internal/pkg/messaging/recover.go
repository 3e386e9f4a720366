package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shandysiswandi/gocharity/internal/pkg/stacktrace"
	"go.uber.org/atomic"
)

// reply guards a message against being acked or nacked twice.
type reply struct {
	done atomic.Bool
}

func (r *reply) once(fn func() error) error {
	if r.done.Swap(true) {
		return nil
	}

	return fn()
}

func (r *reply) responded() bool { return r.done.Load() }

type replier interface {
	Message
	responded() bool
}

// dispatch runs handler with panic recovery and applies auto ack.
func dispatch(ctx context.Context, driver string, handler Handler, msg replier, co consumeOptions) error {
	err := callHandler(ctx, driver, handler, msg)
	if co.manualAck || msg.responded() {
		return err
	}

	if err != nil {
		slog.WarnContext(ctx, "message handler failed", "driver", driver, "topic", msg.Topic(), "id", msg.ID(), "error", err)
		return msg.Nack(ctx)
	}

	return msg.Ack(ctx)
}

func callHandler(ctx context.Context, driver string, handler Handler, msg Message) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", string(stack))
			}
			err = fmt.Errorf("messaging: panic in %s handler: %v", driver, rvr)
		}
	}()

	return handler(ctx, msg)
}

func validateConsume(topic string, handler Handler) error {
	if topic == "" {
		return ErrTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	return nil
}
