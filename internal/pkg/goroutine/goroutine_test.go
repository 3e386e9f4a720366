package goroutine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	t.Run("collects errors", func(t *testing.T) {
		m := NewManager(4)
		errA := errors.New("a")

		require.True(t, m.Go(context.Background(), func(context.Context) error { return errA }))
		require.True(t, m.Go(context.Background(), func(context.Context) error { return nil }))

		err := m.Wait()
		assert.ErrorIs(t, err, errA)
	})

	t.Run("recovers panics", func(t *testing.T) {
		m := NewManager(1)
		require.True(t, m.Go(context.Background(), func(context.Context) error { panic("boom") }))
		assert.NoError(t, m.Wait())
	})

	t.Run("refuses work after wait", func(t *testing.T) {
		m := NewManager(1)
		require.NoError(t, m.Wait())
		assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))
	})

	t.Run("refuses work when full", func(t *testing.T) {
		m := NewManager(1)
		release := make(chan struct{})
		require.True(t, m.Go(context.Background(), func(context.Context) error { <-release; return nil }))
		assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))
		close(release)
		require.NoError(t, m.Wait())
	})

	t.Run("nil manager", func(t *testing.T) {
		var m *Manager
		assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))
		assert.NoError(t, m.Wait())
	})
}
