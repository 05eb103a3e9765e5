package index

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWaitReady_TimesOutWithIndexNotReady(t *testing.T) {
	probe := func(context.Context) error {
		return errors.New("relation does not exist")
	}

	start := time.Now()
	err := waitReady(context.Background(), probe, time.Millisecond, 10*time.Millisecond, zap.NewNop())
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIndexNotReady)
	assert.Less(t, elapsed, time.Second, "timeout must bound the wait")
}

func TestWaitReady_SucceedsOnceProbePasses(t *testing.T) {
	calls := 0
	probe := func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}

	err := waitReady(context.Background(), probe, time.Millisecond, time.Second, zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWaitReady_ImmediateSuccessSkipsPolling(t *testing.T) {
	calls := 0
	probe := func(context.Context) error {
		calls++
		return nil
	}

	err := waitReady(context.Background(), probe, time.Hour, time.Hour, zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWaitReady_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	probe := func(context.Context) error {
		return errors.New("not yet")
	}

	err := waitReady(ctx, probe, time.Millisecond, time.Minute, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}
