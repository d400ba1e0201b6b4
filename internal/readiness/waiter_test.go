package readiness

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestWaiter(logger *zap.Logger) (*Waiter, *[]time.Duration) {
	var sleeps []time.Duration
	w := &Waiter{
		logger: logger,
		sleep:  func(d time.Duration) { sleeps = append(sleeps, d) },
	}
	return w, &sleeps
}

func failingProbe(failures int, calls *int) Probe {
	return func(ctx context.Context) error {
		*calls++
		if *calls <= failures {
			return errors.New("connection refused")
		}
		return nil
	}
}

func TestWaitFor_SucceedsAfterFailures(t *testing.T) {
	w, sleeps := newTestWaiter(zap.NewNop())
	calls := 0

	err := w.WaitFor(context.Background(), ServiceCheck{
		Name:         "database",
		Probe:        failingProbe(2, &calls),
		WaitInterval: time.Second,
		MaxAttempts:  5,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, *sleeps)
}

func TestWaitFor_ImmediateSuccessDoesNotSleep(t *testing.T) {
	w, sleeps := newTestWaiter(zap.NewNop())
	calls := 0

	err := w.WaitFor(context.Background(), ServiceCheck{
		Name:         "cache",
		Probe:        failingProbe(0, &calls),
		WaitInterval: time.Second,
		MaxAttempts:  3,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *sleeps)
}

func TestWaitFor_Exhausted(t *testing.T) {
	w, sleeps := newTestWaiter(zap.NewNop())
	calls := 0
	probeErr := errors.New("dial tcp: connection refused")

	err := w.WaitFor(context.Background(), ServiceCheck{
		Name: "broker",
		Probe: func(ctx context.Context) error {
			calls++
			return probeErr
		},
		WaitInterval: 500 * time.Millisecond,
		MaxAttempts:  3,
	})

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, "broker", exhausted.Service)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.ErrorIs(t, err, probeErr)
	assert.Contains(t, err.Error(), "failed to connect to broker after 3 attempts")
	assert.Equal(t, 3, calls)
	assert.Len(t, *sleeps, 2)
}

func TestWaitFor_NonPositiveMaxAttemptsProbesOnce(t *testing.T) {
	w, _ := newTestWaiter(zap.NewNop())
	calls := 0

	err := w.WaitFor(context.Background(), ServiceCheck{
		Name:        "database",
		Probe:       failingProbe(10, &calls),
		MaxAttempts: 0,
	})

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 1, exhausted.Attempts)
	assert.Equal(t, 1, calls)
}

func TestWaitFor_LogsEveryAttempt(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w, _ := newTestWaiter(zap.New(core))
	calls := 0

	err := w.WaitFor(context.Background(), ServiceCheck{
		Name:        "database",
		Probe:       failingProbe(2, &calls),
		MaxAttempts: 5,
	})
	require.NoError(t, err)

	failures := logs.FilterMessage("Service is not available").All()
	require.Len(t, failures, 2)
	assert.Equal(t, "database", failures[0].ContextMap()["service"])
	assert.Equal(t, "connection refused", failures[0].ContextMap()["error"])
	assert.Equal(t, 1, logs.FilterMessage("Service available").Len())
}

func TestWaitForAll_StopsAtFirstFailure(t *testing.T) {
	w, _ := newTestWaiter(zap.NewNop())
	var order []string
	record := func(name string, err error) Probe {
		return func(ctx context.Context) error {
			order = append(order, name)
			return err
		}
	}

	err := w.WaitForAll(context.Background(), []ServiceCheck{
		{Name: "database", Probe: record("database", nil), MaxAttempts: 1},
		{Name: "cache", Probe: record("cache", errors.New("down")), MaxAttempts: 2},
		{Name: "broker", Probe: record("broker", nil), MaxAttempts: 1},
	})

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, "cache", exhausted.Service)
	assert.Equal(t, []string{"database", "cache", "cache"}, order)
}
