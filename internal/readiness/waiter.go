// Package readiness blocks process startup until the services it depends on
// answer a probe.
package readiness

import (
	"context"
	"fmt"
	"time"

	"user_accounts/internal/metrics"

	"go.uber.org/zap"
)

// Probe checks a dependency once. A nil error means it is reachable.
type Probe func(ctx context.Context) error

// ServiceCheck describes how to wait for one dependency
type ServiceCheck struct {
	Name         string
	Probe        Probe
	WaitInterval time.Duration
	MaxAttempts  int
}

// ExhaustedError is returned when a dependency never became reachable.
// It is fatal: callers must stop startup.
type ExhaustedError struct {
	Service  string
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed to connect to %s after %d attempts: %v", e.Service, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Waiter polls dependencies at a fixed interval
type Waiter struct {
	logger *zap.Logger
	sleep  func(time.Duration)
}

// NewWaiter creates a Waiter that reports progress to logger
func NewWaiter(logger *zap.Logger) *Waiter {
	return &Waiter{logger: logger, sleep: time.Sleep}
}

// WaitFor invokes check.Probe until it succeeds or MaxAttempts probes have
// failed. The interval between attempts is constant.
func (w *Waiter) WaitFor(ctx context.Context, check ServiceCheck) error {
	maxAttempts := check.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	w.logger.Info("Waiting for service", zap.String("service", check.Name))

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = check.Probe(ctx)
		if lastErr == nil {
			metrics.ProbeAttempts.WithLabelValues(check.Name, metrics.ResultSuccess).Inc()
			w.logger.Info("Service available",
				zap.String("service", check.Name),
				zap.Int("attempt", attempt))
			return nil
		}

		metrics.ProbeAttempts.WithLabelValues(check.Name, metrics.ResultFailure).Inc()
		w.logger.Warn("Service is not available",
			zap.String("service", check.Name),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Error(lastErr))

		// no point sleeping after the last attempt
		if attempt < maxAttempts {
			w.sleep(check.WaitInterval)
		}
	}

	err := &ExhaustedError{Service: check.Name, Attempts: maxAttempts, Err: lastErr}
	w.logger.Error("Service never became available",
		zap.String("service", check.Name),
		zap.Int("attempts", maxAttempts),
		zap.Error(lastErr))
	return err
}

// WaitForAll waits for each check in order and stops at the first failure.
func (w *Waiter) WaitForAll(ctx context.Context, checks []ServiceCheck) error {
	for _, check := range checks {
		if err := w.WaitFor(ctx, check); err != nil {
			return err
		}
	}
	return nil
}
