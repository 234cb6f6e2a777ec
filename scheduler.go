package proptest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// TestScheduler drives the registered run callback, either once or on a
// fixed interval.
type TestScheduler interface {
	Start(ctx context.Context) error
	Stop() error
	RegisterCallback(func() error)
	WaitForShutdown(ctx context.Context) error
	Stopped() bool
}

// DefaultTestScheduler implements TestScheduler. The first run always
// executes synchronously inside Start so run-once callers get the run's
// error directly; in continuous mode a background loop repeats the run on
// every interval tick until Stop or context cancellation.
type DefaultTestScheduler struct {
	interval time.Duration
	runOnce  bool
	logger   log.Logger

	run func() error

	active atomic.Bool
	quit   chan struct{}
	wg     sync.WaitGroup
}

// NewDefaultTestScheduler creates a new DefaultTestScheduler.
func NewDefaultTestScheduler(interval time.Duration, runOnce bool, logger log.Logger) *DefaultTestScheduler {
	return &DefaultTestScheduler{
		interval: interval,
		runOnce:  runOnce,
		logger:   logger,
	}
}

// RegisterCallback registers the callback invoked for each scheduled run.
func (s *DefaultTestScheduler) RegisterCallback(callback func() error) {
	s.run = callback
}

// Start executes the first run synchronously and, in continuous mode,
// launches the interval loop.
func (s *DefaultTestScheduler) Start(ctx context.Context) error {
	if s.run == nil {
		return errors.New("callback must be registered before starting scheduler")
	}

	s.quit = make(chan struct{})
	s.active.Store(true)

	if s.runOnce {
		s.logger.Info("Scheduler executing a single run")
		return s.run()
	}

	if s.interval <= 0 {
		return errors.New("continuous scheduling requires a positive interval")
	}

	s.logger.Info("Scheduler repeating runs", "interval", s.interval)
	if err := s.run(); err != nil {
		return err
	}

	s.wg.Add(1)
	go s.loop(ctx)
	return nil
}

func (s *DefaultTestScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Stop may race the tick; skip the run if it won.
			if !s.active.Load() {
				return
			}
			s.logger.Info("Starting scheduled run")
			if err := s.run(); err != nil {
				s.logger.Error("Scheduled run failed", "error", err)
			}

		case <-s.quit:
			s.logger.Debug("Scheduler loop exiting", "reason", "stop requested")
			return

		case <-ctx.Done():
			s.logger.Debug("Scheduler loop exiting", "reason", ctx.Err())
			s.active.Store(false)
			return
		}
	}
}

// Stop halts scheduling. It is safe to call repeatedly and before Start.
func (s *DefaultTestScheduler) Stop() error {
	if !s.active.Swap(false) {
		s.logger.Debug("Scheduler already stopped")
		return nil
	}
	close(s.quit)
	return nil
}

// Stopped reports whether the scheduler is no longer running.
func (s *DefaultTestScheduler) Stopped() bool {
	return !s.active.Load()
}

// WaitForShutdown blocks until the interval loop has exited or the context
// expires.
func (s *DefaultTestScheduler) WaitForShutdown(ctx context.Context) error {
	idle := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(idle)
	}()

	select {
	case <-idle:
		s.logger.Debug("Scheduler loop terminated")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Gave up waiting for scheduler loop", "error", ctx.Err())
		return ctx.Err()
	}
}
