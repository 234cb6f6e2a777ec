package proptest

import (
	"context"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-proptest/runner"
)

// TestExecutor is responsible for executing one run over the registry.
type TestExecutor interface {
	RunTests(ctx context.Context, runID string) (*runner.Result, error)
}

// DefaultTestExecutor implements the TestExecutor interface. It builds a
// fresh runner per run from a base configuration so each run carries its
// own identifier.
type DefaultTestExecutor struct {
	base   runner.Config
	logger log.Logger
}

// NewDefaultTestExecutor creates a new DefaultTestExecutor.
func NewDefaultTestExecutor(base runner.Config, logger log.Logger) *DefaultTestExecutor {
	return &DefaultTestExecutor{
		base:   base,
		logger: logger,
	}
}

// RunTests runs all registered cases and returns the results.
func (e *DefaultTestExecutor) RunTests(ctx context.Context, runID string) (*runner.Result, error) {
	cfg := e.base
	cfg.RunID = runID

	r, err := runner.NewRunner(cfg)
	if err != nil {
		e.logger.Error("Error building runner", "error", err)
		return nil, err
	}

	e.logger.Info("Running all cases...", "run_id", runID)
	result, err := r.Run(ctx)
	if err != nil {
		e.logger.Error("Error running cases", "error", err)
		return nil, err
	}
	e.logger.Info("Run completed", "run_id", result.RunID, "status", result.Status())
	return result, nil
}
