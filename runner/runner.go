package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ethereum-optimism/infra/op-proptest/metrics"
	"github.com/ethereum-optimism/infra/op-proptest/randsrc"
	"github.com/ethereum-optimism/infra/op-proptest/registry"
	"github.com/ethereum-optimism/infra/op-proptest/reporting"
	"github.com/ethereum-optimism/infra/op-proptest/types"
)

// Runner drives registered cases to a final tally.
type Runner interface {
	Run(ctx context.Context) (*Result, error)
}

// runner struct implements the Runner interface
type runner struct {
	registry *registry.Registry
	source   *randsrc.Source
	console  *reporting.Console
	diag     *reporting.Diag
	log      log.Logger

	seed         *uint64
	progress     types.ProgressLevel
	loggingLevel types.DiagLevel
	timeoutSec   int
	inputTimeout int
	exitFast     bool
	trap         bool
	tuning       types.Tuning

	fixedRunID string
	runID      string
	tracer     trace.Tracer
}

// Config holds configuration for creating a new runner
type Config struct {
	Registry *registry.Registry
	Source   *randsrc.Source
	Console  *reporting.Console
	Diag     *reporting.Diag
	Log      log.Logger

	// RunID labels the run in artifacts and metrics. Empty generates a
	// fresh identifier per run.
	RunID string
	// Seed fixes the run seed. Nil derives a fresh one from the clock, so
	// periodic runs explore new inputs while explicit seeds reproduce
	// exactly.
	Seed *uint64
	// Progress selects the transcript detail level.
	Progress types.ProgressLevel
	// LoggingLevel is the diagnostic level raised during failure replays.
	LoggingLevel types.DiagLevel
	// TimeoutSec is the wall-clock budget in seconds. Zero runs a single
	// sweep.
	TimeoutSec int
	// InputTimeoutMS bounds each case's input-generation phase in
	// milliseconds. Zero removes the bound.
	InputTimeoutMS int
	// ExitFast abandons the run at the first recorded failure.
	ExitFast bool
	// Trap re-enables the debugger trap during failure replays.
	Trap bool
	// Tuning carries the generator knobs forwarded to the source.
	Tuning types.Tuning
}

// NewRunner creates a new runner instance
func NewRunner(cfg Config) (Runner, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.Source == nil {
		return nil, fmt.Errorf("randomness source is required")
	}
	if !cfg.Progress.Valid() {
		return nil, fmt.Errorf("invalid progress level %d", cfg.Progress)
	}
	if !cfg.LoggingLevel.Valid() {
		return nil, fmt.Errorf("invalid logging level %d", cfg.LoggingLevel)
	}
	if cfg.TimeoutSec < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %d", cfg.TimeoutSec)
	}
	if cfg.InputTimeoutMS < 0 {
		return nil, fmt.Errorf("input timeout must not be negative, got %d", cfg.InputTimeoutMS)
	}
	if cfg.Console == nil {
		cfg.Console = reporting.NewConsole(nil)
	}
	if cfg.Diag == nil {
		cfg.Diag = reporting.NewDiag(nil)
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	cfg.Log.Debug("NewRunner()", "progress", cfg.Progress, "loggingLevel", cfg.LoggingLevel,
		"timeoutSec", cfg.TimeoutSec, "inputTimeoutMS", cfg.InputTimeoutMS,
		"exitFast", cfg.ExitFast, "trap", cfg.Trap)

	return &runner{
		registry:     cfg.Registry,
		source:       cfg.Source,
		console:      cfg.Console,
		diag:         cfg.Diag,
		log:          cfg.Log,
		fixedRunID:   cfg.RunID,
		seed:         cfg.Seed,
		progress:     cfg.Progress,
		loggingLevel: cfg.LoggingLevel,
		timeoutSec:   cfg.TimeoutSec,
		inputTimeout: cfg.InputTimeoutMS,
		exitFast:     cfg.ExitFast,
		trap:         cfg.Trap,
		tuning:       cfg.Tuning,
		tracer:       otel.Tracer("proptest runner"),
	}, nil
}

// Run executes sweeps over the registered cases until the wall-clock
// budget expires or a failure aborts an exit-fast run. An exit-fast abort
// still returns a full tally with the unreached slots skipped;
// cancellation returns the context's error instead of a result.
func (r *runner) Run(ctx context.Context) (*Result, error) {
	r.runID = r.fixedRunID
	if r.runID == "" {
		r.runID = uuid.New().String()
	}
	defer func() {
		r.runID = ""
	}()

	ctx, span := r.tracer.Start(ctx, "proptest run")
	defer span.End()

	start := time.Now()
	r.log.Debug("Starting run", "run_id", r.runID)

	cases := r.registry.Cases()

	seed := r.chooseSeed()
	if r.timeoutSec != 0 {
		r.console.Banner(r.timeoutSec)
	}
	r.console.Seed(seed)

	r.source.Seed(seed)
	r.source.ApplyTuning(r.tuning)

	result := &Result{
		RunID: r.runID,
		Seed:  seed,
		Slots: newSlots(cases),
	}

	if len(cases) == 0 {
		r.log.Warn("No cases registered", "run_id", r.runID)
	} else if err := r.sweep(ctx, cases, result); err != nil {
		return nil, err
	}

	result.Stats = types.Tally(result.Slots)
	result.Duration = time.Since(start)

	r.log.Debug("Run complete", "run_id", r.runID, "sweeps", result.Sweeps,
		"passed", result.Stats.Passed, "failed", result.Stats.Failed,
		"errored", result.Stats.Errored, "skipped", result.Stats.Skipped)

	return result, nil
}

// sweep loops over the registered cases until the budget expires. The
// budget is checked once per sweep, at the boundary, so every sweep that
// starts also finishes. Cancellation is honored at slot boundaries and
// aborts the run with the context's error.
func (r *runner) sweep(ctx context.Context, cases []types.RegisteredCase, result *Result) error {
	beginSec := r.source.ElapsedMilliseconds() / 1000
	checkpoints := make([]randsrc.Checkpoint, len(cases))

	for {
		for i := range cases {
			// A recorded failure freezes its slot for the rest of the run.
			if result.Slots[i].Outcome == types.OutcomeFail {
				continue
			}
			if err := ctx.Err(); err != nil {
				r.log.Warn("Run cancelled", "run_id", r.runID, "err", err)
				return err
			}
			if abort := r.runSlot(ctx, cases[i], i, result, checkpoints); abort {
				return nil
			}
		}
		result.Sweeps++

		elapsed := r.source.ElapsedMilliseconds()/1000 - beginSec
		if elapsed >= int64(r.timeoutSec) {
			return nil
		}
		r.console.RerunNotice(int(int64(r.timeoutSec) - elapsed))
	}
}

// runSlot executes one case once and applies the merge rule. It reports
// whether the run should abort because of an exit-fast failure.
func (r *runner) runSlot(ctx context.Context, c types.RegisteredCase, i int, result *Result, checkpoints []randsrc.Checkpoint) bool {
	if r.progress == types.ProgressAll {
		r.console.CaseBegin(c.Metadata)
	}

	checkpoints[i] = r.source.Save()
	r.source.SetInputTimeout(r.inputTimeout)
	outcome := r.runCase(ctx, c)

	// A pass is never downgraded by a later generation failure; every
	// other combination records the fresh outcome.
	if !(result.Slots[i].Outcome == types.OutcomePass && outcome == types.OutcomeGenFail) {
		result.Slots[i].Outcome = outcome
	}
	metrics.RecordCaseResult(r.runID, c.Metadata, outcome)

	if r.progress == types.ProgressNone {
		return false
	}

	r.console.Outcome(outcome)
	if outcome == types.OutcomeFail {
		r.replay(ctx, c, checkpoints[i])
		if r.exitFast {
			r.log.Info("Exiting fast after failure", "case", c.Metadata.String())
			return true
		}
	}
	return false
}

// runCase executes one trial batch of a case. A panicking case records a
// failure; an invalid outcome records a generation failure.
func (r *runner) runCase(ctx context.Context, c types.RegisteredCase) (outcome types.Outcome) {
	_, span := r.tracer.Start(ctx, fmt.Sprintf("case %s", c.Metadata.String()))
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("Panic in case", "case", c.Metadata.String(), "panic", rec)
			outcome = types.OutcomeFail
		}
	}()

	outcome = c.Case.Run(r.progress, false)
	if !outcome.Valid() {
		r.log.Error("Case returned invalid outcome", "case", c.Metadata.String(), "outcome", outcome)
		outcome = types.OutcomeGenFail
	}
	return outcome
}

// replay reruns a failing case from its checkpoint with diagnostics
// raised, so the counterexample detail prints exactly once. The replayed
// outcome is discarded; the slot already holds the failure.
func (r *runner) replay(ctx context.Context, c types.RegisteredCase, cp randsrc.Checkpoint) {
	_, span := r.tracer.Start(ctx, fmt.Sprintf("replay %s", c.Metadata.String()))
	defer span.End()

	r.diag.SetLevel(r.loggingLevel)
	r.source.Restore(cp)
	r.source.SetInputTimeout(0)

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.log.Error("Panic in replay", "case", c.Metadata.String(), "panic", rec)
			}
		}()
		c.Case.Run(types.ProgressNone, r.trap)
	}()

	r.diag.SetLevel(types.DiagNone)
	r.console.ReplayFooter()
}

// chooseSeed returns the configured seed, or derives a fresh one by
// seeding the source from the wall clock and taking a single draw.
func (r *runner) chooseSeed() uint64 {
	if r.seed != nil {
		return *r.seed
	}
	r.source.Seed(uint64(time.Now().UnixMilli()))
	return r.source.Uint64()
}
