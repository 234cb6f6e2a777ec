package proptest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/op-proptest/exitcodes"
	"github.com/ethereum-optimism/infra/op-proptest/randsrc"
	"github.com/ethereum-optimism/infra/op-proptest/registry"
	"github.com/ethereum-optimism/infra/op-proptest/reporting"
	"github.com/ethereum-optimism/infra/op-proptest/runner"
	"github.com/ethereum-optimism/optimism/op-service/cliapp"
)

// proptest implements the cliapp.Lifecycle interface.
var _ cliapp.Lifecycle = &proptest{}

// SuiteInstaller registers a suite's cases against the run collaborators.
// Suites draw randomness from the source, print progress through the
// console, and emit counterexample detail through diag.
type SuiteInstaller func(reg *registry.Registry, src *randsrc.Source, console *reporting.Console, diag *reporting.Diag) error

// proptest is a randomized property-testing service that runs registered
// cases on a schedule.
type proptest struct {
	ctx      context.Context
	config   *Config
	version  string
	registry *registry.Registry
	source   *randsrc.Source
	console  *reporting.Console
	diag     *reporting.Diag
	stdout   io.Writer
	out      *teeWriter

	executor  TestExecutor
	scheduler TestScheduler
	formatter ResultFormatter
	reporter  MetricsReporter

	result *runner.Result

	shutdownCallback func(error) // Asks the app to wind down after a clean run-once run
}

func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*proptest, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating proptest service with config",
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce,
		"progressLevel", config.ProgressLevel,
		"timeoutSec", config.TimeoutSec,
		"exitFast", config.ExitFast)

	stdout := config.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	out := newTeeWriter(stdout)

	reg, err := registry.NewRegistry(registry.Config{
		Log:      config.Log,
		Capacity: config.MaxCases,
		Out:      out,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}

	source := randsrc.New(randsrc.Config{})
	console := reporting.NewConsole(out)
	diag := reporting.NewDiag(out)

	for _, install := range config.Suites {
		if err := install(reg, source, console, diag); err != nil {
			return nil, fmt.Errorf("failed to install suite: %w", err)
		}
	}

	executor := NewDefaultTestExecutor(runner.Config{
		Registry:       reg,
		Source:         source,
		Console:        console,
		Diag:           diag,
		Log:            config.Log,
		Seed:           config.Seed,
		Progress:       config.ProgressLevel,
		LoggingLevel:   config.LoggingLevel,
		TimeoutSec:     config.TimeoutSec,
		InputTimeoutMS: config.InputTimeoutMS,
		ExitFast:       config.ExitFast,
		Trap:           config.Trap,
		Tuning:         config.Tuning,
	}, config.Log)

	p := &proptest{
		ctx:              ctx,
		config:           config,
		version:          version,
		registry:         reg,
		source:           source,
		console:          console,
		diag:             diag,
		stdout:           stdout,
		out:              out,
		executor:         executor,
		scheduler:        NewDefaultTestScheduler(config.RunInterval, config.RunOnce, config.Log),
		formatter:        NewConsoleResultFormatter(config.Log, out),
		reporter:         NewDefaultMetricsReporter(),
		shutdownCallback: shutdownCallback,
	}
	p.scheduler.RegisterCallback(p.runTests)

	config.Log.Info("proptest.New: created registry and executor", "cases", reg.Len())
	return p, nil
}

// Start begins running the registered cases at the configured interval.
// Start implements the cliapp.Lifecycle interface.
func (p *proptest) Start(ctx context.Context) error {
	// A panic anywhere below is an operational fault, never a test verdict.
	defer func() {
		if r := recover(); r != nil {
			p.config.Log.Error("Runtime error occurred", "error", r)
			os.Exit(exitcodes.RuntimeErr)
		}
	}()

	p.ctx = ctx

	if p.config.RunOnce {
		p.config.Log.Info("Starting op-proptest in run-once mode")
	} else {
		p.config.Log.Info("Starting op-proptest in continuous mode", "interval", p.config.RunInterval)
	}

	// The scheduler executes the first run synchronously, so by the time it
	// returns a run-once verdict is already in p.result.
	if err := p.scheduler.Start(ctx); err != nil {
		p.config.Log.Error("Runtime error running cases", "error", err)
		return cli.Exit(err.Error(), exitcodes.RuntimeErr)
	}

	if p.config.RunOnce {
		p.config.Log.Info("Run completed, exiting (run-once mode)")

		if p.result != nil && !p.result.Stats.Clean() {
			p.config.Log.Warn("Run-once run completed with failures, returning exit code 1")
			return NewTestFailureError(p.result.String())
		}

		// Clean verdict. Ask the app to wind down off the lifecycle goroutine.
		go func() {
			p.shutdownCallback(nil)
		}()
		return nil
	}

	p.config.Log.Debug("op-proptest started successfully")
	return nil
}

// runTests executes one run over the registry and processes the results
func (p *proptest) runTests() error {
	runID := uuid.New().String()

	var fileLogger *reporting.FileLogger
	if p.config.LogDir != "" {
		var err error
		fileLogger, err = reporting.NewFileLogger(p.config.LogDir, runID)
		if err != nil {
			p.config.Log.Error("Failed to create file logger", "error", err)
			return NewRuntimeError(err)
		}
		// Mirror the transcript into the run directory for the duration of
		// this run.
		p.out.Set(io.MultiWriter(p.stdout, fileLogger.ConsoleWriter()))
		defer func() {
			p.out.Set(p.stdout)
			if err := fileLogger.Close(); err != nil {
				p.config.Log.Warn("Failed to close file logger", "error", err)
			}
		}()
	}

	result, err := p.executor.RunTests(p.ctx, runID)
	if err != nil {
		p.config.Log.Error("Runtime error running cases", "error", err)
		return NewRuntimeError(err)
	}
	p.result = result

	p.console.Summary(result.Stats)

	if p.config.ResultsTable {
		if err := p.formatter.FormatResults(result); err != nil {
			p.config.Log.Warn("Failed to render results table", "error", err)
		}
	}
	if fileLogger != nil {
		if err := fileLogger.WriteResults(result); err != nil {
			p.config.Log.Warn("Failed to write results file", "error", err)
		}
	}
	p.reporter.ReportResults(runID, result)

	p.config.Log.Info("Run completed", "run_id", runID, "status", result.Status(),
		"passed", result.Stats.Passed, "failed", result.Stats.Failed,
		"errored", result.Stats.Errored, "skipped", result.Stats.Skipped)
	return nil
}

// Stop stops the op-proptest service.
// Stop implements the cliapp.Lifecycle interface.
func (p *proptest) Stop(ctx context.Context) error {
	p.config.Log.Info("Stopping op-proptest")

	if p.scheduler.Stopped() {
		p.config.Log.Debug("Service already stopped, nothing to do")
		return nil
	}

	if err := p.scheduler.Stop(); err != nil {
		return err
	}

	p.config.Log.Info("op-proptest stopped successfully")
	return nil
}

// Stopped returns true if the op-proptest service is stopped.
// Stopped implements the cliapp.Lifecycle interface.
func (p *proptest) Stopped() bool {
	return p.scheduler.Stopped()
}

// WaitForShutdown blocks until all goroutines have terminated.
func (p *proptest) WaitForShutdown(ctx context.Context) error {
	return p.scheduler.WaitForShutdown(ctx)
}
