package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	proptest "github.com/ethereum-optimism/infra/op-proptest"
	"github.com/ethereum-optimism/infra/op-proptest/exitcodes"
	"github.com/ethereum-optimism/infra/op-proptest/flags"
	"github.com/ethereum-optimism/infra/op-proptest/service"
	"github.com/ethereum-optimism/infra/op-proptest/suites/smoke"
	"github.com/ethereum-optimism/optimism/op-service/cliapp"
	"github.com/ethereum-optimism/optimism/op-service/ctxinterrupt"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "op-proptest"
	app.Usage = "Optimism Randomized Property Testing Service"
	app.Description = "op-proptest runs registered property cases against randomized inputs"
	app.Flags = cliapp.ProtectFlags(flags.Flags)
	app.Action = cliapp.LifecycleCmd(run)
	app.ExitErrHandler = func(c *cli.Context, err error) {
		if err == nil {
			return
		}
		var exitErr cli.ExitCoder
		switch {
		case errors.As(err, &exitErr):
			cli.HandleExitCoder(exitErr)
		case proptest.IsRuntimeError(err):
			cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
		default:
			// Dirty runs and untyped errors both exit 1.
			cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
		}
	}

	// Telemetry first, so the whole CLI run is traced.
	shutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Crit("Failed to setup open telemetry", "message", err)
	}
	defer shutdown()

	// Health and metrics servers run for the life of the process, including
	// continuous mode where runs repeat until interrupted.
	ctx := context.Background()
	svc := service.New(app.Version)
	svc.Start(ctx)
	defer svc.Shutdown()

	ctx = ctxinterrupt.WithSignalWaiterMain(ctx)
	err = app.RunContext(ctx, os.Args)
	if err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(ctx *cli.Context, closeApp context.CancelCauseFunc) (cliapp.Lifecycle, error) {
	logCfg := oplog.ReadCLIConfig(ctx)
	log := oplog.NewLogger(oplog.AppOut(ctx), logCfg)
	oplog.SetGlobalLogHandler(log.Handler())
	oplog.SetupDefaults()

	// Flag problems are operational, not a test verdict, so they carry the
	// runtime exit code.
	cfg, err := proptest.NewConfig(ctx, log)
	if err != nil {
		return nil, proptest.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}
	cfg.Suites = []proptest.SuiteInstaller{smoke.Install}

	cfg.Log.Debug("Config", "config", cfg)

	p, err := proptest.New(ctx.Context, cfg, Version, closeApp)
	if err != nil {
		return nil, proptest.NewRuntimeError(fmt.Errorf("failed to create service: %w", err))
	}

	return p, nil
}
