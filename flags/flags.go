package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
	opmetrics "github.com/ethereum-optimism/optimism/op-service/metrics"
)

const EnvVarPrefix = "OP_PROPTEST"

var (
	Seed = &cli.StringFlag{
		Name:    "seed",
		Aliases: []string{"S"},
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "SEED"),
		Usage:   "Hexadecimal seed for the randomness source (eg. 'deadbeef'). Omit to derive one from the clock.",
	}
	LoggingLevel = &cli.IntFlag{
		Name:    "logging-level",
		Value:   1,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "LOGGING_LEVEL"),
		Usage:   "Diagnostic level raised while replaying a failing case (0=none, 1=error, 2=info)",
	}
	ProgressLevel = &cli.IntFlag{
		Name:    "progress-level",
		Value:   2,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "PROGRESS_LEVEL"),
		Usage:   "Per-case progress detail (0=none, 1=final, 2=all)",
	}
	InputTimeout = &cli.IntFlag{
		Name:    "input-timeout",
		Value:   5000,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "INPUT_TIMEOUT"),
		Usage:   "Input generation budget per case in milliseconds. Set to 0 to remove the bound.",
	}
	UntilTimeout = &cli.IntFlag{
		Name:    "until-timeout",
		Value:   0,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "UNTIL_TIMEOUT"),
		Usage:   "Keep rerunning the cases until this many seconds have passed. Set to 0 for a single sweep.",
	}
	ExitFast = &cli.BoolFlag{
		Name:    "exit-fast",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "EXIT_FAST"),
		Usage:   "Abandon the run at the first recorded failure",
	}
	Trap = &cli.BoolFlag{
		Name:    "trap",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "TRAP"),
		Usage:   "Raise a debugger trap at the failing assertion while replaying a failure",
	}
	MaxStackDepth = &cli.Uint64Flag{
		Name:    "max-stack-depth",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "MAX_STACK_DEPTH"),
		Usage:   "Maximum recursion depth for generated inputs",
	}
	MaxGeneratorSize = &cli.Uint64Flag{
		Name:    "max-generator-size",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "MAX_GENERATOR_SIZE"),
		Usage:   "Maximum size bound for generated inputs (must not be 0)",
	}
	NullInEvery = &cli.Uint64Flag{
		Name:    "null-in-every",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "NULL_IN_EVERY"),
		Usage:   "Generate a null pointer roughly once in every N pointer draws",
	}
	SizedNull = &cli.BoolFlag{
		Name:    "sized-null",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "SIZED_NULL"),
		Usage:   "Scale the null pointer rate by the remaining size budget",
	}
	AllowedDepthFailures = &cli.Uint64Flag{
		Name:    "allowed-depth-failures",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "ALLOWED_DEPTH_FAILURES"),
		Usage:   "Number of depth-limit misses tolerated before a generation attempt is abandoned",
	}
	AllowedSizeSplitBacktracks = &cli.Uint64Flag{
		Name:    "allowed-size-split-backtracks",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "ALLOWED_SIZE_SPLIT_BACKTRACKS"),
		Usage:   "Number of size-split backtracks tolerated before a generation attempt is abandoned",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "RUN_INTERVAL"),
		Usage:   "Interval between runs (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
	LogDir = &cli.StringFlag{
		Name:    "logdir",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "LOGDIR"),
		Usage:   "Directory to store per-run transcripts and results. Omit to disable file artifacts.",
	}
	ResultsTable = &cli.BoolFlag{
		Name:    "results-table",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "RESULTS_TABLE"),
		Usage:   "Print a per-suite results table after each run",
	}
	MaxCases = &cli.IntFlag{
		Name:    "max-cases",
		Value:   0,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "MAX_CASES"),
		Usage:   "Maximum number of registered cases (0 = default 1000)",
	}
	TuningConfig = &cli.StringFlag{
		Name:    "tuning-config",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "TUNING_CONFIG"),
		Usage:   "Path to a YAML tuning profile (eg. 'tuning.yaml'). Explicit tuning flags override it.",
	}
)

var requiredFlags = []cli.Flag{}

var optionalFlags = []cli.Flag{
	Seed,
	LoggingLevel,
	ProgressLevel,
	InputTimeout,
	UntilTimeout,
	ExitFast,
	Trap,
	MaxStackDepth,
	MaxGeneratorSize,
	NullInEvery,
	SizedNull,
	AllowedDepthFailures,
	AllowedSizeSplitBacktracks,
	RunInterval,
	LogDir,
	ResultsTable,
	MaxCases,
	TuningConfig,
}
var Flags []cli.Flag

func init() {
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)
	optionalFlags = append(optionalFlags, opmetrics.CLIFlags(EnvVarPrefix)...)

	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
