package proptest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/ethereum-optimism/infra/op-proptest/flags"
	"github.com/ethereum-optimism/infra/op-proptest/types"
	"github.com/ethereum/go-ethereum/log"
)

// Config holds the application configuration
type Config struct {
	Seed           *uint64             // Fixed seed for the randomness source (nil = derive from clock per run)
	LoggingLevel   types.DiagLevel     // Diagnostic level raised during failure replays
	ProgressLevel  types.ProgressLevel // Per-case progress detail
	InputTimeoutMS int                 // Input generation budget per case in milliseconds (0 = unbounded)
	TimeoutSec     int                 // Wall-clock rerun budget in seconds (0 = single sweep)
	ExitFast       bool                // Abandon the run at the first recorded failure
	Trap           bool                // Raise the debugger trap during failure replays
	Tuning         types.Tuning        // Generator tuning knobs forwarded to the randomness source
	MaxCases       int                 // Registry capacity (0 = default)
	RunInterval    time.Duration       // Interval between runs
	RunOnce        bool                // Indicates if the service should exit after one run
	LogDir         string              // Directory to store per-run artifacts (empty = disabled)
	ResultsTable   bool                // Print a per-suite results table after each run
	Stdout         io.Writer           // Destination for the run transcript (nil = os.Stdout)
	Suites         []SuiteInstaller    // Suites to install into the registry
	Log            log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	// Parse flags
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	var seed *uint64
	if s := ctx.String(flags.Seed.Name); s != "" {
		// Hex digits with an optional 0x prefix.
		digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
		v, err := strconv.ParseUint(digits, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed '%s': %w", s, err)
		}
		seed = &v
	}

	loggingLevel := types.DiagLevel(ctx.Int(flags.LoggingLevel.Name))
	if !loggingLevel.Valid() {
		return nil, fmt.Errorf("invalid logging level %d", ctx.Int(flags.LoggingLevel.Name))
	}
	progressLevel := types.ProgressLevel(ctx.Int(flags.ProgressLevel.Name))
	if !progressLevel.Valid() {
		return nil, fmt.Errorf("invalid progress level %d", ctx.Int(flags.ProgressLevel.Name))
	}

	inputTimeout := ctx.Int(flags.InputTimeout.Name)
	if inputTimeout < 0 {
		return nil, fmt.Errorf("input timeout must not be negative, got %d", inputTimeout)
	}
	timeout := ctx.Int(flags.UntilTimeout.Name)
	if timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %d", timeout)
	}
	maxCases := ctx.Int(flags.MaxCases.Name)
	if maxCases < 0 {
		return nil, fmt.Errorf("max cases must not be negative, got %d", maxCases)
	}

	tuning, err := loadTuning(ctx)
	if err != nil {
		return nil, err
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)
	runOnce := runInterval == 0

	// Resolve the log directory if file artifacts are enabled
	logDir := ctx.String(flags.LogDir.Name)
	if logDir != "" {
		logDir, err = filepath.Abs(logDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for log directory '%s': %w", ctx.String(flags.LogDir.Name), err)
		}
	}

	return &Config{
		Seed:           seed,
		LoggingLevel:   loggingLevel,
		ProgressLevel:  progressLevel,
		InputTimeoutMS: inputTimeout,
		TimeoutSec:     timeout,
		ExitFast:       ctx.Bool(flags.ExitFast.Name),
		Trap:           ctx.Bool(flags.Trap.Name),
		Tuning:         tuning,
		MaxCases:       maxCases,
		RunInterval:    runInterval,
		RunOnce:        runOnce,
		LogDir:         logDir,
		ResultsTable:   ctx.Bool(flags.ResultsTable.Name),
		Log:            log,
	}, nil
}

// tuningProfile mirrors the YAML tuning file layout. Absent keys stay nil so
// the randomness source keeps its own defaults for them.
type tuningProfile struct {
	MaxStackDepth              *uint64 `yaml:"max_stack_depth"`
	MaxGeneratorSize           *uint64 `yaml:"max_generator_size"`
	NullInEvery                *uint64 `yaml:"null_in_every"`
	SizedNull                  *bool   `yaml:"sized_null"`
	AllowedDepthFailures       *uint64 `yaml:"allowed_depth_failures"`
	AllowedSizeSplitBacktracks *uint64 `yaml:"allowed_size_split_backtracks"`
}

// loadTuning assembles the generator tuning from the optional YAML profile
// and the CLI flags. Explicit flags override the profile.
func loadTuning(ctx *cli.Context) (types.Tuning, error) {
	var tuning types.Tuning

	if path := ctx.String(flags.TuningConfig.Name); path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return tuning, fmt.Errorf("failed to resolve absolute path for tuning config '%s': %w", path, err)
		}
		data, err := os.ReadFile(absPath)
		if err != nil {
			return tuning, fmt.Errorf("failed to read tuning config: %w", err)
		}
		var profile tuningProfile
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return tuning, fmt.Errorf("failed to parse tuning config '%s': %w", path, err)
		}
		tuning = types.Tuning(profile)
	}

	if ctx.IsSet(flags.MaxStackDepth.Name) {
		v := ctx.Uint64(flags.MaxStackDepth.Name)
		tuning.MaxStackDepth = &v
	}
	if ctx.IsSet(flags.MaxGeneratorSize.Name) {
		v := ctx.Uint64(flags.MaxGeneratorSize.Name)
		tuning.MaxGeneratorSize = &v
	}
	if ctx.IsSet(flags.NullInEvery.Name) {
		v := ctx.Uint64(flags.NullInEvery.Name)
		tuning.NullInEvery = &v
	}
	if ctx.IsSet(flags.SizedNull.Name) {
		v := ctx.Bool(flags.SizedNull.Name)
		tuning.SizedNull = &v
	}
	if ctx.IsSet(flags.AllowedDepthFailures.Name) {
		v := ctx.Uint64(flags.AllowedDepthFailures.Name)
		tuning.AllowedDepthFailures = &v
	}
	if ctx.IsSet(flags.AllowedSizeSplitBacktracks.Name) {
		v := ctx.Uint64(flags.AllowedSizeSplitBacktracks.Name)
		tuning.AllowedSizeSplitBacktracks = &v
	}

	if tuning.MaxGeneratorSize != nil && *tuning.MaxGeneratorSize == 0 {
		return tuning, errors.New("max generator size must not be 0")
	}

	return tuning, nil
}
