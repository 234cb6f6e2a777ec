package registry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-proptest/exitcodes"
	"github.com/ethereum-optimism/infra/op-proptest/types"
)

// DefaultCapacity is the registration limit used when none is configured.
const DefaultCapacity = 1000

// ErrRegistryFull is returned when a registration would exceed capacity.
var ErrRegistryFull = errors.New("registry full")

// overflowMessage is printed verbatim by MustRegister before exiting.
// It carries no trailing newline.
const overflowMessage = "Tried to register too many tests."

// Registry is the append-only table of registered cases. Cases run in
// registration order and are never removed.
type Registry struct {
	config Config
	cases  []types.RegisteredCase
	mu     sync.RWMutex

	exit func(int)
}

// Config carries registry construction options.
type Config struct {
	Log log.Logger
	// Capacity bounds how many cases may be registered. Zero selects
	// DefaultCapacity.
	Capacity int
	// Out receives the overflow message from MustRegister. Defaults to
	// os.Stdout.
	Out io.Writer
}

// NewRegistry creates an empty registry with the configured capacity.
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.Capacity < 0 {
		return nil, fmt.Errorf("registry capacity must not be negative, got %d", cfg.Capacity)
	}
	if cfg.Capacity == 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	return &Registry{
		config: cfg,
		cases:  make([]types.RegisteredCase, 0, cfg.Capacity),
		exit:   os.Exit,
	}, nil
}

// Register appends a case under suite and name. Duplicate names are
// allowed; the case simply runs once per registration. Registering beyond
// capacity returns ErrRegistryFull and leaves the table unchanged.
func (r *Registry) Register(suite, name string, c types.Case) error {
	if c == nil {
		return fmt.Errorf("case %s::%s is nil", suite, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.cases) >= r.config.Capacity {
		return fmt.Errorf("registering %s::%s: %w", suite, name, ErrRegistryFull)
	}

	r.cases = append(r.cases, types.RegisteredCase{
		Metadata: types.CaseMetadata{Suite: suite, Name: name},
		Case:     c,
	})
	r.config.Log.Debug("Registered case", "suite", suite, "name", name, "len(cases)", len(r.cases))

	return nil
}

// RegisterFunc registers a bare function as a case.
func (r *Registry) RegisterFunc(suite, name string, fn types.CaseFunc) error {
	return r.Register(suite, name, fn)
}

// MustRegister registers a case and treats overflow as fatal: it prints
// the overflow notice and exits with the test-failure code.
func (r *Registry) MustRegister(suite, name string, c types.Case) {
	err := r.Register(suite, name, c)
	if err == nil {
		return
	}
	if errors.Is(err, ErrRegistryFull) {
		fmt.Fprint(r.config.Out, overflowMessage)
		r.exit(exitcodes.TestFailure)
		return
	}
	r.config.Log.Crit("Failed to register case", "suite", suite, "name", name, "error", err)
}

// Cases returns a snapshot of the registered cases in registration order.
func (r *Registry) Cases() []types.RegisteredCase {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.RegisteredCase, len(r.cases))
	copy(out, r.cases)
	return out
}

// Len returns the number of registered cases.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cases)
}

// Capacity returns the registration limit.
func (r *Registry) Capacity() int {
	return r.config.Capacity
}

// GetConfig returns the configuration the registry was built with.
func (r *Registry) GetConfig() Config {
	return r.config
}
