// Package randsrc provides the seeded randomness stream the execution loop
// and the generated case bodies draw from. The stream is a splitmix64
// sequence whose entire position is a single 64-bit state, so checkpoints
// are O(1) value copies and restoring one replays the exact draw sequence.
//
// A Source is owned by a single goroutine at a time; it is not safe for
// concurrent use.
package randsrc

import (
	"time"

	"github.com/ethereum-optimism/infra/op-proptest/types"
)

// Checkpoint is an opaque snapshot of a Source's stream position.
type Checkpoint struct {
	state uint64
}

// TuningState holds the effective generator tuning values. Zero values mean
// the knob was never set and generators use their own defaults.
type TuningState struct {
	MaxDepth             uint64
	MaxSize              uint64
	NullInEvery          uint64
	SizedNull            bool
	DepthFailuresAllowed uint64
	SizeSplitBacktracks  uint64
}

// Config contains Source configuration.
type Config struct {
	// Clock supplies wall-clock time for ElapsedMilliseconds and the input
	// budget. Defaults to time.Now.
	Clock func() time.Time
}

// Source is the randomness collaborator: a deterministic draw stream plus
// the input-generation budget and the tuning passthrough.
type Source struct {
	state uint64

	clock func() time.Time
	start time.Time

	inputBudget time.Duration
	inputStart  time.Time

	tuning TuningState
}

// New creates a new Source. The wall clock starts at construction.
func New(cfg Config) *Source {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Source{
		clock: cfg.Clock,
		start: cfg.Clock(),
	}
}

// Seed resets the stream deterministically. The same seed produces the
// identical subsequent draw sequence.
func (s *Source) Seed(v uint64) {
	s.state = v
}

// Uint64 advances the stream and returns the next value.
func (s *Source) Uint64() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Save captures the current stream position without advancing it.
func (s *Source) Save() Checkpoint {
	return Checkpoint{state: s.state}
}

// Restore rewinds the stream to cp; subsequent draws reproduce the same
// sequence as at save time.
func (s *Source) Restore(cp Checkpoint) {
	s.state = cp.state
}

// SetInputTimeout bounds the next input-generation phase to ms milliseconds
// and stamps the phase start. Zero means unbounded.
func (s *Source) SetInputTimeout(ms int) {
	s.inputBudget = time.Duration(ms) * time.Millisecond
	s.inputStart = s.clock()
}

// InputTimedOut reports whether the current input-generation phase has
// exhausted its budget. Always false when the budget is unbounded.
func (s *Source) InputTimedOut() bool {
	if s.inputBudget <= 0 {
		return false
	}
	return s.clock().Sub(s.inputStart) >= s.inputBudget
}

// ElapsedMilliseconds returns the wall-clock milliseconds since the Source
// was constructed. The execution loop uses it for the outer run budget.
func (s *Source) ElapsedMilliseconds() int64 {
	return s.clock().Sub(s.start).Milliseconds()
}

// SetMaxDepth sets the generator recursion bound.
func (s *Source) SetMaxDepth(n uint64) {
	s.tuning.MaxDepth = n
}

// SetMaxSize sets the generator size bound.
func (s *Source) SetMaxSize(n uint64) {
	s.tuning.MaxSize = n
}

// SetNullInEvery sets the weighting for null decisions: roughly one in
// every n decisions comes out null.
func (s *Source) SetNullInEvery(n uint64) {
	s.tuning.NullInEvery = n
}

// SetSizedNull makes null weighting size-dependent.
func (s *Source) SetSizedNull() {
	s.tuning.SizedNull = true
}

// SetDepthFailuresAllowed sets how many depth-bound backtracks generators
// may take before giving up.
func (s *Source) SetDepthFailuresAllowed(n uint64) {
	s.tuning.DepthFailuresAllowed = n
}

// SetSizeSplitBacktracksAllowed sets how many size-split backtracks
// generators may take before giving up.
func (s *Source) SetSizeSplitBacktracksAllowed(n uint64) {
	s.tuning.SizeSplitBacktracks = n
}

// ApplyTuning forwards every knob set in t.
func (s *Source) ApplyTuning(t types.Tuning) {
	if t.MaxStackDepth != nil {
		s.SetMaxDepth(*t.MaxStackDepth)
	}
	if t.MaxGeneratorSize != nil {
		s.SetMaxSize(*t.MaxGeneratorSize)
	}
	if t.NullInEvery != nil {
		s.SetNullInEvery(*t.NullInEvery)
	}
	if t.SizedNull != nil && *t.SizedNull {
		s.SetSizedNull()
	}
	if t.AllowedDepthFailures != nil {
		s.SetDepthFailuresAllowed(*t.AllowedDepthFailures)
	}
	if t.AllowedSizeSplitBacktracks != nil {
		s.SetSizeSplitBacktracksAllowed(*t.AllowedSizeSplitBacktracks)
	}
}

// TuningState returns the effective tuning values.
func (s *Source) TuningState() TuningState {
	return s.tuning
}
