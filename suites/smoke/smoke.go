// Package smoke provides the built-in demonstration suite. Its cases
// exercise the full case surface: randomized draws, in-place progress
// reporting, input rejection under the generation budget, and
// counterexample diagnostics with an optional debugger trap on replay.
package smoke

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/ethereum-optimism/infra/op-proptest/randsrc"
	"github.com/ethereum-optimism/infra/op-proptest/registry"
	"github.com/ethereum-optimism/infra/op-proptest/reporting"
	"github.com/ethereum-optimism/infra/op-proptest/types"
)

// SuiteName is the registry suite the cases are registered under.
const SuiteName = "smoke"

const (
	defaultTrials = 100

	// discardRatio bounds rejected draws relative to the trial target
	// before a case gives up on generating valid input.
	discardRatio = 10

	maxSliceLen = 64
)

// Suite holds the collaborators the smoke cases run against.
type Suite struct {
	source  *randsrc.Source
	console *reporting.Console
	diag    *reporting.Diag
	trap    types.TrapFn
	trials  int
}

// Option customizes a Suite.
type Option func(*Suite)

// WithTrials overrides the number of trials each case runs.
func WithTrials(n int) Option {
	return func(s *Suite) { s.trials = n }
}

// WithTrap overrides the debugger trap raised at a failing assertion
// during replay.
func WithTrap(fn types.TrapFn) Option {
	return func(s *Suite) { s.trap = fn }
}

// New creates the smoke suite.
func New(src *randsrc.Source, console *reporting.Console, diag *reporting.Diag, opts ...Option) (*Suite, error) {
	if src == nil {
		return nil, errors.New("randomness source is required")
	}
	if console == nil {
		return nil, errors.New("console is required")
	}
	if diag == nil {
		return nil, errors.New("diag is required")
	}

	s := &Suite{
		source:  src,
		console: console,
		diag:    diag,
		trap:    types.DefaultTrap,
		trials:  defaultTrials,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.trials <= 0 {
		return nil, errors.New("trials must be positive")
	}
	return s, nil
}

// Install registers the suite with default options. It matches the
// service's suite installer shape.
func Install(reg *registry.Registry, src *randsrc.Source, console *reporting.Console, diag *reporting.Diag) error {
	s, err := New(src, console, diag)
	if err != nil {
		return err
	}
	return s.Install(reg)
}

// Install registers the suite's cases in a fixed order.
func (s *Suite) Install(reg *registry.Registry) error {
	byteCases := []struct {
		name  string
		gen   func() ([]byte, bool)
		check func([]byte) bool
	}{
		{"reverse_involution", s.genBytes, checkReverseInvolution},
		{"sort_ordered", s.genNonEmptyBytes, checkSortOrdered},
		{"split_concat", s.genBytes, s.checkSplitConcat},
	}

	for _, c := range byteCases {
		meta := types.CaseMetadata{Suite: SuiteName, Name: c.name}
		gen, check := c.gen, c.check
		err := reg.RegisterFunc(SuiteName, c.name, func(progress types.ProgressLevel, trap bool) types.Outcome {
			return s.runTrials(meta, progress, trap, gen, check)
		})
		if err != nil {
			return err
		}
	}

	drawCases := []struct {
		name  string
		check func() (string, bool)
	}{
		{"add_commutes", s.checkAddCommutes},
		{"bounded_draw", s.checkBoundedDraw},
	}

	for _, c := range drawCases {
		meta := types.CaseMetadata{Suite: SuiteName, Name: c.name}
		check := c.check
		err := reg.RegisterFunc(SuiteName, c.name, func(progress types.ProgressLevel, trap bool) types.Outcome {
			return s.runDrawTrials(meta, progress, trap, check)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// runTrials drives one case: generate an input, report progress, check the
// property. gen reports ok=false to discard a draw and try again.
func (s *Suite) runTrials(meta types.CaseMetadata, progress types.ProgressLevel, trap bool,
	gen func() ([]byte, bool), check func([]byte) bool) types.Outcome {

	discards := 0
	for runs := 1; runs <= s.trials; runs++ {
		var xs []byte
		for {
			var ok bool
			xs, ok = gen()
			if s.source.InputTimedOut() {
				return types.OutcomeGenFail
			}
			if ok {
				break
			}
			discards++
			if discards > s.trials*discardRatio {
				return types.OutcomeGenFail
			}
		}

		if progress == types.ProgressAll {
			s.console.Progress(meta, runs, discards)
		}

		if !check(xs) {
			if trap {
				s.trap()
			}
			s.diag.Errorf("counterexample: %v", xs)
			return types.OutcomeFail
		}
	}
	return types.OutcomePass
}

// runDrawTrials drives a case whose property draws its own inputs from the
// source. Draw-based cases never discard; check returns the drawn values as
// a detail string for the counterexample report.
func (s *Suite) runDrawTrials(meta types.CaseMetadata, progress types.ProgressLevel, trap bool,
	check func() (string, bool)) types.Outcome {

	for runs := 1; runs <= s.trials; runs++ {
		if s.source.InputTimedOut() {
			return types.OutcomeGenFail
		}

		if progress == types.ProgressAll {
			s.console.Progress(meta, runs, 0)
		}

		if detail, ok := check(); !ok {
			if trap {
				s.trap()
			}
			s.diag.Errorf("counterexample: %s", detail)
			return types.OutcomeFail
		}
	}
	return types.OutcomePass
}

func (s *Suite) genBytes() ([]byte, bool) {
	n := s.source.IntN(maxSliceLen + 1)
	return s.source.Bytes(n), true
}

// genNonEmptyBytes rejects empty draws, exercising the discard path.
func (s *Suite) genNonEmptyBytes() ([]byte, bool) {
	n := s.source.IntN(maxSliceLen + 1)
	if n == 0 {
		return nil, false
	}
	return s.source.Bytes(n), true
}

// checkSplitConcat splits the input at a drawn point and verifies the
// halves concatenate back to the original.
func (s *Suite) checkSplitConcat(xs []byte) bool {
	k := s.source.IntN(len(xs) + 1)
	joined := append(append([]byte(nil), xs[:k]...), xs[k:]...)
	return bytes.Equal(joined, xs)
}

func (s *Suite) checkAddCommutes() (string, bool) {
	a, b := s.source.Uint64(), s.source.Uint64()
	return fmt.Sprintf("a=%d b=%d", a, b), a+b == b+a
}

// checkBoundedDraw verifies bounded draws land inside their bound.
func (s *Suite) checkBoundedDraw() (string, bool) {
	n := uint64(1 + s.source.IntN(1<<16))
	v := s.source.Uint64n(n)
	return fmt.Sprintf("n=%d v=%d", n, v), v < n
}

func checkReverseInvolution(xs []byte) bool {
	return bytes.Equal(reverseBytes(reverseBytes(xs)), xs)
}

func checkSortOrdered(xs []byte) bool {
	ys := append([]byte(nil), xs...)
	sort.Slice(ys, func(i, j int) bool { return ys[i] < ys[j] })
	if len(ys) != len(xs) {
		return false
	}
	for i := 1; i < len(ys); i++ {
		if ys[i-1] > ys[i] {
			return false
		}
	}
	return true
}

func reverseBytes(xs []byte) []byte {
	out := make([]byte, len(xs))
	for i, b := range xs {
		out[len(xs)-1-i] = b
	}
	return out
}
