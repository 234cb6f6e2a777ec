package types

import "fmt"

// Outcome represents the possible results of a single case execution
type Outcome string

const (
	OutcomePass    Outcome = "pass"
	OutcomeFail    Outcome = "fail"
	OutcomeGenFail Outcome = "genfail"
	OutcomeSkip    Outcome = "skip"
)

// Valid reports whether o is one of the four representable outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomePass, OutcomeFail, OutcomeGenFail, OutcomeSkip:
		return true
	}
	return false
}

// Word returns the outcome word the reporter prints for o.
func (o Outcome) Word() string {
	switch o {
	case OutcomePass:
		return "PASSED"
	case OutcomeFail:
		return "FAILED"
	case OutcomeGenFail:
		return "FAILED TO GENERATE VALID INPUT"
	case OutcomeSkip:
		return "SKIPPED"
	}
	return string(o)
}

// ProgressLevel controls how much per-case progress the run prints.
// ProgressNone also suppresses outcome lines, replay and exit-fast for the
// affected slots.
type ProgressLevel int

const (
	ProgressNone  ProgressLevel = 0
	ProgressFinal ProgressLevel = 1
	ProgressAll   ProgressLevel = 2
)

// Valid reports whether p is a defined progress level.
func (p ProgressLevel) Valid() bool {
	return p >= ProgressNone && p <= ProgressAll
}

// DiagLevel controls the verbosity of replay diagnostics. The runner holds
// it at DiagNone except around the replay of a failing case.
type DiagLevel int

const (
	DiagNone  DiagLevel = 0
	DiagError DiagLevel = 1
	DiagInfo  DiagLevel = 2
)

// Valid reports whether d is a defined diagnostics level.
func (d DiagLevel) Valid() bool {
	return d >= DiagNone && d <= DiagInfo
}

// Case is a runnable property test. Run executes one batch of randomized
// trials and classifies it: OutcomePass when every trial held, OutcomeFail
// on a violated assertion, OutcomeGenFail when no valid input could be
// generated within the input timeout. The trap flag is only set during the
// replay of a failing case; implementations invoke the trap capability at
// the failing assertion site when it is.
type Case interface {
	Run(progress ProgressLevel, trap bool) Outcome
}

// CaseFunc adapts an ordinary function to the Case interface.
type CaseFunc func(progress ProgressLevel, trap bool) Outcome

// Run implements the Case interface.
func (f CaseFunc) Run(progress ProgressLevel, trap bool) Outcome {
	return f(progress, trap)
}

// CaseMetadata identifies a registered case.
type CaseMetadata struct {
	Suite string `json:"suite"`
	Name  string `json:"name"`
}

func (m CaseMetadata) String() string {
	return fmt.Sprintf("%s::%s", m.Suite, m.Name)
}

// RegisteredCase pairs a case with its registry metadata. Slot identity is
// the position in the registry's registration order.
type RegisteredCase struct {
	Metadata CaseMetadata
	Case     Case
}

// Tuning carries the generator tuning knobs forwarded opaquely to the
// randomness source. Pointer fields distinguish "not set" from an explicit
// zero; only set knobs are forwarded.
type Tuning struct {
	MaxStackDepth              *uint64
	MaxGeneratorSize           *uint64
	NullInEvery                *uint64
	SizedNull                  *bool
	AllowedDepthFailures       *uint64
	AllowedSizeSplitBacktracks *uint64
}
