package runner

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum-optimism/infra/op-proptest/exitcodes"
	"github.com/ethereum-optimism/infra/op-proptest/types"
)

// Result captures the complete run results
type Result struct {
	RunID    string             `json:"run_id"`
	Seed     uint64             `json:"seed"`
	Sweeps   int                `json:"sweeps"`
	Slots    []types.SlotResult `json:"slots"`
	Stats    types.Stats        `json:"stats"`
	Duration time.Duration      `json:"duration"`
}

// newSlots initializes one skip slot per registered case, in registration
// order.
func newSlots(cases []types.RegisteredCase) []types.SlotResult {
	slots := make([]types.SlotResult, len(cases))
	for i, c := range cases {
		slots[i] = types.SlotResult{Metadata: c.Metadata, Outcome: types.OutcomeSkip}
	}
	return slots
}

// Status summarizes the run: fail when the tally is not clean, skip when
// nothing passed either, pass otherwise.
func (r *Result) Status() types.Outcome {
	if !r.Stats.Clean() {
		return types.OutcomeFail
	}
	if r.Stats.Passed == 0 {
		return types.OutcomeSkip
	}
	return types.OutcomePass
}

// ExitCode maps the tally onto the process exit contract.
func (r *Result) ExitCode() int {
	if r.Stats.Clean() {
		return exitcodes.Success
	}
	return exitcodes.TestFailure
}

// MarshalJSON writes the seed in the hex form --seed accepts and includes
// the derived status, so the results artifact stands on its own.
func (r *Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return json.Marshal(&struct {
		*alias
		Seed   string        `json:"seed"`
		Status types.Outcome `json:"status"`
	}{
		alias:  (*alias)(r),
		Seed:   fmt.Sprintf("%016x", r.Seed),
		Status: r.Status(),
	})
}

// Suites returns the distinct suite names in registration order.
func (r *Result) Suites() []string {
	var suites []string
	seen := make(map[string]bool)
	for _, slot := range r.Slots {
		if !seen[slot.Metadata.Suite] {
			seen[slot.Metadata.Suite] = true
			suites = append(suites, slot.Metadata.Suite)
		}
	}
	return suites
}

// SlotsForSuite returns the slots of one suite in registration order.
func (r *Result) SlotsForSuite(suite string) []types.SlotResult {
	var slots []types.SlotResult
	for _, slot := range r.Slots {
		if slot.Metadata.Suite == suite {
			slots = append(slots, slot)
		}
	}
	return slots
}

// formatDuration formats the duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func (r *Result) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Run Results (%s):\n", formatDuration(r.Duration)))
	b.WriteString(fmt.Sprintf("RunID: %s\n", r.RunID))
	b.WriteString(fmt.Sprintf("Seed: %016x\n", r.Seed))
	b.WriteString(fmt.Sprintf("Sweeps: %d\n", r.Sweeps))
	b.WriteString(fmt.Sprintf("Stats: cases: %d, passed: %d, failed: %d, errored: %d, skipped: %d\n",
		r.Stats.Cases, r.Stats.Passed, r.Stats.Failed, r.Stats.Errored, r.Stats.Skipped))

	for _, suite := range r.Suites() {
		b.WriteString(fmt.Sprintf("\nSuite: %s\n", suite))
		for _, slot := range r.SlotsForSuite(suite) {
			b.WriteString(fmt.Sprintf("  %s: %s\n", slot.Metadata.Name, slot.Outcome.Word()))
		}
	}

	return b.String()
}
