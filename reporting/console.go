// Package reporting renders run output: the live console transcript, the
// case diagnostic channel, and the per-run file artifacts.
package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum-optimism/infra/op-proptest/types"
)

// Console renders the run transcript. Line formats are part of the tool's
// contract; downstream tooling parses them, so they change only
// deliberately.
type Console struct {
	out io.Writer
}

// NewConsole creates a Console writing to out. A nil out selects os.Stdout.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

// Banner announces a bounded run. Callers emit it only when a wall-clock
// budget is configured.
func (c *Console) Banner(timeoutSeconds int) {
	fmt.Fprintf(c.out, "Running until timeout of %d seconds\n", timeoutSeconds)
}

// Seed announces the seed in the form accepted back via --seed.
func (c *Console) Seed(seed uint64) {
	fmt.Fprintf(c.out, "Using seed: %016x\n", seed)
}

// CaseBegin opens a case header. No newline: the case's own progress and
// the outcome line complete it.
func (c *Console) CaseBegin(meta types.CaseMetadata) {
	fmt.Fprintf(c.out, "Testing %s::%s:", meta.Suite, meta.Name)
}

// Progress rewrites the case header in place with running trial counts.
// Case bodies call it while generating and checking inputs.
func (c *Console) Progress(meta types.CaseMetadata, runs, discards int) {
	if discards == 0 {
		fmt.Fprintf(c.out, "\rTesting %s::%s: %d runs", meta.Suite, meta.Name, runs)
		return
	}
	fmt.Fprintf(c.out, "\rTesting %s::%s: %d runs; %d discarded", meta.Suite, meta.Name, runs, discards)
}

// Outcome terminates the open case header with the outcome word.
func (c *Console) Outcome(o types.Outcome) {
	fmt.Fprintf(c.out, "\n%s\n", o.Word())
}

// ReplayFooter closes the diagnostic block a failing case's replay printed.
func (c *Console) ReplayFooter() {
	fmt.Fprint(c.out, "\n\n")
}

// RerunNotice separates sweeps of a bounded run.
func (c *Console) RerunNotice(remainingSeconds int) {
	fmt.Fprintf(c.out, "\n%d seconds remaining, rerunning tests\n\n", remainingSeconds)
}

// Summary prints the final tally. It is emitted exactly once per run,
// whatever the progress level.
func (c *Console) Summary(st types.Stats) {
	fmt.Fprint(c.out, "\nTesting Summary:\n")
	fmt.Fprintf(c.out, "cases: %d, passed: %d, failed: %d, errored: %d, skipped: %d\n",
		st.Cases, st.Passed, st.Failed, st.Errored, st.Skipped)
}
