package proptest

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ethereum-optimism/infra/op-proptest/types"
)

// boolToInt renders a bool as a 0/1 table cell.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// getResultString returns the glyphed display form of a case outcome.
func getResultString(o types.Outcome) string {
	switch o {
	case types.OutcomePass:
		return "✓ pass"
	case types.OutcomeSkip:
		return "- skip"
	case types.OutcomeGenFail:
		return "! genfail"
	default:
		return "✗ fail"
	}
}

// suiteOutcome reduces a suite tally to a single display outcome.
func suiteOutcome(st types.Stats) types.Outcome {
	switch {
	case st.Failed > 0 || st.Errored > 0:
		return types.OutcomeFail
	case st.Passed > 0:
		return types.OutcomePass
	default:
		return types.OutcomeSkip
	}
}

// formatDuration renders a duration as seconds with one decimal place.
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// teeWriter is the stable writer handed to the long-lived console, diag,
// and formatter. The service retargets it per run to mirror the transcript
// into the run's log directory.
type teeWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newTeeWriter(w io.Writer) *teeWriter {
	return &teeWriter{w: w}
}

func (t *teeWriter) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w.Write(p)
}

func (t *teeWriter) Set(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.w = w
}
