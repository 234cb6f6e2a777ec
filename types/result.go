package types

// SlotResult is the sticky per-slot outcome for one registered case. Slots
// start as OutcomeSkip and are updated across sweeps by the merge rule: a
// recorded failure freezes the slot, and a pass is never downgraded by a
// later generation failure.
type SlotResult struct {
	Metadata CaseMetadata `json:"metadata"`
	Outcome  Outcome      `json:"outcome"`
}

// Stats tallies the final slot outcomes of a run.
type Stats struct {
	Cases   int `json:"cases"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
	Skipped int `json:"skipped"`
}

// Tally counts slot outcomes into a Stats.
func Tally(slots []SlotResult) Stats {
	st := Stats{Cases: len(slots)}
	for _, s := range slots {
		switch s.Outcome {
		case OutcomePass:
			st.Passed++
		case OutcomeFail:
			st.Failed++
		case OutcomeGenFail:
			st.Errored++
		case OutcomeSkip:
			st.Skipped++
		}
	}
	return st
}

// Clean reports whether the run ends with the success exit code. Generation
// failures count as errors, so they fail the run even though the property
// itself was never refuted.
func (s Stats) Clean() bool {
	return s.Failed == 0 && s.Errored == 0
}
