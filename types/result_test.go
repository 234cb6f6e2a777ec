package types

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestTally(t *testing.T) {
	slots := []SlotResult{
		{Metadata: CaseMetadata{Suite: "s", Name: "a"}, Outcome: OutcomePass},
		{Metadata: CaseMetadata{Suite: "s", Name: "b"}, Outcome: OutcomePass},
		{Metadata: CaseMetadata{Suite: "s", Name: "c"}, Outcome: OutcomeFail},
		{Metadata: CaseMetadata{Suite: "s", Name: "d"}, Outcome: OutcomeGenFail},
		{Metadata: CaseMetadata{Suite: "s", Name: "e"}, Outcome: OutcomeSkip},
	}

	st := Tally(slots)
	assert.Equal(t, Stats{Cases: 5, Passed: 2, Failed: 1, Errored: 1, Skipped: 1}, st)
	assert.False(t, st.Clean())
}

func TestStatsClean(t *testing.T) {
	assert.True(t, Stats{}.Clean())
	assert.True(t, Stats{Cases: 3, Passed: 2, Skipped: 1}.Clean())
	assert.False(t, Stats{Cases: 1, Failed: 1}.Clean())
	assert.False(t, Stats{Cases: 1, Errored: 1}.Clean())
}

func TestTallyProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	outcomeGen := gen.OneConstOf(OutcomePass, OutcomeFail, OutcomeGenFail, OutcomeSkip)

	properties.Property("tally partitions the slots", prop.ForAll(
		func(outcomes []Outcome) bool {
			slots := make([]SlotResult, len(outcomes))
			for i, o := range outcomes {
				slots[i] = SlotResult{Outcome: o}
			}

			hasBad := false
			for _, o := range outcomes {
				if o == OutcomeFail || o == OutcomeGenFail {
					hasBad = true
				}
			}

			st := Tally(slots)
			return st.Cases == len(outcomes) &&
				st.Passed+st.Failed+st.Errored+st.Skipped == st.Cases &&
				st.Clean() == !hasBad
		},
		gen.SliceOf(outcomeGen),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
