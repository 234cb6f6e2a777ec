package runner

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-proptest/types"
)

func slot(suite, name string, o types.Outcome) types.SlotResult {
	return types.SlotResult{
		Metadata: types.CaseMetadata{Suite: suite, Name: name},
		Outcome:  o,
	}
}

func TestResultStatusAndExitCode(t *testing.T) {
	tests := []struct {
		name     string
		slots    []types.SlotResult
		status   types.Outcome
		exitCode int
	}{
		{
			name:     "all passed",
			slots:    []types.SlotResult{slot("s", "a", types.OutcomePass)},
			status:   types.OutcomePass,
			exitCode: 0,
		},
		{
			name:     "failure fails the run",
			slots:    []types.SlotResult{slot("s", "a", types.OutcomePass), slot("s", "b", types.OutcomeFail)},
			status:   types.OutcomeFail,
			exitCode: 1,
		},
		{
			name:     "generation failure fails the run",
			slots:    []types.SlotResult{slot("s", "a", types.OutcomeGenFail)},
			status:   types.OutcomeFail,
			exitCode: 1,
		},
		{
			name:     "passes and skips mixed",
			slots:    []types.SlotResult{slot("s", "a", types.OutcomePass), slot("s", "b", types.OutcomeSkip)},
			status:   types.OutcomePass,
			exitCode: 0,
		},
		{
			name:     "skips alone stay clean",
			slots:    []types.SlotResult{slot("s", "a", types.OutcomeSkip)},
			status:   types.OutcomeSkip,
			exitCode: 0,
		},
		{
			name:     "empty run stays clean",
			slots:    nil,
			status:   types.OutcomeSkip,
			exitCode: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Result{Slots: tt.slots, Stats: types.Tally(tt.slots)}
			assert.Equal(t, tt.status, r.Status())
			assert.Equal(t, tt.exitCode, r.ExitCode())
		})
	}
}

func TestResultSuiteGrouping(t *testing.T) {
	r := &Result{Slots: []types.SlotResult{
		slot("lists", "reverse", types.OutcomePass),
		slot("maps", "insert", types.OutcomeFail),
		slot("lists", "sort", types.OutcomeSkip),
	}}

	assert.Equal(t, []string{"lists", "maps"}, r.Suites())

	lists := r.SlotsForSuite("lists")
	assert.Len(t, lists, 2)
	assert.Equal(t, "reverse", lists[0].Metadata.Name)
	assert.Equal(t, "sort", lists[1].Metadata.Name)

	assert.Empty(t, r.SlotsForSuite("unknown"))
}

func TestResultString(t *testing.T) {
	slots := []types.SlotResult{
		slot("lists", "reverse", types.OutcomePass),
		slot("lists", "sort", types.OutcomeFail),
		slot("maps", "insert", types.OutcomeGenFail),
	}
	r := &Result{
		RunID:    "run-1",
		Seed:     0x2a,
		Sweeps:   2,
		Slots:    slots,
		Stats:    types.Tally(slots),
		Duration: 1500 * time.Millisecond,
	}

	s := r.String()
	assert.Contains(t, s, "Run Results (1.5s):")
	assert.Contains(t, s, "RunID: run-1")
	assert.Contains(t, s, "Seed: 000000000000002a")
	assert.Contains(t, s, "Sweeps: 2")
	assert.Contains(t, s, "cases: 3, passed: 1, failed: 1, errored: 1, skipped: 0")
	assert.Contains(t, s, "Suite: lists")
	assert.Contains(t, s, "  sort: FAILED")
	assert.Contains(t, s, "  insert: FAILED TO GENERATE VALID INPUT")
}

func TestResultMarshalJSON(t *testing.T) {
	slots := []types.SlotResult{slot("lists", "sort", types.OutcomeFail)}
	r := &Result{
		RunID:    "run-1",
		Seed:     0x2a,
		Sweeps:   1,
		Slots:    slots,
		Stats:    types.Tally(slots),
		Duration: time.Second,
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	// The seed round-trips through the same hex form --seed accepts.
	assert.Equal(t, "000000000000002a", got["seed"])
	assert.Equal(t, "fail", got["status"])
	assert.Equal(t, "run-1", got["run_id"])
}

func TestNewSlotsStartSkipped(t *testing.T) {
	cases := []types.RegisteredCase{
		{Metadata: types.CaseMetadata{Suite: "s", Name: "a"}},
		{Metadata: types.CaseMetadata{Suite: "s", Name: "b"}},
	}

	slots := newSlots(cases)
	assert.Len(t, slots, 2)
	for i, s := range slots {
		assert.Equal(t, cases[i].Metadata, s.Metadata)
		assert.Equal(t, types.OutcomeSkip, s.Outcome)
	}
}
