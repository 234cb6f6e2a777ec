package reporting

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ethereum-optimism/infra/op-proptest/types"
)

func TestConsoleBanner(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).Banner(30)
	assert.Equal(t, "Running until timeout of 30 seconds\n", buf.String())
}

func TestConsoleSeed(t *testing.T) {
	tests := []struct {
		name string
		seed uint64
		want string
	}{
		{
			name: "small seed is zero padded to sixteen digits",
			seed: 0x123,
			want: "Using seed: 0000000000000123\n",
		},
		{
			name: "full width seed",
			seed: 0xdeadbeefcafe1234,
			want: "Using seed: deadbeefcafe1234\n",
		},
		{
			name: "zero seed",
			seed: 0,
			want: "Using seed: 0000000000000000\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewConsole(&buf).Seed(tt.seed)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestConsoleCaseBegin(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).CaseBegin(types.CaseMetadata{Suite: "lists", Name: "reverse_involution"})
	assert.Equal(t, "Testing lists::reverse_involution:", buf.String(),
		"header must stay open for the outcome line")
}

func TestConsoleProgress(t *testing.T) {
	meta := types.CaseMetadata{Suite: "lists", Name: "reverse_involution"}

	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Progress(meta, 50, 0)
	assert.Equal(t, "\rTesting lists::reverse_involution: 50 runs", buf.String())

	buf.Reset()
	c.Progress(meta, 50, 3)
	assert.Equal(t, "\rTesting lists::reverse_involution: 50 runs; 3 discarded", buf.String())
}

func TestConsoleOutcome(t *testing.T) {
	tests := []struct {
		outcome types.Outcome
		want    string
	}{
		{types.OutcomePass, "\nPASSED\n"},
		{types.OutcomeFail, "\nFAILED\n"},
		{types.OutcomeGenFail, "\nFAILED TO GENERATE VALID INPUT\n"},
		{types.OutcomeSkip, "\nSKIPPED\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			var buf bytes.Buffer
			NewConsole(&buf).Outcome(tt.outcome)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestConsoleReplayFooter(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).ReplayFooter()
	assert.Equal(t, "\n\n", buf.String())
}

func TestConsoleRerunNotice(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).RerunNotice(25)
	assert.Equal(t, "\n25 seconds remaining, rerunning tests\n\n", buf.String())
}

func TestConsoleSummary(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).Summary(types.Stats{Cases: 5, Passed: 2, Failed: 1, Errored: 1, Skipped: 1})
	assert.Equal(t, "\nTesting Summary:\ncases: 5, passed: 2, failed: 1, errored: 1, skipped: 1\n", buf.String())
}

func TestConsoleTranscriptComposition(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Seed(0xabc)
	c.CaseBegin(types.CaseMetadata{Suite: "maps", Name: "insert_lookup"})
	c.Outcome(types.OutcomePass)
	c.Summary(types.Stats{Cases: 1, Passed: 1})

	want := "Using seed: 0000000000000abc\n" +
		"Testing maps::insert_lookup:\nPASSED\n" +
		"\nTesting Summary:\ncases: 1, passed: 1, failed: 0, errored: 0, skipped: 0\n"
	assert.Equal(t, want, buf.String())
}
