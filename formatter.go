package proptest

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ethereum-optimism/infra/op-proptest/runner"
	"github.com/ethereum-optimism/infra/op-proptest/types"
)

// ResultFormatter renders a finished run for humans.
type ResultFormatter interface {
	FormatResults(result *runner.Result) error
}

// ConsoleResultFormatter draws a colored summary table, one row per case
// grouped under its suite.
type ConsoleResultFormatter struct {
	logger log.Logger
	out    io.Writer
}

// NewConsoleResultFormatter creates a new ConsoleResultFormatter.
func NewConsoleResultFormatter(logger log.Logger, out io.Writer) *ConsoleResultFormatter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleResultFormatter{
		logger: logger,
		out:    out,
	}
}

// FormatResults renders the run's tally table to the configured writer.
func (f *ConsoleResultFormatter) FormatResults(result *runner.Result) error {
	f.logger.Info("Rendering results table")
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle(fmt.Sprintf("Randomized Testing Results (%s)", formatDuration(result.Duration)))

	t.AppendHeader(table.Row{
		"Type", "ID", "Cases", "Passed", "Failed", "Errored", "Skipped", "Status",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Type", AutoMerge: true},
		{Name: "ID", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Cases", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Errored", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
	})

	for _, suite := range result.Suites() {
		slots := result.SlotsForSuite(suite)
		st := types.Tally(slots)

		// Suite rows aggregate their cases, so the Cases column carries a dash.
		t.AppendRow(table.Row{
			"Suite",
			suite,
			"-",
			st.Passed,
			st.Failed,
			st.Errored,
			st.Skipped,
			getResultString(suiteOutcome(st)),
		})

		for i, slot := range slots {
			prefix := "├─"
			if i == len(slots)-1 {
				prefix = "└─"
			}

			t.AppendRow(table.Row{
				"",
				fmt.Sprintf("%s %s", prefix, slot.Metadata.Name),
				"1",
				boolToInt(slot.Outcome == types.OutcomePass),
				boolToInt(slot.Outcome == types.OutcomeFail),
				boolToInt(slot.Outcome == types.OutcomeGenFail),
				boolToInt(slot.Outcome == types.OutcomeSkip),
				getResultString(slot.Outcome),
			})
		}

		t.AppendSeparator()
	}

	// Table color tracks the run verdict: red for a dirty tally, yellow when
	// every case skipped, green otherwise.
	switch {
	case !result.Stats.Clean():
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	case result.Stats.Passed == 0 && result.Stats.Cases > 0:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		result.Stats.Cases,
		result.Stats.Passed,
		result.Stats.Failed,
		result.Stats.Errored,
		result.Stats.Skipped,
		getResultString(suiteOutcome(result.Stats)),
	})

	t.Render()

	return nil
}
