package proptest

import (
	"github.com/ethereum-optimism/infra/op-proptest/metrics"
	"github.com/ethereum-optimism/infra/op-proptest/runner"
)

// MetricsReporter publishes a finished run to the metrics system.
type MetricsReporter interface {
	ReportResults(runID string, result *runner.Result)
}

// DefaultMetricsReporter feeds run tallies into the prometheus collectors.
type DefaultMetricsReporter struct{}

// NewDefaultMetricsReporter creates a new DefaultMetricsReporter.
func NewDefaultMetricsReporter() *DefaultMetricsReporter {
	return &DefaultMetricsReporter{}
}

// ReportResults records the run's verdict, tally, sweep count, and duration.
func (r *DefaultMetricsReporter) ReportResults(runID string, result *runner.Result) {
	metrics.RecordRun(
		runID,
		string(result.Status()),
		result.Stats,
		result.Sweeps,
		result.Duration,
	)
}
