package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ethereum-optimism/infra/op-proptest/types"
)

const (
	MetricsNamespace = "proptest"
)

var (
	Debug                bool = true
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	caseResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "case_results_total",
		Help:      "Count of per-case outcomes across runs",
	}, []string{
		"run_id",
		"suite",
		"name",
		"outcome",
	})

	runResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_results",
		Help:      "Result of randomized test runs",
	}, []string{
		"run_id",
		"result",
	})

	runCasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_cases_total",
		Help:      "Total number of registered cases per run",
	}, []string{
		"run_id",
	})

	runCasesPassed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_cases_passed",
		Help:      "Number of passed cases per run",
	}, []string{
		"run_id",
	})

	runCasesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_cases_failed",
		Help:      "Number of failed cases per run",
	}, []string{
		"run_id",
	})

	runCasesErrored = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_cases_errored",
		Help:      "Number of cases that failed to generate valid input per run",
	}, []string{
		"run_id",
	})

	runCasesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_cases_skipped",
		Help:      "Number of skipped cases per run",
	}, []string{
		"run_id",
	})

	runDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of randomized test runs",
	}, []string{
		"run_id",
	})

	runSweeps = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_sweeps",
		Help:      "Number of completed sweeps per run",
	}, []string{
		"run_id",
	})
)

// errToLabel squeezes an error message into something usable as a
// prometheus label value. Letters and spaces survive, spaces become
// underscores.
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	label := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	label = strings.ReplaceAll(label, " ", "_")
	label = strings.ReplaceAll(label, "__", "_")
	return label
}

func RecordError(label string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", label,
		)
	}
	errorsTotal.WithLabelValues(label).Inc()
}

// RecordErrorDetails appends a cleaned form of the error message to the
// label before counting it.
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	RecordError(fmt.Sprintf("%s.%s", label, errToLabel(err)))
}

func RecordCaseResult(runID string, meta types.CaseMetadata, outcome types.Outcome) {
	if !outcome.Valid() {
		log.Error("RecordCaseResult - invalid outcome", "outcome", outcome)
		return
	}
	if Debug {
		log.Debug("metric inc",
			"m", "case_results_total",
			"run_id", runID,
			"suite", meta.Suite,
			"name", meta.Name,
			"outcome", outcome)
	}
	caseResultsTotal.WithLabelValues(runID, meta.Suite, meta.Name, string(outcome)).Inc()
}

func RecordRun(
	runID string,
	result string,
	stats types.Stats,
	sweeps int,
	duration time.Duration,
) {
	runResults.WithLabelValues(runID, result).Set(1)
	runCasesTotal.WithLabelValues(runID).Add(float64(stats.Cases))
	runCasesPassed.WithLabelValues(runID).Add(float64(stats.Passed))
	runCasesFailed.WithLabelValues(runID).Add(float64(stats.Failed))
	runCasesErrored.WithLabelValues(runID).Add(float64(stats.Errored))
	runCasesSkipped.WithLabelValues(runID).Add(float64(stats.Skipped))
	runDuration.WithLabelValues(runID).Set(duration.Seconds())
	runSweeps.WithLabelValues(runID).Set(float64(sweeps))
}
