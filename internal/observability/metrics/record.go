package metrics

import "time"

// RecordImport records the result of a collection import.
func RecordImport(format string, success bool) {
	ImportsTotal.WithLabelValues(format, statusLabel(success)).Inc()
}

// RecordExport records the result of a collection export.
func RecordExport(format string, success bool) {
	ExportsTotal.WithLabelValues(format, statusLabel(success)).Inc()
}

// RecordProbe records the outcome and duration of a single URL probe.
// Outcome should be "reachable", "unreachable", or "timeout".
func RecordProbe(outcome string, duration time.Duration) {
	ProbesTotal.WithLabelValues(outcome).Inc()
	ProbeDuration.Observe(duration.Seconds())
}

// UpdateCollectionGauges refreshes the snapshot-level gauges.
// Called after every recorded mutation.
func UpdateCollectionGauges(feeds, historyDepth int) {
	FeedsTotal.Set(float64(feeds))
	HistoryDepth.Set(float64(historyDepth))
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
