package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordImport_incrementsCounter(t *testing.T) {
	before := importCounter(t, "opml", "success")
	RecordImport("opml", true)
	assert.Equal(t, before+1, importCounter(t, "opml", "success"))
}

func importCounter(t *testing.T, format, status string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, ImportsTotal.WithLabelValues(format, status).Write(m))
	return m.GetCounter().GetValue()
}

func TestRecordProbe_outcomes(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordProbe("reachable", 120*time.Millisecond)
		RecordProbe("unreachable", 5*time.Second)
		RecordProbe("timeout", 5*time.Second)
	})

	m := &dto.Metric{}
	require.NoError(t, ProbesTotal.WithLabelValues("reachable").Write(m))
	assert.GreaterOrEqual(t, m.GetCounter().GetValue(), 1.0)
}

func TestUpdateCollectionGauges(t *testing.T) {
	UpdateCollectionGauges(42, 7)

	m := &dto.Metric{}
	require.NoError(t, FeedsTotal.Write(m))
	assert.Equal(t, 42.0, m.GetGauge().GetValue())

	require.NoError(t, HistoryDepth.Write(m))
	assert.Equal(t, 7.0, m.GetGauge().GetValue())
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "success", statusLabel(true))
	assert.Equal(t, "failure", statusLabel(false))
}
