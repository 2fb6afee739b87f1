package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("blockward", reg)

	m.ObserveIssuance("success")
	m.ObserveIssuance("success")
	m.ObserveIssuance("validation")
	m.ObserveHealthCheck("ok")
	m.ObserveMint(3 * time.Second)
	m.ObserveFailedRecord()
	m.ObserveReplay()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Issuances.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Issuances.WithLabelValues("validation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HealthChecks.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FailedRecords))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IdempotentHits))

	count, err := testutil.GatherAndCount(reg, "blockward_issuance_mint_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveIssuance("success")
		m.ObserveMint(time.Second)
		m.ObserveHealthCheck("ok")
		m.ObserveFailedRecord()
		m.ObserveReplay()
	})
}
