package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncRecordsAppended("ordinary")
	s.IncRecordsAppended("ordinary")
	s.IncRecordsAppended("big_special")
	s.IncRecordsDeleted()
	s.IncSessionsEnded()
	s.ObserveMutationDuration("append_record", 0.002)

	assert.Equal(t, 2.0, testutil.ToFloat64(s.RecordsAppended.WithLabelValues("ordinary")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.RecordsAppended.WithLabelValues("big_special")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.RecordsDeleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.SessionsEnded))
	assert.Equal(t, 1, testutil.CollectAndCount(s.MutationDuration))

	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "pool_ledger_records_appended_total")
}
