package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_ObserveRequest(t *testing.T) {
	p := NewPrometheus()

	p.ObserveRequest("get_wars", "", 5*time.Millisecond)
	p.ObserveRequest("get_wars", "", 7*time.Millisecond)
	p.ObserveRequest("get_wars", "timeout", time.Second)

	assert.InDelta(t, 2, testutil.ToFloat64(p.requests.WithLabelValues("get_wars", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.requests.WithLabelValues("get_wars", "timeout")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(p.requestDuration))
}

func TestPrometheus_ObserveParseAndSnapshot(t *testing.T) {
	p := NewPrometheus()

	p.ObserveParse(1<<20, 2, 300*time.Millisecond)
	p.ObserveParse(1<<20, 1, 200*time.Millisecond)
	p.ObserveSnapshot(true)
	p.ObserveSnapshot(false)
	p.ObserveSnapshot(false)
	p.SetCachedDocuments(3)

	assert.InDelta(t, 3, testutil.ToFloat64(p.parseFailures), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.snapshots.WithLabelValues("created")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(p.snapshots.WithLabelValues("duplicate")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(p.cachedDocuments), 0)
}

func TestPrometheus_Handler(t *testing.T) {
	p := NewPrometheus()
	p.ObserveRequest("get_metadata", "", time.Millisecond)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `ledger_requests_total{command="get_metadata",outcome="ok"} 1`)
}

func TestPrometheus_SeparateRegistries(t *testing.T) {
	a := NewPrometheus()
	b := NewPrometheus()

	a.SetCachedDocuments(5)

	assert.InDelta(t, 0, testutil.ToFloat64(b.cachedDocuments), 0)
	assert.NotSame(t, a.Registry(), b.Registry())
}
