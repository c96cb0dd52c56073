package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Layout(t *testing.T) {
	m := NewMetrics()

	m.RecordLayoutMiss(time.Millisecond, 1)
	m.RecordLayoutHit()
	m.RecordLayoutHit()
	m.RecordLayoutError()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.layoutLookupsTotal.WithLabelValues(resultHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.layoutLookupsTotal.WithLabelValues(resultMiss)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.layoutLookupsTotal.WithLabelValues(resultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.layoutsCached))
}

func TestMetrics_Tables(t *testing.T) {
	m := NewMetrics()

	m.RecordTableOpen("Map", true)
	m.RecordTableOpen("Map", false)
	m.RecordRowDecode("Map", true)
	m.RecordRowDecode("Map", true)
	m.RecordRowDecode("Map", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.tablesOpenedTotal.WithLabelValues("Map", statusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tablesOpenedTotal.WithLabelValues("Map", statusError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rowsDecodedTotal.WithLabelValues("Map")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decodeErrorsTotal.WithLabelValues("Map")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordLayoutHit()
		m.RecordLayoutMiss(time.Second, 3)
		m.RecordLayoutError()
		m.RecordTableOpen("Map", true)
		m.RecordRowDecode("Map", false)
		m.RecordHTTPRequest("GET", "/", 200, time.Second)
	})

	called := false
	h := m.InstrumentHandler("GET", "/x", func(w http.ResponseWriter, r *http.Request) { called = true })
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.True(t, called)
}

func TestMetrics_InstrumentHandlerAndExposition(t *testing.T) {
	m := NewMetrics()

	h := m.InstrumentHandler("GET", "/api/v1/tables", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/tables", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/v1/tables", "418")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "wowfmt_http_requests_total"))
}
