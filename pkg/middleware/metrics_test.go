package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatheredMetric returns the series of family name whose labels include all
// of want, or nil.
func gatheredMetric(t *testing.T, reg prometheus.Gatherer, name string, want map[string]string) *dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			got := make(map[string]string, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			match := true
			for k, v := range want {
				if got[k] != v {
					match = false
					break
				}
			}
			if match {
				return m
			}
		}
	}
	return nil
}

func TestHTTPMetrics_RecordsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "supplier-service")

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/supplier/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/supplier/"+id, nil))
	}

	got := testutil.ToFloat64(m.total.WithLabelValues(http.MethodGet, "/supplier/{id}", "404"))
	assert.Equal(t, float64(2), got)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))
	assert.Positive(t, testutil.CollectAndCount(m.duration))
}

func TestHTTPMetrics_UnknownRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "supplier-service")

	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.total.WithLabelValues(http.MethodGet, "unknown", "200")))
}

func TestStatusRecorder_FirstStatusWins(t *testing.T) {
	rec := newStatusRecorder(httptest.NewRecorder())
	rec.WriteHeader(http.StatusCreated)
	rec.WriteHeader(http.StatusInternalServerError)
	_, _ = rec.Write([]byte("ok"))

	assert.Equal(t, http.StatusCreated, rec.status)
	assert.Equal(t, 2, rec.bytes)
}

func TestHTTPMetrics_DurationHistogramPerRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "supplier-service")

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Delete("/supplier/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/supplier/"+id, nil))
	}

	metric := gatheredMetric(t, reg, "http_request_duration_seconds", map[string]string{
		"service": "supplier-service",
		"method":  http.MethodDelete,
		"route":   "/supplier/{id}",
		"status":  "204",
	})
	require.NotNil(t, metric)
	assert.Equal(t, uint64(3), metric.GetHistogram().GetSampleCount())
	assert.Nil(t, gatheredMetric(t, reg, "http_request_duration_seconds", map[string]string{"route": "/supplier/a"}))
}
