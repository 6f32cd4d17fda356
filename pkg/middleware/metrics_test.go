package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/vango-dev/bower/pkg/assets"
	"github.com/vango-dev/bower/pkg/router"
)

var _ assets.Observer = (*ResolveMetrics)(nil)

func resetGlobalMetricsForTest() {
	globalMetricsMu.Lock()
	globalMetrics = nil
	globalMetricsMu.Unlock()
}

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func assetHandler(w http.ResponseWriter, r *http.Request) {
	if router.Param(r, "component") == "missing" {
		http.NotFound(w, r)
		return
	}
	w.Write([]byte("ok"))
}

func TestPrometheusMiddleware_RecordsRoutesAndStatus(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	r := router.New(router.WithMiddleware(Prometheus(WithRegistry(reg))))
	if err := r.HandleFunc("bower.serve", "/bower/{component}/{filename...}", assetHandler); err != nil {
		t.Fatalf("HandleFunc() error: %v", err)
	}

	for _, path := range []string{
		"/bower/jquery/dist/jquery.js",
		"/bower/jquery/dist/jquery.min.js",
		"/bower/missing/x.js",
		"/elsewhere",
	} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	m := globalMetrics
	const route = "/bower/{component}/*"
	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues(route, "200")); got != 2 {
		t.Errorf("requests_total(200) = %v, want 2", got)
	}
	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues(route, "404")); got != 1 {
		t.Errorf("requests_total(404) = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues("unmatched", "404")); got != 1 {
		t.Errorf("requests_total(unmatched) = %v, want 1", got)
	}
	if got := metricHistogramCount(t, m.requestDuration.WithLabelValues(route)); got != 3 {
		t.Errorf("request_duration_seconds count = %d, want 3", got)
	}
}

func TestPrometheusMiddleware_CustomNamespace(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	mw := Prometheus(WithRegistry(reg), WithNamespace("assets"), WithSubsystem("vendor"))
	h := mw(http.HandlerFunc(assetHandler))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "assets_vendor_requests_total" {
			found = true
		}
	}
	if !found {
		t.Error("expected assets_vendor_requests_total to be registered")
	}
}

func TestPrometheusMiddleware_SharesCollectors(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	// A second call must not register the collectors again.
	Prometheus(WithRegistry(reg))
	Prometheus(WithRegistry(reg))
	NewResolveMetrics(WithRegistry(reg))
}

func TestResolveMetrics(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()
	rm := NewResolveMetrics(WithRegistry(reg))

	fsys := fstest.MapFS{
		"jquery/bower.json":     {Data: []byte(`{"version": "2.1.3"}`)},
		"jquery/dist/jquery.js": {Data: []byte("js")},
	}
	res := assets.NewResolver(fsys, assets.WithObserver(rm))
	res.Resolve("jquery", "dist/jquery.js")
	res.Resolve("jquery", "dist/jquery.js")
	res.Resolve("jquery", "missing.js")
	res.Resolve("..", "x")

	m := globalMetrics
	for outcome, want := range map[string]float64{
		assets.OutcomeResolved:      2,
		assets.OutcomeNotFound:      1,
		assets.OutcomePathViolation: 1,
		assets.OutcomeManifestError: 0,
	} {
		if got := metricCounterValue(t, m.resolutionsTotal.WithLabelValues(outcome)); got != want {
			t.Errorf("resolutions_total(%s) = %v, want %v", outcome, got, want)
		}
	}
	if got := metricHistogramCount(t, m.resolutionDuration); got != 4 {
		t.Errorf("resolution_duration_seconds count = %d, want 4", got)
	}
}
