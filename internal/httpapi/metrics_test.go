package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func scrape(t *testing.T, h http.Handler) []byte {
	t.Helper()
	mrr := httptest.NewRecorder()
	h.ServeHTTP(mrr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if mrr.Code != http.StatusOK {
		t.Fatalf("/metrics status=%d", mrr.Code)
	}
	return mrr.Body.Bytes()
}

// TestMetricsMiddleware_UsesRoutePattern ensures chat requests on arbitrary
// paths are labeled by the chi route pattern, not the raw URL path.
func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	h := NewMux(&mockService{reply: "ok"}, Options{})
	if rec := post(t, h, "/some/unique-path-123", `{"request":"hi"}`); rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	body := scrape(t, h)
	if !bytes.Contains(body, []byte("llamachat_http_requests_total")) {
		t.Fatalf("expected llamachat_http_requests_total in metrics")
	}
	if !bytes.Contains(body, []byte(`path="/*"`)) {
		t.Fatalf("expected route pattern label")
	}
	if bytes.Contains(body, []byte("unique-path-123")) {
		t.Fatalf("raw path leaked into labels")
	}
}

func TestIncrementBackpressure_IncrementsCounter(t *testing.T) {
	baseline := testutil.ToFloat64(backpressureTotal.WithLabelValues("queue"))
	IncrementBackpressure("queue")
	IncrementBackpressure("queue")
	if got := testutil.ToFloat64(backpressureTotal.WithLabelValues("queue")); got < baseline+2 {
		t.Fatalf("expected backpressure counter >= %v, got %v", baseline+2, got)
	}

	before := testutil.ToFloat64(backpressureTotal.WithLabelValues("unspecified"))
	IncrementBackpressure("")
	if after := testutil.ToFloat64(backpressureTotal.WithLabelValues("unspecified")); after < before+1 {
		t.Fatalf("expected unspecified reason to increment: before=%v after=%v", before, after)
	}
}
