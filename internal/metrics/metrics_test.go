package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ErlanBelekov/todo-api/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestServer_ExposesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.Register(reg)

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	if got := testutil.ToFloat64(metrics.AuthAttemptsTotal.WithLabelValues("login", "success")); got < 1 {
		t.Fatalf("counter = %f, want >= 1", got)
	}

	srv := httptest.NewServer(metrics.NewServer(":0", reg).Handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "todo_auth_attempts_total") {
		t.Errorf("metrics output missing todo_auth_attempts_total:\n%s", body)
	}
}
