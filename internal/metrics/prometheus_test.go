package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheus(reg, "")

	c.AddGenerations("0", 1000)
	c.AddGenerations("0", 500)
	c.SetBest("0", 42)
	c.SetBest("0", 40)
	c.RunFinished("limit", 2*time.Second)

	require.Equal(t, 1500.0, testutil.ToFloat64(c.generations.WithLabelValues("0")))
	require.Equal(t, 40.0, testutil.ToFloat64(c.best.WithLabelValues("0")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("limit")))

	n, err := testutil.GatherAndCount(reg, "pcmax_ga_run_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestServer_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheus(reg, "test")
	c.SetBest("3", 17)

	srv := httptest.NewServer(NewServer(":0", reg, nil).Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `test_ga_best_makespan{worker="3"} 17`)

	health, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	health.Body.Close()
	require.Equal(t, 200, health.StatusCode)
}
