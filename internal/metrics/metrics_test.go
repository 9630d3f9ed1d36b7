package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"irfold/core/energy"
	"irfold/core/engine"
)

func TestObserveFold(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveFold(engine.Result{Status: engine.StatusOptimal, Stats: engine.Stats{Variables: 5, Corrections: 2, SolveTime: time.Millisecond}}, nil)
	m.ObserveFold(engine.Result{Status: engine.StatusNoCandidates}, nil)
	m.ObserveFold(engine.Result{}, errors.New("boom"))

	require.Equal(t, 1.0, testutil.ToFloat64(m.folds.WithLabelValues("optimal")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.folds.WithLabelValues("no-candidates")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.foldErrors))
	require.Equal(t, 1, testutil.CollectAndCount(m.variables))
}

func TestOracleDecorator(t *testing.T) {
	m := New(prometheus.NewRegistry())
	calls := 0
	o := m.Oracle(energy.OracleFunc(func(_ context.Context, db, _, _ string) (float64, error) {
		calls++
		switch db {
		case "bad":
			return 0, errors.New("tool failed")
		case "invalid":
			return energy.Sentinel, nil
		}
		return -1, nil
	}))
	ctx := context.Background()
	e, err := o.Energy(ctx, "(...)", "GAAAC", "")
	require.NoError(t, err)
	require.Equal(t, -1.0, e)
	_, err = o.Energy(ctx, "bad", "", "")
	require.Error(t, err)
	_, _ = o.Energy(ctx, "invalid", "", "")

	require.Equal(t, 3, calls)
	require.Equal(t, 1.0, testutil.ToFloat64(m.oracleCalls.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.oracleCalls.WithLabelValues("error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.oracleCalls.WithLabelValues("invalid")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveFold(engine.Result{Status: engine.StatusInfeasible, Stats: engine.Stats{Variables: 1}}, nil)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `irfold_folds_total{status="infeasible"} 1`), string(body))
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- Serve(ctx, "127.0.0.1:0", prometheus.NewRegistry(), nil) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
