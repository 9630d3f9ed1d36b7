// Package metrics exposes fold and oracle statistics to Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"irfold/core/energy"
	"irfold/core/engine"
)

const namespace = "irfold"

// Metrics holds the collectors registered for one process.
type Metrics struct {
	folds         *prometheus.CounterVec
	foldErrors    prometheus.Counter
	oracleCalls   *prometheus.CounterVec
	oracleLatency prometheus.Histogram
	variables     prometheus.Histogram
	corrections   prometheus.Histogram
	solveSeconds  prometheus.Histogram
}

// New registers the collectors on reg (nil means the default registerer).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		// Labels: status (optimal, feasible, infeasible, unknown, no-candidates)
		folds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "folds_total",
			Help:      "Completed folds by result status",
		}, []string{"status"}),
		foldErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fold_errors_total",
			Help:      "Folds that returned an error",
		}),
		// Labels: result (ok, invalid, error)
		oracleCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "calls_total",
			Help:      "Free-energy oracle calls",
		}, []string{"result"}),
		oracleLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "latency_seconds",
			Help:      "Free-energy oracle latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		variables: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "variables",
			Help:      "Decision variables per model",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}),
		corrections: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "corrections",
			Help:      "Correction terms per model",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}),
		solveSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "duration_seconds",
			Help:      "Solver wall time in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

// ObserveFold records a finished fold. err != nil counts as an error only.
func (m *Metrics) ObserveFold(res engine.Result, err error) {
	if err != nil {
		m.foldErrors.Inc()
		return
	}
	m.folds.WithLabelValues(string(res.Status)).Inc()
	if res.Status == engine.StatusNoCandidates && res.Stats.Variables == 0 {
		return
	}
	m.variables.Observe(float64(res.Stats.Variables))
	m.corrections.Observe(float64(res.Stats.Corrections))
	m.solveSeconds.Observe(res.Stats.SolveTime.Seconds())
}

// Oracle wraps next so every call is counted and timed.
func (m *Metrics) Oracle(next energy.Oracle) energy.Oracle {
	return energy.OracleFunc(func(ctx context.Context, db, seq, workDir string) (float64, error) {
		t0 := time.Now()
		e, err := next.Energy(ctx, db, seq, workDir)
		m.oracleLatency.Observe(time.Since(t0).Seconds())
		switch {
		case err != nil:
			m.oracleCalls.WithLabelValues("error").Inc()
		case energy.IsInvalid(e):
			m.oracleCalls.WithLabelValues("invalid").Inc()
		default:
			m.oracleCalls.WithLabelValues("ok").Inc()
		}
		return e, err
	})
}

// Handler serves g in the Prometheus text format (nil means the default gatherer).
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	if log != nil {
		log.Info("serving metrics", "addr", addr)
	}
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
