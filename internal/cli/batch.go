package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"irfold/internal/batch"
	"irfold/internal/logging"
	"irfold/internal/metrics"
	"irfold/internal/runutil"
)

func (a *app) batchCmd() *cobra.Command {
	var (
		jobs            int
		metricsAddr     string
		continueOnError bool
	)
	cmd := &cobra.Command{
		Use:   "batch FASTA...",
		Short: "Fold every record of one or more FASTA files concurrently",
		Example: "  irfold batch -j 8 -k 3 -o jsonl transcripts.fa.gz\n" +
			"  irfold batch --metrics-addr :9090 --continue-on-error reads.fa",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bc := batch.Config{
				Jobs:            runutil.ResolveJobs(jobs, 0),
				ContinueOnError: continueOnError,
				Logger:          logging.New("batch"),
			}
			return failed(a.fold(cmd, batch.Files(args...), bc, metricsAddr))
		},
	}
	f := cmd.Flags()
	f.IntVarP(&jobs, "jobs", "j", 0, "concurrent folds (0 = one per CPU)")
	f.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	f.BoolVar(&continueOnError, "continue-on-error", false, "report failed records instead of stopping")
	return cmd
}

// startMetrics serves a private registry on addr until the returned stop
// func is called. An empty addr disables metrics.
func (a *app) startMetrics(cmd *cobra.Command, addr string) (*metrics.Metrics, func()) {
	if addr == "" {
		return nil, func() {}
	}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	ctx, cancel := context.WithCancel(cmd.Context())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := metrics.Serve(ctx, addr, reg, logging.New("metrics")); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Warnf(a.stderr, a.opts.quiet, "metrics server: %v", err)
		}
	}()
	return m, func() {
		cancel()
		<-done
	}
}
