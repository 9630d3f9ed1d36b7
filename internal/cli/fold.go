package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"irfold/core/engine"
	"irfold/internal/batch"
	"irfold/internal/fasta"
	"irfold/internal/logging"
	"irfold/internal/output"
	"irfold/internal/runutil"
	"irfold/internal/writers"
	"irfold/pkg/api"
)

func (a *app) foldCmd() *cobra.Command {
	var inputs []string
	cmd := &cobra.Command{
		Use:   "fold [SEQUENCE...]",
		Short: "Fold sequences given as arguments or FASTA files",
		Example: "  irfold fold GGGAAACCC\n" +
			"  irfold fold -k 3 -i hairpins.fa -o json",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(inputs) == 0 {
				return fmt.Errorf("%w: no sequences: pass SEQUENCE arguments or --input", engine.ErrConfiguration)
			}
			var recs []fasta.Record
			for i, s := range args {
				recs = append(recs, fasta.Record{ID: fmt.Sprintf("seq%d", i+1), Seq: s})
			}
			src := batch.Records(recs)
			if len(inputs) > 0 {
				files := batch.Files(inputs...)
				inline := src
				src = func(ctx context.Context, emit func(fasta.Record) error) error {
					if err := inline(ctx, emit); err != nil {
						return err
					}
					return files(ctx, emit)
				}
			}
			return failed(a.fold(cmd, src, batch.Config{Jobs: 1}, ""))
		},
	}
	cmd.Flags().StringSliceVarP(&inputs, "input", "i", nil, "FASTA file(s) to fold (gzip ok, - for stdin)")
	return cmd
}

// fold runs every record through the configured stack and writes the
// results. jsonl streams as results arrive; other formats are written at
// the end.
func (a *app) fold(cmd *cobra.Command, src batch.Source, bc batch.Config, metricsAddr string) error {
	c := a.cfg
	ec, err := c.ToEngine()
	if err != nil {
		return err
	}
	m, stopMetrics := a.startMetrics(cmd, metricsAddr)
	defer stopMetrics()

	st, err := newStack(c, m)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			Warnf(a.stderr, a.opts.quiet, "closing energy store: %v", cerr)
		}
	}()

	bc.StageRoot = c.WorkDir
	bc.KeepDirs = c.KeepWorkDirs
	withCands := runutil.NeedCandidates(c.Output, a.opts.verbose)

	var (
		list   []api.FoldResultV1
		stream chan<- api.FoldResultV1
		done   <-chan error
	)
	if c.Output == output.FormatJSONL {
		stream, done = writers.StartJSONL(a.stdout, 0)
	}
	runErr := batch.Run(cmd.Context(), st.engine, bc, ec, src, func(it batch.Item) error {
		var rec api.FoldResultV1
		if it.Err != nil {
			rec = output.Failed(it.Record.ID, it.Record.Seq, it.Err)
		} else {
			rec = output.ToAPI(it.Record.ID, ec.Model.MaxCorrectionTupleSize, it.Result, withCands)
		}
		if m != nil {
			m.ObserveFold(it.Result, it.Err)
		}
		if stream != nil {
			stream <- rec
			return nil
		}
		list = append(list, rec)
		return nil
	})
	if stream != nil {
		close(stream)
		if err := <-done; err != nil && runErr == nil {
			runErr = err
		}
		return runErr
	}
	if runErr != nil {
		return runErr
	}
	if st.cached != nil {
		hits, misses := st.cached.Stats()
		logging.New("cli").Debug("energy cache", "hits", hits, "misses", misses)
	}
	return writers.Write(c.Output, a.stdout, list, a.opts.verbose)
}
