// Package cli wires cobra's command tree and viper's layered
// configuration into the assembler core, following the same
// root-command-plus-Execute shape as jjti-repp/cmd/root.go, generalized
// to several sibling subcommands the way kailayerhq-kai/kai-cli's main.go
// registers its command groups. Spec section 6 treats CLI parsing as an
// external collaborator out of the core's scope; this package is that
// collaborator.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dbgasm/core/fasta"
	"dbgasm/internal/apperr"
	"dbgasm/internal/assemble"
	"dbgasm/internal/config"
	"dbgasm/internal/filter"
	"dbgasm/internal/filterbuild"
	"dbgasm/internal/graphviz"
	"dbgasm/internal/metrics"
	"dbgasm/internal/pipeline"
	"dbgasm/internal/writers"
	"dbgasm/pkg/api"
)

// contigWriter is the union of pipeline.Writer and Flush, satisfied by
// both core/fasta.Writer and internal/writers.JSONLWriter, so runAssemble
// can build whichever the --format flag names and treat them identically
// from that point on.
type contigWriter interface {
	WriteContig(id, sourceReadID string, seq []byte) error
	Flush() error
}

// New builds the dbgasm root command. v is the viper instance flags bind
// into; the caller is responsible for also pointing it at dbgasm.yaml and
// the DBGASM_ environment prefix before Execute runs.
func New(v *viper.Viper, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "dbgasm",
		Short:         "A probabilistic de Bruijn graph short-read assembler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(newAssembleCmd(v, stdout, stderr))
	root.AddCommand(newGraphvizCmd(v, stdout))
	root.AddCommand(newCountCmd(v))
	return root
}

// bindCommonFlags registers the spec section 6 configuration table as
// flags on cmd and, when cmd runs, binds each one into v under the same
// key internal/config.Config's mapstructure tags use, so a flag, a
// dbgasm.yaml entry, and a DBGASM_ environment variable all resolve to
// the same field. Every subcommand registers the same keys on the one
// shared v, so the binding is made for the command that actually runs.
func bindCommonFlags(cmd *cobra.Command, v *viper.Viper) {
	d := config.Defaults()
	cmd.Flags().Int("k", d.K, "k-mer length (must equal the solid set's k)")
	cmd.Flags().Uint64("genome-size", d.GenomeSize, "genome size hint in bases, sizes the assembled-set filter")
	cmd.Flags().Int("num-hashes", d.NumHashes, "number of hash functions (must match the solid set's)")
	cmd.Flags().Bool("verbose", d.Verbose, "enable progress and summary diagnostics")
	cmd.Flags().Int("threads", d.Threads, "worker count (0 = all CPUs)")
	cmd.Flags().Uint64("progress", d.Progress, "reads_processed interval between progress lines")
	cmd.Flags().String("log-format", d.LogFormat, "diagnostic log format: text or json")
	cmd.PreRunE = func(c *cobra.Command, _ []string) error {
		for _, name := range []string{"k", "genome-size", "num-hashes", "verbose", "threads", "progress", "log-format"} {
			_ = v.BindPFlag(name, c.Flags().Lookup(name))
		}
		return nil
	}
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(w, nil)
	} else {
		h = slog.NewTextHandler(w, nil)
	}
	return slog.New(h)
}

// loadSolidSet opens and gob-decodes the filter at path, checking it
// against cfg's k/num_hashes per spec section 7's configuration-error
// kind.
func loadSolidSet(path string, cfg config.Config) (*filter.Filter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.New(apperr.Io, err)
	}
	defer func() { _ = f.Close() }()

	solid, err := filter.Load(f)
	if err != nil {
		return nil, apperr.New(apperr.Io, err)
	}
	if solid.K() != cfg.K || solid.NumHashes() != cfg.NumHashes {
		return nil, apperr.Newf(apperr.Config,
			"solid set built for k=%d num_hashes=%d, but run configured k=%d num_hashes=%d",
			solid.K(), solid.NumHashes(), cfg.K, cfg.NumHashes)
	}
	return solid, nil
}

// classifyErr wraps an unclassified error (most often one propagated from
// core/fasta's streaming) as an Io-kind apperr.Error, leaving an
// already-classified error untouched.
func classifyErr(err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apperr.New(apperr.Io, err)
}

func newAssembleCmd(v *viper.Viper, stdout, stderr io.Writer) *cobra.Command {
	var solidPath, output, summaryJSON, format string
	cmd := &cobra.Command{
		Use:   "assemble [sequence files...]",
		Short: "Extend reads into contigs against a solid-set filter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssemble(cmd.Context(), v, solidPath, output, summaryJSON, format, args, stdout, stderr)
		},
	}
	bindCommonFlags(cmd, v)
	cmd.Flags().StringVar(&solidPath, "solid", "", "path to a gob-encoded solid-set filter (required)")
	cmd.Flags().StringVar(&output, "output", "-", `output path ("-" for stdout)`)
	cmd.Flags().StringVar(&summaryJSON, "summary-json", "", "optional path to write a RunSummaryV1 JSON object")
	cmd.Flags().StringVar(&format, "format", "fasta", `contig output format: "fasta" or "json" (one ContigV1 object per line)`)
	_ = cmd.MarkFlagRequired("solid")
	return cmd
}

// newContigWriter builds the contig writer named by format, defaulting to
// FASTA per spec section 6 and switching to SPEC_FULL.md's supplemented
// JSONL mode (pkg/api.ContigV1) on "json".
func newContigWriter(format string, w io.Writer) (contigWriter, error) {
	switch format {
	case "", "fasta":
		return fasta.NewWriter(w), nil
	case "json":
		return writers.NewJSONLWriter(w), nil
	default:
		return nil, apperr.Newf(apperr.Config, `--format must be "fasta" or "json", got %q`, format)
	}
}

func runAssemble(ctx context.Context, v *viper.Viper, solidPath, output, summaryJSON, format string, seqFiles []string, stdout, stderr io.Writer) error {
	cfg, err := config.New(v)
	if err != nil {
		return err
	}
	solid, err := loadSolidSet(solidPath, cfg)
	if err != nil {
		return err
	}

	logger := newLogger(cfg, stderr)
	runID := metrics.NewRunID()
	logger = runID.Logger(logger)

	assembled := filter.NewAtomic(cfg.GenomeSize, cfg.K, cfg.NumHashes)
	driver := assemble.New(solid, assembled, cfg.K, cfg.NumHashes)

	outw := stdout
	if output != "-" && output != "" {
		f, err := os.Create(output)
		if err != nil {
			return apperr.New(apperr.Io, err)
		}
		defer func() { _ = f.Close() }()
		outw = f
	}
	fw, err := newContigWriter(format, outw)
	if err != nil {
		return err
	}

	var counters metrics.Counters
	pipelineCfg := pipeline.Config{
		Threads:      cfg.Threads,
		K:            cfg.K,
		NumHashes:    cfg.NumHashes,
		Verbose:      cfg.Verbose,
		ProgressStep: cfg.Progress,
	}
	runErr := pipeline.Run(ctx, pipelineCfg, seqFiles, driver, assembled, fw, &counters, logger)
	if flushErr := fw.Flush(); runErr == nil {
		runErr = flushErr
	}
	if runErr != nil {
		return classifyErr(runErr)
	}

	snap := counters.Load()
	if cfg.Verbose {
		metrics.LogProgress(logger, snap)
		logger.Info("Assembly complete")
	}

	if summaryJSON != "" {
		if err := writeSummary(summaryJSON, string(runID), snap); err != nil {
			return apperr.New(apperr.Io, err)
		}
	}
	return nil
}

func writeSummary(path, runID string, snap metrics.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	summary := api.RunSummaryV1{
		RunID:           runID,
		ReadsProcessed:  snap.ReadsProcessed,
		ReadsExtended:   snap.ReadsExtended,
		BasesAssembled:  snap.BasesAssembled,
		TotalContigs:    snap.ContigsEmitted,
		PercentExtended: snap.PercentExtended(),
	}
	return json.NewEncoder(f).Encode(summary)
}

func newGraphvizCmd(v *viper.Viper, stdout io.Writer) *cobra.Command {
	var solidPath, output string
	cmd := &cobra.Command{
		Use:   "graphviz [sequence files...]",
		Short: "Dump the implicit de Bruijn graph reachable from a set of reads as GraphViz",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraphviz(cmd.Context(), v, solidPath, output, args, stdout)
		},
	}
	bindCommonFlags(cmd, v)
	cmd.Flags().StringVar(&solidPath, "solid", "", "path to a gob-encoded solid-set filter (required)")
	cmd.Flags().StringVar(&output, "output", "-", `output path for the GraphViz digraph ("-" for stdout)`)
	_ = cmd.MarkFlagRequired("solid")
	return cmd
}

func runGraphviz(ctx context.Context, v *viper.Viper, solidPath, output string, seqFiles []string, stdout io.Writer) error {
	cfg, err := config.New(v)
	if err != nil {
		return err
	}
	solid, err := loadSolidSet(solidPath, cfg)
	if err != nil {
		return err
	}

	var reads [][]byte
	for _, path := range seqFiles {
		recs, err := fasta.StreamChanCtxPath(ctx, path)
		if err != nil {
			return apperr.New(apperr.Io, err)
		}
		for rec := range recs {
			reads = append(reads, rec.Seq)
		}
	}

	outw := stdout
	if output != "-" && output != "" {
		f, err := os.Create(output)
		if err != nil {
			return apperr.New(apperr.Io, err)
		}
		defer func() { _ = f.Close() }()
		outw = f
	}
	if err := graphviz.Dump(outw, reads, solid, cfg.K, cfg.NumHashes); err != nil {
		return apperr.New(apperr.Io, err)
	}
	return nil
}

func newCountCmd(v *viper.Viper) *cobra.Command {
	var output string
	var minCount uint64
	cmd := &cobra.Command{
		Use:   "count [sequence files...]",
		Short: "Count k-mers across FASTA reads and build a solid-set filter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(cmd.Context(), v, output, minCount, args)
		},
	}
	bindCommonFlags(cmd, v)
	cmd.Flags().StringVar(&output, "output", "", "path to write the gob-encoded filter (required)")
	cmd.Flags().Uint64Var(&minCount, "min-count", 2, "minimum k-mer occurrence count to include in the filter")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runCount(ctx context.Context, v *viper.Viper, output string, minCount uint64, seqFiles []string) error {
	cfg, err := config.New(v)
	if err != nil {
		return err
	}
	counts, err := filterbuild.Count(ctx, seqFiles, cfg.K, cfg.NumHashes)
	if err != nil {
		return err
	}
	f := counts.Build(cfg.GenomeSize, minCount)

	out, err := os.Create(output)
	if err != nil {
		return apperr.New(apperr.Io, err)
	}
	defer func() { _ = out.Close() }()
	if err := f.Save(out); err != nil {
		return apperr.New(apperr.Io, err)
	}
	return nil
}
