package main

import (
	"context"
	"io"
	"os"

	"gnomad/pipeline/models/variants"
	"gnomad/pipeline/services/pipeline"
	"gnomad/pipeline/utils"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type composeOptions struct {
	variants       string
	exomeCoverage  string
	genomeCoverage string
	caids          string
	index          string
	output         string
	workers        int
}

func newComposeCommand(a *app) *cobra.Command {
	var opts composeOptions

	ccmd := &cobra.Command{
		Use:   "compose",
		Short: "Attach coverage (and caids) to step1 variant records",
		Long: `
Reads step1 variant records (JSON lines), attaches the exome and genome
coverage of each record's locus and, when a caid table is given, its
ClinGen allele id. The composites are written to --output as JSON lines
or loaded into --index (default: GNOMAD_VARIANTS_INDEX).

Coverage tables are tab separated, optionally gzip/bgzip compressed.
`,
		Args: noArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			if !c.Flags().Changed("workers") {
				opts.workers = a.cfg.Pipeline.Workers
			}
			return a.compose(opts)
		},
	}

	flags := ccmd.Flags()
	flags.StringVar(&opts.variants, "variants", "", "step1 variant records, one JSON object per line")
	flags.StringVar(&opts.exomeCoverage, "exome-coverage", "", "exome coverage table")
	flags.StringVar(&opts.genomeCoverage, "genome-coverage", "", "genome coverage table")
	flags.StringVar(&opts.caids, "caids", "", "variant_id to caid table (optional)")
	flags.StringVar(&opts.index, "index", "", "variants index to load into")
	flags.StringVarP(&opts.output, "output", "o", "", "write composites as JSON lines to this file ('-' for stdout) instead of loading them")
	flags.IntVar(&opts.workers, "workers", 4, "composition workers (default: GNOMAD_COMPOSE_WORKERS)")
	return ccmd
}

func (o composeOptions) validate() error {
	for _, required := range []struct{ flag, value string }{
		{"variants", o.variants},
		{"exome-coverage", o.exomeCoverage},
		{"genome-coverage", o.genomeCoverage},
	} {
		if required.value == "" {
			return usagef("--%s is required", required.flag)
		}
	}
	if o.index != "" && o.output != "" {
		return usagef("--index and --output are mutually exclusive")
	}
	return nil
}

func (a *app) compose(opts composeOptions) error {
	ctx := context.Background()

	inputs, err := readWith(opts.variants, pipeline.ReadInputVariants)
	if err != nil {
		return err
	}
	exome, err := readWith(opts.exomeCoverage, pipeline.ReadCoverageTable)
	if err != nil {
		return err
	}
	genome, err := readWith(opts.genomeCoverage, pipeline.ReadCoverageTable)
	if err != nil {
		return err
	}
	var caids pipeline.CaidTable
	if opts.caids != "" {
		if caids, err = readWith(opts.caids, pipeline.ReadCaidTable); err != nil {
			return err
		}
	}

	a.logger.Info("inputs read",
		zap.Int("variants", len(inputs)),
		zap.Int("exomeLoci", len(exome)),
		zap.Int("genomeLoci", len(genome)),
		zap.Int("caids", len(caids)))

	composites, err := pipeline.NewComposer(exome, genome, caids, a.logger).ComposeAll(ctx, inputs, opts.workers)
	if err != nil {
		return err
	}

	if opts.output != "" {
		return writeOutput(opts.output, a.stdout, composites)
	}

	index := opts.index
	if index == "" {
		index = a.cfg.Api.VariantsIndex
	}

	loader, err := a.newLoader()
	if err != nil {
		return err
	}
	report, err := loader.LoadVariants(ctx, index, composites)
	a.printReport(report)
	return err
}

// readWith opens path (transparently decompressing it) and hands it to read.
func readWith[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T

	r, err := utils.OpenMaybeGzipped(path)
	if err != nil {
		return zero, err
	}
	defer r.Close()

	v, err := read(r)
	if err != nil {
		return zero, errors.Wrapf(err, "reading %s", path)
	}
	return v, nil
}

func writeOutput(path string, stdout io.Writer, composites []variants.Variant) error {
	if path == "-" {
		return pipeline.WriteJSONLines(stdout, composites)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := pipeline.WriteJSONLines(f, composites); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return f.Close()
}
