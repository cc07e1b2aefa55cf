package pipeline

import (
	"context"
	"sync/atomic"

	"gnomad/pipeline/models/variants"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Composer layers the coverage of both modalities (and a caid, when
// one is known) onto step1 records.
type Composer struct {
	Exome  CoverageTable
	Genome CoverageTable
	Caids  CaidTable

	logger *zap.Logger
}

func NewComposer(exome CoverageTable, genome CoverageTable, caids CaidTable, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{
		Exome:  exome,
		Genome: genome,
		Caids:  caids,
		logger: logger,
	}
}

// Compose builds the composite for one record. A modality with no row
// for the record's locus contributes NoCoverage.
func (c *Composer) Compose(base variants.InputVariant) (variants.Variant, error) {
	composite, _, err := c.compose(base)
	return composite, err
}

func (c *Composer) compose(base variants.InputVariant) (variants.Variant, int, error) {
	exome, exomeFound := c.Exome.Lookup(base.Locus)
	genome, genomeFound := c.Genome.Lookup(base.Locus)

	missing := 0
	if !exomeFound {
		missing++
	}
	if !genomeFound {
		missing++
	}

	var extra []variants.AnnotationGroup
	if caid, ok := c.Caids[base.VariantId]; ok {
		extra = append(extra, caid)
	}

	composite, err := variants.Compose(base, variants.Coverage{Exome: exome, Genome: genome}, extra...)
	return composite, missing, err
}

// ComposeAll composes every input on at most workers goroutines.
// The result is in input order; the first failure cancels the rest.
func (c *Composer) ComposeAll(ctx context.Context, inputs []variants.InputVariant, workers int) ([]variants.Variant, error) {
	if workers < 1 {
		workers = 1
	}

	out := make([]variants.Variant, len(inputs))
	var missing int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range inputs {
		if gctx.Err() != nil {
			break
		}

		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			composite, m, err := c.compose(inputs[i])
			if err != nil {
				return errors.Wrapf(err, "record %d (%s)", i+1, inputs[i].VariantId)
			}
			out[i] = composite
			atomic.AddInt64(&missing, int64(m))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.logger.Info("composed variants",
		zap.Int("records", len(out)),
		zap.Int("workers", workers),
		zap.Int64("modalitiesWithoutCoverage", missing))

	return out, nil
}
