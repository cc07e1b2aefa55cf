package indexes

import (
	"fmt"
	"strings"

	"gnomad/pipeline/models/constants/chromosome"

	"github.com/pkg/errors"
)

// xPositionBase leaves nine digits for the in-chromosome coordinate
const xPositionBase = 1_000_000_000

// Gene is the document stored in a genes index. Value repeats the
// source record (with its gene_version) next to the flattened fields.
type Gene struct {
	Value GeneValue `json:"value" yaml:"value" mapstructure:"value"`

	GeneId          string `json:"gene_id" yaml:"gene_id" mapstructure:"gene_id"`
	Symbol          string `json:"symbol" yaml:"symbol" mapstructure:"symbol"`
	SymbolUpperCase string `json:"symbol_upper_case" yaml:"symbol_upper_case" mapstructure:"symbol_upper_case"`
	Chrom           string `json:"chrom" yaml:"chrom" mapstructure:"chrom"`
	Start           int64  `json:"start" yaml:"start" mapstructure:"start"`
	Stop            int64  `json:"stop" yaml:"stop" mapstructure:"stop"`
	XStart          int64  `json:"xstart" yaml:"xstart" mapstructure:"xstart"`
	XStop           int64  `json:"xstop" yaml:"xstop" mapstructure:"xstop"`
}

type GeneValue struct {
	GeneId      string `json:"gene_id" yaml:"gene_id" mapstructure:"gene_id"`
	GeneVersion string `json:"gene_version" yaml:"gene_version" mapstructure:"gene_version"`
	Symbol      string `json:"symbol" yaml:"symbol" mapstructure:"symbol"`
	Chrom       string `json:"chrom" yaml:"chrom" mapstructure:"chrom"`
	Start       int64  `json:"start" yaml:"start" mapstructure:"start"`
	Stop        int64  `json:"stop" yaml:"stop" mapstructure:"stop"`
	XStart      int64  `json:"xstart" yaml:"xstart" mapstructure:"xstart"`
	XStop       int64  `json:"xstop" yaml:"xstop" mapstructure:"xstop"`
}

// GeneInvariantError reports a gene document whose
// coordinates are inconsistent.
type GeneInvariantError struct {
	GeneId string
	Reason string
}

func (e *GeneInvariantError) Error() string {
	return fmt.Sprintf("gene %s: %s", e.GeneId, e.Reason)
}

// XPosition orders positions across chromosomes: chrom_number * 10^9 + pos
func XPosition(chrom string, pos int64) (int64, error) {
	n, err := chromosome.Number(chrom)
	if err != nil {
		return 0, err
	}
	return int64(n)*xPositionBase + pos, nil
}

// NewGene derives the full gene document from its source fields.
func NewGene(geneId string, geneVersion string, symbol string, chrom string, start int64, stop int64) (Gene, error) {
	xstart, err := XPosition(chrom, start)
	if err != nil {
		return Gene{}, &GeneInvariantError{GeneId: geneId, Reason: err.Error()}
	}
	xstop, err := XPosition(chrom, stop)
	if err != nil {
		return Gene{}, &GeneInvariantError{GeneId: geneId, Reason: err.Error()}
	}

	g := Gene{
		Value: GeneValue{
			GeneId:      geneId,
			GeneVersion: geneVersion,
			Symbol:      symbol,
			Chrom:       chrom,
			Start:       start,
			Stop:        stop,
			XStart:      xstart,
			XStop:       xstop,
		},
		GeneId:          geneId,
		Symbol:          symbol,
		SymbolUpperCase: strings.ToUpper(symbol),
		Chrom:           chrom,
		Start:           start,
		Stop:            stop,
		XStart:          xstart,
		XStop:           xstop,
	}

	if err := g.Validate(); err != nil {
		return Gene{}, err
	}
	return g, nil
}

func (g Gene) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return errors.WithStack(&GeneInvariantError{GeneId: g.GeneId, Reason: fmt.Sprintf(format, args...)})
	}

	if g.GeneId == "" {
		return invalid("missing gene_id")
	}
	if g.Start < 0 || g.Start > g.Stop {
		return invalid("start (%d) must be within [0, stop (%d)]", g.Start, g.Stop)
	}
	if g.XStart > g.XStop {
		return invalid("xstart (%d) > xstop (%d)", g.XStart, g.XStop)
	}

	xstart, err := XPosition(g.Chrom, g.Start)
	if err != nil {
		return invalid("%s", err)
	}
	if xstart != g.XStart {
		return invalid("xstart (%d) does not match chrom %s start %d (expected %d)", g.XStart, g.Chrom, g.Start, xstart)
	}
	xstop, _ := XPosition(g.Chrom, g.Stop)
	if xstop != g.XStop {
		return invalid("xstop (%d) does not match chrom %s stop %d (expected %d)", g.XStop, g.Chrom, g.Stop, xstop)
	}

	if g.SymbolUpperCase != strings.ToUpper(g.Symbol) {
		return invalid("symbol_upper_case %q does not match symbol %q", g.SymbolUpperCase, g.Symbol)
	}

	// value repeats the flat fields
	v := g.Value
	switch {
	case v.GeneId != g.GeneId:
		return invalid("value.gene_id %q does not match gene_id", v.GeneId)
	case v.Symbol != g.Symbol:
		return invalid("value.symbol %q does not match symbol %q", v.Symbol, g.Symbol)
	case v.Chrom != g.Chrom:
		return invalid("value.chrom %q does not match chrom %q", v.Chrom, g.Chrom)
	case v.Start != g.Start || v.Stop != g.Stop:
		return invalid("value start/stop (%d, %d) do not match (%d, %d)", v.Start, v.Stop, g.Start, g.Stop)
	case v.XStart != g.XStart || v.XStop != g.XStop:
		return invalid("value xstart/xstop (%d, %d) do not match (%d, %d)", v.XStart, v.XStop, g.XStart, g.XStop)
	}

	return nil
}

// Document renders the gene as the field mapping handed to the loader,
// value nested next to the flat fields.
func (g Gene) Document() map[string]interface{} {
	return map[string]interface{}{
		"value": map[string]interface{}{
			"gene_id":      g.Value.GeneId,
			"gene_version": g.Value.GeneVersion,
			"symbol":       g.Value.Symbol,
			"chrom":        g.Value.Chrom,
			"start":        g.Value.Start,
			"stop":         g.Value.Stop,
			"xstart":       g.Value.XStart,
			"xstop":        g.Value.XStop,
		},
		"gene_id":           g.GeneId,
		"symbol":            g.Symbol,
		"symbol_upper_case": g.SymbolUpperCase,
		"chrom":             g.Chrom,
		"start":             g.Start,
		"stop":              g.Stop,
		"xstart":            g.XStart,
		"xstop":             g.XStop,
	}
}
