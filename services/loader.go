package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gnomad/pipeline/models/constants"
	"gnomad/pipeline/models/indexes"
	"gnomad/pipeline/models/variants"
	esRepo "gnomad/pipeline/repositories/elasticsearch"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DocumentStore is the subset of the search backend the loader needs.
type DocumentStore interface {
	Exists(ctx context.Context, index string) (bool, error)
	Create(ctx context.Context, index string, mapping map[string]interface{}) error
	Write(ctx context.Context, index string, docType string, document map[string]interface{}) error
}

type FailureKind string

const (
	ConnectionFailure FailureKind = "connection"
	WriteFailure      FailureKind = "write"
	InvalidRecord     FailureKind = "invalid"
)

type ItemFailure struct {
	Key  string
	Kind FailureKind
	Err  error
}

func (f ItemFailure) String() string {
	return fmt.Sprintf("%s (%s): %v", f.Key, f.Kind, f.Err)
}

// LoadReport describes one load: every attempted item either counts as
// written or has exactly one entry in Failures.
type LoadReport struct {
	Index     string
	Attempted int
	Written   int
	Failures  []ItemFailure
	Aborted   bool
}

func (r LoadReport) Ok() bool {
	return len(r.Failures) == 0 && !r.Aborted
}

// Err summarises the failures, or returns nil for a clean load.
func (r LoadReport) Err() error {
	if r.Ok() {
		return nil
	}
	return &LoadError{Report: r}
}

type LoadError struct {
	Report LoadReport
}

func (e *LoadError) Error() string {
	lines := make([]string, 0, len(e.Report.Failures))
	for _, f := range e.Report.Failures {
		lines = append(lines, f.String())
	}
	msg := fmt.Sprintf("loading %s: %d of %d documents failed", e.Report.Index, len(e.Report.Failures), e.Report.Attempted)
	if e.Report.Aborted {
		msg += " (aborted)"
	}
	if len(lines) > 0 {
		msg += ": " + strings.Join(lines, "; ")
	}
	return msg
}

type Loader struct {
	Store   DocumentStore
	Timeout time.Duration

	logger *zap.Logger
}

func NewLoader(store DocumentStore, timeout time.Duration, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		Store:   store,
		Timeout: timeout,
		logger:  logger,
	}
}

// EnsureIndex creates index with mapping unless it already exists.
// Calling it again for the same index is a no-op.
func (l *Loader) EnsureIndex(ctx context.Context, index string, mapping map[string]interface{}) error {
	existsCtx, cancel := l.callContext(ctx)
	exists, err := l.Store.Exists(existsCtx, index)
	cancel()
	if err != nil {
		return errors.Wrapf(err, "checking index %s", index)
	}
	if exists {
		return nil
	}

	l.logger.Info("creating index", zap.String("index", index))

	createCtx, cancel := l.callContext(ctx)
	defer cancel()
	if err := l.Store.Create(createCtx, index, mapping); err != nil {
		return errors.Wrapf(err, "creating index %s", index)
	}

	l.logger.Info("index created", zap.String("index", index))
	return nil
}

// LoadGenes ensures the genes index exists then writes every gene
// as its own document.
func (l *Loader) LoadGenes(ctx context.Context, index string, genes []indexes.Gene) (LoadReport, error) {
	items := make([]loadItem, 0, len(genes))
	for _, gene := range genes {
		gene := gene
		items = append(items, loadItem{
			key: gene.Symbol,
			document: func() (map[string]interface{}, error) {
				if err := gene.Validate(); err != nil {
					return nil, err
				}
				return gene.Document(), nil
			},
		})
	}
	return l.load(ctx, index, indexes.GENE_INDEX_MAPPING, items)
}

// LoadVariants ensures the variants index exists then writes every
// composite as its own document.
func (l *Loader) LoadVariants(ctx context.Context, index string, composites []variants.Variant) (LoadReport, error) {
	items := make([]loadItem, 0, len(composites))
	for _, composite := range composites {
		composite := composite
		items = append(items, loadItem{
			key:      composite.VariantId,
			document: composite.Document,
		})
	}
	return l.load(ctx, index, indexes.VARIANT_INDEX_MAPPING, items)
}

type loadItem struct {
	key      string
	document func() (map[string]interface{}, error)
}

func (l *Loader) load(ctx context.Context, index string, mapping map[string]interface{}, items []loadItem) (LoadReport, error) {
	report := LoadReport{Index: index}

	if err := l.EnsureIndex(ctx, index, mapping); err != nil {
		report.Aborted = true
		report.Failures = append(report.Failures, ItemFailure{Key: index, Kind: classify(err), Err: err})
		documentsFailed.WithLabelValues(index, string(classify(err))).Inc()
		return report, report.Err()
	}

	for _, item := range items {
		report.Attempted++

		document, err := item.document()
		if err != nil {
			l.fail(&report, item.key, InvalidRecord, err)
			continue
		}

		l.logger.Info("indexing document", zap.String("index", index), zap.String("key", item.key))

		writeCtx, cancel := l.callContext(ctx)
		err = l.Store.Write(writeCtx, index, constants.DocumentType, document)
		cancel()

		if err != nil {
			kind := classify(err)
			l.fail(&report, item.key, kind, err)
			if kind == ConnectionFailure {
				// the store is gone; later items would fail the same way
				report.Aborted = true
				break
			}
			continue
		}

		report.Written++
		documentsWritten.WithLabelValues(index).Inc()
		l.logger.Info("indexed document", zap.String("index", index), zap.String("key", item.key))
	}

	if report.Ok() {
		l.logger.Info("load complete", zap.String("index", index), zap.Int("written", report.Written))
	} else {
		l.logger.Warn("load finished with failures",
			zap.String("index", index),
			zap.Int("written", report.Written),
			zap.Int("failed", len(report.Failures)),
			zap.Bool("aborted", report.Aborted))
	}

	return report, report.Err()
}

func (l *Loader) fail(report *LoadReport, key string, kind FailureKind, err error) {
	report.Failures = append(report.Failures, ItemFailure{Key: key, Kind: kind, Err: err})
	documentsFailed.WithLabelValues(report.Index, string(kind)).Inc()
	l.logger.Error("document failed",
		zap.String("index", report.Index),
		zap.String("key", key),
		zap.String("kind", string(kind)),
		zap.Error(err))
}

func (l *Loader) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, l.Timeout)
}

func classify(err error) FailureKind {
	var cerr *esRepo.ConnectionError
	if errors.As(err, &cerr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ConnectionFailure
	}
	return WriteFailure
}
