package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gnomad/pipeline/models/indexes"
	"gnomad/pipeline/models/ingest"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type (
	// IngestionService runs gene loads in the background and keeps
	// track of each request until it is evicted.
	IngestionService struct {
		Loader *Loader

		GeneIngestRequestMap    map[uuid.UUID]*ingest.GeneIngestRequest
		GeneIngestRequestMapMux sync.RWMutex

		inFlight sync.WaitGroup
		logger   *zap.Logger
	}
)

func NewIngestionService(loader *Loader, logger *zap.Logger) *IngestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestionService{
		Loader:               loader,
		GeneIngestRequestMap: map[uuid.UUID]*ingest.GeneIngestRequest{},
		logger:               logger,
	}
}

// IngestGenes queues a load of genes into index and returns the
// request as it was queued. The load itself runs on its own goroutine.
func (i *IngestionService) IngestGenes(index string, source string, genes []indexes.Gene) ingest.GeneIngestRequest {
	now := time.Now().UTC()
	req := &ingest.GeneIngestRequest{
		Id:        uuid.New(),
		Index:     index,
		Source:    source,
		State:     ingest.Queued,
		Message:   fmt.Sprintf("%d genes queued for %s", len(genes), index),
		CreatedAt: now,
		UpdatedAt: now,
	}
	i.store(req)

	i.logger.Info("queueing a new gene ingestion request",
		zap.String("id", req.Id.String()),
		zap.String("index", index),
		zap.String("source", source))

	i.inFlight.Add(1)
	go func() {
		defer i.inFlight.Done()
		i.run(req.Id, index, genes)
	}()

	return *req
}

func (i *IngestionService) run(id uuid.UUID, index string, genes []indexes.Gene) {
	i.update(id, func(r *ingest.GeneIngestRequest) {
		r.State = ingest.Running
		r.Message = "Loading genes.."
	})

	report, err := i.Loader.LoadGenes(context.Background(), index, genes)

	i.update(id, func(r *ingest.GeneIngestRequest) {
		r.Attempted = report.Attempted
		r.Written = report.Written
		r.Failures = nil
		for _, f := range report.Failures {
			r.Failures = append(r.Failures, f.String())
		}

		if err != nil {
			r.State = ingest.Error
			r.Message = err.Error()
		} else {
			r.State = ingest.Done
			r.Message = fmt.Sprintf("%d genes written to %s", report.Written, index)
		}
	})

	req, _ := i.GetRequest(id)
	ingestionRequests.WithLabelValues(string(req.State)).Inc()
	i.logger.Info("gene ingestion request finished",
		zap.String("id", id.String()),
		zap.String("state", string(req.State)),
		zap.Int("written", req.Written))
}

// GetRequests returns a snapshot of every tracked request, oldest first.
func (i *IngestionService) GetRequests() []ingest.GeneIngestRequest {
	i.GeneIngestRequestMapMux.RLock()
	defer i.GeneIngestRequestMapMux.RUnlock()

	reqs := make([]ingest.GeneIngestRequest, 0, len(i.GeneIngestRequestMap))
	for _, r := range i.GeneIngestRequestMap {
		reqs = append(reqs, snapshot(r))
	}
	sort.Slice(reqs, func(a, b int) bool {
		return reqs[a].CreatedAt.Before(reqs[b].CreatedAt)
	})
	return reqs
}

func (i *IngestionService) GetRequest(id uuid.UUID) (ingest.GeneIngestRequest, bool) {
	i.GeneIngestRequestMapMux.RLock()
	defer i.GeneIngestRequestMapMux.RUnlock()

	r, ok := i.GeneIngestRequestMap[id]
	if !ok {
		return ingest.GeneIngestRequest{}, false
	}
	return snapshot(r), true
}

// EvictFinished forgets Done and Error requests last updated before
// cutoff, and reports how many were dropped.
func (i *IngestionService) EvictFinished(cutoff time.Time) int {
	i.GeneIngestRequestMapMux.Lock()
	defer i.GeneIngestRequestMapMux.Unlock()

	evicted := 0
	for id, r := range i.GeneIngestRequestMap {
		if r.State.Finished() && r.UpdatedAt.Before(cutoff) {
			delete(i.GeneIngestRequestMap, id)
			evicted++
		}
	}
	return evicted
}

// Wait blocks until every queued request has finished.
func (i *IngestionService) Wait() {
	i.inFlight.Wait()
}

func (i *IngestionService) store(req *ingest.GeneIngestRequest) {
	i.GeneIngestRequestMapMux.Lock()
	defer i.GeneIngestRequestMapMux.Unlock()
	i.GeneIngestRequestMap[req.Id] = req
}

func (i *IngestionService) update(id uuid.UUID, fn func(r *ingest.GeneIngestRequest)) {
	i.GeneIngestRequestMapMux.Lock()
	defer i.GeneIngestRequestMapMux.Unlock()

	r, ok := i.GeneIngestRequestMap[id]
	if !ok {
		return
	}
	fn(r)
	r.UpdatedAt = time.Now().UTC()
}

func snapshot(r *ingest.GeneIngestRequest) ingest.GeneIngestRequest {
	s := *r
	s.Failures = append([]string(nil), r.Failures...)
	return s
}
