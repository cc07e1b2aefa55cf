package genes

import (
	"net/http"

	"gnomad/pipeline/contexts"
	"gnomad/pipeline/data"
	"gnomad/pipeline/models/constants/sort"
	"gnomad/pipeline/models/dtos"
	errorsDtos "gnomad/pipeline/models/dtos/errors"
	"gnomad/pipeline/models/ingest"
	"gnomad/pipeline/mvc"

	"github.com/labstack/echo"
	"go.uber.org/zap"
)

func GenesGetByNomenclatureWildcard(c echo.Context) error {
	gc := c.(*contexts.GnomadContext)

	// Chromosome search term
	chromosomeSearchTerm := gc.Chromosome

	// Name search term
	term := c.QueryParam("term")

	index := mvc.RetrieveGenesIndex(gc)
	size := mvc.RetrieveSize(c)
	sortDirection := sort.CastToSortDirection(c.QueryParam("sortByPosition"))

	gc.Log.Debug("executing wildcard genes search",
		zap.String("term", term),
		zap.String("chromosome", chromosomeSearchTerm),
		zap.String("index", index),
		zap.Int("size", size),
		zap.String("sortByPosition", string(sortDirection)))

	ctx, cancel := mvc.RequestContext(gc)
	defer cancel()

	// Execute
	genes, err := gc.Store.GetGenesBySymbolWildcard(ctx, index, chromosomeSearchTerm, term, size, sortDirection)
	if err != nil {
		gc.Log.Error("genes search failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorsDtos.CreateSimpleInternalServerError("Something went wrong... Please contact the administrator!"))
	}

	gc.Log.Debug("genes found", zap.Int("count", len(genes)))

	return c.JSON(http.StatusOK, dtos.GenesResponseDTO{
		Term:    term,
		Count:   len(genes),
		Results: genes,
		Status:  200,
		Message: "Success",
	})
}

func GeneGetById(c echo.Context) error {
	gc := c.(*contexts.GnomadContext)

	geneId := c.QueryParam("id")
	if len(geneId) == 0 {
		return c.JSON(http.StatusBadRequest, errorsDtos.CreateSimpleBadRequest("Missing 'id' query parameter!"))
	}

	ctx, cancel := mvc.RequestContext(gc)
	defer cancel()

	gene, err := gc.Store.GetGeneById(ctx, mvc.RetrieveGenesIndex(gc), geneId)
	if err != nil {
		gc.Log.Error("gene lookup failed", zap.String("geneId", geneId), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorsDtos.CreateSimpleInternalServerError("Something went wrong... Please contact the administrator!"))
	}
	if gene == nil {
		return c.JSON(http.StatusNotFound, errorsDtos.CreateSimpleNotFound("No gene with id "+geneId))
	}

	return c.JSON(http.StatusOK, dtos.GeneResponseDTO{
		Status:  200,
		Message: "Success",
		Result:  gene,
	})
}

// GenesIngest queues a load of the embedded sample genes; progress is
// reported by GetAllGeneIngestionRequests.
func GenesIngest(c echo.Context) error {
	gc := c.(*contexts.GnomadContext)

	genes, err := data.SampleGenes()
	if err != nil {
		gc.Log.Error("reading sample genes failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorsDtos.CreateSimpleInternalServerError(err.Error()))
	}

	req := gc.IngestionService.IngestGenes(mvc.RetrieveGenesIndex(gc), data.SampleGenesSource, genes)

	return c.JSON(http.StatusOK, ingest.IngestResponseDTO{
		Id:      req.Id,
		Index:   req.Index,
		State:   req.State,
		Message: req.Message,
	})
}

func GetAllGeneIngestionRequests(c echo.Context) error {
	gc := c.(*contexts.GnomadContext)
	return c.JSON(http.StatusOK, gc.IngestionService.GetRequests())
}
