package mvc

import (
	"context"
	"strconv"

	"gnomad/pipeline/contexts"
	assemblyId "gnomad/pipeline/models/constants/assembly-id"

	"github.com/labstack/echo"
)

const (
	defaultSize = 25
	maxSize     = 10000
)

// RetrieveGenesIndex resolves the genes index for the request: the
// assembly's index when an assemblyId was passed, the configured one otherwise.
func RetrieveGenesIndex(gc *contexts.GnomadContext) string {
	if gc.AssemblyId != "" && gc.AssemblyId != assemblyId.Unknown {
		return assemblyId.GenesIndex(gc.AssemblyId)
	}
	return gc.Config.Api.GenesIndex
}

// RetrieveSize reads the `size` query parameter, falling back to the
// default when it is missing or unusable.
func RetrieveSize(c echo.Context) int {
	size := defaultSize
	if sizeQP := c.QueryParam("size"); len(sizeQP) > 0 {
		if parsed, err := strconv.Atoi(sizeQP); err == nil && parsed > 0 {
			size = parsed
		}
	}
	if size > maxSize {
		size = maxSize
	}
	return size
}

// RequestContext bounds a store call made on behalf of the request.
func RequestContext(gc *contexts.GnomadContext) (context.Context, context.CancelFunc) {
	ctx := gc.Request().Context()
	if gc.Config.Elasticsearch.Timeout > 0 {
		return context.WithTimeout(ctx, gc.Config.Elasticsearch.Timeout)
	}
	return context.WithCancel(ctx)
}
