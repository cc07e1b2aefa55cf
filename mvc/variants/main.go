package variants

import (
	"net/http"

	"gnomad/pipeline/contexts"
	"gnomad/pipeline/models/dtos"
	errorsDtos "gnomad/pipeline/models/dtos/errors"
	"gnomad/pipeline/mvc"

	"github.com/labstack/echo"
	"go.uber.org/zap"
)

func VariantGetById(c echo.Context) error {
	gc := c.(*contexts.GnomadContext)

	variantId := c.QueryParam("id")
	if len(variantId) == 0 {
		return c.JSON(http.StatusBadRequest, errorsDtos.CreateSimpleBadRequest("Missing 'id' query parameter!"))
	}

	ctx, cancel := mvc.RequestContext(gc)
	defer cancel()

	doc, err := gc.Store.GetVariantById(ctx, gc.Config.Api.VariantsIndex, variantId)
	if err != nil {
		gc.Log.Error("variant lookup failed", zap.String("variantId", variantId), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorsDtos.CreateSimpleInternalServerError("Something went wrong... Please contact the administrator!"))
	}
	if doc == nil {
		return c.JSON(http.StatusNotFound, errorsDtos.CreateSimpleNotFound("No variant with id "+variantId))
	}

	return c.JSON(http.StatusOK, dtos.VariantResponseDTO{
		Status:  200,
		Message: "Success",
		Result:  doc,
	})
}
