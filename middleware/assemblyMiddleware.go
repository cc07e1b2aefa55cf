package middleware

import (
	"net/http"

	"gnomad/pipeline/contexts"
	assid "gnomad/pipeline/models/constants/assembly-id"

	"github.com/labstack/echo"
)

/*
Echo middleware to validate the `assemblyId` HTTP query parameter if one was provided
*/
func ValidatePotentialAssemblyId(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		assemblyIdQP := c.QueryParam("assemblyId")
		if len(assemblyIdQP) > 0 {
			if !assid.IsKnownAssemblyId(assemblyIdQP) {
				// if the id was invalid, return an error
				return echo.NewHTTPError(http.StatusBadRequest, "Unknown assemblyId!")
			}

			if gc, ok := c.(*contexts.GnomadContext); ok {
				gc.AssemblyId = assid.CastToAssemblyId(assemblyIdQP)
			}
		}

		return next(c)
	}
}
