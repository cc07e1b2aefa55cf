package middleware

import (
	"net/http"

	"gnomad/pipeline/contexts"
	"gnomad/pipeline/models/constants/chromosome"

	"github.com/labstack/echo"
)

/*
	Echo middleware to validate the `chromosome` HTTP query parameter if one was provided
*/
func ValidatePotentialChromosome(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		chromQP := c.QueryParam("chromosome")
		if len(chromQP) > 0 {
			if !chromosome.IsValidHumanChromosome(chromQP) {
				return echo.NewHTTPError(http.StatusBadRequest, "Please provide a valid 'chromosome' (either 1-22, X, Y, or M)!")
			}

			if gc, ok := c.(*contexts.GnomadContext); ok {
				gc.Chromosome = chromosome.Clean(chromQP)
			}
		}

		return next(c)
	}
}
