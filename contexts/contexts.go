package contexts

import (
	"gnomad/pipeline/models"
	"gnomad/pipeline/models/constants"
	esRepo "gnomad/pipeline/repositories/elasticsearch"
	"gnomad/pipeline/services"

	"github.com/labstack/echo"
	"go.uber.org/zap"
)

type (
	// "Helper" Context to pass into routes that need
	//  the document store and other variables
	GnomadContext struct {
		echo.Context
		Store            *esRepo.Store
		Config           *models.Config
		IngestionService *services.IngestionService
		Log              *zap.Logger

		// set by middleware
		Chromosome string
		AssemblyId constants.AssemblyId
	}
)
