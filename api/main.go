package api

import (
	"time"

	"gnomad/pipeline/contexts"
	gam "gnomad/pipeline/middleware"
	"gnomad/pipeline/models"
	genesMvc "gnomad/pipeline/mvc/genes"
	serviceInfoMvc "gnomad/pipeline/mvc/service-info"
	variantsMvc "gnomad/pipeline/mvc/variants"
	esRepo "gnomad/pipeline/repositories/elasticsearch"
	"gnomad/pipeline/services"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewServer builds the echo server with every route registered.
func NewServer(cfg *models.Config, store *esRepo.Store, iz *services.IngestionService, logger *zap.Logger) *echo.Echo {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Instantiate Server
	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.Debug

	// Configure Server
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
	}))

	// -- Override handlers with "custom" context
	//		to be able to provide variables and global singletons
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &contexts.GnomadContext{
				Context:          c,
				Store:            store,
				Config:           cfg,
				IngestionService: iz,
				Log:              logger,
			}
			return h(cc)
		}
	})

	// -- Request logging
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := h(c)
			logger.Debug("request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("took", time.Since(start)))
			return err
		}
	})

	// Begin MVC Routes
	// -- Root
	e.GET("/", serviceInfoMvc.GetWelcome)

	// -- Service Info
	e.GET("/service-info", serviceInfoMvc.GetServiceInfo)

	// -- Metrics
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// -- Genes
	e.GET("/genes/search", genesMvc.GenesGetByNomenclatureWildcard,
		// middleware
		gam.ValidatePotentialChromosome,
		gam.ValidatePotentialAssemblyId)
	e.GET("/genes/get/by/geneId", genesMvc.GeneGetById,
		// middleware
		gam.ValidatePotentialAssemblyId)
	e.GET("/genes/ingestion/run", genesMvc.GenesIngest,
		// middleware
		gam.ValidatePotentialAssemblyId)
	e.GET("/genes/ingestion/requests", genesMvc.GetAllGeneIngestionRequests)

	// -- Variants
	e.GET("/variants/get/by/variantId", variantsMvc.VariantGetById)

	return e
}
