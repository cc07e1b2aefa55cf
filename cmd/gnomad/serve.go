package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gnomad/pipeline/api"
	esRepo "gnomad/pipeline/repositories/elasticsearch"
	"gnomad/pipeline/services"
	"gnomad/pipeline/services/sanitation"
	"gnomad/pipeline/utils"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand(a *app) *cobra.Command {
	var port string

	ccmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the genes and variants HTTP API",
		Args:  noArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if c.Flags().Changed("port") {
				a.cfg.Api.Port = port
			}
			return a.serve()
		},
	}

	ccmd.Flags().StringVar(&port, "port", "", "port to listen on (default: GNOMAD_API_INTERNAL_PORT)")
	return ccmd
}

func (a *app) serve() error {
	// Service Connections:
	// -- Elasticsearch
	es, err := utils.CreateEsConnection(&a.cfg, a.logger)
	if err != nil {
		return err
	}
	store := esRepo.NewStore(es, a.logger)

	// Service Singletons
	loader := services.NewLoader(store, a.cfg.Elasticsearch.Timeout, a.logger)
	iz := services.NewIngestionService(loader, a.logger)
	ss := sanitation.NewSanitationService(iz, a.cfg.Api.IngestionRetention, a.logger)
	defer ss.Stop()

	e := api.NewServer(&a.cfg, store, iz, a.logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("serving", zap.String("port", a.cfg.Api.Port))
		serveErr <- e.Start(":" + a.cfg.Api.Port)
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "serving")
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down")
	}

	// let queued ingestions finish writing
	iz.Wait()
	return nil
}
