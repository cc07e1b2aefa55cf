package main

import (
	"context"
	"fmt"

	"gnomad/pipeline/data"
	"gnomad/pipeline/models/indexes"
	esRepo "gnomad/pipeline/repositories/elasticsearch"
	"gnomad/pipeline/services"
	"gnomad/pipeline/utils"

	"github.com/spf13/cobra"
)

func newLoadGenesCommand(a *app) *cobra.Command {
	var (
		file  string
		index string
	)

	ccmd := &cobra.Command{
		Use:   "load-genes",
		Short: "Load gene summary documents into a genes index",
		Long: `
Creates the genes index when it does not exist yet, then writes one
document per gene. Without --file the built-in BRCA2 and TP53 documents
are loaded.
`,
		Args: noArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if index == "" {
				index = a.cfg.Api.GenesIndex
			}

			var (
				genes []indexes.Gene
				err   error
			)
			if file != "" {
				genes, err = data.ReadGenesFile(file)
			} else {
				genes, err = data.SampleGenes()
			}
			if err != nil {
				return err
			}

			loader, err := a.newLoader()
			if err != nil {
				return err
			}

			report, err := loader.LoadGenes(context.Background(), index, genes)
			a.printReport(report)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.stdout, "All sample data has been loaded successfully!")
			return nil
		},
	}

	flags := ccmd.Flags()
	flags.StringVar(&file, "file", "", "YAML list of gene documents (default: built-in sample genes)")
	flags.StringVar(&index, "index", "", "genes index (default: GNOMAD_GENES_INDEX)")
	return ccmd
}

func (a *app) newLoader() (*services.Loader, error) {
	es, err := utils.CreateEsConnection(&a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	store := esRepo.NewStore(es, a.logger)
	return services.NewLoader(store, a.cfg.Elasticsearch.Timeout, a.logger), nil
}

func (a *app) printReport(report services.LoadReport) {
	fmt.Fprintf(a.stdout, "%s: %d of %d documents written\n", report.Index, report.Written, report.Attempted)
	for _, f := range report.Failures {
		fmt.Fprintf(a.stderr, "  failed %s\n", f)
	}
	if report.Aborted {
		fmt.Fprintln(a.stderr, "  load aborted")
	}
}
