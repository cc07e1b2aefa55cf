package elasticsearch

import (
	"context"
	"fmt"
	"strings"

	"gnomad/pipeline/models/constants"
	"gnomad/pipeline/models/constants/sort"
	"gnomad/pipeline/models/indexes"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// GetGenesBySymbolWildcard returns genes whose upper-cased symbol
// contains term, optionally restricted to one chromosome, ordered by
// genomic position (ascending unless direction says otherwise).
func (s *Store) GetGenesBySymbolWildcard(ctx context.Context, index string, chromosome string, term string, size int, direction constants.SortDirection) ([]indexes.Gene, error) {
	// Nomenclature Search Term
	symbolStringTerm := fmt.Sprintf("*%s*", strings.ToUpper(term))

	// Chromosome Search Term (wildcard by default)
	chromosomeStringTerm := "*"
	if chromosome != "" {
		chromosomeStringTerm = chromosome
	}

	if direction == sort.Undefined {
		direction = sort.Ascending
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []map[string]interface{}{{
					"bool": map[string]interface{}{
						"must": []map[string]interface{}{
							{
								"query_string": map[string]interface{}{
									"fields": []string{"chrom"},
									"query":  chromosomeStringTerm,
								},
							},
							{
								"query_string": map[string]interface{}{
									"fields": []string{"symbol_upper_case"},
									"query":  symbolStringTerm,
								},
							},
						},
					},
				}},
			},
		},
		"size": size,
		"sort": []map[string]interface{}{
			{
				"xstart": map[string]interface{}{
					"order": direction,
				},
			},
		},
	}

	sources, err := s.search(ctx, index, query)
	if err != nil {
		return nil, err
	}
	return decodeGenes(sources)
}

// GetGeneById returns the gene stored under geneId, or nil when the
// index holds no such gene.
func (s *Store) GetGeneById(ctx context.Context, index string, geneId string) (*indexes.Gene, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"gene_id": geneId,
			},
		},
		"size": 1,
	}

	sources, err := s.search(ctx, index, query)
	if err != nil {
		return nil, err
	}

	genes, err := decodeGenes(sources)
	if err != nil || len(genes) == 0 {
		return nil, err
	}
	return &genes[0], nil
}

func decodeGenes(sources []map[string]interface{}) ([]indexes.Gene, error) {
	genes := make([]indexes.Gene, 0, len(sources))
	for _, source := range sources {
		var gene indexes.Gene
		if err := mapstructure.Decode(source, &gene); err != nil {
			return nil, errors.Wrap(err, "decoding gene document")
		}
		genes = append(genes, gene)
	}
	return genes, nil
}
