package elasticsearch

import (
	"context"
)

// GetVariantById returns the stored document for variantId, or nil
// when the index holds no such variant.
func (s *Store) GetVariantById(ctx context.Context, index string, variantId string) (map[string]interface{}, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"variant_id": variantId,
			},
		},
		"size": 1,
	}

	sources, err := s.search(ctx, index, query)
	if err != nil || len(sources) == 0 {
		return nil, err
	}
	return sources[0], nil
}
