package indexes

import (
	fieldType "gnomad/pipeline/models/constants/field-type"
	"gnomad/pipeline/models/variants"
)

var MAPPING_KEYWORD = map[string]interface{}{"type": fieldType.Keyword}
var MAPPING_LONG = map[string]interface{}{"type": fieldType.Long}
var MAPPING_FLOAT64 = map[string]interface{}{"type": fieldType.Double}

// Field types of the genes index (keyword for names, long for
// coordinates). The nested `value` object is left to dynamic mapping.
var GENE_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"gene_id":           MAPPING_KEYWORD,
		"symbol":            MAPPING_KEYWORD,
		"symbol_upper_case": MAPPING_KEYWORD,
		"chrom":             MAPPING_KEYWORD,
		"start":             MAPPING_LONG,
		"stop":              MAPPING_LONG,
		"xstart":            MAPPING_LONG,
		"xstop":             MAPPING_LONG,
	},
}

// Only the variant key and the coverage annotation are declared;
// upstream fields are mapped dynamically.
var VARIANT_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		variants.VariantIdField: MAPPING_KEYWORD,
		variants.LocusField: map[string]interface{}{
			"properties": map[string]interface{}{
				"contig":   MAPPING_KEYWORD,
				"position": MAPPING_LONG,
			},
		},
		variants.AllelesField: MAPPING_KEYWORD,
		variants.CaidAnnotation: MAPPING_KEYWORD,
		variants.CoverageAnnotation: map[string]interface{}{
			"properties": map[string]interface{}{
				"exome":  coverageDetailMapping(),
				"genome": coverageDetailMapping(),
			},
		},
	},
}

func coverageDetailMapping() map[string]interface{} {
	properties := map[string]interface{}{
		"mean":   MAPPING_FLOAT64,
		"median": MAPPING_LONG,
	}
	for _, t := range variants.Thresholds {
		properties[variants.OverField(t)] = MAPPING_FLOAT64
	}
	return map[string]interface{}{"properties": properties}
}

// TypedMapping wraps properties under the legacy `_doc` type,
// the shape index creation sends with include_type_name
func TypedMapping(docType string, mapping map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"mappings": map[string]interface{}{
			docType: mapping,
		},
	}
}
