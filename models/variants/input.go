package variants

import (
	"fmt"
	"sort"

	"github.com/Jeffail/gabs"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

const (
	VariantIdField = "variant_id"
	LocusField     = "locus"
	AllelesField   = "alleles"
)

type Locus struct {
	Contig   string `json:"contig" mapstructure:"contig"`
	Position int    `json:"position" mapstructure:"position"`
}

func (l Locus) String() string {
	return fmt.Sprintf("%s:%d", l.Contig, l.Position)
}

// InputVariant is the record produced by the previous pipeline stage.
// Locus and Alleles are decoded for lookups only; every upstream field
// other than variant_id, locus and alleles included, is carried
// untouched in Fields.
type InputVariant struct {
	VariantId string
	Locus     Locus
	Alleles   []string

	Fields map[string]interface{}
}

// ParseInputVariant reads the key (variant_id, locus, alleles) of a
// decoded step1 record and keeps the raw record as Fields.
func ParseInputVariant(raw map[string]interface{}) (InputVariant, error) {
	container, err := gabs.Consume(raw)
	if err != nil {
		return InputVariant{}, errors.Wrap(err, "reading step1 record")
	}

	variantId, _ := container.Path(VariantIdField).Data().(string)
	if variantId == "" {
		return InputVariant{}, ErrMissingBaseVariant
	}

	var v InputVariant
	v.VariantId = variantId

	if !container.Exists(LocusField) {
		return InputVariant{}, errors.Errorf("variant %s: missing %s", variantId, LocusField)
	}
	if err := mapstructure.Decode(container.Path(LocusField).Data(), &v.Locus); err != nil {
		return InputVariant{}, errors.Wrapf(err, "variant %s: decoding %s", variantId, LocusField)
	}

	if container.Exists(AllelesField) {
		if err := mapstructure.Decode(container.Path(AllelesField).Data(), &v.Alleles); err != nil {
			return InputVariant{}, errors.Wrapf(err, "variant %s: decoding %s", variantId, AllelesField)
		}
	}

	v.Fields = make(map[string]interface{}, len(raw))
	for k, val := range raw {
		if k == VariantIdField {
			continue
		}
		v.Fields[k] = copyValue(val)
	}

	return v, nil
}

// FieldNames lists every top-level field of the record, sorted.
func (v InputVariant) FieldNames() []string {
	names := []string{VariantIdField}
	for k := range v.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Document renders the record as a field mapping, every field as it
// was read; the result shares nothing with v.
func (v InputVariant) Document() map[string]interface{} {
	doc := make(map[string]interface{}, len(v.Fields)+1)
	for k, val := range v.Fields {
		doc[k] = copyValue(val)
	}
	doc[VariantIdField] = v.VariantId

	return doc
}

func (v InputVariant) clone() InputVariant {
	c := v
	c.Alleles = append([]string(nil), v.Alleles...)
	c.Fields = make(map[string]interface{}, len(v.Fields))
	for k, val := range v.Fields {
		c.Fields[k] = copyValue(val)
	}
	return c
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[k] = copyValue(val)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, val := range t {
			s[i] = copyValue(val)
		}
		return s
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
