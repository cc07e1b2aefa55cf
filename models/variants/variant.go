package variants

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// AnnotationGroup is a named bundle of derived values attached to a
// variant record under a single top-level field.
type AnnotationGroup interface {
	AnnotationName() string
	AnnotationValue() interface{}
	Validate() error
}

// Variant is the composite record: the upstream record with its
// coverage, plus any later annotation groups. Build it with Compose;
// it is not meant to be modified afterwards.
type Variant struct {
	InputVariant
	Coverage Coverage

	annotations []AnnotationGroup
}

// Compose attaches coverage (and any extra annotation groups) to base.
// Groups are validated before being attached, and a group whose name
// is already a field of the record fails with a ShapeMismatchError.
// Compose does no I/O and never mutates its inputs.
func Compose(base InputVariant, coverage Coverage, extra ...AnnotationGroup) (Variant, error) {
	if base.VariantId == "" {
		return Variant{}, ErrMissingBaseVariant
	}

	taken := make(map[string]bool)
	for _, name := range base.FieldNames() {
		taken[name] = true
	}

	groups := append([]AnnotationGroup{coverage}, extra...)
	for _, group := range groups {
		if group == nil {
			return Variant{}, errors.Errorf("variant %s: nil annotation group", base.VariantId)
		}
		if err := group.Validate(); err != nil {
			return Variant{}, errors.Wrapf(err, "variant %s", base.VariantId)
		}

		name := group.AnnotationName()
		if taken[name] {
			return Variant{}, errors.WithStack(&ShapeMismatchError{Field: name})
		}
		taken[name] = true
	}

	return Variant{
		InputVariant: base.clone(),
		Coverage:     coverage,
		annotations:  append([]AnnotationGroup(nil), extra...),
	}, nil
}

// Annotations returns every attached group, coverage first.
func (v Variant) Annotations() []AnnotationGroup {
	return append([]AnnotationGroup{v.Coverage}, v.annotations...)
}

// Document renders the composite as the field mapping handed to the loader.
func (v Variant) Document() (map[string]interface{}, error) {
	doc := v.InputVariant.Document()

	for _, group := range v.Annotations() {
		value, err := documentValue(group.AnnotationValue())
		if err != nil {
			return nil, errors.Wrapf(err, "variant %s: rendering %s", v.VariantId, group.AnnotationName())
		}
		doc[group.AnnotationName()] = value
	}

	return doc, nil
}

// documentValue turns a typed annotation value into plain
// maps, slices and scalars.
func documentValue(value interface{}) (interface{}, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
