package variants

import (
	"fmt"

	"gnomad/pipeline/models/constants"

	"github.com/pkg/errors"
)

var ErrMissingBaseVariant = errors.New("a base variant record with a variant_id is required")

// ShapeMismatchError is returned when attaching an annotation group
// would overwrite a field already present on the record.
type ShapeMismatchError struct {
	Field string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("annotation group %q collides with an existing field of the variant record", e.Field)
}

// CoverageInvariantError names the coverage field (and, for monotonicity
// violations, the neighbouring field) that broke a CoverageDetail invariant.
type CoverageInvariantError struct {
	Modality constants.Modality

	Field string
	Value float64

	// set for monotonicity violations
	Against      string
	AgainstValue float64

	// set for range violations
	Reason string
}

func (e *CoverageInvariantError) Error() string {
	prefix := "coverage"
	if e.Modality != "" {
		prefix = fmt.Sprintf("coverage.%s", e.Modality)
	}

	if e.Against != "" {
		return fmt.Sprintf("%s: %s (%v) < %s (%v)", prefix, e.Field, e.Value, e.Against, e.AgainstValue)
	}
	return fmt.Sprintf("%s: %s (%v) %s", prefix, e.Field, e.Value, e.Reason)
}
