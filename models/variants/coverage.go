package variants

import (
	"fmt"
	"math"

	"gnomad/pipeline/models/constants"
	"gnomad/pipeline/models/constants/modality"

	"github.com/pkg/errors"
)

const CoverageAnnotation = "coverage"

// Thresholds are the read depths each over_N fraction is reported for,
// in the order they appear on a CoverageDetail.
var Thresholds = [...]int{1, 5, 10, 15, 20, 25, 30, 50, 100}

// CoverageDetail holds the depth-of-coverage statistics of one
// sequencing modality at a locus.
//
// The all-zero value (NoCoverage) is the marker for "no data for this
// modality"; it satisfies every invariant and is persisted as zeros.
type CoverageDetail struct {
	Mean    float64 `json:"mean" mapstructure:"mean"`
	Median  int     `json:"median" mapstructure:"median"`
	Over1   float64 `json:"over_1" mapstructure:"over_1"`
	Over5   float64 `json:"over_5" mapstructure:"over_5"`
	Over10  float64 `json:"over_10" mapstructure:"over_10"`
	Over15  float64 `json:"over_15" mapstructure:"over_15"`
	Over20  float64 `json:"over_20" mapstructure:"over_20"`
	Over25  float64 `json:"over_25" mapstructure:"over_25"`
	Over30  float64 `json:"over_30" mapstructure:"over_30"`
	Over50  float64 `json:"over_50" mapstructure:"over_50"`
	Over100 float64 `json:"over_100" mapstructure:"over_100"`
}

var NoCoverage = CoverageDetail{}

// NewCoverageDetail builds a validated CoverageDetail. overs must hold
// one fraction per entry of Thresholds, in the same order.
func NewCoverageDetail(mean float64, median int, overs ...float64) (CoverageDetail, error) {
	if len(overs) != len(Thresholds) {
		return CoverageDetail{}, errors.Errorf("expected %d over_N values, got %d", len(Thresholds), len(overs))
	}

	d := CoverageDetail{Mean: mean, Median: median}
	for i, v := range overs {
		*d.over(i) = v
	}

	if err := d.Validate(); err != nil {
		return CoverageDetail{}, err
	}
	return d, nil
}

func OverField(threshold int) string {
	return fmt.Sprintf("over_%d", threshold)
}

// Over returns the fraction of samples with depth >= threshold,
// and false if threshold is not one of Thresholds.
func (d CoverageDetail) Over(threshold int) (float64, bool) {
	for i, t := range Thresholds {
		if t == threshold {
			return *d.over(i), true
		}
	}
	return 0, false
}

func (d CoverageDetail) IsEmpty() bool {
	return d == NoCoverage
}

func (d CoverageDetail) Validate() error {
	if err := d.check(); err != nil {
		return err
	}
	return nil
}

func (d *CoverageDetail) over(i int) *float64 {
	switch Thresholds[i] {
	case 1:
		return &d.Over1
	case 5:
		return &d.Over5
	case 10:
		return &d.Over10
	case 15:
		return &d.Over15
	case 20:
		return &d.Over20
	case 25:
		return &d.Over25
	case 30:
		return &d.Over30
	case 50:
		return &d.Over50
	default:
		return &d.Over100
	}
}

func (d CoverageDetail) check() *CoverageInvariantError {
	if math.IsNaN(d.Mean) || math.IsInf(d.Mean, 0) || d.Mean < 0 {
		return &CoverageInvariantError{Field: "mean", Value: d.Mean, Reason: "must be a finite number >= 0"}
	}
	if d.Median < 0 {
		return &CoverageInvariantError{Field: "median", Value: float64(d.Median), Reason: "must be >= 0"}
	}

	for i, t := range Thresholds {
		v := *d.over(i)
		if math.IsNaN(v) || v < 0 || v > 1 {
			return &CoverageInvariantError{Field: OverField(t), Value: v, Reason: "must be within [0, 1]"}
		}
	}

	// higher depth thresholds cannot be met by more samples than lower ones
	for i := 1; i < len(Thresholds); i++ {
		lower, higher := *d.over(i - 1), *d.over(i)
		if lower < higher {
			return &CoverageInvariantError{
				Field:        OverField(Thresholds[i-1]),
				Value:        lower,
				Against:      OverField(Thresholds[i]),
				AgainstValue: higher,
			}
		}
	}

	return nil
}

// Coverage pairs the exome and genome coverage of a variant's locus.
// Both are always present; a modality without data carries NoCoverage.
type Coverage struct {
	Exome  CoverageDetail `json:"exome" mapstructure:"exome"`
	Genome CoverageDetail `json:"genome" mapstructure:"genome"`
}

func (c Coverage) AnnotationName() string {
	return CoverageAnnotation
}

func (c Coverage) AnnotationValue() interface{} {
	return c
}

func (c Coverage) Validate() error {
	for _, m := range []struct {
		modality constants.Modality
		detail   CoverageDetail
	}{
		{modality.Exome, c.Exome},
		{modality.Genome, c.Genome},
	} {
		if err := m.detail.check(); err != nil {
			err.Modality = m.modality
			return err
		}
	}
	return nil
}
