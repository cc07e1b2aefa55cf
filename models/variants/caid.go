package variants

import (
	"strings"

	"github.com/pkg/errors"
)

const CaidAnnotation = "caid"

// Caid is a ClinGen Allele Registry canonical allele identifier, i.e. CA7012345
type Caid string

func (c Caid) AnnotationName() string {
	return CaidAnnotation
}

func (c Caid) AnnotationValue() interface{} {
	return string(c)
}

func (c Caid) Validate() error {
	s := string(c)
	if !strings.HasPrefix(s, "CA") || len(s) == 2 || strings.Trim(s[2:], "0123456789") != "" {
		return errors.Errorf("malformed caid %q", s)
	}
	return nil
}
