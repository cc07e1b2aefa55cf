package pipeline

import (
	"bufio"
	"io"
	"strings"

	"gnomad/pipeline/models/variants"

	"github.com/pkg/errors"
)

// CaidTable maps a variant_id to its ClinGen allele id.
type CaidTable map[string]variants.Caid

// ReadCaidTable reads a two column tab separated table with the
// header "variant_id<TAB>caid".
func ReadCaidTable(r io.Reader) (CaidTable, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.Wrap(err, "reading caid header")
		}
		return nil, errors.New("caid table is empty")
	}
	header := strings.Split(strings.TrimRight(scanner.Text(), "\r"), "\t")
	if len(header) != 2 || header[0] != variants.VariantIdField || header[1] != variants.CaidAnnotation {
		return nil, errors.Errorf("caid header must be %s\\t%s, got %q", variants.VariantIdField, variants.CaidAnnotation, scanner.Text())
	}

	table := CaidTable{}
	line := 1
	for scanner.Scan() {
		line++

		text := strings.TrimRight(scanner.Text(), "\r")
		if text == "" {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) != 2 {
			return nil, errors.Errorf("caid line %d: expected 2 columns, got %d", line, len(fields))
		}

		caid := variants.Caid(fields[1])
		if err := caid.Validate(); err != nil {
			return nil, errors.Wrapf(err, "caid line %d", line)
		}
		table[fields[0]] = caid
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "caid line %d", line+1)
	}

	return table, nil
}
