package pipeline

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"gnomad/pipeline/models/variants"

	"github.com/pkg/errors"
)

// step1 records can carry large nested annotations
const maxLineSize = 64 * 1024 * 1024

// InputVariantReader reads step1 records, one JSON object per line.
type InputVariantReader struct {
	scanner *bufio.Scanner
	line    int
}

func NewInputVariantReader(r io.Reader) *InputVariantReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &InputVariantReader{scanner: scanner}
}

// Next returns the next record, or io.EOF once the input is exhausted.
// Blank lines are skipped.
func (r *InputVariantReader) Next() (variants.InputVariant, error) {
	for r.scanner.Scan() {
		r.line++

		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		// numbers stay json.Number so upstream values are not rounded
		decoder := json.NewDecoder(bytes.NewReader(line))
		decoder.UseNumber()

		var raw map[string]interface{}
		if err := decoder.Decode(&raw); err != nil {
			return variants.InputVariant{}, errors.Wrapf(err, "line %d", r.line)
		}

		v, err := variants.ParseInputVariant(raw)
		if err != nil {
			return variants.InputVariant{}, errors.Wrapf(err, "line %d", r.line)
		}
		return v, nil
	}

	if err := r.scanner.Err(); err != nil {
		return variants.InputVariant{}, errors.Wrapf(err, "line %d", r.line+1)
	}
	return variants.InputVariant{}, io.EOF
}

func ReadInputVariants(r io.Reader) ([]variants.InputVariant, error) {
	reader := NewInputVariantReader(r)

	inputs := []variants.InputVariant{}
	for {
		v, err := reader.Next()
		if err == io.EOF {
			return inputs, nil
		}
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, v)
	}
}
