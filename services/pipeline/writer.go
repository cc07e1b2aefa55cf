package pipeline

import (
	"bufio"
	"encoding/json"
	"io"

	"gnomad/pipeline/models/variants"

	"github.com/pkg/errors"
)

// WriteJSONLines writes one composite document per line.
func WriteJSONLines(w io.Writer, composites []variants.Variant) error {
	bw := bufio.NewWriter(w)
	encoder := json.NewEncoder(bw)

	for _, composite := range composites {
		doc, err := composite.Document()
		if err != nil {
			return err
		}
		if err := encoder.Encode(doc); err != nil {
			return errors.Wrapf(err, "writing %s", composite.VariantId)
		}
	}

	return bw.Flush()
}
