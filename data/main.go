// Package data carries the gene documents seeded into a fresh genes index.
package data

import (
	_ "embed"
	"io"
	"os"

	"gnomad/pipeline/models/indexes"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

//go:embed genes_grch37.yml
var sampleGenesYaml []byte

// SampleGenesSource names the embedded seed in ingestion requests.
const SampleGenesSource = "embedded:genes_grch37.yml"

// SampleGenes returns the built-in BRCA2 and TP53 documents.
func SampleGenes() ([]indexes.Gene, error) {
	return parseGenes(sampleGenesYaml)
}

// ReadGenes decodes a YAML list of gene documents, validating each.
func ReadGenes(r io.Reader) ([]indexes.Gene, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading genes")
	}
	return parseGenes(b)
}

func ReadGenesFile(path string) ([]indexes.Gene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening genes file %s", path)
	}
	defer f.Close()

	return ReadGenes(f)
}

func parseGenes(b []byte) ([]indexes.Gene, error) {
	var genes []indexes.Gene
	if err := yaml.UnmarshalStrict(b, &genes); err != nil {
		return nil, errors.Wrap(err, "decoding genes")
	}

	for i, g := range genes {
		if err := g.Validate(); err != nil {
			return nil, errors.Wrapf(err, "gene #%d", i+1)
		}
	}
	return genes, nil
}
