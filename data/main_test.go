package data

import (
	"strings"
	"testing"

	"gnomad/pipeline/models/indexes"

	. "github.com/ahmetb/go-linq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleGenes(t *testing.T) {
	genes, err := SampleGenes()
	require.NoError(t, err)
	require.Len(t, genes, 2)

	var ids []string
	From(genes).SelectT(func(g indexes.Gene) string { return g.GeneId }).ToSlice(&ids)
	assert.Equal(t, []string{"ENSG00000139618", "ENSG00000141510"}, ids)

	brca2 := genes[0]
	assert.Equal(t, "BRCA2", brca2.Symbol)
	assert.Equal(t, "13", brca2.Chrom)
	assert.Equal(t, int64(32315474), brca2.Start)
	assert.Equal(t, int64(32400266), brca2.Stop)
	assert.Equal(t, int64(13032315474), brca2.XStart)
	assert.Equal(t, int64(13032400266), brca2.XStop)
	assert.Equal(t, "1", brca2.Value.GeneVersion)

	From(genes).ForEachT(func(g indexes.Gene) {
		assert.LessOrEqual(t, g.Start, g.Stop)
		assert.LessOrEqual(t, g.XStart, g.XStop)
	})
}

func TestReadGenesRejectsInconsistentDocuments(t *testing.T) {
	broken := `
- gene_id: ENSG00000141510
  symbol: TP53
  symbol_upper_case: TP53
  chrom: "17"
  start: 7687550
  stop: 7661779
  xstart: 17007687550
  xstop: 17007661779
`
	_, err := ReadGenes(strings.NewReader(broken))
	assert.Error(t, err)
}

func TestReadGenesRejectsValueDisagreeingWithFlatFields(t *testing.T) {
	drifted := `
- value:
    gene_id: ENSG_OTHER
    gene_version: "1"
    symbol: BRCA2
    chrom: "13"
    start: 900
    stop: 100
    xstart: 5
    xstop: 1
  gene_id: ENSG00000139618
  symbol: BRCA2
  symbol_upper_case: BRCA2
  chrom: "13"
  start: 32315474
  stop: 32400266
  xstart: 13032315474
  xstop: 13032400266
`
	_, err := ReadGenes(strings.NewReader(drifted))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gene #1")
	assert.Contains(t, err.Error(), "value")
}

func TestReadGenesRejectsUnknownFields(t *testing.T) {
	_, err := ReadGenes(strings.NewReader("- gene_id: X\n  name: Y\n"))
	assert.Error(t, err)
}
