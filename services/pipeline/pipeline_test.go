package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"gnomad/pipeline/models/variants"

	. "github.com/ahmetb/go-linq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const step1 = `{"variant_id": "13-32889617-A-G", "locus": {"contig": "13", "position": 32889617}, "alleles": ["A", "G"], "rsids": ["rs1799943"], "xpos": 13032889617}

{"variant_id": "17-7661780-C-T", "locus": {"contig": "17", "position": 7661780}, "alleles": ["C", "T"], "joint": {"freq": {"all": {"ac": 3, "an": 152312}}}}
`

var coverageHeader = "locus\tmean\tmedian_approx\tover_1\tover_5\tover_10\tover_15\tover_20\tover_25\tover_30\tover_50\tover_100"

func coverageRow(locus string, mean float64, median int, overs ...float64) string {
	fields := []string{locus, fmt.Sprint(mean), fmt.Sprint(median)}
	for _, o := range overs {
		fields = append(fields, fmt.Sprint(o))
	}
	return strings.Join(fields, "\t")
}

func exomeTable(t *testing.T) CoverageTable {
	table, err := ReadCoverageTable(strings.NewReader(strings.Join([]string{
		coverageHeader,
		coverageRow("chr13:32889617", 35.2, 34, 1, 1, 0.99, 0.97, 0.93, 0.88, 0.8, 0.5, 0.05),
		coverageRow("chr17:7661780", 60.1, 61, 1, 1, 1, 1, 0.99, 0.98, 0.97, 0.9, 0.2),
	}, "\n")))
	require.NoError(t, err)
	return table
}

func genomeTable(t *testing.T) CoverageTable {
	table, err := ReadCoverageTable(strings.NewReader(strings.Join([]string{
		coverageHeader,
		coverageRow("13:32889617", 30.5, 30, 1, 0.99, 0.98, 0.95, 0.9, 0.81, 0.7, 0.2, 0),
	}, "\n")))
	require.NoError(t, err)
	return table
}

func TestReadInputVariants(t *testing.T) {
	t.Run("should read one record per line and skip blank lines", func(t *testing.T) {
		inputs, err := ReadInputVariants(strings.NewReader(step1))
		require.NoError(t, err)
		require.Len(t, inputs, 2)

		assert.Equal(t, "13-32889617-A-G", inputs[0].VariantId)
		assert.Equal(t, 32889617, inputs[0].Locus.Position)
		assert.Equal(t, []string{"C", "T"}, inputs[1].Alleles)

		// large integers are carried without rounding
		assert.Equal(t, json.Number("13032889617"), inputs[0].Fields["xpos"])
	})

	t.Run("should name the line of a bad record", func(t *testing.T) {
		_, err := ReadInputVariants(strings.NewReader(step1 + "{\"locus\": {}}\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 4")
		assert.True(t, errors.Is(err, variants.ErrMissingBaseVariant))
	})

	t.Run("should return io.EOF at the end", func(t *testing.T) {
		reader := NewInputVariantReader(strings.NewReader(""))
		_, err := reader.Next()
		assert.Equal(t, io.EOF, err)
	})
}

func TestReadCoverageTable(t *testing.T) {
	t.Run("should key rows by locus regardless of the chr prefix", func(t *testing.T) {
		table := exomeTable(t)
		require.Len(t, table, 2)

		detail, ok := table.Lookup(variants.Locus{Contig: "13", Position: 32889617})
		require.True(t, ok)
		assert.Equal(t, 35.2, detail.Mean)
		assert.Equal(t, 34, detail.Median)
		assert.Equal(t, 0.05, detail.Over100)
	})

	t.Run("should return NoCoverage for missing loci", func(t *testing.T) {
		detail, ok := genomeTable(t).Lookup(variants.Locus{Contig: "17", Position: 7661780})
		assert.False(t, ok)
		assert.True(t, detail.IsEmpty())
	})

	t.Run("should accept a median column written as a float", func(t *testing.T) {
		header := strings.Replace(coverageHeader, "median_approx", "median", 1)
		table, err := ReadCoverageTable(strings.NewReader(header + "\n" +
			"1:100\t12.5\t12.0\t1\t0.9\t0.5\t0.2\t0.1\t0\t0\t0\t0\n"))
		require.NoError(t, err)
		assert.Equal(t, 12, table["1:100"].Median)
	})

	t.Run("should reject a row breaking monotonicity and name the fields", func(t *testing.T) {
		_, err := ReadCoverageTable(strings.NewReader(strings.Join([]string{
			coverageHeader,
			coverageRow("1:100", 10, 10, 0.9, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2),
			coverageRow("1:101", 10, 10, 0.9, 0.5, 0.6, 0.4, 0.3, 0.2, 0.1, 0, 0),
		}, "\n")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 3")
		assert.Contains(t, err.Error(), "over_5 (0.5) < over_10 (0.6)")

		var cerr *variants.CoverageInvariantError
		assert.True(t, errors.As(err, &cerr))
	})

	t.Run("should reject a missing column", func(t *testing.T) {
		header := strings.Replace(coverageHeader, "\tover_50", "", 1)
		_, err := ReadCoverageTable(strings.NewReader(header + "\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "over_50")
	})

	t.Run("should reject duplicate loci", func(t *testing.T) {
		row := coverageRow("1:100", 10, 10, 0.9, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2)
		_, err := ReadCoverageTable(strings.NewReader(coverageHeader + "\n" + row + "\n" + row))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})
}

func TestReadCaidTable(t *testing.T) {
	table, err := ReadCaidTable(strings.NewReader("variant_id\tcaid\n13-32889617-A-G\tCA000001\n"))
	require.NoError(t, err)
	assert.Equal(t, variants.Caid("CA000001"), table["13-32889617-A-G"])

	_, err = ReadCaidTable(strings.NewReader("variant_id\tcaid\n13-32889617-A-G\tnot-a-caid\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = ReadCaidTable(strings.NewReader("id\tcaid\n"))
	assert.Error(t, err)
}

func TestComposeAll(t *testing.T) {
	inputs, err := ReadInputVariants(strings.NewReader(step1))
	require.NoError(t, err)

	caids := CaidTable{"13-32889617-A-G": variants.Caid("CA000001")}
	composer := NewComposer(exomeTable(t), genomeTable(t), caids, nil)

	t.Run("should keep input order with any number of workers", func(t *testing.T) {
		for _, workers := range []int{0, 1, 2, 8} {
			composites, err := composer.ComposeAll(context.Background(), inputs, workers)
			require.NoError(t, err)

			var ids []string
			From(composites).SelectT(func(v variants.Variant) string { return v.VariantId }).ToSlice(&ids)
			assert.Equal(t, []string{"13-32889617-A-G", "17-7661780-C-T"}, ids)
		}
	})

	t.Run("should fill missing modalities with NoCoverage", func(t *testing.T) {
		composites, err := composer.ComposeAll(context.Background(), inputs, 2)
		require.NoError(t, err)

		assert.False(t, composites[0].Coverage.Genome.IsEmpty())
		assert.True(t, composites[1].Coverage.Genome.IsEmpty())
		assert.Equal(t, 60.1, composites[1].Coverage.Exome.Mean)
	})

	t.Run("should attach caids only where known", func(t *testing.T) {
		composites, err := composer.ComposeAll(context.Background(), inputs, 2)
		require.NoError(t, err)

		assert.Len(t, composites[0].Annotations(), 2)
		assert.Len(t, composites[1].Annotations(), 1)
	})

	t.Run("should fail on a colliding annotation", func(t *testing.T) {
		colliding, err := ReadInputVariants(strings.NewReader(
			`{"variant_id": "1-100-A-T", "locus": {"contig": "1", "position": 100}, "alleles": ["A", "T"], "coverage": {}}` + "\n"))
		require.NoError(t, err)

		_, err = composer.ComposeAll(context.Background(), append(inputs, colliding...), 2)
		require.Error(t, err)

		var shapeErr *variants.ShapeMismatchError
		require.True(t, errors.As(err, &shapeErr))
		assert.Equal(t, "coverage", shapeErr.Field)
		assert.Contains(t, err.Error(), "record 3")
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := composer.ComposeAll(ctx, inputs, 2)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestWriteJSONLines(t *testing.T) {
	inputs, err := ReadInputVariants(strings.NewReader(step1))
	require.NoError(t, err)

	composites, err := NewComposer(exomeTable(t), genomeTable(t), nil, nil).ComposeAll(context.Background(), inputs, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSONLines(&buf, composites))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &doc))
	assert.Equal(t, "13-32889617-A-G", doc["variant_id"])
	assert.Equal(t, []interface{}{"rs1799943"}, doc["rsids"])
	assert.Equal(t, float64(13032889617), doc["xpos"])

	exome := doc["coverage"].(map[string]interface{})["exome"].(map[string]interface{})
	assert.Equal(t, 0.99, exome["over_10"])
}
