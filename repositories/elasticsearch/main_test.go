package elasticsearch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gnomad/pipeline/data"
	"gnomad/pipeline/models/constants"
	"gnomad/pipeline/models/constants/sort"
	"gnomad/pipeline/models/indexes"
	"gnomad/pipeline/tests/common"

	. "github.com/ahmetb/go-linq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genesIndex = "genes_grch37"

func setUpStore(t *testing.T) (*Store, *common.FakeElasticsearch) {
	fake := common.NewFakeElasticsearch()
	t.Cleanup(fake.Close)
	return NewStore(fake.Client(), nil), fake
}

func seedSampleGenes(t *testing.T, fake *common.FakeElasticsearch) {
	genes, err := data.SampleGenes()
	require.NoError(t, err)
	for _, gene := range genes {
		fake.Seed(genesIndex, gene.Document())
	}
}

func TestIndexLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("should report a missing index then create it", func(t *testing.T) {
		store, fake := setUpStore(t)

		exists, err := store.Exists(ctx, genesIndex)
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, store.Create(ctx, genesIndex, indexes.GENE_INDEX_MAPPING))

		exists, err = store.Exists(ctx, genesIndex)
		require.NoError(t, err)
		assert.True(t, exists)

		// mapping is declared under the legacy type
		body := fake.IndexBody(genesIndex)
		properties := body["mappings"].(map[string]interface{})[constants.DocumentType].(map[string]interface{})["properties"].(map[string]interface{})
		assert.Equal(t, "keyword", properties["gene_id"].(map[string]interface{})["type"])
		assert.Equal(t, "long", properties["xstart"].(map[string]interface{})["type"])

		createdWithType := From(fake.Requests()).AnyWithT(func(r string) bool {
			return strings.HasPrefix(r, "PUT /"+genesIndex) && strings.Contains(r, "include_type_name=true")
		})
		assert.True(t, createdWithType)
	})

	t.Run("should treat an existing index as created", func(t *testing.T) {
		store, _ := setUpStore(t)

		require.NoError(t, store.Create(ctx, genesIndex, indexes.GENE_INDEX_MAPPING))
		assert.NoError(t, store.Create(ctx, genesIndex, indexes.GENE_INDEX_MAPPING))
	})
}

func TestWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("should index one document per call", func(t *testing.T) {
		store, fake := setUpStore(t)

		genes, err := data.SampleGenes()
		require.NoError(t, err)
		for _, gene := range genes {
			require.NoError(t, store.Write(ctx, genesIndex, constants.DocumentType, gene.Document()))
		}

		docs := fake.Documents(genesIndex)
		require.Len(t, docs, 2)
		assert.Equal(t, "BRCA2", docs[0]["symbol"])
		assert.Equal(t, float64(13032315474), docs[0]["xstart"])

		count, err := store.CountDocuments(ctx, genesIndex)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		wroteToDocType := From(fake.Requests()).AnyWithT(func(r string) bool {
			return strings.HasPrefix(r, "POST /"+genesIndex+"/_doc")
		})
		assert.True(t, wroteToDocType)
	})

	t.Run("should classify a rejected document as a write error", func(t *testing.T) {
		store, fake := setUpStore(t)
		fake.RejectWrites(genesIndex, "failed to parse field [start] of type [long]")

		err := store.Write(ctx, genesIndex, constants.DocumentType, map[string]interface{}{"start": "abc"})
		require.Error(t, err)

		var werr *WriteError
		require.True(t, errors.As(err, &werr))
		assert.Equal(t, 400, werr.Status)
		assert.Equal(t, "mapper_parsing_exception", werr.Type)
		assert.Contains(t, werr.Reason, "[start]")
		assert.Equal(t, genesIndex, werr.Index)
	})

	t.Run("should classify an unreachable cluster as a connection error", func(t *testing.T) {
		fake := common.NewFakeElasticsearch()
		client := fake.Client()
		fake.Close()

		store := NewStore(client, nil)
		timeoutCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		err := store.Write(timeoutCtx, genesIndex, constants.DocumentType, map[string]interface{}{})
		require.Error(t, err)

		var cerr *ConnectionError
		assert.True(t, errors.As(err, &cerr))

		_, err = store.Exists(timeoutCtx, genesIndex)
		assert.True(t, errors.As(err, &cerr))
	})
}

func TestGeneQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("should find genes by partial symbol", func(t *testing.T) {
		store, fake := setUpStore(t)
		seedSampleGenes(t, fake)

		genes, err := store.GetGenesBySymbolWildcard(ctx, genesIndex, "", "brc", 10, sort.Undefined)
		require.NoError(t, err)
		require.Len(t, genes, 1)
		assert.Equal(t, "ENSG00000139618", genes[0].GeneId)
		assert.Equal(t, int64(32400266), genes[0].Stop)
		assert.Equal(t, "13", genes[0].Value.Chrom)
	})

	t.Run("should order genes by xstart and honour the chromosome filter", func(t *testing.T) {
		store, fake := setUpStore(t)
		seedSampleGenes(t, fake)

		genes, err := store.GetGenesBySymbolWildcard(ctx, genesIndex, "", "", 10, sort.Undefined)
		require.NoError(t, err)

		var symbols []string
		From(genes).SelectT(func(g indexes.Gene) string { return g.Symbol }).ToSlice(&symbols)
		assert.Equal(t, []string{"BRCA2", "TP53"}, symbols)

		genes, err = store.GetGenesBySymbolWildcard(ctx, genesIndex, "", "", 10, sort.Descending)
		require.NoError(t, err)

		symbols = nil
		From(genes).SelectT(func(g indexes.Gene) string { return g.Symbol }).ToSlice(&symbols)
		assert.Equal(t, []string{"TP53", "BRCA2"}, symbols)

		genes, err = store.GetGenesBySymbolWildcard(ctx, genesIndex, "17", "", 10, sort.Undefined)
		require.NoError(t, err)
		require.Len(t, genes, 1)
		assert.Equal(t, "TP53", genes[0].Symbol)
	})

	t.Run("should get a gene by id", func(t *testing.T) {
		store, fake := setUpStore(t)
		seedSampleGenes(t, fake)

		gene, err := store.GetGeneById(ctx, genesIndex, "ENSG00000141510")
		require.NoError(t, err)
		require.NotNil(t, gene)
		assert.Equal(t, "TP53", gene.SymbolUpperCase)
		assert.NoError(t, gene.Validate())

		gene, err = store.GetGeneById(ctx, genesIndex, "ENSG00000000000")
		require.NoError(t, err)
		assert.Nil(t, gene)
	})

	t.Run("should return nothing when the index is missing", func(t *testing.T) {
		store, _ := setUpStore(t)

		genes, err := store.GetGenesBySymbolWildcard(ctx, genesIndex, "", "TP", 10, sort.Undefined)
		require.NoError(t, err)
		assert.Empty(t, genes)
	})
}

func TestGetVariantById(t *testing.T) {
	store, fake := setUpStore(t)
	fake.Seed("variants", map[string]interface{}{
		"variant_id": "13-32889617-A-G",
		"coverage": map[string]interface{}{
			"exome": map[string]interface{}{"mean": 35.2, "median": 34},
		},
	})

	doc, err := store.GetVariantById(context.Background(), "variants", "13-32889617-A-G")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "13-32889617-A-G", doc["variant_id"])

	doc, err = store.GetVariantById(context.Background(), "variants", "1-1-A-T")
	require.NoError(t, err)
	assert.Nil(t, doc)
}
