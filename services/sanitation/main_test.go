package sanitation

import (
	"testing"
	"time"

	"gnomad/pipeline/data"
	"gnomad/pipeline/services"
	"gnomad/pipeline/tests/common"

	esRepo "gnomad/pipeline/repositories/elasticsearch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	fake := common.NewFakeElasticsearch()
	defer fake.Close()

	loader := services.NewLoader(esRepo.NewStore(fake.Client(), nil), time.Second, nil)
	is := services.NewIngestionService(loader, nil)

	genes, err := data.SampleGenes()
	require.NoError(t, err)

	is.IngestGenes("genes_grch37", "embedded", genes)
	is.Wait()
	require.Len(t, is.GetRequests(), 1)

	t.Run("should keep requests inside the retention period", func(t *testing.T) {
		ss := NewSanitationService(is, time.Hour, nil)
		defer ss.Stop()

		assert.True(t, ss.Initialized)
		assert.Equal(t, 0, ss.Sanitize())
		assert.Len(t, is.GetRequests(), 1)
	})

	t.Run("should evict finished requests past the retention period", func(t *testing.T) {
		ss := NewSanitationService(is, -time.Minute, nil)
		defer ss.Stop()

		// the scheduler may have run the job already on start
		ss.Sanitize()
		assert.Empty(t, is.GetRequests())
	})
}
