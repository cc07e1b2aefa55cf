package utils

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const table = "locus\tmean\n1:12345\t30.5\n"

func TestOpenMaybeGzipped(t *testing.T) {
	dir := t.TempDir()

	t.Run("should read plain files as they are", func(t *testing.T) {
		path := filepath.Join(dir, "coverage.tsv")
		require.NoError(t, os.WriteFile(path, []byte(table), 0644))

		r, err := OpenMaybeGzipped(path)
		require.NoError(t, err)
		defer r.Close()

		b, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, table, string(b))
	})

	t.Run("should decompress gzipped files", func(t *testing.T) {
		path := filepath.Join(dir, "coverage.tsv.gz")
		f, err := os.Create(path)
		require.NoError(t, err)

		// two members, as bgzip writes them
		for _, chunk := range []string{table[:12], table[12:]} {
			gz := gzip.NewWriter(f)
			_, err = gz.Write([]byte(chunk))
			require.NoError(t, err)
			require.NoError(t, gz.Close())
		}
		require.NoError(t, f.Close())

		r, err := OpenMaybeGzipped(path)
		require.NoError(t, err)
		defer r.Close()

		b, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, table, string(b))
	})

	t.Run("should read empty files", func(t *testing.T) {
		path := filepath.Join(dir, "empty.tsv")
		require.NoError(t, os.WriteFile(path, nil, 0644))

		r, err := OpenMaybeGzipped(path)
		require.NoError(t, err)
		defer r.Close()

		b, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Empty(t, b)
	})

	t.Run("should fail on missing files", func(t *testing.T) {
		_, err := OpenMaybeGzipped(filepath.Join(dir, "missing.tsv"))
		assert.Error(t, err)
	})
}
