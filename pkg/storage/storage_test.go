package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempPath(t *testing.T) {
	assert.Equal(t, "azureml-temp/run-1/features.bin", TempPath("run-1", "features"))
	assert.Equal(t, "azureml-temp/run-1", TempPrefix("run-1"))
}

func TestStores(t *testing.T) {
	ctx := context.Background()

	stores := map[string]func(t *testing.T) Store{
		"memory": func(_ *testing.T) Store {
			return NewMemoryStore()
		},
		"filesystem": func(t *testing.T) Store {
			return NewFilesystemStore(t.TempDir())
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)

			t.Run("download missing blob", func(t *testing.T) {
				_, err := store.Download(ctx, "missing")
				require.ErrorIs(t, err, ErrNotFound)

				exists, err := store.Exists(ctx, "missing")
				require.NoError(t, err)
				assert.False(t, exists)
			})

			t.Run("upload and download", func(t *testing.T) {
				require.NoError(t, store.Upload(ctx, "dir/a.bin", []byte("alpha")))

				data, err := store.Download(ctx, "dir/a.bin")
				require.NoError(t, err)
				assert.Equal(t, []byte("alpha"), data)

				exists, err := store.Exists(ctx, "dir/a.bin")
				require.NoError(t, err)
				assert.True(t, exists)
			})

			t.Run("overwrite", func(t *testing.T) {
				require.NoError(t, store.Upload(ctx, "dir/a.bin", []byte("beta")))

				data, err := store.Download(ctx, "dir/a.bin")
				require.NoError(t, err)
				assert.Equal(t, []byte("beta"), data)
			})

			t.Run("list by prefix", func(t *testing.T) {
				require.NoError(t, store.Upload(ctx, "dir/b.bin", []byte("b")))
				require.NoError(t, store.Upload(ctx, "other/c.bin", []byte("c")))

				paths, err := store.List(ctx, "dir/")
				require.NoError(t, err)
				assert.Equal(t, []string{"dir/a.bin", "dir/b.bin"}, paths)
			})

			t.Run("delete", func(t *testing.T) {
				require.NoError(t, store.Delete(ctx, "dir/a.bin"))
				require.NoError(t, store.Delete(ctx, "dir/a.bin")) // idempotent

				exists, err := store.Exists(ctx, "dir/a.bin")
				require.NoError(t, err)
				assert.False(t, exists)
			})
		})
	}
}
