package runner

import (
	"context"
	"encoding/gob"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipetree/azureml/pkg/datasets"
	"github.com/pipetree/azureml/pkg/pipeline"
	"github.com/pipetree/azureml/pkg/storage"
)

func TestLocal_Run(t *testing.T) {
	gob.Register([]float64{})

	ctx := context.Background()
	store := storage.NewMemoryStore()

	spec, err := pipeline.Parse([]byte(`name: local-training
nodes:
  - name: preprocess
    outputs: [features]
  - name: train
    inputs: [features]
    outputs: [model]
`))
	require.NoError(t, err)

	funcs := map[string]NodeFunc{
		"preprocess": func(_ context.Context, _ map[string]any) (map[string]any, error) {
			return map[string]any{"features": []float64{1, 2, 3}}, nil
		},
		"train": func(_ context.Context, inputs map[string]any) (map[string]any, error) {
			features, ok := inputs["features"].([]float64)
			if !ok {
				return nil, fmt.Errorf("unexpected features type %T", inputs["features"])
			}

			return map[string]any{"model": fmt.Sprintf("model-over-%d-features", len(features))}, nil
		},
	}

	local := NewLocal(testLogger(), store, nil, funcs)

	runID, err := local.Run(ctx, spec)
	require.NoError(t, err)

	// Intermediates land in run-scoped temp storage.
	model := datasets.NewRunnerDataset("model", runID, store)
	loaded, err := model.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "model-over-3-features", loaded)
}

func TestLocal_RunPrefersCatalogDatasets(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	spec, err := pipeline.Parse([]byte(`name: catalog
nodes:
  - name: emit
    outputs: [result]
`))
	require.NoError(t, err)

	catalogDS := datasets.NewRunnerDataset("result", "pinned-run", store)
	catalog := map[string]datasets.Dataset{"result": catalogDS}

	funcs := map[string]NodeFunc{
		"emit": func(_ context.Context, _ map[string]any) (map[string]any, error) {
			return map[string]any{"result": "done"}, nil
		},
	}

	local := NewLocal(testLogger(), store, catalog, funcs)

	_, err = local.Run(ctx, spec)
	require.NoError(t, err)

	// Saved through the catalog dataset, not a run-scoped one.
	loaded, err := catalogDS.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "done", loaded)
}

func TestLocal_RunFailures(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	t.Run("missing node function", func(t *testing.T) {
		spec, err := pipeline.Parse([]byte("name: p\nnodes:\n  - name: a\n"))
		require.NoError(t, err)

		local := NewLocal(testLogger(), store, nil, nil)

		_, err = local.Run(ctx, spec)
		require.ErrorIs(t, err, ErrNodeFuncMissing)
	})

	t.Run("node error propagates", func(t *testing.T) {
		spec, err := pipeline.Parse([]byte("name: p\nnodes:\n  - name: a\n"))
		require.NoError(t, err)

		local := NewLocal(testLogger(), store, nil, map[string]NodeFunc{
			"a": func(_ context.Context, _ map[string]any) (map[string]any, error) {
				return nil, fmt.Errorf("boom")
			},
		})

		_, err = local.Run(ctx, spec)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("missing declared output", func(t *testing.T) {
		spec, err := pipeline.Parse([]byte("name: p\nnodes:\n  - name: a\n    outputs: [x]\n"))
		require.NoError(t, err)

		local := NewLocal(testLogger(), store, nil, map[string]NodeFunc{
			"a": func(_ context.Context, _ map[string]any) (map[string]any, error) {
				return map[string]any{}, nil
			},
		})

		_, err = local.Run(ctx, spec)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "did not produce declared output")
	})
}
