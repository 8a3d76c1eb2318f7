package train

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/sprout/internal/feature"
)

// classificationData prepares a tiny two-class dataset: points on the left
// are "low", points on the right are "high".
func classificationData(t *testing.T, backend Backend) (*feature.DatasetMeta, *feature.TrainingTensor[Backend]) {
	t.Helper()
	records := []feature.RawRecord{
		{"x": feature.Number(0), "y": feature.Number(0), "label": feature.Str("low")},
		{"x": feature.Number(1), "y": feature.Number(0.2), "label": feature.Str("low")},
		{"x": feature.Number(9), "y": feature.Number(8), "label": feature.Str("high")},
		{"x": feature.Number(10), "y": feature.Number(9), "label": feature.Str("high")},
	}
	meta, err := feature.InferSchema(records, []string{"x", "y"}, []string{"label"})
	require.NoError(t, err)
	meta, err = feature.ComputeStats(records, meta)
	require.NoError(t, err)
	encoded, err := feature.Encode(records, meta)
	require.NoError(t, err)
	tensors, err := feature.Assemble(encoded, meta, backend)
	require.NoError(t, err)
	return meta, tensors
}

func regressionData(t *testing.T, backend Backend) (*feature.DatasetMeta, *feature.TrainingTensor[Backend]) {
	t.Helper()
	records := []feature.RawRecord{
		{"x": feature.Number(1), "y": feature.Number(2)},
		{"x": feature.Number(2), "y": feature.Number(4)},
		{"x": feature.Number(3), "y": feature.Number(6)},
		{"x": feature.Number(4), "y": feature.Number(8)},
	}
	meta, err := feature.InferSchema(records, []string{"x"}, []string{"y"})
	require.NoError(t, err)
	meta, err = feature.ComputeStats(records, meta)
	require.NoError(t, err)
	encoded, err := feature.Encode(records, meta)
	require.NoError(t, err)
	tensors, err := feature.Assemble(encoded, meta, backend)
	require.NoError(t, err)
	return meta, tensors
}

func TestBuildModel_LayerCount(t *testing.T) {
	backend := NewBackend()
	meta, tensors := classificationData(t, backend)
	defer tensors.Release()

	cfg := Config{Task: TaskClassification, HiddenLayers: []LayerSpec{
		{Units: 8, Activation: "relu"},
		{Units: 4, Activation: "tanh"},
	}}.WithDefaults()

	model, err := BuildModel(meta, cfg, backend)
	require.NoError(t, err)
	// Two (Linear + activation) pairs plus the output Linear.
	assert.Equal(t, 5, model.Len())
}

func TestBuildModel_UnknownActivation(t *testing.T) {
	backend := NewBackend()
	meta, tensors := classificationData(t, backend)
	defer tensors.Release()

	cfg := Config{Task: TaskClassification, HiddenLayers: []LayerSpec{{Units: 8, Activation: "swish"}}}
	_, err := BuildModel(meta, cfg, backend)
	assert.Error(t, err)
}

func TestFit_Classification(t *testing.T) {
	backend := NewBackend()
	meta, tensors := classificationData(t, backend)
	defer tensors.Release()

	cfg := Config{Task: TaskClassification, Epochs: 5, BatchSize: 2}.WithDefaults()
	require.NoError(t, cfg.Validate())

	model, err := BuildModel(meta, cfg, backend)
	require.NoError(t, err)

	epochs := 0
	lastLoss := math.NaN()
	err = Fit(context.Background(), model, tensors, cfg, backend, func(epoch int, loss float64) {
		epochs = epoch
		lastLoss = loss
	})
	require.NoError(t, err)

	assert.Equal(t, 5, epochs)
	assert.False(t, math.IsNaN(lastLoss))
	assert.False(t, math.IsInf(lastLoss, 0))
}

func TestFit_Regression(t *testing.T) {
	backend := NewBackend()
	meta, tensors := regressionData(t, backend)
	defer tensors.Release()

	cfg := Config{Task: TaskRegression, Epochs: 5, BatchSize: 4, Optimizer: "sgd"}.WithDefaults()
	model, err := BuildModel(meta, cfg, backend)
	require.NoError(t, err)

	err = Fit(context.Background(), model, tensors, cfg, backend, nil)
	require.NoError(t, err)
}

func TestFit_Cancellation(t *testing.T) {
	backend := NewBackend()
	meta, tensors := classificationData(t, backend)
	defer tensors.Release()

	cfg := Config{Task: TaskClassification, Epochs: 1000}.WithDefaults()
	model, err := BuildModel(meta, cfg, backend)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Fit(ctx, model, tensors, cfg, backend, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPredict_ClassificationDistribution(t *testing.T) {
	backend := NewBackend()
	meta, tensors := classificationData(t, backend)
	defer tensors.Release()

	cfg := Config{Task: TaskClassification, Epochs: 2}.WithDefaults()
	model, err := BuildModel(meta, cfg, backend)
	require.NoError(t, err)
	require.NoError(t, Fit(context.Background(), model, tensors, cfg, backend, nil))

	sample, err := feature.EncodeInput(feature.RawRecord{
		"x": feature.Number(0.5), "y": feature.Number(0.1),
	}, meta)
	require.NoError(t, err)

	probs, err := Predict(model, sample, TaskClassification, backend)
	require.NoError(t, err)
	require.Len(t, probs, 2)

	sum := float32(0)
	for _, p := range probs {
		assert.GreaterOrEqual(t, p, float32(0))
		assert.LessOrEqual(t, p, float32(1))
		sum += p
	}
	assert.InDelta(t, 1.0, float64(sum), 1e-4)
}

func TestPredict_RegressionShape(t *testing.T) {
	backend := NewBackend()
	meta, tensors := regressionData(t, backend)
	defer tensors.Release()

	cfg := Config{Task: TaskRegression, Epochs: 2}.WithDefaults()
	model, err := BuildModel(meta, cfg, backend)
	require.NoError(t, err)
	require.NoError(t, Fit(context.Background(), model, tensors, cfg, backend, nil))

	sample, err := feature.EncodeInput(feature.RawRecord{"x": feature.Number(2.5)}, meta)
	require.NoError(t, err)

	out, err := Predict(model, sample, TaskRegression, backend)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.False(t, math.IsNaN(float64(out[0])))
}

func TestValidateTask(t *testing.T) {
	backend := NewBackend()
	classMeta, classTensors := classificationData(t, backend)
	defer classTensors.Release()
	regMeta, regTensors := regressionData(t, backend)
	defer regTensors.Release()

	assert.NoError(t, ValidateTask(classMeta, TaskClassification))
	assert.NoError(t, ValidateTask(regMeta, TaskRegression))

	// Crossed tasks are rejected.
	assert.Error(t, ValidateTask(classMeta, TaskRegression))
	assert.Error(t, ValidateTask(regMeta, TaskClassification))
}
