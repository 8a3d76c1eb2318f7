package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// colorSizeRecords is the two-row dataset used throughout the pipeline
// tests: one categorical input, one numeric output.
func colorSizeRecords() []RawRecord {
	return []RawRecord{
		{"color": Str("red"), "size": Number(3)},
		{"color": Str("blue"), "size": Number(5)},
	}
}

func TestInferSchema_ColorSize(t *testing.T) {
	meta, err := InferSchema(colorSizeRecords(), []string{"color"}, []string{"size"})
	require.NoError(t, err)

	color := meta.Inputs["color"]
	require.NotNil(t, color)
	assert.Equal(t, ColumnCategorical, color.Kind)
	assert.Equal(t, []string{"red", "blue"}, color.Vocabulary)

	idx, ok := color.VocabIndex("red")
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	idx, ok = color.VocabIndex("blue")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	size := meta.Outputs["size"]
	require.NotNil(t, size)
	assert.Equal(t, ColumnNumeric, size.Kind)

	assert.Equal(t, 2, meta.InputUnits)
	assert.Equal(t, 1, meta.OutputUnits)
}

// TestInferSchema_Deterministic verifies that re-running inference on the
// same raw data yields identical metadata, including vocabulary order.
func TestInferSchema_Deterministic(t *testing.T) {
	records := []RawRecord{
		{"fruit": Str("pear"), "weight": Number(120)},
		{"fruit": Str("apple"), "weight": Number(90)},
		{"fruit": Str("pear"), "weight": Number(130)},
		{"fruit": Str("plum"), "weight": Number(40)},
	}

	first, err := InferSchema(records, []string{"fruit"}, []string{"weight"})
	require.NoError(t, err)
	second, err := InferSchema(records, []string{"fruit"}, []string{"weight"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"pear", "apple", "plum"}, first.Inputs["fruit"].Vocabulary)
}

func TestInferSchema_FirstValueFixesKind(t *testing.T) {
	// First non-missing value decides the kind; the leading missing cell
	// is skipped.
	records := []RawRecord{
		{"x": Missing(), "y": Number(1)},
		{"x": Str("a"), "y": Number(2)},
		{"x": Str("b"), "y": Number(3)},
	}
	meta, err := InferSchema(records, []string{"x"}, []string{"y"})
	require.NoError(t, err)
	assert.Equal(t, ColumnCategorical, meta.Inputs["x"].Kind)
}

func TestInferSchema_MixedColumnFailsFast(t *testing.T) {
	records := []RawRecord{
		{"x": Number(1), "y": Number(1)},
		{"x": Str("oops"), "y": Number(2)},
	}
	_, err := InferSchema(records, []string{"x"}, []string{"y"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrColumnTypeAmbiguous)
}

func TestInferSchema_AllMissingColumn(t *testing.T) {
	records := []RawRecord{
		{"y": Number(1)},
		{"y": Number(2)},
	}
	_, err := InferSchema(records, []string{"x"}, []string{"y"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingValue)
}

func TestInferSchema_EmptyDataset(t *testing.T) {
	_, err := InferSchema(nil, []string{"x"}, []string{"y"})
	assert.Error(t, err)
}

func TestComputeStats_MinMax(t *testing.T) {
	meta, err := InferSchema(colorSizeRecords(), []string{"color"}, []string{"size"})
	require.NoError(t, err)

	stats, err := ComputeStats(colorSizeRecords(), meta)
	require.NoError(t, err)

	size := stats.Outputs["size"]
	assert.Equal(t, 3.0, size.Min)
	assert.Equal(t, 5.0, size.Max)

	// The input meta is not mutated.
	assert.Equal(t, 0.0, meta.Outputs["size"].Min)
	assert.Equal(t, 0.0, meta.Outputs["size"].Max)
}

// TestComputeStats_VocabularyGrows verifies that the stats pass re-validates
// vocabularies against the full dataset: rows added after schema inference
// contribute new values, still in first-seen order.
func TestComputeStats_VocabularyGrows(t *testing.T) {
	initial := colorSizeRecords()
	meta, err := InferSchema(initial, []string{"color"}, []string{"size"})
	require.NoError(t, err)

	grown := append(initial, RawRecord{"color": Str("green"), "size": Number(4)})
	stats, err := ComputeStats(grown, meta)
	require.NoError(t, err)

	assert.Equal(t, []string{"red", "blue", "green"}, stats.Inputs["color"].Vocabulary)
	assert.Equal(t, 3, stats.InputUnits)

	// Units are recomputed on the copy, not on the original.
	assert.Equal(t, 2, meta.InputUnits)
}

func TestComputeStats_Deterministic(t *testing.T) {
	records := colorSizeRecords()
	meta, err := InferSchema(records, []string{"color"}, []string{"size"})
	require.NoError(t, err)

	first, err := ComputeStats(records, meta)
	require.NoError(t, err)
	second, err := ComputeStats(records, meta)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
