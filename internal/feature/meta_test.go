package feature

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetMeta_Units(t *testing.T) {
	records := []RawRecord{
		{"color": Str("red"), "size": Number(3), "kind": Str("a"), "score": Number(1)},
		{"color": Str("blue"), "size": Number(5), "kind": Str("b"), "score": Number(2)},
		{"color": Str("green"), "size": Number(4), "kind": Str("a"), "score": Number(3)},
	}
	meta := preparedMeta(t, records, []string{"color", "size"}, []string{"kind", "score"})

	// 3 colors one-hot + 1 numeric.
	assert.Equal(t, 4, meta.InputUnits)
	// 2 kinds one-hot + 1 numeric.
	assert.Equal(t, 3, meta.OutputUnits)
}

func TestDatasetMeta_CloneIsDeep(t *testing.T) {
	meta := preparedMeta(t, colorSizeRecords(), []string{"color"}, []string{"size"})

	clone := meta.Clone()
	clone.Inputs["color"].addVocab("green")
	clone.recomputeUnits()

	assert.Equal(t, 2, meta.InputUnits)
	assert.Equal(t, 3, clone.InputUnits)
	assert.Len(t, meta.Inputs["color"].Vocabulary, 2)
}

// TestMeta_SaveLoadRoundTrip persists metadata and reloads it, checking the
// encoding contract (order, vocabulary indices, ranges, units) survives.
func TestMeta_SaveLoadRoundTrip(t *testing.T) {
	meta := preparedMeta(t, colorSizeRecords(), []string{"color"}, []string{"size"})
	path := filepath.Join(t.TempDir(), "meta.json")

	require.NoError(t, SaveMeta(meta, path))
	loaded, err := LoadMeta(path)
	require.NoError(t, err)

	assert.Equal(t, meta.InputOrder, loaded.InputOrder)
	assert.Equal(t, meta.OutputOrder, loaded.OutputOrder)
	assert.Equal(t, meta.InputUnits, loaded.InputUnits)
	assert.Equal(t, meta.OutputUnits, loaded.OutputUnits)
	assert.Equal(t, meta.Inputs["color"].Vocabulary, loaded.Inputs["color"].Vocabulary)
	assert.Equal(t, meta.Outputs["size"].Min, loaded.Outputs["size"].Min)
	assert.Equal(t, meta.Outputs["size"].Max, loaded.Outputs["size"].Max)

	// The rebuilt index encodes identically.
	enc, err := EncodeOne(RawRecord{"color": Str("blue"), "size": Number(4)}, loaded)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, enc.Input)
}

func TestLoadMeta_MissingFile(t *testing.T) {
	_, err := LoadMeta(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
