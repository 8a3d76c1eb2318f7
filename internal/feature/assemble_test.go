package feature

import (
	"testing"

	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_Shapes(t *testing.T) {
	records := colorSizeRecords()
	meta := preparedMeta(t, records, []string{"color"}, []string{"size"})
	encoded, err := Encode(records, meta)
	require.NoError(t, err)

	backend := cpu.New()
	tt, err := Assemble(encoded, meta, backend)
	require.NoError(t, err)
	defer tt.Release()

	assert.Equal(t, 2, tt.Rows)
	assert.True(t, tt.Inputs.Shape().Equal(tensor.Shape{2, 2}))
	assert.True(t, tt.Outputs.Shape().Equal(tensor.Shape{2, 1}))

	// Row-major stacking preserves row order and column order.
	assert.Equal(t, []float32{1, 0, 0, 1}, tt.Inputs.Raw().AsFloat32())
	assert.Equal(t, []float32{0, 1}, tt.Outputs.Raw().AsFloat32())
}

// TestAssemble_StaleMetadata grows the vocabulary after encoding and checks
// that assembly refuses the now short rows instead of building a ragged
// tensor.
func TestAssemble_StaleMetadata(t *testing.T) {
	records := colorSizeRecords()
	meta := preparedMeta(t, records, []string{"color"}, []string{"size"})
	encoded, err := Encode(records, meta)
	require.NoError(t, err)

	grown := append(records, RawRecord{"color": Str("green"), "size": Number(4)})
	staleMeta, err := ComputeStats(grown, meta)
	require.NoError(t, err)

	backend := cpu.New()
	_, err = Assemble(encoded, staleMeta, backend)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestAssemble_Empty(t *testing.T) {
	meta := preparedMeta(t, colorSizeRecords(), []string{"color"}, []string{"size"})
	backend := cpu.New()
	_, err := Assemble(nil, meta, backend)
	assert.Error(t, err)
}
