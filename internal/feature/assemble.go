package feature

import (
	"fmt"

	"github.com/born-ml/born/tensor"
)

// TrainingTensor holds the stacked training data: inputs with shape
// [rows, InputUnits] and outputs with shape [rows, OutputUnits], row-major.
// It is never mutated after assembly.
//
// The underlying buffers belong to the external tensor library; call
// Release once training no longer needs them.
type TrainingTensor[B tensor.Backend] struct {
	Inputs  *tensor.Tensor[float32, B]
	Outputs *tensor.Tensor[float32, B]
	Rows    int
}

// Release returns the tensor buffers to the library. The TrainingTensor
// must not be used afterwards.
func (t *TrainingTensor[B]) Release() {
	if t.Inputs != nil {
		t.Inputs.Raw().Release()
		t.Inputs = nil
	}
	if t.Outputs != nil {
		t.Outputs.Raw().Release()
		t.Outputs = nil
	}
}

// Assemble stacks encoded records into the two training tensors.
//
// Every row must match the feature widths declared in meta; a divergent row
// fails with ErrShapeMismatch, which happens when metadata changed (for
// example a vocabulary grew) after the row was encoded. Re-encode all rows
// against the current meta to recover.
func Assemble[B tensor.Backend](encoded []EncodedRecord, meta *DatasetMeta, backend B) (*TrainingTensor[B], error) {
	if len(encoded) == 0 {
		return nil, fmt.Errorf("cannot assemble an empty dataset")
	}

	rows := len(encoded)
	inputs := make([]float32, 0, rows*meta.InputUnits)
	outputs := make([]float32, 0, rows*meta.OutputUnits)

	for i, rec := range encoded {
		if len(rec.Input) != meta.InputUnits {
			return nil, fmt.Errorf("%w: row %d input has %d features, meta declares %d (re-encode against current metadata)",
				ErrShapeMismatch, i, len(rec.Input), meta.InputUnits)
		}
		if len(rec.Output) != meta.OutputUnits {
			return nil, fmt.Errorf("%w: row %d output has %d features, meta declares %d (re-encode against current metadata)",
				ErrShapeMismatch, i, len(rec.Output), meta.OutputUnits)
		}
		for _, v := range rec.Input {
			inputs = append(inputs, float32(v))
		}
		for _, v := range rec.Output {
			outputs = append(outputs, float32(v))
		}
	}

	inputTensor, err := tensor.FromSlice(inputs, tensor.Shape{rows, meta.InputUnits}, backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	outputTensor, err := tensor.FromSlice(outputs, tensor.Shape{rows, meta.OutputUnits}, backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	return &TrainingTensor[B]{
		Inputs:  inputTensor,
		Outputs: outputTensor,
		Rows:    rows,
	}, nil
}
