package train

import (
	"fmt"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// Predict runs a single encoded sample through the model and returns a copy
// of the raw output activations. For classification the logits are passed
// through softmax, so the result is a probability distribution over the
// output vocabulary; for regression the activations are the normalized
// predictions.
//
// Gradient recording is suspended for the duration of the call and restored
// afterwards.
func Predict[B tensor.Backend](
	model *nn.Sequential[*autodiff.Backend[B]],
	input []float64,
	task Task,
	backend *autodiff.Backend[B],
) ([]float32, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("empty input vector")
	}

	wasRecording := backend.Tape().IsRecording()
	backend.Tape().StopRecording()
	defer func() {
		if wasRecording {
			backend.Tape().StartRecording()
		}
	}()

	row := make([]float32, len(input))
	for i, v := range input {
		row[i] = float32(v)
	}
	x, err := tensor.FromSlice(row, tensor.Shape{1, len(row)}, backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer x.Raw().Release()

	out := model.Forward(x)

	raw := out.Raw()
	if task == TaskClassification {
		raw = backend.Softmax(raw)
	}
	return append([]float32(nil), raw.AsFloat32()...), nil
}
