package train

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/optim"
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/sprout/internal/feature"
)

// ProgressFunc receives the mean batch loss after each epoch.
type ProgressFunc func(epoch int, loss float64)

// miniBatch holds the tensors for one training step. labels is only set
// for classification (class indices derived from the one-hot targets).
type miniBatch[B tensor.Backend] struct {
	inputs  *tensor.Tensor[float32, B]
	targets *tensor.Tensor[float32, B]
	labels  *tensor.Tensor[int32, B]
	size    int
}

func (b *miniBatch[B]) release() {
	b.inputs.Raw().Release()
	b.targets.Raw().Release()
	if b.labels != nil {
		b.labels.Raw().Release()
	}
}

// Fit trains model on the assembled dataset.
//
// Classification minimizes cross-entropy over the class indices implied by
// the one-hot output rows; regression minimizes mean squared error against
// the normalized targets. Both run mini-batched with gradients recorded on
// the backend's tape. Cancellation is checked between epochs; batch tensor
// buffers are released before Fit returns.
func Fit[B tensor.Backend](
	ctx context.Context,
	model *nn.Sequential[*autodiff.Backend[B]],
	data *feature.TrainingTensor[*autodiff.Backend[B]],
	cfg Config,
	backend *autodiff.Backend[B],
	progress ProgressFunc,
) error {
	if data == nil || data.Rows == 0 {
		return fmt.Errorf("no training data")
	}

	batches, err := makeBatches(data, cfg, backend)
	if err != nil {
		return err
	}
	defer func() {
		for _, b := range batches {
			b.release()
		}
	}()

	optimizer, err := newOptimizer(model, cfg, backend)
	if err != nil {
		return err
	}

	backend.Tape().StartRecording()
	defer backend.Tape().StopRecording()

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		totalLoss := 0.0
		for _, b := range batches {
			optimizer.ZeroGrad()

			logits := model.Forward(b.inputs)

			var loss float64
			if cfg.Task == TaskClassification {
				loss, err = stepCrossEntropy(logits, b, optimizer, backend)
			} else {
				loss, err = stepSquaredError(logits, b, optimizer, backend)
			}
			if err != nil {
				return err
			}
			totalLoss += loss

			backend.Tape().Clear()
		}

		if progress != nil {
			progress(epoch+1, totalLoss/float64(len(batches)))
		}
	}
	return nil
}

// stepCrossEntropy computes the cross-entropy loss, backpropagates, and
// applies one optimizer step. Returns the scalar loss value.
func stepCrossEntropy[B tensor.Backend](
	logits *tensor.Tensor[float32, *autodiff.Backend[B]],
	b *miniBatch[*autodiff.Backend[B]],
	optimizer optim.Optimizer,
	backend *autodiff.Backend[B],
) (float64, error) {
	lossRaw := backend.CrossEntropy(logits.Raw(), b.labels.Raw())
	loss := float64(lossRaw.AsFloat32()[0])

	// Scalar loss: seed backpropagation with a gradient of one.
	outputGrad, err := tensor.NewRaw(lossRaw.Shape(), lossRaw.DType(), backend.Device())
	if err != nil {
		return 0, fmt.Errorf("failed to create output gradient: %w", err)
	}
	defer outputGrad.Release()
	outputGrad.AsFloat32()[0] = 1.0

	grads := backend.Tape().Backward(outputGrad, backend)
	optimizer.Step(grads)
	return loss, nil
}

// stepSquaredError computes mean squared error against the normalized
// targets. The subtraction and square are recorded on the tape; seeding
// backpropagation with a uniform 1/N gradient makes the objective the mean
// over all output elements without needing a recorded reduction.
func stepSquaredError[B tensor.Backend](
	logits *tensor.Tensor[float32, *autodiff.Backend[B]],
	b *miniBatch[*autodiff.Backend[B]],
	optimizer optim.Optimizer,
	backend *autodiff.Backend[B],
) (float64, error) {
	diff := logits.Sub(b.targets)
	squared := diff.Mul(diff)

	values := squared.Raw().AsFloat32()
	sum := 0.0
	for _, v := range values {
		sum += float64(v)
	}
	loss := sum / float64(len(values))

	outputGrad, err := tensor.NewRaw(squared.Shape(), squared.DType(), backend.Device())
	if err != nil {
		return 0, fmt.Errorf("failed to create output gradient: %w", err)
	}
	defer outputGrad.Release()
	grad := outputGrad.AsFloat32()
	scale := float32(1.0) / float32(len(grad))
	for i := range grad {
		grad[i] = scale
	}

	grads := backend.Tape().Backward(outputGrad, backend)
	optimizer.Step(grads)
	return loss, nil
}

func newOptimizer[B tensor.Backend](
	model *nn.Sequential[*autodiff.Backend[B]],
	cfg Config,
	backend *autodiff.Backend[B],
) (optim.Optimizer, error) {
	switch cfg.Optimizer {
	case "sgd":
		return optim.NewSGD(model.Parameters(), optim.SGDConfig{
			LR: float32(cfg.LearningRate),
		}, backend), nil
	case "adam":
		return optim.NewAdam(model.Parameters(), optim.AdamConfig{
			LR:    float32(cfg.LearningRate),
			Betas: [2]float32{0.9, 0.999},
			Eps:   1e-8,
		}, backend), nil
	default:
		return nil, fmt.Errorf("unknown optimizer %q", cfg.Optimizer)
	}
}

// makeBatches shuffles the rows and splits them into mini-batches, copying
// out of the assembled tensors. The last batch may be smaller.
func makeBatches[B tensor.Backend](
	data *feature.TrainingTensor[*autodiff.Backend[B]],
	cfg Config,
	backend *autodiff.Backend[B],
) ([]*miniBatch[*autodiff.Backend[B]], error) {
	inShape := data.Inputs.Shape()
	outShape := data.Outputs.Shape()
	rows, inUnits, outUnits := inShape[0], inShape[1], outShape[1]

	inputs := data.Inputs.Raw().AsFloat32()
	outputs := data.Outputs.Raw().AsFloat32()

	perm := rand.Perm(rows)

	var batches []*miniBatch[*autodiff.Backend[B]]
	for start := 0; start < rows; start += cfg.BatchSize {
		end := start + cfg.BatchSize
		if end > rows {
			end = rows
		}
		size := end - start

		batchIn := make([]float32, 0, size*inUnits)
		batchOut := make([]float32, 0, size*outUnits)
		for i := start; i < end; i++ {
			row := perm[i]
			batchIn = append(batchIn, inputs[row*inUnits:(row+1)*inUnits]...)
			batchOut = append(batchOut, outputs[row*outUnits:(row+1)*outUnits]...)
		}

		inTensor, err := tensor.FromSlice(batchIn, tensor.Shape{size, inUnits}, backend)
		if err != nil {
			return nil, fmt.Errorf("failed to create batch inputs: %w", err)
		}
		outTensor, err := tensor.FromSlice(batchOut, tensor.Shape{size, outUnits}, backend)
		if err != nil {
			return nil, fmt.Errorf("failed to create batch targets: %w", err)
		}

		b := &miniBatch[*autodiff.Backend[B]]{
			inputs:  inTensor,
			targets: outTensor,
			size:    size,
		}

		if cfg.Task == TaskClassification {
			labels := make([]int32, size)
			for i := 0; i < size; i++ {
				labels[i] = argmaxRow(batchOut[i*outUnits : (i+1)*outUnits])
			}
			labelTensor, err := tensor.FromSlice(labels, tensor.Shape{size}, backend)
			if err != nil {
				return nil, fmt.Errorf("failed to create batch labels: %w", err)
			}
			b.labels = labelTensor
		}

		batches = append(batches, b)
	}
	return batches, nil
}

// argmaxRow returns the index of the 1 in a one-hot row.
func argmaxRow(row []float32) int32 {
	best := 0
	for i, v := range row {
		if v > row[best] {
			best = i
		}
	}
	return int32(best)
}
