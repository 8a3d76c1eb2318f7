package train

import (
	"fmt"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/sprout/internal/feature"
)

// Backend is the concrete backend a sprout session trains on: the CPU
// backend wrapped with Born's gradient tape.
type Backend = *autodiff.Backend[*cpu.Backend]

// NewBackend creates the session backend.
func NewBackend() Backend {
	return autodiff.New(cpu.New())
}

// BuildModel constructs a feed-forward network for the dataset: InputUnits
// features in, the configured hidden layers, OutputUnits out. The output
// layer is linear; classification consumes the raw logits (softmax is
// applied at prediction time, and cross-entropy handles it internally
// during training).
func BuildModel[B tensor.Backend](meta *feature.DatasetMeta, cfg Config, backend B) (*nn.Sequential[B], error) {
	if meta.InputUnits <= 0 || meta.OutputUnits <= 0 {
		return nil, fmt.Errorf("metadata has no feature widths; run the stats pass first")
	}

	model := nn.NewSequential[B]()
	in := meta.InputUnits
	for _, layer := range cfg.HiddenLayers {
		model.Add(nn.NewLinear(in, layer.Units, backend))
		act, err := activationModule[B](layer.Activation)
		if err != nil {
			return nil, err
		}
		model.Add(act)
		in = layer.Units
	}
	model.Add(nn.NewLinear(in, meta.OutputUnits, backend))
	return model, nil
}

func activationModule[B tensor.Backend](name string) (nn.Module[B], error) {
	switch name {
	case "relu":
		return nn.NewReLU[B](), nil
	case "sigmoid":
		return nn.NewSigmoid[B](), nil
	case "tanh":
		return nn.NewTanh[B](), nil
	default:
		return nil, fmt.Errorf("unknown activation %q", name)
	}
}

// ValidateTask checks that the dataset's output columns can serve the
// configured task: classification needs exactly one categorical output
// column with at least two labels, regression needs all-numeric outputs.
func ValidateTask(meta *feature.DatasetMeta, task Task) error {
	switch task {
	case TaskClassification:
		if len(meta.OutputOrder) != 1 {
			return fmt.Errorf("classification requires exactly one output column, got %d", len(meta.OutputOrder))
		}
		col := meta.Outputs[meta.OutputOrder[0]]
		if col.Kind != feature.ColumnCategorical {
			return fmt.Errorf("classification output column %q is not categorical", col.Name)
		}
		if len(col.Vocabulary) < 2 {
			return fmt.Errorf("classification output column %q has %d label(s), need at least 2", col.Name, len(col.Vocabulary))
		}
	case TaskRegression:
		for _, name := range meta.OutputOrder {
			if meta.Outputs[name].Kind != feature.ColumnNumeric {
				return fmt.Errorf("regression output column %q is not numeric", name)
			}
		}
	default:
		return fmt.Errorf("unknown task %q", task)
	}
	return nil
}
