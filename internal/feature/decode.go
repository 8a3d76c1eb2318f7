package feature

import (
	"fmt"
	"sort"
)

// Prediction pairs one vocabulary label with the model's activation for it.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// DecodeClassification turns a model's raw output vector into labeled
// predictions ranked by descending confidence. Ties keep the original
// vocabulary order (the sort is stable).
//
// The output side of meta must consist of exactly one categorical column,
// and the raw vector length must equal its vocabulary size.
func DecodeClassification(raw []float32, meta *DatasetMeta) ([]Prediction, error) {
	col, err := classificationTarget(meta)
	if err != nil {
		return nil, err
	}
	if len(raw) != len(col.Vocabulary) {
		return nil, fmt.Errorf("%w: output has %d activations, vocabulary has %d labels",
			ErrShapeMismatch, len(raw), len(col.Vocabulary))
	}

	preds := make([]Prediction, len(raw))
	for i, label := range col.Vocabulary {
		preds[i] = Prediction{Label: label, Confidence: float64(raw[i])}
	}
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Confidence > preds[j].Confidence
	})
	return preds, nil
}

// DecodeRegression inverts the min-max normalization of every numeric
// output column, mapping the model's raw output vector back to the original
// value ranges keyed by column name.
func DecodeRegression(raw []float32, meta *DatasetMeta) (map[string]float64, error) {
	if len(raw) != meta.OutputUnits {
		return nil, fmt.Errorf("%w: output has %d values, meta declares %d",
			ErrShapeMismatch, len(raw), meta.OutputUnits)
	}

	out := make(map[string]float64, len(meta.OutputOrder))
	i := 0
	for _, name := range meta.OutputOrder {
		col := meta.Outputs[name]
		if col.Kind != ColumnNumeric {
			return nil, fmt.Errorf("regression output column %q is not numeric", name)
		}
		out[name] = col.denormalize(float64(raw[i]))
		i++
	}
	return out, nil
}

// classificationTarget returns the single categorical output column, or an
// error describing why the metadata cannot serve a classification task.
func classificationTarget(meta *DatasetMeta) (*ColumnMeta, error) {
	if len(meta.OutputOrder) != 1 {
		return nil, fmt.Errorf("classification requires exactly one output column, got %d", len(meta.OutputOrder))
	}
	col := meta.Outputs[meta.OutputOrder[0]]
	if col.Kind != ColumnCategorical {
		return nil, fmt.Errorf("classification output column %q is not categorical", col.Name)
	}
	return col, nil
}
