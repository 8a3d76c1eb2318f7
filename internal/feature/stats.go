package feature

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ComputeStats computes per-column statistics over the full dataset and
// returns a mutated copy of meta. The input meta is not modified.
//
// For every numeric column it records min and max across all rows (the
// inputs to min-max normalization). For every categorical column it
// re-validates the vocabulary against the complete dataset, appending any
// value the schema pass did not see, still in first-seen order.
//
// A constant numeric column (min == max) is legal; Encode resolves it to 0
// instead of dividing by zero.
func ComputeStats(records []RawRecord, meta *DatasetMeta) (*DatasetMeta, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("cannot compute statistics over an empty dataset")
	}

	out := meta.Clone()
	for _, name := range out.InputOrder {
		if err := statsColumn(records, out.Inputs[name]); err != nil {
			return nil, err
		}
	}
	for _, name := range out.OutputOrder {
		if err := statsColumn(records, out.Outputs[name]); err != nil {
			return nil, err
		}
	}
	out.recomputeUnits()
	return out, nil
}

func statsColumn(records []RawRecord, col *ColumnMeta) error {
	switch col.Kind {
	case ColumnNumeric:
		vals := make([]float64, 0, len(records))
		for i, rec := range records {
			v, ok := rec[col.Name]
			if !ok || v.Kind() == ValueMissing {
				continue
			}
			if v.Kind() != ValueNumber {
				return fmt.Errorf("%w: column %q is numeric but row %d holds %q",
					ErrColumnTypeAmbiguous, col.Name, i, v.Text())
			}
			vals = append(vals, v.Float())
		}
		if len(vals) == 0 {
			return fmt.Errorf("%w: column %q has no values", ErrMissingValue, col.Name)
		}
		col.Min = floats.Min(vals)
		col.Max = floats.Max(vals)

	case ColumnCategorical:
		for i, rec := range records {
			v, ok := rec[col.Name]
			if !ok || v.Kind() == ValueMissing {
				continue
			}
			if v.Kind() != ValueString {
				return fmt.Errorf("%w: column %q is categorical but row %d holds %v",
					ErrColumnTypeAmbiguous, col.Name, i, v)
			}
			col.addVocab(v.Text())
		}
		if len(col.Vocabulary) == 0 {
			return fmt.Errorf("%w: column %q has no values", ErrMissingValue, col.Name)
		}
	}
	return nil
}
