package feature

import (
	"fmt"
)

// InferSchema scans the ordered raw dataset and produces a ColumnMeta for
// every input and output column.
//
// The dtype rule: a column's kind is the kind of the first non-missing value
// observed in row order. Any later value of the other kind fails with
// ErrColumnTypeAmbiguous — mixed columns are never silently reconciled.
// For categorical columns the vocabulary is collected in first-seen order,
// so the assignment of one-hot indices is deterministic for a given row
// order.
//
// InferSchema is a pure function over the dataset; min/max statistics are
// filled in later by ComputeStats.
func InferSchema(records []RawRecord, inputCols, outputCols []string) (*DatasetMeta, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("cannot infer schema from an empty dataset")
	}
	if len(inputCols) == 0 || len(outputCols) == 0 {
		return nil, fmt.Errorf("input and output column lists must be non-empty")
	}

	meta := &DatasetMeta{
		InputOrder:  append([]string(nil), inputCols...),
		OutputOrder: append([]string(nil), outputCols...),
		Inputs:      make(map[string]*ColumnMeta, len(inputCols)),
		Outputs:     make(map[string]*ColumnMeta, len(outputCols)),
	}

	for _, name := range inputCols {
		col, err := inferColumn(records, name)
		if err != nil {
			return nil, err
		}
		meta.Inputs[name] = col
	}
	for _, name := range outputCols {
		col, err := inferColumn(records, name)
		if err != nil {
			return nil, err
		}
		meta.Outputs[name] = col
	}

	meta.recomputeUnits()
	return meta, nil
}

// inferColumn derives one ColumnMeta by walking every row of the column.
func inferColumn(records []RawRecord, name string) (*ColumnMeta, error) {
	col := &ColumnMeta{Name: name}
	seen := false

	for i, rec := range records {
		v, ok := rec[name]
		if !ok || v.Kind() == ValueMissing {
			continue
		}

		if !seen {
			seen = true
			switch v.Kind() {
			case ValueNumber:
				col.Kind = ColumnNumeric
			case ValueString:
				col.Kind = ColumnCategorical
			}
		}

		switch {
		case col.Kind == ColumnNumeric && v.Kind() != ValueNumber:
			return nil, fmt.Errorf("%w: column %q is numeric but row %d holds %q",
				ErrColumnTypeAmbiguous, name, i, v.Text())
		case col.Kind == ColumnCategorical && v.Kind() != ValueString:
			return nil, fmt.Errorf("%w: column %q is categorical but row %d holds %v",
				ErrColumnTypeAmbiguous, name, i, v)
		}

		if col.Kind == ColumnCategorical {
			col.addVocab(v.Text())
		}
	}

	if !seen {
		return nil, fmt.Errorf("%w: column %q has no values", ErrMissingValue, name)
	}
	return col, nil
}
