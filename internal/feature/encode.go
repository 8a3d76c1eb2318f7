package feature

import (
	"fmt"
)

// EncodedRecord is one raw record rewritten as flat numeric feature vectors,
// an input part and an output part. Vector lengths equal the InputUnits and
// OutputUnits of the DatasetMeta the record was encoded against, and the
// element order follows the meta's column order exactly.
type EncodedRecord struct {
	Input  []float64
	Output []float64
}

// Encode rewrites every raw record into an EncodedRecord using meta.
//
// Numeric columns are min-max normalized to [0, 1] over the training range;
// a constant column (min == max) encodes to 0 rather than NaN. Categorical
// columns expand into a one-hot sub-vector of length |vocabulary|. A value
// absent from the vocabulary fails with ErrValueNotInVocabulary and a
// missing cell fails with ErrMissingValue.
//
// The derivation is shared with EncodeOne, so training rows and later
// inference samples are guaranteed the same length and column order.
func Encode(records []RawRecord, meta *DatasetMeta) ([]EncodedRecord, error) {
	out := make([]EncodedRecord, len(records))
	for i, rec := range records {
		enc, err := EncodeOne(rec, meta)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = enc
	}
	return out, nil
}

// EncodeOne encodes a single record — the inference path. It applies the
// exact same derivation as Encode.
func EncodeOne(rec RawRecord, meta *DatasetMeta) (EncodedRecord, error) {
	input, err := encodeColumns(rec, meta.InputOrder, meta.Inputs, meta.InputUnits)
	if err != nil {
		return EncodedRecord{}, err
	}
	output, err := encodeColumns(rec, meta.OutputOrder, meta.Outputs, meta.OutputUnits)
	if err != nil {
		return EncodedRecord{}, err
	}
	return EncodedRecord{Input: input, Output: output}, nil
}

// EncodeInput encodes only the input part of a record, for prediction
// samples that carry no target columns.
func EncodeInput(rec RawRecord, meta *DatasetMeta) ([]float64, error) {
	return encodeColumns(rec, meta.InputOrder, meta.Inputs, meta.InputUnits)
}

func encodeColumns(rec RawRecord, order []string, cols map[string]*ColumnMeta, units int) ([]float64, error) {
	vec := make([]float64, 0, units)
	for _, name := range order {
		col := cols[name]
		v, ok := rec[name]
		if !ok || v.Kind() == ValueMissing {
			return nil, fmt.Errorf("%w: column %q", ErrMissingValue, name)
		}
		var err error
		vec, err = col.encodeValue(v, vec)
		if err != nil {
			return nil, err
		}
	}
	return vec, nil
}

// encodeValue appends the encoded sub-vector for v to dst.
func (c *ColumnMeta) encodeValue(v Value, dst []float64) ([]float64, error) {
	switch c.Kind {
	case ColumnNumeric:
		if v.Kind() != ValueNumber {
			return nil, fmt.Errorf("%w: column %q expects a number, got %q",
				ErrColumnTypeAmbiguous, c.Name, v.Text())
		}
		return append(dst, c.normalize(v.Float())), nil

	case ColumnCategorical:
		if v.Kind() != ValueString {
			return nil, fmt.Errorf("%w: column %q expects a string, got %v",
				ErrColumnTypeAmbiguous, c.Name, v)
		}
		idx, ok := c.VocabIndex(v.Text())
		if !ok {
			return nil, fmt.Errorf("%w: column %q value %q",
				ErrValueNotInVocabulary, c.Name, v.Text())
		}
		hot := make([]float64, len(c.Vocabulary))
		hot[idx] = 1
		return append(dst, hot...), nil
	}
	return nil, fmt.Errorf("column %q has unknown kind %v", c.Name, c.Kind)
}

// normalize rescales v to [0, 1] over the column's training range. A
// constant column resolves to 0. Values outside the training range pass
// through un-clamped; callers see >1 or <0 rather than silent saturation.
func (c *ColumnMeta) normalize(v float64) float64 {
	if c.Max == c.Min {
		return 0
	}
	return (v - c.Min) / (c.Max - c.Min)
}

// denormalize inverts normalize. For a constant column every prediction
// inverts to the column's single observed value.
func (c *ColumnMeta) denormalize(v float64) float64 {
	if c.Max == c.Min {
		return c.Min
	}
	return v*(c.Max-c.Min) + c.Min
}
