// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package feature exposes the tabular feature pipeline: schema inference,
// dataset statistics, min-max normalization and one-hot encoding, tensor
// assembly, and output decoding. It is the same pipeline the sprout session
// object uses, for callers who want the data preparation without the
// high-level API.
package feature

import (
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/sprout/internal/feature"
)

// Value is a tagged scalar cell: a number, a string, or missing.
type Value = feature.Value

// ValueKind discriminates the three Value variants.
type ValueKind = feature.ValueKind

const (
	ValueMissing = feature.ValueMissing
	ValueNumber  = feature.ValueNumber
	ValueString  = feature.ValueString
)

// Number creates a numeric Value.
func Number(v float64) Value { return feature.Number(v) }

// Str creates a string Value.
func Str(s string) Value { return feature.Str(s) }

// Missing creates a missing Value.
func Missing() Value { return feature.Missing() }

// FromAny converts a Go value (any numeric type, string, or nil) to a Value.
func FromAny(x any) (Value, error) { return feature.FromAny(x) }

// RawRecord maps column names to cell values. Column order always comes
// from DatasetMeta, never from map iteration.
type RawRecord = feature.RawRecord

// ColumnKind is the inferred dtype of a column.
type ColumnKind = feature.ColumnKind

const (
	ColumnNumeric     = feature.ColumnNumeric
	ColumnCategorical = feature.ColumnCategorical
)

// ColumnMeta holds the per-column encoding parameters: the kind, the
// numeric range, or the first-seen-ordered vocabulary.
type ColumnMeta = feature.ColumnMeta

// DatasetMeta is the full encoding contract of a dataset: column order,
// per-column metadata, and the derived feature widths.
type DatasetMeta = feature.DatasetMeta

// EncodedRecord is one row as flat input and output feature vectors.
type EncodedRecord = feature.EncodedRecord

// TrainingTensor holds the assembled dataset as Born tensors of shape
// [rows, InputUnits] and [rows, OutputUnits].
type TrainingTensor[B tensor.Backend] = feature.TrainingTensor[B]

// Prediction is one decoded classification result.
type Prediction = feature.Prediction

// Sentinel errors returned by the pipeline.
var (
	ErrColumnTypeAmbiguous  = feature.ErrColumnTypeAmbiguous
	ErrMissingValue         = feature.ErrMissingValue
	ErrValueNotInVocabulary = feature.ErrValueNotInVocabulary
	ErrShapeMismatch        = feature.ErrShapeMismatch
)

// InferSchema derives column kinds and vocabularies from the dataset. The
// first non-missing value fixes a column's kind; later mismatches fail with
// ErrColumnTypeAmbiguous.
func InferSchema(records []RawRecord, inputCols, outputCols []string) (*DatasetMeta, error) {
	return feature.InferSchema(records, inputCols, outputCols)
}

// ComputeStats returns a copy of meta with numeric min/max ranges and
// vocabularies computed over the full dataset.
func ComputeStats(records []RawRecord, meta *DatasetMeta) (*DatasetMeta, error) {
	return feature.ComputeStats(records, meta)
}

// Encode normalizes and one-hot encodes every record against meta.
func Encode(records []RawRecord, meta *DatasetMeta) ([]EncodedRecord, error) {
	return feature.Encode(records, meta)
}

// EncodeOne encodes a single record with both input and output columns,
// using exactly the same derivation as Encode.
func EncodeOne(rec RawRecord, meta *DatasetMeta) (EncodedRecord, error) {
	return feature.EncodeOne(rec, meta)
}

// EncodeInput encodes the input columns of a single sample, for inference.
func EncodeInput(rec RawRecord, meta *DatasetMeta) ([]float64, error) {
	return feature.EncodeInput(rec, meta)
}

// Assemble stacks encoded records row-major into Born tensors.
func Assemble[B tensor.Backend](encoded []EncodedRecord, meta *DatasetMeta, backend B) (*TrainingTensor[B], error) {
	return feature.Assemble(encoded, meta, backend)
}

// DecodeClassification ranks the output vocabulary by the model's
// activations, best first, with stable ties.
func DecodeClassification(raw []float32, meta *DatasetMeta) ([]Prediction, error) {
	return feature.DecodeClassification(raw, meta)
}

// DecodeRegression inverts min-max normalization per numeric output column.
func DecodeRegression(raw []float32, meta *DatasetMeta) (map[string]float64, error) {
	return feature.DecodeRegression(raw, meta)
}

// SaveMeta persists dataset metadata to path as JSON.
func SaveMeta(m *DatasetMeta, path string) error { return feature.SaveMeta(m, path) }

// LoadMeta restores dataset metadata saved by SaveMeta.
func LoadMeta(path string) (*DatasetMeta, error) { return feature.LoadMeta(path) }
