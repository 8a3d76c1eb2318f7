package feature

import "errors"

// Pipeline error taxonomy. Ingestion and shape errors are fatal to the
// current operation; there is no partial or degraded result and no retry.
var (
	// ErrColumnTypeAmbiguous reports a column whose rows mix numeric and
	// string values. The pipeline fails fast instead of silently picking
	// one interpretation.
	ErrColumnTypeAmbiguous = errors.New("column type is ambiguous")

	// ErrMissingValue reports a missing cell where a value is required.
	// The pipeline does not impute.
	ErrMissingValue = errors.New("missing value")

	// ErrValueNotInVocabulary reports a categorical value at encoding time
	// that was not present in the vocabulary built from the training data.
	ErrValueNotInVocabulary = errors.New("value not in vocabulary")

	// ErrShapeMismatch reports an encoded row whose length disagrees with
	// the feature widths declared in DatasetMeta, which happens when
	// metadata changed after the row was encoded.
	ErrShapeMismatch = errors.New("shape mismatch")
)
