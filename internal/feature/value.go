// Package feature implements the tabular feature pipeline: schema inference,
// normalization statistics, one-hot encoding, tensor assembly, and output
// decoding.
//
// The pipeline turns ordered raw records into fixed-shape numeric tensors and
// guarantees that the single-sample inference path produces vectors with the
// exact same length and column order as the training tensors. Column order is
// carried explicitly in DatasetMeta and is never derived from map iteration.
package feature

import (
	"fmt"
)

// ValueKind identifies the variant stored in a Value.
type ValueKind int

// Value variants.
const (
	ValueMissing ValueKind = iota
	ValueNumber
	ValueString
)

// Value is a tagged scalar cell of a raw record: a number, a categorical
// string, or missing. Values are resolved once at the ingestion boundary;
// the pipeline never re-interprets them.
type Value struct {
	kind ValueKind
	num  float64
	str  string
}

// Number creates a numeric Value.
func Number(v float64) Value {
	return Value{kind: ValueNumber, num: v}
}

// Str creates a categorical string Value.
func Str(s string) Value {
	return Value{kind: ValueString, str: s}
}

// Missing creates a missing Value.
func Missing() Value {
	return Value{kind: ValueMissing}
}

// Kind returns the variant stored in the Value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Float returns the numeric payload. Only meaningful for ValueNumber.
func (v Value) Float() float64 {
	return v.num
}

// Text returns the string payload. Only meaningful for ValueString.
func (v Value) Text() string {
	return v.str
}

// String implements fmt.Stringer for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case ValueNumber:
		return fmt.Sprintf("%g", v.num)
	case ValueString:
		return v.str
	default:
		return "<missing>"
	}
}

// FromAny converts a dynamically typed scalar into a Value.
//
// Numbers (all Go integer and float types) become ValueNumber, strings become
// ValueString, and nil becomes ValueMissing. Anything else is rejected.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Missing(), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Number(float64(t)), nil
	case int8:
		return Number(float64(t)), nil
	case int16:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint8:
		return Number(float64(t)), nil
	case uint16:
		return Number(float64(t)), nil
	case uint32:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case string:
		return Str(t), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", x)
	}
}

// RawRecord maps column names to cell values for one row of the raw dataset.
//
// A RawRecord carries no ordering of its own; iteration order always comes
// from the column order stored in DatasetMeta or from the caller's explicit
// column lists.
type RawRecord map[string]Value
