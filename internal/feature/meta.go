package feature

import (
	"encoding/json"
	"fmt"
	"os"
)

// ColumnKind classifies a column as numeric or categorical.
type ColumnKind int

// Column kinds.
const (
	ColumnNumeric ColumnKind = iota
	ColumnCategorical
)

// String implements fmt.Stringer.
func (k ColumnKind) String() string {
	switch k {
	case ColumnNumeric:
		return "numeric"
	case ColumnCategorical:
		return "categorical"
	default:
		return fmt.Sprintf("ColumnKind(%d)", int(k))
	}
}

// MarshalJSON encodes the kind as its string name.
func (k ColumnKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes the kind from its string name.
func (k *ColumnKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "numeric":
		*k = ColumnNumeric
	case "categorical":
		*k = ColumnCategorical
	default:
		return fmt.Errorf("unknown column kind %q", s)
	}
	return nil
}

// ColumnMeta describes one named column: its kind, and either the min/max
// normalization statistics (numeric) or the vocabulary (categorical).
//
// The vocabulary is the ordered set of distinct values in first-seen order;
// a value's one-hot index is its position in the slice. The kind is fixed
// for the lifetime of a dataset once inferred.
type ColumnMeta struct {
	Name       string     `json:"name"`
	Kind       ColumnKind `json:"kind"`
	Min        float64    `json:"min,omitempty"`
	Max        float64    `json:"max,omitempty"`
	Vocabulary []string   `json:"vocabulary,omitempty"`

	vocabIndex map[string]int
}

// Units returns the post-encoding feature width of the column: 1 for a
// numeric column, the vocabulary size for a categorical one.
func (c *ColumnMeta) Units() int {
	if c.Kind == ColumnCategorical {
		return len(c.Vocabulary)
	}
	return 1
}

// VocabIndex returns the one-hot index of value and whether it is present.
func (c *ColumnMeta) VocabIndex(value string) (int, bool) {
	idx, ok := c.vocabIndex[value]
	return idx, ok
}

// addVocab appends value to the vocabulary if unseen, preserving first-seen
// order.
func (c *ColumnMeta) addVocab(value string) {
	if c.vocabIndex == nil {
		c.vocabIndex = make(map[string]int)
	}
	if _, ok := c.vocabIndex[value]; ok {
		return
	}
	c.vocabIndex[value] = len(c.Vocabulary)
	c.Vocabulary = append(c.Vocabulary, value)
}

// rebuildIndex reconstructs the value→index map from the vocabulary slice,
// e.g. after JSON decoding.
func (c *ColumnMeta) rebuildIndex() {
	c.vocabIndex = make(map[string]int, len(c.Vocabulary))
	for i, v := range c.Vocabulary {
		c.vocabIndex[v] = i
	}
}

// clone returns a deep copy.
func (c *ColumnMeta) clone() *ColumnMeta {
	out := &ColumnMeta{
		Name: c.Name,
		Kind: c.Kind,
		Min:  c.Min,
		Max:  c.Max,
	}
	out.Vocabulary = append([]string(nil), c.Vocabulary...)
	out.rebuildIndex()
	return out
}

// DatasetMeta is the full per-column descriptor set plus the derived total
// feature widths. It is the single source of truth for train/inference
// consistency: the InputOrder and OutputOrder slices fix the concatenation
// order of encoded sub-vectors, and the same DatasetMeta must be used to
// encode training rows and later single inference samples.
type DatasetMeta struct {
	InputOrder  []string               `json:"inputOrder"`
	OutputOrder []string               `json:"outputOrder"`
	Inputs      map[string]*ColumnMeta `json:"inputs"`
	Outputs     map[string]*ColumnMeta `json:"outputs"`
	InputUnits  int                    `json:"inputUnits"`
	OutputUnits int                    `json:"outputUnits"`
}

// Clone returns a deep copy of the metadata.
func (m *DatasetMeta) Clone() *DatasetMeta {
	out := &DatasetMeta{
		InputOrder:  append([]string(nil), m.InputOrder...),
		OutputOrder: append([]string(nil), m.OutputOrder...),
		Inputs:      make(map[string]*ColumnMeta, len(m.Inputs)),
		Outputs:     make(map[string]*ColumnMeta, len(m.Outputs)),
		InputUnits:  m.InputUnits,
		OutputUnits: m.OutputUnits,
	}
	for name, col := range m.Inputs {
		out.Inputs[name] = col.clone()
	}
	for name, col := range m.Outputs {
		out.Outputs[name] = col.clone()
	}
	return out
}

// recomputeUnits refreshes the derived feature widths. It must be called
// whenever any ColumnMeta changes.
func (m *DatasetMeta) recomputeUnits() {
	m.InputUnits = 0
	for _, name := range m.InputOrder {
		m.InputUnits += m.Inputs[name].Units()
	}
	m.OutputUnits = 0
	for _, name := range m.OutputOrder {
		m.OutputUnits += m.Outputs[name].Units()
	}
}

// SaveMeta writes the metadata as JSON to path.
//
// Persisting DatasetMeta preserves the encoding contract (column order,
// vocabularies, normalization ranges) across process restarts.
func SaveMeta(m *DatasetMeta, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// LoadMeta reads metadata previously written by SaveMeta.
func LoadMeta(path string) (*DatasetMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	var m DatasetMeta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	for _, col := range m.Inputs {
		col.rebuildIndex()
	}
	for _, col := range m.Outputs {
		col.rebuildIndex()
	}
	m.recomputeUnits()
	return &m, nil
}
