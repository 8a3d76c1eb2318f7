// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package sprout

import (
	"context"
	"fmt"
	"sort"

	"github.com/born-ml/born/nn"

	"github.com/born-ml/sprout/internal/dataset"
	"github.com/born-ml/sprout/internal/feature"
	"github.com/born-ml/sprout/internal/train"
)

// Prediction is one ranked classification result: a label from the output
// vocabulary and its probability.
type Prediction = feature.Prediction

// Layer describes one hidden layer of the network.
type Layer struct {
	Units      int
	Activation string // "relu", "sigmoid", or "tanh"
}

// Config configures a NeuralNetwork session. The zero value of every field
// except Task is replaced with a sensible default: one hidden layer of 16
// relu units, the adam optimizer with learning rate 0.001 (0.1 for sgd),
// batch size 32, 25 epochs.
type Config struct {
	Task         string // "classification" or "regression"
	LearningRate float64
	BatchSize    int
	Epochs       int
	Optimizer    string // "adam" or "sgd"
	HiddenLayers []Layer
}

func (c Config) toTrainConfig() train.Config {
	layers := make([]train.LayerSpec, len(c.HiddenLayers))
	for i, l := range c.HiddenLayers {
		layers[i] = train.LayerSpec{Units: l.Units, Activation: l.Activation}
	}
	return train.Config{
		Task:         train.Task(c.Task),
		LearningRate: c.LearningRate,
		BatchSize:    c.BatchSize,
		Epochs:       c.Epochs,
		Optimizer:    c.Optimizer,
		HiddenLayers: layers,
	}.WithDefaults()
}

// TrainOption customizes a Train call.
type TrainOption func(*trainOptions)

type trainOptions struct {
	progress train.ProgressFunc
}

// WithProgress registers a callback invoked after every epoch with the
// epoch number (1-based) and the mean batch loss.
func WithProgress(fn func(epoch int, loss float64)) TrainOption {
	return func(o *trainOptions) { o.progress = train.ProgressFunc(fn) }
}

// NeuralNetwork is a training session: accumulated raw data, the derived
// encoding metadata, and (after Train) a fitted model. It is not safe for
// concurrent use.
type NeuralNetwork struct {
	cfg     train.Config
	backend train.Backend

	inputCols  []string
	outputCols []string
	records    []feature.RawRecord

	meta    *feature.DatasetMeta
	encoded []feature.EncodedRecord
	stale   bool

	model *nn.Sequential[train.Backend]
}

// NewNeuralNetwork creates a session with the given configuration.
func NewNeuralNetwork(cfg Config) (*NeuralNetwork, error) {
	tc := cfg.toTrainConfig()
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	return &NeuralNetwork{
		cfg:     tc,
		backend: train.NewBackend(),
	}, nil
}

// LoadData reads a CSV or JSON dataset from path, keeping the named input
// and output columns. It replaces any previously loaded or added rows.
func (n *NeuralNetwork) LoadData(path string, inputs, outputs []string) error {
	records, err := dataset.Load(path, inputs, outputs)
	if err != nil {
		return err
	}
	n.inputCols = append([]string(nil), inputs...)
	n.outputCols = append([]string(nil), outputs...)
	n.records = records
	n.stale = true
	return nil
}

// AddData appends one row. On the first call the column sets are taken from
// the map keys (in sorted order, so the derived schema is deterministic);
// later calls must supply the same columns. Added rows are not reflected in
// the encoding metadata until the next NormalizeData or Train.
func (n *NeuralNetwork) AddData(inputs, outputs map[string]any) error {
	if len(inputs) == 0 || len(outputs) == 0 {
		return fmt.Errorf("add data: need at least one input and one output value")
	}
	if n.inputCols == nil {
		n.inputCols = sortedKeys(inputs)
		n.outputCols = sortedKeys(outputs)
	}

	rec := make(feature.RawRecord, len(inputs)+len(outputs))
	if err := fillRecord(rec, inputs, n.inputCols, "input"); err != nil {
		return err
	}
	if err := fillRecord(rec, outputs, n.outputCols, "output"); err != nil {
		return err
	}
	n.records = append(n.records, rec)
	n.stale = true
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fillRecord(rec feature.RawRecord, m map[string]any, cols []string, role string) error {
	if len(m) != len(cols) {
		return fmt.Errorf("add data: expected %s columns %v, got %d value(s)", role, cols, len(m))
	}
	for _, name := range cols {
		raw, ok := m[name]
		if !ok {
			return fmt.Errorf("add data: missing %s column %q", role, name)
		}
		v, err := feature.FromAny(raw)
		if err != nil {
			return fmt.Errorf("add data: column %q: %w", name, err)
		}
		rec[name] = v
	}
	return nil
}

// NormalizeData runs the full pipeline over the accumulated rows: schema
// inference, the stats pass, and encoding. It must be called (directly or
// implicitly via Train) after the dataset changes; previously encoded rows
// and any fitted model remain valid only for the old metadata.
func (n *NeuralNetwork) NormalizeData() error {
	if len(n.records) == 0 {
		return fmt.Errorf("normalize: no data loaded")
	}
	meta, err := feature.InferSchema(n.records, n.inputCols, n.outputCols)
	if err != nil {
		return err
	}
	meta, err = feature.ComputeStats(n.records, meta)
	if err != nil {
		return err
	}
	encoded, err := feature.Encode(n.records, meta)
	if err != nil {
		return err
	}
	n.meta = meta
	n.encoded = encoded
	n.stale = false
	return nil
}

// Train fits the model on the normalized dataset, normalizing first if the
// data changed since the last NormalizeData. It blocks until training
// completes, the context is cancelled, or an error occurs.
func (n *NeuralNetwork) Train(ctx context.Context, opts ...TrainOption) error {
	var o trainOptions
	for _, opt := range opts {
		opt(&o)
	}

	if n.meta == nil || n.stale {
		if err := n.NormalizeData(); err != nil {
			return err
		}
	}
	if err := train.ValidateTask(n.meta, n.cfg.Task); err != nil {
		return err
	}

	model, err := train.BuildModel(n.meta, n.cfg, n.backend)
	if err != nil {
		return err
	}

	tensors, err := feature.Assemble(n.encoded, n.meta, n.backend)
	if err != nil {
		return err
	}
	defer tensors.Release()

	if err := train.Fit(ctx, model, tensors, n.cfg, n.backend, o.progress); err != nil {
		return err
	}
	n.model = model
	return nil
}

// Classify runs one sample through a trained classification model and
// returns the output labels ranked by probability, best first.
func (n *NeuralNetwork) Classify(sample map[string]any) ([]Prediction, error) {
	if n.cfg.Task != train.TaskClassification {
		return nil, fmt.Errorf("classify: session task is %q", n.cfg.Task)
	}
	raw, err := n.forward(sample)
	if err != nil {
		return nil, err
	}
	return feature.DecodeClassification(raw, n.meta)
}

// Predict runs one sample through a trained regression model and returns
// the denormalized value per output column.
func (n *NeuralNetwork) Predict(sample map[string]any) (map[string]float64, error) {
	if n.cfg.Task != train.TaskRegression {
		return nil, fmt.Errorf("predict: session task is %q", n.cfg.Task)
	}
	raw, err := n.forward(sample)
	if err != nil {
		return nil, err
	}
	return feature.DecodeRegression(raw, n.meta)
}

func (n *NeuralNetwork) forward(sample map[string]any) ([]float32, error) {
	if n.model == nil {
		return nil, fmt.Errorf("model is not trained")
	}
	if n.stale {
		return nil, fmt.Errorf("dataset changed since training; call Train again")
	}

	rec := make(feature.RawRecord, len(sample))
	for name, raw := range sample {
		v, err := feature.FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("sample column %q: %w", name, err)
		}
		rec[name] = v
	}

	input, err := feature.EncodeInput(rec, n.meta)
	if err != nil {
		return nil, err
	}
	return train.Predict(n.model, input, n.cfg.Task, n.backend)
}

// Meta returns the dataset metadata derived by the last NormalizeData, or
// nil if the pipeline has not run yet.
func (n *NeuralNetwork) Meta() *feature.DatasetMeta {
	return n.meta
}

// SaveMeta writes the dataset metadata to path as JSON, preserving the
// encoding contract (column order, ranges, vocabularies) across restarts.
func (n *NeuralNetwork) SaveMeta(path string) error {
	if n.meta == nil {
		return fmt.Errorf("save meta: no metadata; call NormalizeData first")
	}
	return feature.SaveMeta(n.meta, path)
}

// LoadMeta restores dataset metadata saved by SaveMeta. The session can
// then encode samples without re-running the pipeline, but the model must
// still be trained in-process.
func (n *NeuralNetwork) LoadMeta(path string) error {
	meta, err := feature.LoadMeta(path)
	if err != nil {
		return err
	}
	n.meta = meta
	n.inputCols = append([]string(nil), meta.InputOrder...)
	n.outputCols = append([]string(nil), meta.OutputOrder...)
	n.stale = false
	return nil
}
