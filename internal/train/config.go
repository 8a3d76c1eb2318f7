// Package train is the thin model orchestrator: it builds a feed-forward
// Born model from the pipeline's feature widths, runs the training loop,
// and exposes single-sample prediction. All tensor math, gradients, and
// parameter updates are delegated to Born.
package train

import (
	"fmt"
)

// Task selects the learning objective.
type Task string

// Supported tasks.
const (
	TaskClassification Task = "classification"
	TaskRegression     Task = "regression"
)

// LayerSpec describes one hidden layer of the network.
type LayerSpec struct {
	Units      int    `mapstructure:"units" json:"units"`
	Activation string `mapstructure:"activation" json:"activation"`
}

// Config holds every recognized training option. It is validated once by
// Validate and treated as immutable afterwards; there is no global mutable
// configuration.
//
// Zero values mean "use the default":
//   - Task: required, no default
//   - LearningRate: 0.001 for adam, 0.1 for sgd
//   - BatchSize: 32
//   - Epochs: 25
//   - Optimizer: adam
//   - HiddenLayers: one layer of 16 relu units
type Config struct {
	Task         Task        `mapstructure:"task" json:"task"`
	LearningRate float64     `mapstructure:"learningRate" json:"learningRate"`
	BatchSize    int         `mapstructure:"batchSize" json:"batchSize"`
	Epochs       int         `mapstructure:"epochs" json:"epochs"`
	Optimizer    string      `mapstructure:"optimizer" json:"optimizer"`
	HiddenLayers []LayerSpec `mapstructure:"layers" json:"layers"`
}

// WithDefaults returns a copy of c with every zero-valued option replaced
// by its default.
func (c Config) WithDefaults() Config {
	if c.Optimizer == "" {
		c.Optimizer = "adam"
	}
	if c.LearningRate == 0 {
		if c.Optimizer == "sgd" {
			c.LearningRate = 0.1
		} else {
			c.LearningRate = 0.001
		}
	}
	if c.BatchSize == 0 {
		c.BatchSize = 32
	}
	if c.Epochs == 0 {
		c.Epochs = 25
	}
	if len(c.HiddenLayers) == 0 {
		c.HiddenLayers = []LayerSpec{{Units: 16, Activation: "relu"}}
	}
	for i := range c.HiddenLayers {
		if c.HiddenLayers[i].Activation == "" {
			c.HiddenLayers[i].Activation = "relu"
		}
	}
	return c
}

// Validate checks every option. Call it on the result of WithDefaults.
func (c Config) Validate() error {
	switch c.Task {
	case TaskClassification, TaskRegression:
	default:
		return fmt.Errorf("unknown task %q (want %q or %q)", c.Task, TaskClassification, TaskRegression)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive, got %g", c.LearningRate)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive, got %d", c.Epochs)
	}
	switch c.Optimizer {
	case "adam", "sgd":
	default:
		return fmt.Errorf("unknown optimizer %q (want adam or sgd)", c.Optimizer)
	}
	for i, layer := range c.HiddenLayers {
		if layer.Units <= 0 {
			return fmt.Errorf("layer %d: units must be positive, got %d", i, layer.Units)
		}
		switch layer.Activation {
		case "relu", "sigmoid", "tanh":
		default:
			return fmt.Errorf("layer %d: unknown activation %q (want relu, sigmoid, or tanh)", i, layer.Activation)
		}
	}
	return nil
}
