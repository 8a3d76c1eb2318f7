// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package sprout is a high-level convenience layer over Born for training
// small feed-forward neural networks on tabular data.
//
// A NeuralNetwork session takes rows of named columns (from CSV, JSON, or
// in-memory values), infers a schema, normalizes numeric columns and one-hot
// encodes categorical ones, and trains a classifier or regressor with a few
// lines of code:
//
//	net, _ := sprout.NewNeuralNetwork(sprout.Config{Task: "classification"})
//	net.LoadData("cars.csv", []string{"horsepower", "weight"}, []string{"origin"})
//	net.NormalizeData()
//	net.Train(context.Background())
//	preds, _ := net.Classify(map[string]any{"horsepower": 130, "weight": 3504})
//
// All tensor math, autodiff, layers, and optimizers come from
// github.com/born-ml/born; sprout owns only the feature pipeline and the
// session plumbing around it.
package sprout
