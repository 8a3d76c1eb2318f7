package cli

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/born-ml/sprout"
	"github.com/born-ml/sprout/internal/train"
)

func init() {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a model on a tabular dataset",
		Long: "Loads a CSV or JSON dataset, infers the schema, normalizes the data,\n" +
			"and trains a model. Training options come from flags or a YAML config\n" +
			"file; flags win on conflict.",
		Run: runTrain,
	}

	cmd.Flags().StringP("data", "d", "", "Dataset path (.csv or .json)")
	cmd.Flags().StringSlice("inputs", nil, "Input column names")
	cmd.Flags().StringSlice("outputs", nil, "Output column names")
	cmd.Flags().StringP("config", "c", "", "YAML config file with training options")
	cmd.Flags().String("task", "", "Task: classification or regression")
	cmd.Flags().Int("epochs", 0, "Number of training epochs")
	cmd.Flags().Int("batch-size", 0, "Mini-batch size")
	cmd.Flags().Float64("learning-rate", 0, "Optimizer learning rate")
	cmd.Flags().String("optimizer", "", "Optimizer: adam or sgd")
	cmd.Flags().String("save-meta", "", "Write dataset metadata JSON to this path")

	cmd.MarkFlagRequired("data")
	cmd.MarkFlagRequired("inputs")
	cmd.MarkFlagRequired("outputs")

	RootCmd.AddCommand(cmd)
}

// loadTrainConfig merges the optional YAML config file with the command's
// flags. Only explicitly set flags override file values.
func loadTrainConfig(cmd *cobra.Command) (train.Config, error) {
	v := viper.New()
	v.SetDefault("task", string(train.TaskClassification))

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return train.Config{}, err
		}
	}

	if cmd.Flags().Changed("task") {
		task, _ := cmd.Flags().GetString("task")
		v.Set("task", task)
	}
	if cmd.Flags().Changed("epochs") {
		epochs, _ := cmd.Flags().GetInt("epochs")
		v.Set("epochs", epochs)
	}
	if cmd.Flags().Changed("batch-size") {
		size, _ := cmd.Flags().GetInt("batch-size")
		v.Set("batchSize", size)
	}
	if cmd.Flags().Changed("learning-rate") {
		lr, _ := cmd.Flags().GetFloat64("learning-rate")
		v.Set("learningRate", lr)
	}
	if cmd.Flags().Changed("optimizer") {
		opt, _ := cmd.Flags().GetString("optimizer")
		v.Set("optimizer", opt)
	}

	var cfg train.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return train.Config{}, err
	}
	return cfg, nil
}

func runTrain(cmd *cobra.Command, args []string) {
	dataPath, _ := cmd.Flags().GetString("data")
	inputs, _ := cmd.Flags().GetStringSlice("inputs")
	outputs, _ := cmd.Flags().GetStringSlice("outputs")
	metaPath, _ := cmd.Flags().GetString("save-meta")

	cfg, err := loadTrainConfig(cmd)
	if err != nil {
		exitErr("load config", err)
	}

	layers := make([]sprout.Layer, len(cfg.HiddenLayers))
	for i, l := range cfg.HiddenLayers {
		layers[i] = sprout.Layer{Units: l.Units, Activation: l.Activation}
	}
	net, err := sprout.NewNeuralNetwork(sprout.Config{
		Task:         string(cfg.Task),
		LearningRate: cfg.LearningRate,
		BatchSize:    cfg.BatchSize,
		Epochs:       cfg.Epochs,
		Optimizer:    cfg.Optimizer,
		HiddenLayers: layers,
	})
	if err != nil {
		exitErr("configure", err)
	}

	if err := net.LoadData(dataPath, inputs, outputs); err != nil {
		exitErr("load data", err)
	}
	if err := net.NormalizeData(); err != nil {
		exitErr("normalize", err)
	}

	meta := net.Meta()
	log.Printf("dataset: %d input unit(s), %d output unit(s)", meta.InputUnits, meta.OutputUnits)

	err = net.Train(cmd.Context(), sprout.WithProgress(func(epoch int, loss float64) {
		log.Printf("epoch %d: loss %.6f", epoch, loss)
	}))
	if err != nil {
		exitErr("train", err)
	}

	if metaPath != "" {
		if err := net.SaveMeta(metaPath); err != nil {
			exitErr("save meta", err)
		}
		log.Printf("dataset metadata written to %s", metaPath)
	}
}
