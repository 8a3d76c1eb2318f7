package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/sprout/feature"
)

func init() {
	cmd := &cobra.Command{
		Use:   "predict key=value [key=value ...]",
		Short: "Encode one sample against saved dataset metadata",
		Long: "Encodes a single sample with the column order, ranges, and vocabularies\n" +
			"recorded by 'train --save-meta', and prints the resulting feature vector.\n" +
			"Numeric-looking values are treated as numbers, everything else as labels.",
		Args: cobra.MinimumNArgs(1),
		Run:  runPredict,
	}

	cmd.Flags().StringP("meta", "m", "", "Dataset metadata JSON written by train --save-meta")
	cmd.MarkFlagRequired("meta")

	RootCmd.AddCommand(cmd)
}

func runPredict(cmd *cobra.Command, args []string) {
	metaPath, _ := cmd.Flags().GetString("meta")

	meta, err := feature.LoadMeta(metaPath)
	if err != nil {
		exitErr("load meta", err)
	}

	rec, err := parseSample(args)
	if err != nil {
		exitErr("parse sample", err)
	}

	encoded, err := feature.EncodeInput(rec, meta)
	if err != nil {
		exitErr("encode", err)
	}

	out := struct {
		Columns []string  `json:"columns"`
		Input   []float64 `json:"input"`
	}{Columns: meta.InputOrder, Input: encoded}
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}

func parseSample(args []string) (feature.RawRecord, error) {
	rec := make(feature.RawRecord, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		if num, err := strconv.ParseFloat(value, 64); err == nil {
			rec[name] = feature.Number(num)
		} else {
			rec[name] = feature.Str(value)
		}
	}
	return rec, nil
}
