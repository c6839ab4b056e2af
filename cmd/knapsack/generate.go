package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"knapsack/internal/dataset"
	"knapsack/internal/knapsack"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		kind   string
		dir    string
		prefix string
		seed   int64
		spec   knapsack.RandomSpec
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a toy or random instance as a dataset",
		RunE: func(*cobra.Command, []string) error {
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			rng := rand.New(rand.NewSource(seed))

			var (
				inst *knapsack.Instance
				err  error
			)
			switch kind {
			case "toy":
				inst, err = knapsack.ToyInstance(rng, a.cfg.OffsetFraction)
			case "random":
				inst, err = knapsack.RandomInstance(spec, rng, a.cfg.OffsetFraction)
			default:
				return fmt.Errorf("unknown instance kind %q; expected toy or random", kind)
			}
			if err != nil {
				return err
			}

			files, err := dataset.Write(dir, prefix, inst)
			if err != nil {
				return err
			}
			a.logger.Info("dataset written", "kind", kind, "seed", seed, "items", inst.NumItems(), "capacity", inst.Capacity)

			fmt.Fprintf(a.out, "capacity: %s\nsizes:    %s\nvalues:   %s\n", files.Capacity, files.Sizes, files.Values)
			if files.Optimal != "" {
				fmt.Fprintf(a.out, "optimum:  %s\n", files.Optimal)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&kind, "kind", "toy", "instance kind: toy or random")
	fs.StringVar(&dir, "dir", ".", "output directory")
	fs.StringVar(&prefix, "prefix", "generated", "dataset prefix")
	fs.Int64Var(&seed, "seed", 0, "generator seed; 0 picks one from the clock")
	fs.IntVar(&spec.Items, "items", 100, "item count (random)")
	fs.IntVar(&spec.MeanValue, "mean-value", 50, "mean item value (random)")
	fs.IntVar(&spec.ValueSpread, "value-spread", 20, "maximum deviation from the mean value (random)")
	fs.IntVar(&spec.MeanSize, "mean-size", 30, "mean item size (random)")
	fs.IntVar(&spec.SizeSpread, "size-spread", 10, "maximum deviation from the mean size (random)")
	return cmd
}
