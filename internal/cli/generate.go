package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	kio "github.com/matzehuels/knapsack/pkg/io"
	"github.com/matzehuels/knapsack/pkg/itemgen"
	"github.com/matzehuels/knapsack/pkg/knapsack"
)

// generateCommand creates the generate command for writing random instances.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		count          int
		capacity       float64
		seed           uint64
		integerWeights bool
		output         string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random instance to a file",
		Long: `Generate a seeded random instance and write it as JSON or TOML.

Weights are drawn from [1, 100] and values from [100, 1000], both rounded to two
decimals. Without --capacity the capacity is half the total weight. Without
--output the instance is printed as JSON.`,
		Example: `  knapsack generate -n 500 --seed 42 -o items.json
  knapsack generate -n 10000 -c 2500 -o items.toml.zst`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("count") && c.Config.Count > 0 {
				count = c.Config.Count
			}
			if !cmd.Flags().Changed("seed") && c.Config.Seed != 0 {
				seed = c.Config.Seed
			}
			if !cmd.Flags().Changed("capacity") && c.Config.Capacity > 0 {
				capacity = c.Config.Capacity
			}

			items, used, err := itemgen.Generate(count, itemgen.Options{Seed: seed, IntegerWeights: integerWeights})
			if err != nil {
				return err
			}
			in := knapsack.Instance{Capacity: capacity, Items: items}
			if in.Capacity == 0 {
				in.Capacity = halfWeight(items)
			}
			if err := in.Validate(); err != nil {
				return err
			}

			if output == "" {
				return kio.WriteJSON(in, cmd.OutOrStdout())
			}
			if err := kio.ExportFile(in, output); err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			p.success("Generated %d items", len(items))
			p.keyValue("Capacity", formatAmount(in.Capacity))
			p.keyValue("Seed", strconv.FormatUint(used, 10))
			p.file(output)
			p.newline()
			p.nextStep("Solve it", "knapsack solve -i "+output)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 100, "number of items")
	cmd.Flags().Float64VarP(&capacity, "capacity", "c", 0, "knapsack capacity (default half the total weight)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "generator seed (0 picks a random seed)")
	cmd.Flags().BoolVar(&integerWeights, "integer-weights", false, "generate whole-number weights")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.json, .toml, optionally .zst)")

	return cmd
}

// halfWeight returns half the total item weight, rounded to two decimals.
func halfWeight(items []knapsack.Item) float64 {
	var total float64
	for _, it := range items {
		total += it.Weight
	}
	return knapsack.Round2(total / 2)
}
