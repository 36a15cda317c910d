package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/knapsack/pkg/pipeline"
)

// compareCommand creates the compare command that runs every algorithm.
func (c *CLI) compareCommand() *cobra.Command {
	var (
		inst    instanceFlags
		tune    solverFlags
		repeat  int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run every algorithm on one instance",
		Long: `Run brute force, greedy, dynamic programming and branch-and-bound on the same
instance and compare their values, gaps to the best value, and timings.

Brute force is skipped above ` + strconv.Itoa(pipeline.DefaultCompareBruteForce) + ` items.`,
		Example: `  knapsack compare -n 20 -c 300 --seed 7 --repeat 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := c.Config.options()
			inst.apply(cmd, &opts)
			tune.apply(cmd, &opts)

			ok, err := inst.resolve(&opts, !jsonOut)
			if err != nil || !ok {
				return err
			}

			runner := pipeline.NewRunner(nil, nil, c.Logger)
			defer runner.Close()

			var spinner *Spinner
			if !jsonOut {
				spinner = newSpinner(ctx, cmd.ErrOrStderr(), "Comparing solvers")
				spinner.Start()
			}
			cmp, err := runner.Compare(ctx, opts, repeat)
			if spinner != nil {
				spinner.Stop()
			}
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), cmp)
			}
			printComparison(cmd.OutOrStdout(), cmp)
			return nil
		},
	}

	inst.bind(cmd)
	tune.bind(cmd)
	cmd.Flags().IntVarP(&repeat, "repeat", "r", 1, "runs per algorithm for timing")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the comparison as JSON")

	return cmd
}
