package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/knapsack/pkg/pipeline"
)

// solveCommand creates the solve command for running one algorithm.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		inst      instanceFlags
		tune      solverFlags
		algorithm string
		showItems bool
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve an instance with one algorithm",
		Long: `Solve a 0/1 knapsack instance with one algorithm.

The instance is read from a file (--input) or generated from a seed (--count,
--capacity, --seed). Missing values fall back to the config file, and on a
terminal you are prompted for them.`,
		Example: `  # Branch-and-bound on 1000 seeded items
  knapsack solve -n 1000 -c 2500 --seed 42

  # Dynamic programming with two-decimal precision on a file
  knapsack solve -a dp --scale 100 -i items.json --show-items`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := c.Config.options()
			if cmd.Flags().Changed("algorithm") {
				opts.Algorithm = algorithm
			}
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
				spinner = newSpinner(ctx, cmd.ErrOrStderr(), "Solving")
				spinner.Start()
			}
			res, err := runner.Execute(ctx, opts)
			if spinner != nil {
				spinner.Stop()
			}
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			printResult(cmd.OutOrStdout(), res, showItems)
			return nil
		},
	}

	inst.bind(cmd)
	tune.bind(cmd)
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", algorithmUsage())
	cmd.Flags().BoolVar(&showItems, "show-items", false, "list the selected items")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON")
	_ = cmd.RegisterFlagCompletionFunc("algorithm", completeAlgorithms)

	return cmd
}
