package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/knapsack/pkg/knapsack"
	"github.com/matzehuels/knapsack/pkg/pipeline"
	"github.com/matzehuels/knapsack/pkg/trace"
)

// traceCommand creates the trace command that renders the branch-and-bound tree.
func (c *CLI) traceCommand() *cobra.Command {
	var (
		inst       instanceFlags
		tune       solverFlags
		output     string
		limit      int
		detailed   bool
		hidePruned bool
	)

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Render the branch-and-bound search tree",
		Long: `Solve an instance with branch-and-bound and render every visited node as a
Graphviz graph. Include branches are solid, exclude branches dashed, pruned
nodes grey and improving nodes green.

The output format follows the --output extension: .dot writes DOT, .svg renders
through Graphviz. Without --output DOT is printed.`,
		Example: `  knapsack trace -n 12 -c 150 --seed 3 -o tree.svg
  knapsack trace -i small.json --detailed | dot -Tpng > tree.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := c.Config.options()
			inst.apply(cmd, &opts)
			tune.apply(cmd, &opts)
			opts.Algorithm = knapsack.AlgorithmBranchAndBound

			ext := strings.ToLower(filepath.Ext(output))
			if output != "" && ext != ".dot" && ext != ".svg" {
				return fmt.Errorf("unsupported trace output %q: use .dot or .svg", output)
			}

			ok, err := inst.resolve(&opts, output != "")
			if err != nil || !ok {
				return err
			}

			rec := trace.NewRecorder(limit)
			opts.Trace = rec.Record

			runner := pipeline.NewRunner(nil, nil, c.Logger)
			defer runner.Close()
			res, err := runner.Execute(ctx, opts)
			if err != nil {
				return err
			}

			dot := trace.ToDOT(rec, trace.Options{Detailed: detailed, HidePruned: hidePruned})
			if output == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), dot)
				return err
			}

			data := []byte(dot)
			if ext == ".svg" {
				prog := newProgress(loggerFromContext(ctx))
				if data, err = trace.RenderSVG(ctx, dot); err != nil {
					return err
				}
				prog.done("Rendered search tree")
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			p := newPrinter(cmd.OutOrStdout())
			p.success("Traced %d nodes, value %s", len(rec.Visits()), formatAmount(res.Solution.TotalValue))
			if n := rec.Dropped(); n > 0 {
				p.warning("%d nodes beyond the limit of %d were not recorded", n, limit)
			}
			p.file(output)
			return nil
		},
	}

	inst.bind(cmd)
	tune.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot or .svg)")
	cmd.Flags().IntVar(&limit, "limit", trace.DefaultLimit, "maximum number of recorded nodes")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show the fractional bound on each node")
	cmd.Flags().BoolVar(&hidePruned, "hide-pruned", false, "omit pruned nodes")

	return cmd
}
