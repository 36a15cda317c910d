package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/knapsack/pkg/knapsack"
	"github.com/matzehuels/knapsack/pkg/pipeline"
)

// instanceFlags selects the problem instance: a generated item list or a file.
type instanceFlags struct {
	count          int
	capacity       float64
	seed           uint64
	input          string
	integerWeights bool
}

func (f *instanceFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVarP(&f.count, "count", "n", 0, "number of items to generate")
	fl.Float64VarP(&f.capacity, "capacity", "c", 0, "knapsack capacity (overrides the file's capacity)")
	fl.Uint64Var(&f.seed, "seed", 0, "generator seed (0 picks a random seed)")
	fl.StringVarP(&f.input, "input", "i", "", "read the instance from a JSON or TOML file (.zst allowed)")
	fl.BoolVar(&f.integerWeights, "integer-weights", false, "generate whole-number weights")
}

// apply overrides opts with the flags the user set.
func (f *instanceFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fl := cmd.Flags()
	if fl.Changed("count") {
		opts.Count = f.count
	}
	if fl.Changed("seed") {
		opts.Seed = f.seed
	}
	if fl.Changed("integer-weights") {
		opts.IntegerWeights = f.integerWeights
	}
	if f.input != "" {
		opts.InstanceFile = f.input
		// A file carries its own capacity; only the flag overrides it.
		opts.Capacity = 0
	}
	if fl.Changed("capacity") {
		opts.Capacity = f.capacity
	}
}

// resolve prompts for a missing item count or capacity when running on a
// terminal. It returns false if the user cancelled the prompt.
func (f *instanceFlags) resolve(opts *pipeline.Options, allowPrompt bool) (bool, error) {
	if opts.InstanceFile != "" || len(opts.Items) > 0 {
		return true, nil
	}
	needCount, needCapacity := opts.Count <= 0, opts.Capacity <= 0
	if !(needCount || needCapacity) || !allowPrompt || !interactive() {
		return true, nil
	}
	count, capacity, ok, err := promptInstance(needCount, needCapacity)
	if err != nil || !ok {
		return false, err
	}
	if needCount {
		opts.Count = count
	}
	if needCapacity {
		opts.Capacity = capacity
	}
	return true, nil
}

// solverFlags holds the per-algorithm tunables.
type solverFlags struct {
	margin       int
	scale        int
	maxCells     int
	heuristic    bool
	initialStack int
	maxFrames    int
}

func (f *solverFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVar(&f.margin, "margin", 0, "dp: extra table columns beyond the capacity (-1 for none, 0 for default)")
	fl.IntVar(&f.scale, "scale", 0, "dp: weight discretization factor (100 keeps two decimals)")
	fl.IntVar(&f.maxCells, "max-cells", 0, "dp: table size limit in cells (0 for default)")
	fl.BoolVar(&f.heuristic, "heuristic", false, "dp: use the value-matching reconstruction")
	fl.IntVar(&f.initialStack, "initial-stack", 0, "bnb: initial search stack capacity in frames")
	fl.IntVar(&f.maxFrames, "max-frames", 0, "bnb: search stack limit in frames (0 for unlimited)")
}

func (f *solverFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fl := cmd.Flags()
	if fl.Changed("margin") {
		opts.Margin = f.margin
	}
	if fl.Changed("scale") {
		opts.Scale = f.scale
	}
	if fl.Changed("max-cells") {
		opts.MaxCells = f.maxCells
	}
	if fl.Changed("heuristic") {
		opts.Heuristic = f.heuristic
	}
	if fl.Changed("initial-stack") {
		opts.InitialStack = f.initialStack
	}
	if fl.Changed("max-frames") {
		opts.MaxFrames = f.maxFrames
	}
}

// algorithmUsage lists the valid algorithm names for flag help.
func algorithmUsage() string {
	return "algorithm: " + strings.Join(knapsack.Algorithms(), ", ")
}

// completeAlgorithms completes algorithm flag values.
func completeAlgorithms(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return knapsack.Algorithms(), cobra.ShellCompDirectiveNoFileComp
}
