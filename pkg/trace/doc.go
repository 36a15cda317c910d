// Package trace records and draws branch-and-bound search trees.
//
// A [Recorder] plugs into [knapsack.BranchAndBound.Trace] and keeps every
// node the search creates, up to a limit. [ToDOT] turns the recording into a
// Graphviz digraph and [RenderSVG] renders it in-process, so no Graphviz
// installation is needed:
//
//	rec := trace.NewRecorder(2000)
//	sol, err := knapsack.BranchAndBound{Trace: rec.Record}.Solve(items, capacity)
//	...
//	svg, err := trace.RenderSVG(trace.ToDOT(rec, trace.Options{}))
//
// Nodes are labelled with the accumulated weight, value and fractional
// bound. Include edges are solid, exclude edges dashed. Pruned subtrees are
// drawn as grey dashed leaves and nodes that set a new incumbent are filled
// green, which makes the effect of the bound easy to see on small inputs.
package trace
