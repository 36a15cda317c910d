package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/knapsack/pkg/knapsack"
	"github.com/matzehuels/knapsack/pkg/pipeline"
)

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// headerRow is the row index lipgloss tables pass to StyleFunc for headers.
const headerRow = -1

// =============================================================================
// Solve Report
// =============================================================================

// printResult prints the outcome of a single solve.
func printResult(w io.Writer, res *pipeline.Result, showItems bool) {
	p := newPrinter(w)
	sol := res.Solution
	p.success("%s selected %d of %d items",
		StyleHighlight.Render(sol.Algorithm), len(sol.Selected), len(res.Instance.Items))
	p.keyValue("Value", formatAmount(sol.TotalValue))
	p.keyValue("Weight", formatAmount(sol.TotalWeight)+" / "+formatAmount(res.Instance.Capacity))
	p.keyValue("Elapsed", res.Elapsed.Round(time.Microsecond).String())
	if res.Source == pipeline.SourceGenerated {
		p.keyValue("Seed", strconv.FormatUint(res.Seed, 10))
	}
	p.stats(statParts(sol), res.CacheHit)

	if n := len(sol.Skipped); n > 0 {
		p.warning("%d items skipped", n)
		for _, s := range sol.Skipped {
			p.detail("item %d: %s", s.ItemID, s.Reason)
		}
	}
	if showItems && len(sol.Selected) > 0 {
		p.newline()
		p.line(itemsTable(sol.Selected))
	}
}

// statParts lists the non-zero solver counters.
func statParts(sol knapsack.Solution) []string {
	st := sol.Stats
	var parts []string
	add := func(n int, unit string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, unit))
		}
	}
	add(st.Explored, "explored")
	add(st.Pruned, "pruned")
	add(st.StackPeak, "stack peak")
	add(st.StackGrowths, "growths")
	add(st.TableSize, "cells")
	if st.Subsets > 0 {
		parts = append(parts, fmt.Sprintf("%d subsets", st.Subsets))
	}
	return parts
}

// itemsTable renders items as a bordered table.
func itemsTable(items []knapsack.Item) string {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{
			strconv.Itoa(it.ID),
			formatAmount(it.Weight),
			formatAmount(it.Value),
			strconv.FormatFloat(it.Density(), 'f', 3, 64),
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Weight", "Value", "Density").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return tableHeaderStyle
			}
			return lipgloss.NewStyle().Align(lipgloss.Right)
		}).
		Render()
}

// =============================================================================
// Comparison Report
// =============================================================================

// printComparison prints the per-solver comparison table.
func printComparison(w io.Writer, cmp *pipeline.Comparison) {
	p := newPrinter(w)
	p.success("Compared %d solvers on %d items", len(cmp.Entries), len(cmp.Instance.Items))
	p.keyValue("Capacity", formatAmount(cmp.Instance.Capacity))
	p.keyValue("Best", formatAmount(cmp.Best))
	p.keyValue("Bound", formatAmount(cmp.UpperBound))
	if cmp.Source == pipeline.SourceGenerated {
		p.keyValue("Seed", strconv.FormatUint(cmp.Seed, 10))
	}
	p.newline()
	p.line(comparisonTable(cmp))
}

// comparisonTable renders one row per solver entry.
func comparisonTable(cmp *pipeline.Comparison) string {
	rows := make([][]string, len(cmp.Entries))
	for i, e := range cmp.Entries {
		switch {
		case e.Skipped != "":
			rows[i] = []string{e.Algorithm, "-", "-", "-", "-", "skipped: " + e.Skipped}
		case e.Error != "":
			rows[i] = []string{e.Algorithm, "-", "-", "-", "-", "error: " + e.Error}
		default:
			note := ""
			if !e.Stable {
				note = "unstable"
			}
			rows[i] = []string{
				e.Algorithm,
				formatAmount(e.Solution.TotalValue),
				strconv.Itoa(len(e.Solution.Selected)),
				fmt.Sprintf("%.2f%%", e.Gap*100),
				formatTiming(e),
				note,
			}
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Algorithm", "Value", "Items", "Gap", "Time", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return tableHeaderStyle
			}
			e := cmp.Entries[row]
			switch {
			case !e.OK():
				return lipgloss.NewStyle().Foreground(colorDim)
			case e.Gap == 0 && col == 1:
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func formatTiming(e pipeline.Entry) string {
	mean := e.Mean.Round(time.Microsecond).String()
	if e.Runs < 2 {
		return mean
	}
	return mean + " ± " + e.StdDev.Round(time.Microsecond).String()
}

// =============================================================================
// Helpers
// =============================================================================

// formatAmount formats weights and values with two decimals.
func formatAmount(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
