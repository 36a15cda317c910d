package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/knapsack/pkg/knapsack"
	"github.com/matzehuels/knapsack/pkg/pipeline"
)

func TestItemsTable(t *testing.T) {
	out := itemsTable([]knapsack.Item{
		{ID: 1, Weight: 3, Value: 4},
		{ID: 12, Weight: 2.5, Value: 10},
	})

	for _, want := range []string{"ID", "Density", "12", "2.50", "10.00", "4.000", "1.333"} {
		if !strings.Contains(out, want) {
			t.Errorf("itemsTable() missing %q:\n%s", want, out)
		}
	}
}

func TestComparisonTable(t *testing.T) {
	cmp := &pipeline.Comparison{
		Entries: []pipeline.Entry{
			{Algorithm: "bruteforce", Skipped: "30 items exceed the exhaustive limit of 24"},
			{Algorithm: "greedy", Solution: knapsack.Solution{TotalValue: 90}, Runs: 1, Gap: 0.1, Stable: true},
			{Algorithm: "dp", Error: "RESOURCE_EXHAUSTED: table too large"},
			{Algorithm: "bnb", Solution: knapsack.Solution{TotalValue: 100}, Runs: 3, Stable: false},
		},
	}

	out := comparisonTable(cmp)
	for _, want := range []string{"bruteforce", "skipped: 30 items", "10.00%", "error: RESOURCE_EXHAUSTED", "100.00", "unstable", "±"} {
		if !strings.Contains(out, want) {
			t.Errorf("comparisonTable() missing %q:\n%s", want, out)
		}
	}
}

func TestStatParts(t *testing.T) {
	tests := []struct {
		name  string
		stats knapsack.Stats
		want  []string
	}{
		{"empty", knapsack.Stats{}, nil},
		{"bnb", knapsack.Stats{Explored: 9, Pruned: 2, StackPeak: 4}, []string{"9 explored", "2 pruned", "4 stack peak"}},
		{"dp", knapsack.Stats{TableSize: 808}, []string{"808 cells"}},
		{"bruteforce", knapsack.Stats{Subsets: 16}, []string{"16 subsets"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statParts(knapsack.Solution{Stats: tt.stats})
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("statParts() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := map[float64]string{
		0:      "0.00",
		7:      "7.00",
		1234.5: "1234.50",
		0.004:  "0.00",
		99.999: "100.00",
	}
	for in, want := range tests {
		if got := formatAmount(in); got != want {
			t.Errorf("formatAmount(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestHalfWeight(t *testing.T) {
	items := []knapsack.Item{{ID: 1, Weight: 3.3}, {ID: 2, Weight: 1.5}}
	if got := halfWeight(items); got != 2.4 {
		t.Errorf("halfWeight() = %v, want 2.4", got)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}
	var got map[string]int
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got["a"] != 1 {
		t.Errorf("got %v", got)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("writeJSON should indent")
	}
}
