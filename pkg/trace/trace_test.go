package trace

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/knapsack/pkg/knapsack"
)

func record(t *testing.T, limit int) (*Recorder, knapsack.Solution) {
	t.Helper()
	items := []knapsack.Item{
		{ID: 1, Weight: 2, Value: 3},
		{ID: 2, Weight: 3, Value: 4},
		{ID: 3, Weight: 4, Value: 5},
		{ID: 4, Weight: 5, Value: 6},
	}
	rec := NewRecorder(limit)
	sol, err := knapsack.BranchAndBound{Trace: rec.Record}.Solve(items, 5)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	return rec, sol
}

func TestRecorderKeepsEveryVisit(t *testing.T) {
	rec, sol := record(t, 0)
	visits := rec.Visits()
	if want := sol.Stats.Explored + sol.Stats.Pruned; len(visits) != want {
		t.Errorf("len(Visits) = %d, want %d", len(visits), want)
	}
	if rec.Dropped() != 0 {
		t.Errorf("Dropped = %d, want 0", rec.Dropped())
	}
	if visits[0].Parent != -1 {
		t.Errorf("first visit parent = %d, want root", visits[0].Parent)
	}
}

func TestRecorderLimit(t *testing.T) {
	rec, sol := record(t, 3)
	if got := len(rec.Visits()); got != 3 {
		t.Errorf("len(Visits) = %d, want 3", got)
	}
	if want := sol.Stats.Explored + sol.Stats.Pruned - 3; rec.Dropped() != want {
		t.Errorf("Dropped = %d, want %d", rec.Dropped(), want)
	}

	dot := ToDOT(rec, Options{})
	if !strings.Contains(dot, "more nodes not recorded") {
		t.Error("truncated recording should be marked in the DOT output")
	}

	rec.Reset()
	if len(rec.Visits()) != 0 || rec.Dropped() != 0 {
		t.Error("Reset should clear the recording")
	}
}

func TestRecorderConcurrent(t *testing.T) {
	rec := NewRecorder(100)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				rec.Record(knapsack.Visit{Node: j})
			}
		}()
	}
	wg.Wait()
	if got := len(rec.Visits()) + rec.Dropped(); got != 400 {
		t.Errorf("visits + dropped = %d, want 400", got)
	}
}

func TestToDOT(t *testing.T) {
	rec, _ := record(t, 0)
	dot := ToDOT(rec, Options{Detailed: true})

	for _, want := range []string{
		"digraph search {",
		"n0 [label=\"root",
		"n0 -> n1 [label=\"in\"]",
		"fillcolor=palegreen",
		"bound 7.00",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("DOT output should end with a closing brace")
	}
}

func TestToDOTHidePruned(t *testing.T) {
	rec, sol := record(t, 0)
	if sol.Stats.Pruned == 0 {
		t.Skip("instance produced no pruned nodes")
	}
	full := ToDOT(rec, Options{})
	hidden := ToDOT(rec, Options{HidePruned: true})
	if !strings.Contains(full, "pruned #") {
		t.Error("full DOT should show pruned nodes")
	}
	if strings.Contains(hidden, "pruned #") {
		t.Error("HidePruned DOT should not show pruned nodes")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox = %s, want %s", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox without viewBox = %s, want unchanged", got)
	}
}

func TestRenderSVG(t *testing.T) {
	rec, _ := record(t, 0)
	svg, err := RenderSVG(context.Background(), ToDOT(rec, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=") {
		t.Errorf("RenderSVG output lacks a normalized svg header: %.200s", svg)
	}

	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("RenderSVG should reject malformed DOT")
	}
}
