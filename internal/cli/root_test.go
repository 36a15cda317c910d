package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	kerrors "github.com/matzehuels/knapsack/pkg/errors"
	kio "github.com/matzehuels/knapsack/pkg/io"
	"github.com/matzehuels/knapsack/pkg/pipeline"
)

// execute runs the CLI with args in an isolated config home.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out, logs bytes.Buffer
	c := New(&logs, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandTree(t *testing.T) {
	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	sort.Strings(names)

	for _, want := range []string{"compare", "completion", "config", "generate", "serve", "solve", "trace"} {
		if i := sort.SearchStrings(names, want); i == len(names) || names[i] != want {
			t.Errorf("missing command %q in %v", want, names)
		}
	}
}

func TestSolveJSON(t *testing.T) {
	out, err := execute(t, "solve", "-a", "dp", "-n", "50", "-c", "300", "--seed", "5", "--json")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}

	var res pipeline.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not a result: %v\n%s", err, out)
	}
	if res.Solution.Algorithm != "dp" || res.Seed != 5 {
		t.Errorf("Algorithm = %q, Seed = %d", res.Solution.Algorithm, res.Seed)
	}
	if res.Solution.TotalWeight > 300 {
		t.Errorf("TotalWeight = %v exceeds capacity", res.Solution.TotalWeight)
	}
}

func TestSolveReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.json")
	if err := os.WriteFile(path, []byte(smallInstance), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "solve", "-a", "bnb", "-i", path, "--show-items")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	for _, want := range []string{"bnb", "selected 2 of 3 items", "9.00", "7.00 / 7.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestSolveInstanceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.toml")
	content := `capacity = 7

[[items]]
id = 1
weight = 3
value = 4

[[items]]
id = 2
weight = 4
value = 5

[[items]]
id = 3
weight = 5
value = 6
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "solve", "-i", path, "--json")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	var res pipeline.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if res.Solution.TotalValue != 9 || res.Source != pipeline.SourceFile {
		t.Errorf("TotalValue = %v, Source = %q", res.Solution.TotalValue, res.Source)
	}
}

func TestSolveMissingCount(t *testing.T) {
	_, err := execute(t, "solve", "-c", "100", "--json")
	if !kerrors.Is(err, kerrors.ErrCodeInvalidInput) {
		t.Errorf("solve without count error = %v, want INVALID_INPUT", err)
	}
}

func TestSolveConfigDefaults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("algorithm = \"greedy\"\ncount = 20\ncapacity = 150\nseed = 11\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--config", cfgPath, "solve", "--json")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	var res pipeline.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if res.Solution.Algorithm != "greedy" || res.Seed != 11 {
		t.Errorf("Algorithm = %q, Seed = %d", res.Solution.Algorithm, res.Seed)
	}
}

func TestCompareJSON(t *testing.T) {
	out, err := execute(t, "compare", "-n", "15", "-c", "200", "--seed", "2", "--json")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	var cmp pipeline.Comparison
	if err := json.Unmarshal([]byte(out), &cmp); err != nil {
		t.Fatal(err)
	}
	if len(cmp.Entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(cmp.Entries))
	}
	// Brute force is exact, so nothing beats it.
	if bf := cmp.Entries[0]; bf.Algorithm != "bruteforce" || bf.Solution.TotalValue != cmp.Best {
		t.Errorf("bruteforce entry = %+v, best = %v", bf, cmp.Best)
	}
}

func TestGenerateStdout(t *testing.T) {
	out, err := execute(t, "generate", "-n", "8", "--seed", "3")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	in, err := kio.ReadJSON(strings.NewReader(out))
	if err != nil {
		t.Fatalf("generated output does not parse: %v", err)
	}
	if len(in.Items) != 8 {
		t.Errorf("items = %d, want 8", len(in.Items))
	}
	if in.Capacity != halfWeight(in.Items) {
		t.Errorf("capacity = %v, want half the total weight %v", in.Capacity, halfWeight(in.Items))
	}
}

func TestGenerateFileThenSolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json.zst")
	if _, err := execute(t, "generate", "-n", "30", "--seed", "4", "-o", path); err != nil {
		t.Fatalf("generate: %v", err)
	}
	in, err := kio.ImportFile(path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(in.Items) != 30 {
		t.Fatalf("items = %d, want 30", len(in.Items))
	}

	out, err := execute(t, "solve", "-i", path, "--json")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	var res pipeline.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if res.Solution.TotalWeight > in.Capacity {
		t.Errorf("TotalWeight = %v exceeds %v", res.Solution.TotalWeight, in.Capacity)
	}
}

func TestTraceDOT(t *testing.T) {
	out, err := execute(t, "trace", "-n", "6", "-c", "120", "--seed", "8")
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if !strings.HasPrefix(out, "digraph search {") {
		t.Errorf("trace output should be DOT, got %q", out[:min(len(out), 40)])
	}
	if !strings.Contains(out, "n0") {
		t.Error("trace output should contain the root node")
	}
}

func TestTraceRejectsUnknownExtension(t *testing.T) {
	_, err := execute(t, "trace", "-n", "6", "-c", "120", "-o", "tree.png")
	if err == nil || !strings.Contains(err.Error(), ".dot or .svg") {
		t.Errorf("trace -o tree.png error = %v", err)
	}
}

func TestConfigShow(t *testing.T) {
	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{`algorithm = "bnb"`, "[serve]", `addr = ":8080"`} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestUnknownConfigFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "config", "show")
	if !kerrors.Is(err, kerrors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := execute(t, "completion", shell)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, "knapsack") {
				t.Errorf("%s completion does not mention knapsack", shell)
			}
		})
	}

	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}

func TestConfigPath(t *testing.T) {
	out, err := execute(t, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), appName, configFile)
	if strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), want)
	}
}
