package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	kerrors "github.com/matzehuels/knapsack/pkg/errors"
	"github.com/matzehuels/knapsack/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, _, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Algorithm != pipeline.DefaultAlgorithm {
		t.Errorf("Algorithm = %q, want %q", cfg.Algorithm, pipeline.DefaultAlgorithm)
	}
	if cfg.Serve.Addr != defaultAddr {
		t.Errorf("Serve.Addr = %q, want %q", cfg.Serve.Addr, defaultAddr)
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	_, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !kerrors.Is(err, kerrors.ErrCodeFileNotFound) {
		t.Errorf("loadConfig(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
algorithm = "dp"
capacity = 2500
count = 1000
seed = 42

[dp]
scale = 100
heuristic = true

[bnb]
max_frames = 4096

[serve]
addr = ":9000"
rate = 2.5
timeout = 5
`)

	cfg, _, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Algorithm != "dp" || cfg.Capacity != 2500 || cfg.Count != 1000 || cfg.Seed != 42 {
		t.Errorf("top-level fields = %+v", cfg)
	}
	if cfg.DP.Scale != 100 || !cfg.DP.Heuristic {
		t.Errorf("DP = %+v", cfg.DP)
	}
	if cfg.BnB.MaxFrames != 4096 {
		t.Errorf("BnB.MaxFrames = %d, want 4096", cfg.BnB.MaxFrames)
	}
	if cfg.Serve.Addr != ":9000" || cfg.Serve.Rate != 2.5 {
		t.Errorf("Serve = %+v", cfg.Serve)
	}
	// Unset keys keep their defaults.
	if cfg.Serve.Burst != defaultBurst {
		t.Errorf("Serve.Burst = %d, want default %d", cfg.Serve.Burst, defaultBurst)
	}
	if got := cfg.Serve.RequestTimeout(); got != 5*time.Second {
		t.Errorf("RequestTimeout() = %v, want 5s", got)
	}

	opts := cfg.options()
	if opts.Algorithm != "dp" || opts.Count != 1000 || opts.Scale != 100 || !opts.Heuristic || opts.MaxFrames != 4096 {
		t.Errorf("options() = %+v", opts)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    kerrors.Code
	}{
		{"syntax", "algorithm = ", kerrors.ErrCodeInvalidFormat},
		{"type", `count = "many"`, kerrors.ErrCodeInvalidFormat},
		{"negative rate", "[serve]\nrate = -1", kerrors.ErrCodeInvalidInput},
		{"negative count", "count = -5", kerrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := loadConfig(writeConfig(t, tt.content))
			if !kerrors.Is(err, tt.code) {
				t.Errorf("loadConfig() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadConfigUnknownKeys(t *testing.T) {
	cfg, unknown, err := loadConfig(writeConfig(t, "count = 12\ncolour = \"red\"\n\n[dp]\nwidth = 3\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Count != 12 {
		t.Errorf("Count = %d, want 12", cfg.Count)
	}
	if len(unknown) != 2 || unknown[0] != "colour" || unknown[1] != "dp.width" {
		t.Errorf("unknown = %v, want [colour dp.width]", unknown)
	}
}
