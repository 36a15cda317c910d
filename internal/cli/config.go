package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	kerrors "github.com/matzehuels/knapsack/pkg/errors"
	"github.com/matzehuels/knapsack/pkg/pipeline"
)

// Config holds persistent defaults read from config.toml. Command-line flags
// take precedence over every field.
type Config struct {
	Algorithm string  `toml:"algorithm"`
	Capacity  float64 `toml:"capacity"`
	Count     int     `toml:"count"`
	Seed      uint64  `toml:"seed"`

	DP    DPConfig    `toml:"dp"`
	BnB   BnBConfig   `toml:"bnb"`
	Serve ServeConfig `toml:"serve"`
}

// DPConfig holds the dynamic programming tunables.
type DPConfig struct {
	Margin    int  `toml:"margin"`
	Scale     int  `toml:"scale"`
	MaxCells  int  `toml:"max_cells"`
	Heuristic bool `toml:"heuristic"`
}

// BnBConfig holds the branch-and-bound tunables.
type BnBConfig struct {
	InitialStack int `toml:"initial_stack"`
	MaxFrames    int `toml:"max_frames"`
}

// ServeConfig holds the HTTP server settings.
type ServeConfig struct {
	Addr    string  `toml:"addr"`
	Rate    float64 `toml:"rate"`  // requests per second, 0 disables limiting
	Burst   int     `toml:"burst"` // token bucket size
	Timeout int     `toml:"timeout"`
}

// RequestTimeout returns the per-request solve timeout.
func (s ServeConfig) RequestTimeout() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

const (
	defaultAddr    = ":8080"
	defaultRate    = 10
	defaultBurst   = 20
	defaultTimeout = 30
)

func defaultConfig() Config {
	return Config{
		Algorithm: pipeline.DefaultAlgorithm,
		Serve: ServeConfig{
			Addr:    defaultAddr,
			Rate:    defaultRate,
			Burst:   defaultBurst,
			Timeout: defaultTimeout,
		},
	}
}

// loadConfig reads the config file at path over the defaults. An empty path
// means the default location, which may be missing. Keys the file sets that
// no field decodes are returned so the caller can warn about them.
func loadConfig(path string) (Config, []string, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil, nil
		}
		if os.IsNotExist(err) {
			return cfg, nil, kerrors.Wrap(kerrors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return cfg, nil, fmt.Errorf("read config: %w", err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return defaultConfig(), nil, kerrors.Wrap(kerrors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return defaultConfig(), nil, err
	}
	var unknown []string
	for _, k := range md.Undecoded() {
		unknown = append(unknown, k.String())
	}
	return cfg, unknown, nil
}

func (c Config) validate() error {
	if c.Serve.Rate < 0 || c.Serve.Burst < 0 || c.Serve.Timeout < 0 {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "serve rate, burst and timeout must be non-negative")
	}
	if c.Count < 0 || c.Capacity < 0 {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "config count and capacity must be non-negative")
	}
	return nil
}

// options converts the config into pipeline defaults.
func (c Config) options() pipeline.Options {
	return pipeline.Options{
		Algorithm:    c.Algorithm,
		Capacity:     c.Capacity,
		Count:        c.Count,
		Seed:         c.Seed,
		Margin:       c.DP.Margin,
		Scale:        c.DP.Scale,
		MaxCells:     c.DP.MaxCells,
		Heuristic:    c.DP.Heuristic,
		InitialStack: c.BnB.InitialStack,
		MaxFrames:    c.BnB.MaxFrames,
	}
}

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				path = defaultConfigPath()
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(c.Config)
		},
	})

	return cmd
}
