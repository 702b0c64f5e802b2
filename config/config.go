// Package config loads TOML-based tunables for spvdis: the inliner's
// folding limits and the CLI's default output mode. A project drops a
// spvdis.toml next to its shaders; absent one, Load returns Default(),
// whose inliner values match the disasm package's own built-in constants.
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// DefaultFileName is the config file name LoadDefault looks for in a
// directory.
const DefaultFileName = "spvdis.toml"

// tomlConfig mirrors the on-disk TOML shape.
type tomlConfig struct {
	Inliner *tomlInliner `toml:"inliner"`
	Output  *tomlOutput  `toml:"output"`
}

type tomlInliner struct {
	NoInlineComplexity   int  `toml:"no-inline-complexity"`
	CompositeConstructCap int `toml:"composite-construct-cap"`
	Disabled             bool `toml:"disabled"`
}

type tomlOutput struct {
	Format     string `toml:"format"`
	Color      *bool  `toml:"color"`
	ShowBanner *bool  `toml:"show-banner"`
}

// Inliner holds the dataflow-folding tunables read from the [inliner]
// table. These feed disasm.NoInlineComplexity / disasm.CompositeConstructCap
// directly; a zero NoInlineComplexity after loading means "use the
// package default", not "never fold".
type Inliner struct {
	NoInlineComplexity    int
	CompositeConstructCap int
	Disabled              bool
}

// Output holds CLI presentation defaults read from the [output] table.
type Output struct {
	Format     string // "text", "json"; empty means "text"
	Color      bool
	ShowBanner bool
}

// Config is the fully resolved, validated configuration.
type Config struct {
	Inliner Inliner
	Output  Output
}

// Default returns a Config populated with spvdis's built-in defaults,
// the same values used when no config file is present.
func Default() *Config {
	return &Config{
		Inliner: Inliner{
			NoInlineComplexity:    3,
			CompositeConstructCap: 2,
		},
		Output: Output{
			Format:     "text",
			Color:      true,
			ShowBanner: true,
		},
	}
}

// Load reads and validates the config file at path. A missing file is
// not an error: Load returns Default() unchanged, since most invocations
// of spvdis have no project-level overrides at all.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	defer f.Close()

	buf, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	tc := &tomlConfig{}
	if err := toml.Unmarshal(buf, tc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg := Default()
	if err := mergeInliner(cfg, tc.Inliner); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	mergeOutput(cfg, tc.Output)

	return cfg, nil
}

// LoadDefault looks for DefaultFileName in dir and loads it, falling
// back to Default() if it isn't there.
func LoadDefault(dir string) (*Config, error) {
	return Load(filepath.Join(dir, DefaultFileName))
}

func mergeInliner(cfg *Config, ti *tomlInliner) error {
	if ti == nil {
		return nil
	}
	if ti.NoInlineComplexity < 0 {
		return fmt.Errorf("inliner.no-inline-complexity must be >= 0, got %d", ti.NoInlineComplexity)
	}
	if ti.CompositeConstructCap < 0 {
		return fmt.Errorf("inliner.composite-construct-cap must be >= 0, got %d", ti.CompositeConstructCap)
	}
	if ti.NoInlineComplexity > 0 {
		cfg.Inliner.NoInlineComplexity = ti.NoInlineComplexity
	}
	if ti.CompositeConstructCap > 0 {
		cfg.Inliner.CompositeConstructCap = ti.CompositeConstructCap
	}
	cfg.Inliner.Disabled = ti.Disabled
	return nil
}

func mergeOutput(cfg *Config, to *tomlOutput) {
	if to == nil {
		return
	}
	if to.Format != "" {
		cfg.Output.Format = to.Format
	}
	if to.Color != nil {
		cfg.Output.Color = *to.Color
	}
	if to.ShowBanner != nil {
		cfg.Output.ShowBanner = *to.ShowBanner
	}
}
