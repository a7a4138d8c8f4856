// Package config loads user-level defaults for new linkage records:
// pluggable-type selections, clone depth, branch, ignore patterns, and the
// patch commit message. Values come from embedded defaults overlaid with an
// optional config file in the user's XDG config directory.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed defaults.toml
var defaultConfig []byte

// ConfigFileName is the optional user config file, looked up under
// $XDG_CONFIG_HOME/microsync/.
const ConfigFileName = "config.toml"

// Defaults holds the configurable defaults applied when creating records.
type Defaults struct {
	VCSType        string   `koanf:"vcs.type"`
	VCSDepth       int      `koanf:"vcs.depth"`
	VCSBranch      string   `koanf:"vcs.branch"`
	EngineType     string   `koanf:"engine.type"`
	ComparisonType string   `koanf:"comparison.type"`
	Ignore         []string `koanf:"comparison.ignore"`
	PatchType      string   `koanf:"patch.type"`
	PatchMessage   string   `koanf:"patch.message"`
}

// Load reads defaults from the embedded config overlaid with the user
// config file when one exists.
func Load() (*Defaults, error) {
	return loadFrom(userConfigPath())
}

func loadFrom(userPath string) (*Defaults, error) {
	k := koanf.New(".")

	// 1. Load embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Load user config if it exists
	if userPath != "" {
		if _, err := os.Stat(userPath); err == nil {
			if err := k.Load(file.Provider(userPath), toml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load user config from %s: %w", userPath, err)
			}
		}
	}

	d := &Defaults{
		VCSType:        k.String("vcs.type"),
		VCSDepth:       k.Int("vcs.depth"),
		VCSBranch:      k.String("vcs.branch"),
		EngineType:     k.String("engine.type"),
		ComparisonType: k.String("comparison.type"),
		Ignore:         k.Strings("comparison.ignore"),
		PatchType:      k.String("patch.type"),
		PatchMessage:   k.String("patch.message"),
	}
	return d, nil
}

func userConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "microsync", ConfigFileName)
}

// rawBytesProvider implements koanf.Provider for in-memory bytes
type rawBytesProvider struct {
	bytes []byte
}

func (r *rawBytesProvider) ReadBytes() ([]byte, error) {
	return r.bytes, nil
}

func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("rawBytesProvider does not support Read()")
}
