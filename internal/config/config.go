// Package config resolves toolsmith settings from, in increasing
// precedence: built-in defaults, an optional .toolsmith.yaml in the project
// root, TOOLSMITH_* environment variables, and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the resolved settings for one invocation. All paths are
// relative to the project root unless given absolute.
type Config struct {
	// Registry is the path of the saved-commands document.
	Registry string `mapstructure:"registry"`

	// Rules is the path of the assistant rules file that carries the
	// managed saved-commands block.
	Rules string `mapstructure:"rules"`

	// Output is the directory generated tool modules are written under.
	Output string `mapstructure:"output"`

	// HostConfig is the host assistant's MCP configuration file, updated
	// by the install operation. Unlike the other paths it defaults to a
	// user-global location, not a project-relative one.
	HostConfig string `mapstructure:"host-config"`
}

// Defaults as viper keys.
const (
	keyRegistry   = "registry"
	keyRules      = "rules"
	keyOutput     = "output"
	keyHostConfig = "host-config"
)

// Load resolves configuration for a project rooted at root.
func Load(root string) (Config, error) {
	v := viper.New()

	v.SetDefault(keyRegistry, filepath.Join(".toolsmith", "commands.json"))
	v.SetDefault(keyRules, "AGENTS.md")
	v.SetDefault(keyOutput, filepath.Join(".toolsmith", "tools"))
	home, _ := os.UserHomeDir()
	v.SetDefault(keyHostConfig, filepath.Join(home, ".cursor", "mcp.json"))

	v.SetEnvPrefix("TOOLSMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, key := range []string{keyRegistry, keyRules, keyOutput, keyHostConfig} {
		v.BindEnv(key)
	}

	v.SetConfigName(".toolsmith")
	v.SetConfigType("yaml")
	v.AddConfigPath(root)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; a broken one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Registry = resolve(root, cfg.Registry)
	cfg.Rules = resolve(root, cfg.Rules)
	cfg.Output = resolve(root, cfg.Output)
	cfg.HostConfig = resolve(root, cfg.HostConfig)
	return cfg, nil
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
