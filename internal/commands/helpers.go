package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/toolsmith-mcp/toolsmith/internal/config"
	"github.com/toolsmith-mcp/toolsmith/internal/registry"
)

// env groups everything a command needs: the OS filesystem, the project
// root from the persistent --root flag, and the resolved config.
type env struct {
	Fs   afero.Fs
	Root string
	Cfg  config.Config
}

func loadEnv(cmd *cobra.Command) (env, error) {
	root, err := cmd.Flags().GetString("root")
	if err != nil {
		return env{}, err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return env{}, err
	}

	return env{
		Fs:   afero.NewOsFs(),
		Root: root,
		Cfg:  cfg,
	}, nil
}

func (e env) store() *registry.Store {
	return registry.NewStore(e.Fs, e.Cfg.Registry)
}

// parseParams turns repeated --param name=value flags into a map.
func parseParams(raw []string) (map[string]string, error) {
	params := make(map[string]string, len(raw))
	for _, pair := range raw {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q (expected name=value)", pair)
		}
		params[name] = value
	}
	return params, nil
}
