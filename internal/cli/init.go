package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/moodlog/internal/paths"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend string    `yaml:"backend"`
	DataDir string    `yaml:"data_dir,omitempty"`
	Log     logConfig `yaml:"log"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize moodlog storage",
		Long: "Create the configuration directory and config.yaml, then open the\n" +
			"storage backend and write the default feelings if none exist.",
		Args: withUsage(cobra.NoArgs),
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.ConfigDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	configPath := paths.ConfigFile(s.ConfigDir)
	wrote, err := writeConfigIfMissing(configPath, configFile{
		Backend: s.Store.Backend,
		DataDir: s.Store.DataDir,
		Log:     logConfig{Level: s.LogLevel, Format: s.LogFormat},
	})
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return withApp(cmd, func(a *app) error {
		cat, err := a.catalog.List()
		if err != nil {
			return fmt.Errorf("initialize feelings: %w", err)
		}

		out := cmd.OutOrStdout()
		if flags.jsonMode {
			return printJSON(cmd, map[string]any{
				"config":         configPath,
				"config_written": wrote,
				"backend":        a.settings.Store.Backend,
				"data_dir":       a.settings.Store.DataDir,
				"feelings":       cat.Len(),
			})
		}
		if wrote {
			fmt.Fprintf(out, "Wrote %s\n", configPath)
		}
		fmt.Fprintf(out, "moodlog initialized (%s backend, %d feelings)\n", a.settings.Store.Backend, cat.Len())
		if a.settings.Store.DataDir != "" {
			fmt.Fprintf(out, "Data directory: %s\n", a.settings.Store.DataDir)
		}
		return nil
	})
}

// writeConfigIfMissing creates path with cfg if the file does not exist and
// reports whether it wrote the file.
func writeConfigIfMissing(path string, cfg configFile) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
