package cmd

import (
	"fmt"
	"strings"

	"github.com/mannubhai1/jinja2visualiser/internal/config"
	"github.com/mannubhai1/jinja2visualiser/internal/export"
	"github.com/spf13/cobra"
)

// loadConfigFromFlag loads config from --config if provided, otherwise from default path.
func loadConfigFromFlag() (*config.Config, error) {
	if strings.TrimSpace(configFile) != "" {
		return config.Load(configFile)
	}
	return config.ReadConfig()
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	if cmd.Flags().Changed(name) {
		return true
	}
	return cmd.InheritedFlags().Changed(name)
}

// resolveDirection resolves the diagram direction with precedence:
// --direction flag > config diagram_direction > default.
func resolveDirection(cmd *cobra.Command, flagValue string) (string, error) {
	if flagChanged(cmd, "direction") {
		dir := strings.ToUpper(strings.TrimSpace(flagValue))
		if !export.ValidDirection(dir) {
			return "", fmt.Errorf("invalid --direction %q (expected TD|TB|LR|RL|BT)", flagValue)
		}
		return dir, nil
	}

	if activeConfig != nil && strings.TrimSpace(activeConfig.DiagramDirection) != "" {
		dir := strings.ToUpper(strings.TrimSpace(activeConfig.DiagramDirection))
		if !export.ValidDirection(dir) {
			return "", fmt.Errorf("invalid diagram_direction %q in config", activeConfig.DiagramDirection)
		}
		return dir, nil
	}

	return export.DefaultDirection, nil
}

// resolveExtensions returns the template extensions to scan for, preferring
// an explicit flag list over the config.
func resolveExtensions(flagValues []string) []string {
	raw := flagValues
	if len(raw) == 0 {
		if activeConfig != nil {
			raw = activeConfig.ExtensionsOrDefault()
		} else {
			raw = config.DefaultExtensions
		}
	}

	exts := make([]string, 0, len(raw))
	for _, ext := range raw {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return exts
}

func formatConfigLoadError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load config: %w", err)
}
