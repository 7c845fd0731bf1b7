package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/spellbee/internal/assets"
	"github.com/verte-zerg/spellbee/internal/config"
	"github.com/verte-zerg/spellbee/internal/dictionary"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeConfigTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeConfigTemplate creates the commented template unless a config exists.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# spellbee configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# randomize = true          # Shuffle new session queues
# exclude-correct = false   # Skip words already mastered
# mode = "student"          # student | tutor

[lists]
# dir = ""                  # Directory with your own manifest (default: bundled lists)
# manifest = %q

[dictionary]
# endpoint = %q
# timeout-seconds = 10

[storage]
# db = %q

[log]
# level = "info"            # debug | info | warn | error
# file = %q
`,
		assets.ManifestName,
		dictionary.DefaultEndpoint,
		config.DefaultDBPath(),
		config.DefaultLogPath(),
	)
}
