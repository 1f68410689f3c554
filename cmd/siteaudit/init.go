package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/siteaudit/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/siteaudit.yaml
var configTemplate embed.FS

const templatePath = "templates/siteaudit.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a siteaudit configuration file",
		Long: `Init writes a commented .siteaudit configuration file.

The generated file documents the scan defaults (module timeout, insight
deduplication and cap, AI provider, baseline revenue) and shows how to
attach business metadata to individual sites.

Examples:
  # Create .siteaudit in the current directory
  siteaudit init

  # Create the file in the XDG config directory
  siteaudit init -o ~/.config/siteaudit/.siteaudit

  # Overwrite an existing file
  siteaudit init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to set per-site details such as:")
	fmt.Fprintln(out, "  - Business name and location")
	fmt.Fprintln(out, "  - Social media handles")
	fmt.Fprintln(out, "  - Modules to skip")
	return nil
}
