package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/crewguard/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/crewguard.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = config.DefaultConfigFile

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter .crewguard file with per-site request settings",
		Long: `Write a commented .crewguard file that "crewguard check", "serve" and
"mcp" pick up from the current directory.

The "defaults" block sets the timeouts, User-Agent and robots.txt group used
for every site. Entries under "sites" override them per host, for example to
send a contact header to one operator or to probe a site-specific API path.
The file is created with mode 0600 because headers may carry credentials.

Examples:
  # Write .crewguard next to your crawler project
  crewguard init

  # Write it somewhere else and point check at it
  crewguard init -o ops/crewguard.yaml
  crewguard check -c ops/crewguard.yaml https://example.com

  # Replace an existing file with a fresh template
  crewguard init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
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

	content, err := configTemplate.ReadFile("templates/crewguard.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Headers may carry credentials, so the file is private to the owner.
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s (mode 0600)\n", outputPath)
	fmt.Fprintln(out, "\nAdd a host under \"sites\" to change, for that site only:")
	fmt.Fprintln(out, "  headers      extra request headers such as From")
	fmt.Fprintln(out, "  userAgent    the User-Agent declared to the site")
	fmt.Fprintln(out, "  robotsAgent  the robots.txt group that decides the verdict")
	fmt.Fprintln(out, "  probePaths   the API paths probed for machine endpoints")
	fmt.Fprintf(out, "\nRun \"crewguard check -c %s <url>\" to use it.\n", outputPath)

	return nil
}
