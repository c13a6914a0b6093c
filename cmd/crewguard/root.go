package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for CrewGuard.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crewguard",
		Short: "Check whether a website may be crawled",
		Long: `CrewGuard inspects a website and reports whether automated data collection
from it is allowed, partially restricted or blocked.

It looks at the HTTP status, redirects, anti-bot protection, robots.txt,
legal notices, personal data on the page and exposed API paths, and turns
them into a verdict with legal, social and technical risks.

CrewGuard declares a fixed User-Agent and never impersonates a browser.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
