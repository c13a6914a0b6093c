package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/nao1215/crewguard/internal/config"
	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// getVersion returns version string.
// Priority: ldflags > debug.ReadBuildInfo > "(devel)"
func getVersion() string {
	if version != "" {
		return version
	}
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		if buildInfo.Main.Version != "" {
			return buildInfo.Main.Version
		}
	}
	return "(devel)"
}

// buildSetting returns a VCS setting from the build info.
func buildSetting(key string) (string, bool) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, setting := range buildInfo.Settings {
		if setting.Key == key {
			return setting.Value, true
		}
	}
	return "", false
}

// getCommit returns the short commit hash.
// Priority: ldflags > vcs.revision > "unknown"
func getCommit() string {
	if commit != "" {
		return commit
	}
	if rev, ok := buildSetting("vcs.revision"); ok {
		if len(rev) > 7 {
			return rev[:7]
		}
		return rev
	}
	return "unknown"
}

// getDate returns build date.
// Priority: ldflags > vcs.time > "unknown"
func getDate() string {
	if date != "" {
		return date
	}
	if t, ok := buildSetting("vcs.time"); ok {
		return t
	}
	return "unknown"
}

// NewVersionCmd creates the version command.
// Besides the build metadata it prints the identity crewguard declares to
// the sites it checks, so operators can match it against their access logs.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the crewguard build and the crawler identity it declares",
		Long: `Show the crewguard release, the commit and date it was built from, and
the default User-Agent and robots.txt group used when checking a site.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "crewguard %s (commit %s, built %s)\n", getVersion(), getCommit(), getDate())
			fmt.Fprintf(out, "  go runtime:   %s\n", runtime.Version())
			fmt.Fprintf(out, "  user agent:   %s\n", config.DefaultUserAgent)
			fmt.Fprintf(out, "  robots group: %s\n", config.DefaultRobotsAgent)
		},
	}
}
