package main

import (
	"fmt"
	"log/slog"

	"github.com/nao1215/crewguard/internal/config"
	securelog "github.com/nao1215/crewguard/internal/log"
	"github.com/spf13/cobra"
)

// addCheckerFlags registers the flags that shape how sites are checked.
// check, serve and mcp share them.
func addCheckerFlags(cmd *cobra.Command) {
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for the main page request")
	cmd.Flags().Duration("robots-timeout", config.DefaultRobotsTimeout,
		"Timeout for the robots.txt request")
	cmd.Flags().Duration("probe-timeout", config.DefaultProbeTimeout,
		"Timeout for each API path probe")
	cmd.Flags().Int("max-redirects", config.DefaultMaxRedirects,
		"Maximum redirects to follow")
	cmd.Flags().Bool("no-follow-redirects", false,
		"Report a redirect of the main page instead of following it")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent declared on every request")
	cmd.Flags().StringP("robots-agent", "a", config.DefaultRobotsAgent,
		"robots.txt user-agent group to evaluate")
	cmd.Flags().StringSlice("probe-path", config.DefaultProbePaths(),
		"API path suffix to probe (repeatable)")
	cmd.Flags().StringP("proxy", "x", "",
		"Send all requests through a SOCKS5 proxy (e.g., 127.0.0.1:1080)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .crewguard in current or home directory)")
}

// buildCheckerConfig creates a Config from the checker flags and loads the
// configuration file.
func buildCheckerConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.RobotsTimeout, err = flags.GetDuration("robots-timeout"); err != nil {
		return nil, err
	}
	if cfg.ProbeTimeout, err = flags.GetDuration("probe-timeout"); err != nil {
		return nil, err
	}
	if cfg.MaxRedirects, err = flags.GetInt("max-redirects"); err != nil {
		return nil, err
	}
	noFollow, err := flags.GetBool("no-follow-redirects")
	if err != nil {
		return nil, err
	}
	cfg.FollowRedirects = !noFollow
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.RobotsAgent, err = flags.GetString("robots-agent"); err != nil {
		return nil, err
	}
	if cfg.ProbePaths, err = flags.GetStringSlice("probe-path"); err != nil {
		return nil, err
	}
	if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	// An explicitly named config file must exist; otherwise a missing file
	// just means no overrides.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the redacting text logger on the command's stderr.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	return securelog.NewSecureLogger(cmd.ErrOrStderr(), verbose)
}
