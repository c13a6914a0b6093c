package config

import (
	"maps"
	"net"
	"strings"
)

// SiteConfig holds per-host overrides for a site check.
type SiteConfig struct {
	// Headers are extra HTTP headers sent to this host.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the declared User-Agent for this host.
	UserAgent string `yaml:"userAgent,omitempty"`

	// RobotsAgent overrides the robots.txt group evaluated for this host.
	RobotsAgent string `yaml:"robotsAgent,omitempty"`

	// ProbePaths replaces the probed API path suffixes for this host.
	ProbePaths []string `yaml:"probePaths,omitempty"`
}

// File represents the structure of the .crewguard configuration file.
type File struct {
	// Sites maps host names (optionally with port) to their overrides.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults is applied to every site before its own overrides.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the merged configuration for a host.
// The lookup is case-insensitive. When the exact host has no entry, a
// "www." prefix and then a port are dropped and the lookup retried.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := SiteConfig{
		Headers:     maps.Clone(cf.Defaults.Headers),
		UserAgent:   cf.Defaults.UserAgent,
		RobotsAgent: cf.Defaults.RobotsAgent,
		ProbePaths:  cf.Defaults.ProbePaths,
	}

	site, ok := cf.lookup(host)
	if !ok {
		return result
	}

	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	if site.RobotsAgent != "" {
		result.RobotsAgent = site.RobotsAgent
	}
	if len(site.ProbePaths) > 0 {
		result.ProbePaths = site.ProbePaths
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		maps.Copy(result.Headers, site.Headers)
	}
	return result
}

// lookup finds the site entry for a host.
func (cf *File) lookup(host string) (SiteConfig, bool) {
	host = strings.ToLower(host)
	for key, site := range cf.Sites {
		if strings.ToLower(key) == host {
			return site, true
		}
	}
	if trimmed, found := strings.CutPrefix(host, "www."); found {
		if site, ok := cf.lookup(trimmed); ok {
			return site, true
		}
	}
	if name, _, err := net.SplitHostPort(host); err == nil {
		return cf.lookup(name)
	}
	return SiteConfig{}, false
}
