// Package config loads sitewatch.yaml.
package config

import (
	"time"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "sitewatch.yaml"

// Config is the complete sitewatch configuration.
type Config struct {
	// ProjectDir is the bundler's working directory. Relative paths elsewhere
	// resolve against it.
	ProjectDir    string        `yaml:"project_dir"`
	CleanBuildDir bool          `yaml:"clean_build_dir"`
	Bundler       BundlerConfig `yaml:"bundler"`
	Paths         PathsConfig   `yaml:"paths"`
	Mirror        MirrorConfig  `yaml:"mirror"`
	Browser       BrowserConfig `yaml:"browser"`
	Journal       JournalConfig `yaml:"journal"`
	Metrics       MetricsConfig `yaml:"metrics"`
	Notify        NotifyConfig  `yaml:"notify"`
}

// BundlerConfig describes the external bundler and what it watches.
type BundlerConfig struct {
	Command          []string          `yaml:"command"`
	Env              map[string]string `yaml:"env,omitempty"`
	Watch            []string          `yaml:"watch"`
	Ignore           []string          `yaml:"ignore"`
	AggregateTimeout time.Duration     `yaml:"aggregate_timeout"`
}

// PathsConfig locates the build output and the published site.
type PathsConfig struct {
	BuildDir  string `yaml:"build_dir"`
	StaticDir string `yaml:"static_dir"`
	// Template is where index.html is moved; empty means <parent of static_dir>/www/html.template.
	Template string `yaml:"template"`
	Manifest string `yaml:"manifest"`
	Index    string `yaml:"index"`
	Favicon  string `yaml:"favicon"`
}

type MirrorConfig struct {
	Mode string `yaml:"mode"`
}

type BrowserConfig struct {
	Enabled bool          `yaml:"enabled"`
	URL     string        `yaml:"url"`
	Delay   time.Duration `yaml:"delay"`
}

// JournalConfig configures the cycle history. An empty path disables it.
type JournalConfig struct {
	Path      string        `yaml:"path"`
	Retention time.Duration `yaml:"retention"`
}

// MetricsConfig configures the Prometheus endpoint. An empty listen address disables it.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// NotifyConfig configures publish notifications. An empty URL disables them.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}
