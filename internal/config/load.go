package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitewatch/internal/foundation/errors"
	"git.home.luguber.info/inful/sitewatch/internal/journal"
)

// envFiles are loaded from the config directory, most specific first. Values
// already present in the environment are never overwritten.
var envFiles = []string{".env.local", ".env"}

// Load reads the configuration at path, expanding ${VAR} references, then
// applies defaults, resolves paths and validates the result.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ferrors.ConfigError("invalid configuration path").WithCause(err).Build()
	}

	data, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ferrors.NotFoundError("configuration file not found").
			WithContext("path", abs).
			Build()
	}
	if err != nil {
		return nil, ferrors.ConfigError("failed to read config file").
			WithCause(err).
			WithContext("path", abs).
			Build()
	}

	dir := filepath.Dir(abs)
	if err := loadEnvFiles(dir); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := decode(os.ExpandEnv(string(data)), &cfg); err != nil {
		return nil, ferrors.ConfigError("failed to parse config file").
			WithCause(err).
			WithContext("path", abs).
			Build()
	}

	if err := Resolve(&cfg, dir); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromDefaults returns the default configuration rooted at dir, for running
// without a config file.
func FromDefaults(dir string) (*Config, error) {
	if err := loadEnvFiles(dir); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := Resolve(&cfg, dir); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decode rejects unknown keys so typos do not silently fall back to defaults.
func decode(data string, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewBufferString(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func loadEnvFiles(dir string) error {
	var found []string
	for _, name := range envFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			found = append(found, p)
		}
	}
	if len(found) == 0 {
		return nil
	}
	if err := godotenv.Load(found...); err != nil {
		return ferrors.ConfigError("failed to load environment file").
			WithCause(err).
			WithContext("dir", dir).
			Build()
	}
	slog.Debug("Loaded environment files", "files", found)
	return nil
}

// Resolve makes every path in cfg absolute, adds the build and static
// directories to the watch ignore list, and validates the result. baseDir
// anchors a relative project_dir.
func Resolve(cfg *Config, baseDir string) error {
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return ferrors.ConfigError("invalid base directory").WithCause(err).Build()
	}
	cfg.ProjectDir = resolvePath(base, cfg.ProjectDir)
	project := cfg.ProjectDir

	cfg.Paths.BuildDir = resolvePath(project, cfg.Paths.BuildDir)
	cfg.Paths.StaticDir = resolvePath(project, cfg.Paths.StaticDir)
	if cfg.Paths.Template != "" {
		cfg.Paths.Template = resolvePath(project, cfg.Paths.Template)
	}
	for i, w := range cfg.Bundler.Watch {
		cfg.Bundler.Watch[i] = resolvePath(project, w)
	}
	for i, ig := range cfg.Bundler.Ignore {
		cfg.Bundler.Ignore[i] = resolvePath(project, ig)
	}
	for _, dir := range []string{cfg.Paths.BuildDir, cfg.Paths.StaticDir} {
		if dir != "" && !slices.Contains(cfg.Bundler.Ignore, dir) {
			cfg.Bundler.Ignore = append(cfg.Bundler.Ignore, dir)
		}
	}
	if cfg.Journal.Path != "" && cfg.Journal.Path != journal.MemoryPath {
		cfg.Journal.Path = resolvePath(project, cfg.Journal.Path)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

func resolvePath(base, p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
