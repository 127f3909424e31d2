package config

import (
	"net/url"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitewatch/internal/finalize"
	ferrors "git.home.luguber.info/inful/sitewatch/internal/foundation/errors"
)

// Validate checks a resolved configuration.
func Validate(cfg *Config) error {
	if len(cfg.Bundler.Command) == 0 || strings.TrimSpace(cfg.Bundler.Command[0]) == "" {
		return invalid("bundler.command", "must name a program")
	}
	if len(cfg.Bundler.Watch) == 0 {
		return invalid("bundler.watch", "must list at least one directory")
	}
	if cfg.Bundler.AggregateTimeout <= 0 {
		return invalid("bundler.aggregate_timeout", "must be positive")
	}

	if cfg.Paths.BuildDir == "" {
		return invalid("paths.build_dir", "is required")
	}
	if cfg.Paths.StaticDir == "" {
		return invalid("paths.static_dir", "is required")
	}
	build, static := filepath.Clean(cfg.Paths.BuildDir), filepath.Clean(cfg.Paths.StaticDir)
	if build == static {
		return invalid("paths.static_dir", "must differ from paths.build_dir")
	}
	if within(static, build) || within(build, static) {
		return invalid("paths.static_dir", "must not overlap paths.build_dir")
	}
	for key, name := range map[string]string{
		"paths.manifest": cfg.Paths.Manifest,
		"paths.index":    cfg.Paths.Index,
		"paths.favicon":  cfg.Paths.Favicon,
	} {
		if name == "" || filepath.Base(name) != name {
			return invalid(key, "must be a plain file name")
		}
	}

	switch finalize.MirrorMode(cfg.Mirror.Mode) {
	case finalize.MirrorAuto, finalize.MirrorRsync, finalize.MirrorNative:
	default:
		return invalid("mirror.mode", "must be one of auto, rsync, native")
	}

	if cfg.Browser.Enabled {
		u, err := url.Parse(cfg.Browser.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("browser.url", "must be an absolute http(s) URL")
		}
	}
	if cfg.Browser.Delay < 0 {
		return invalid("browser.delay", "must not be negative")
	}
	if cfg.Journal.Retention < 0 {
		return invalid("journal.retention", "must not be negative")
	}
	if cfg.Notify.NATSURL != "" && cfg.Notify.Subject == "" {
		return invalid("notify.subject", "is required when notify.nats_url is set")
	}
	return nil
}

func invalid(key, problem string) error {
	return ferrors.ValidationError(key+" "+problem).
		WithContext("key", key).
		Build()
}

// within reports whether path lies below dir.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
