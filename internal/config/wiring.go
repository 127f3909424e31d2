package config

import (
	"maps"
	"slices"

	"git.home.luguber.info/inful/sitewatch/internal/bundler"
	"git.home.luguber.info/inful/sitewatch/internal/finalize"
)

// FinalizePaths converts the paths section for the finalizer.
func (c *Config) FinalizePaths() finalize.Paths {
	return finalize.Paths{
		BuildDir:     c.Paths.BuildDir,
		StaticDir:    c.Paths.StaticDir,
		TemplatePath: c.Paths.Template,
		Manifest:     c.Paths.Manifest,
		Index:        c.Paths.Index,
		Favicon:      c.Paths.Favicon,
	}
}

// BundlerOptions converts the bundler section for the command driver.
func (c *Config) BundlerOptions() bundler.Options {
	var env []string
	for _, k := range slices.Sorted(maps.Keys(c.Bundler.Env)) {
		env = append(env, k+"="+c.Bundler.Env[k])
	}
	return bundler.Options{
		Command:          slices.Clone(c.Bundler.Command),
		Dir:              c.ProjectDir,
		Env:              env,
		Watch:            slices.Clone(c.Bundler.Watch),
		Ignore:           slices.Clone(c.Bundler.Ignore),
		AggregateTimeout: c.Bundler.AggregateTimeout,
	}
}
