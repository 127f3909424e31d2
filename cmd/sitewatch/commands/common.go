package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitewatch/internal/config"
	ferrors "git.home.luguber.info/inful/sitewatch/internal/foundation/errors"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

// NewGlobal returns the context used by the real binary.
func NewGlobal() *Global {
	return &Global{Out: os.Stdout}
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitewatch.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Watch    WatchCmd    `cmd:"" default:"1" help:"Run the bundler in watch mode and publish every clean build"`
	Finalize FinalizeCmd `cmd:"" help:"Publish the current build directory once"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	History  HistoryCmd  `cmd:"" help:"Show recent build cycles from the journal"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the configuration at path. When path is the default and
// no such file exists, the built-in defaults rooted at the working directory
// are used instead.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if path != config.DefaultPath || !ferrors.HasCategory(err, ferrors.CategoryNotFound) {
		return nil, err
	}
	wd, wdErr := os.Getwd()
	if wdErr != nil {
		return nil, ferrors.FileSystemError("failed to resolve working directory").WithCause(wdErr).Build()
	}
	slog.Debug("No configuration file, using defaults", "dir", filepath.Clean(wd))
	return config.FromDefaults(wd)
}
