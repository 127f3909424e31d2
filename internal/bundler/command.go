package bundler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitewatch/internal/build"
	ferrors "git.home.luguber.info/inful/sitewatch/internal/foundation/errors"
	"git.home.luguber.info/inful/sitewatch/internal/logfields"
)

// DefaultAggregateTimeout is how long changes are collected before a rebuild.
const DefaultAggregateTimeout = 300 * time.Millisecond

// Handler receives bundler events. A returned error stops Watch.
type Handler func(ctx context.Context, ev build.Event) error

// Options configures a CommandBundler.
type Options struct {
	// Command is the program and arguments, run in Dir.
	Command []string
	Dir     string
	Env     []string
	// Watch lists directories observed recursively for changes.
	Watch []string
	// Ignore lists directories whose changes never trigger a rebuild.
	Ignore           []string
	AggregateTimeout time.Duration
}

// Output is what one run of the command produced.
type Output struct {
	Stdout []byte
	Stderr []byte
}

// Runner executes the bundler command once.
type Runner func(ctx context.Context, dir string, env []string, name string, args ...string) (Output, error)

func execRunner(ctx context.Context, dir string, env []string, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, err
}

// CommandBundler drives a bundler command from filesystem changes.
type CommandBundler struct {
	opts   Options
	run    Runner
	ignore ignoreSet
	logger *slog.Logger
}

// Option customizes a CommandBundler.
type Option func(*CommandBundler)

// WithRunner replaces process execution.
func WithRunner(r Runner) Option { return func(b *CommandBundler) { b.run = r } }

func WithLogger(l *slog.Logger) Option { return func(b *CommandBundler) { b.logger = l } }

// NewCommandBundler validates opts.
func NewCommandBundler(opts Options, options ...Option) (*CommandBundler, error) {
	if len(opts.Command) == 0 || strings.TrimSpace(opts.Command[0]) == "" {
		return nil, ferrors.ValidationError("bundler command is empty").Build()
	}
	if opts.AggregateTimeout <= 0 {
		opts.AggregateTimeout = DefaultAggregateTimeout
	}
	b := &CommandBundler{
		opts:   opts,
		run:    execRunner,
		ignore: newIgnoreSet(opts.Ignore),
		logger: slog.Default(),
	}
	for _, o := range options {
		o(b)
	}
	return b, nil
}

// Watch runs one cycle immediately and another after every settled burst of
// changes, until ctx is canceled or the handler returns an error.
// Cancellation is not an error.
func (b *CommandBundler) Watch(ctx context.Context, handle Handler) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.BundlerError("failed to create file watcher").WithCause(err).Build()
	}
	defer func() {
		_ = watcher.Close()
	}()

	for _, dir := range b.opts.Watch {
		if err := b.addDirsRecursive(watcher, dir); err != nil {
			return ferrors.BundlerError("failed to watch source directory").
				WithCause(err).
				WithContext("dir", dir).
				Build()
		}
	}

	if err := b.cycle(ctx, handle); err != nil {
		return err
	}

	timer := time.NewTimer(b.opts.AggregateTimeout)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if b.handleFileEvent(watcher, ev) {
				timer.Reset(b.opts.AggregateTimeout)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			b.logger.Warn("File watcher error", logfields.Error(err))
		case <-timer.C:
			if err := b.cycle(ctx, handle); err != nil {
				return err
			}
		}
	}
}

// cycle reports Invalidated, runs the command and reports its outcome.
func (b *CommandBundler) cycle(ctx context.Context, handle Handler) error {
	if err := handle(ctx, build.InvalidatedEvent()); err != nil {
		return err
	}
	ev := b.compile(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return handle(ctx, ev)
}

// compile runs the command and turns its output into an event.
func (b *CommandBundler) compile(ctx context.Context) build.Event {
	name, args := b.opts.Command[0], b.opts.Command[1:]
	out, err := b.run(ctx, b.opts.Dir, b.opts.Env, name, args...)

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr) && exitErr.ExitCode() >= 0:
	case errors.As(err, &exitErr):
		return build.FailedEvent(fmt.Errorf("%w: %s", build.ErrBundlerCrash, exitErr))
	default:
		return build.FailedEvent(fmt.Errorf("%w: %w", build.ErrBundlerStart, err))
	}

	stats, ok := ParseStats(out.Stdout)
	if ok {
		if err != nil && !stats.HasErrors() {
			stats = build.NewCompilationResult([]string{stderrText(out, err)}, stats.Warnings)
		}
		return build.DoneEvent(stats)
	}
	if err != nil {
		return build.DoneEvent(build.NewCompilationResult([]string{failureText(out, err)}, nil))
	}
	return build.DoneEvent(build.CompilationResult{})
}

// failureText is the message shown for a failed run without usable stats.
func failureText(out Output, err error) string {
	text := strings.TrimSpace(string(out.Stdout) + "\n" + string(out.Stderr))
	if text == "" {
		return err.Error()
	}
	return text
}

// stderrText is the message for a failed run whose stdout held clean stats.
func stderrText(out Output, err error) string {
	if text := strings.TrimSpace(string(out.Stderr)); text != "" {
		return text
	}
	return err.Error()
}

// handleFileEvent reports whether ev should schedule a rebuild, and starts
// watching directories created under a watched tree.
func (b *CommandBundler) handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod || shouldIgnoreEvent(ev.Name) || b.ignore.match(ev.Name) {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = b.addDirsRecursive(watcher, ev.Name)
		}
	}
	b.logger.Debug("File change detected", logfields.Path(ev.Name), "op", ev.Op.String())
	return true
}

func (b *CommandBundler) addDirsRecursive(w *fsnotify.Watcher, root string) error {
	if _, err := os.Stat(root); err != nil {
		return err
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (shouldIgnoreEvent(path) || b.ignore.match(path)) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			b.logger.Warn("Failed to watch directory", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}
