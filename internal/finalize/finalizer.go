package finalize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	ferrors "git.home.luguber.info/inful/sitewatch/internal/foundation/errors"
	"git.home.luguber.info/inful/sitewatch/internal/logfields"
	"git.home.luguber.info/inful/sitewatch/internal/metrics"
)

// Default file names inside the build and static directories.
const (
	DefaultManifest = "webpack-assets.json"
	DefaultIndex    = "index.html"
	DefaultFavicon  = "favicon.ico"
	DefaultTemplate = "html.template"
)

// Paths locates everything the finalizer reads and writes.
type Paths struct {
	BuildDir  string
	StaticDir string
	// TemplatePath receives the index document. Empty means
	// <parent of StaticDir>/www/html.template.
	TemplatePath string
	// Manifest, Index and Favicon are file names relative to their directories.
	Manifest string
	Index    string
	Favicon  string
}

func (p Paths) withDefaults() Paths {
	if p.Manifest == "" {
		p.Manifest = DefaultManifest
	}
	if p.Index == "" {
		p.Index = DefaultIndex
	}
	if p.Favicon == "" {
		p.Favicon = DefaultFavicon
	}
	if p.TemplatePath == "" && p.StaticDir != "" {
		p.TemplatePath = filepath.Join(filepath.Dir(filepath.Clean(p.StaticDir)), "www", DefaultTemplate)
	}
	return p
}

func (p Paths) manifestPath() string { return filepath.Join(p.BuildDir, p.Manifest) }

// Result describes one successful finalize run.
type Result struct {
	// Favicon is the manifest asset copied to the canonical favicon name, or "" when none was found.
	Favicon       string
	MissingAssets []string
	Stages        []StageTiming
	Duration      time.Duration
}

// Finalizer publishes a build directory. It is not safe for concurrent use;
// the paths it touches are owned by the finalizing cycle.
type Finalizer struct {
	paths    Paths
	mirror   Mirror
	recorder metrics.Recorder
	logger   *slog.Logger
	verify   bool
}

// Option configures a Finalizer.
type Option func(*Finalizer)

func WithMirror(m Mirror) Option { return func(f *Finalizer) { f.mirror = m } }

func WithRecorder(r metrics.Recorder) Option { return func(f *Finalizer) { f.recorder = r } }

func WithLogger(l *slog.Logger) Option { return func(f *Finalizer) { f.logger = l } }

// WithoutVerify skips the verify_assets stage.
func WithoutVerify() Option { return func(f *Finalizer) { f.verify = false } }

// New validates paths and returns a Finalizer using the native mirror unless overridden.
func New(paths Paths, opts ...Option) (*Finalizer, error) {
	paths = paths.withDefaults()
	if paths.BuildDir == "" || paths.StaticDir == "" {
		return nil, ferrors.ValidationError("finalizer needs both a build and a static directory").
			WithContext("build_dir", paths.BuildDir).
			WithContext("static_dir", paths.StaticDir).
			Build()
	}
	if filepath.Clean(paths.BuildDir) == filepath.Clean(paths.StaticDir) {
		return nil, ferrors.ValidationError("build and static directory must differ").
			WithContext("dir", paths.BuildDir).
			Build()
	}
	f := &Finalizer{
		paths:    paths,
		mirror:   NativeMirror{},
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		verify:   true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Paths returns the resolved paths.
func (f *Finalizer) Paths() Paths { return f.paths }

// Finalize runs every stage in order and stops at the first failure.
func (f *Finalizer) Finalize(ctx context.Context) (*Result, error) {
	stages := []stageDef{
		{StageFavicon, f.fixFavicon},
		{StageManifest, f.removeManifest},
		{StageMirror, f.mirrorOutput},
		{StageRelocateIndex, f.relocateIndex},
	}
	if f.verify {
		stages = append(stages, stageDef{StageVerifyAssets, f.verifyAssets})
	}

	res := &Result{}
	start := time.Now()
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			f.recorder.ObserveFinalizeDuration(time.Since(start))
			return nil, stageError(st.name, err)
		}
		t0 := time.Now()
		label, err := st.fn(ctx, res)
		d := time.Since(t0)
		if err != nil {
			label = metrics.ResultFatal
		}
		f.recorder.ObserveStageDuration(string(st.name), d)
		f.recorder.IncStageResult(string(st.name), label)
		res.Stages = append(res.Stages, StageTiming{Stage: st.name, Duration: d, Result: label})
		if err != nil {
			f.recorder.ObserveFinalizeDuration(time.Since(start))
			return nil, stageError(st.name, err)
		}
		f.logger.Debug("Finalize stage complete", logfields.Stage(string(st.name)), logfields.Duration(d))
	}
	res.Duration = time.Since(start)
	f.recorder.ObserveFinalizeDuration(res.Duration)
	return res, nil
}

func (f *Finalizer) fixFavicon(_ context.Context, res *Result) (metrics.ResultLabel, error) {
	manifest, err := ReadManifest(f.paths.manifestPath())
	if err != nil {
		return "", err
	}
	asset, ok := manifest.FindFavicon(f.paths.Favicon)
	if !ok {
		f.logger.Warn("Warning: no "+f.paths.Favicon+" in asset manifest", logfields.Path(f.paths.manifestPath()))
		return metrics.ResultWarning, nil
	}
	if !filepath.IsLocal(filepath.FromSlash(asset.Name)) {
		return "", fmt.Errorf("manifest asset %q points outside the build directory", asset.Name)
	}

	src := filepath.Join(f.paths.BuildDir, filepath.FromSlash(asset.Name))
	dst := filepath.Join(f.paths.BuildDir, f.paths.Favicon)
	res.Favicon = asset.Name
	if src == dst {
		return metrics.ResultSuccess, nil
	}
	if err := copyFile(src, dst); err != nil {
		return "", err
	}
	return metrics.ResultSuccess, nil
}

func (f *Finalizer) removeManifest(_ context.Context, _ *Result) (metrics.ResultLabel, error) {
	if err := os.Remove(f.paths.manifestPath()); err != nil {
		return "", fmt.Errorf("remove manifest: %w", err)
	}
	return metrics.ResultSuccess, nil
}

func (f *Finalizer) mirrorOutput(ctx context.Context, _ *Result) (metrics.ResultLabel, error) {
	f.logger.Debug("Mirroring build output",
		"strategy", f.mirror.Name(),
		"src", f.paths.BuildDir,
		"dst", f.paths.StaticDir)
	if err := f.mirror.Mirror(ctx, f.paths.BuildDir, f.paths.StaticDir); err != nil {
		return "", err
	}
	return metrics.ResultSuccess, nil
}

func (f *Finalizer) relocateIndex(_ context.Context, _ *Result) (metrics.ResultLabel, error) {
	src := filepath.Join(f.paths.StaticDir, f.paths.Index)
	if err := moveFile(src, f.paths.TemplatePath); err != nil {
		return "", fmt.Errorf("move %s to %s: %w", src, f.paths.TemplatePath, err)
	}
	return metrics.ResultSuccess, nil
}

func (f *Finalizer) verifyAssets(_ context.Context, res *Result) (metrics.ResultLabel, error) {
	missing, err := MissingAssets(f.paths.TemplatePath, f.paths.StaticDir)
	if err != nil {
		f.logger.Warn("Could not verify template assets", logfields.Path(f.paths.TemplatePath), logfields.Error(err))
		return metrics.ResultWarning, nil
	}
	if len(missing) == 0 {
		return metrics.ResultSuccess, nil
	}
	res.MissingAssets = missing
	f.logger.Warn("Template references assets missing from the static directory",
		logfields.Path(f.paths.TemplatePath),
		"missing", missing)
	return metrics.ResultWarning, nil
}
