package finalize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/sitewatch/internal/foundation/errors"
)

// MirrorMode selects the mirror strategy.
type MirrorMode string

const (
	MirrorAuto   MirrorMode = "auto"
	MirrorRsync  MirrorMode = "rsync"
	MirrorNative MirrorMode = "native"
)

// Mirror makes dst an exact copy of src: files missing from src are deleted from dst.
type Mirror interface {
	Mirror(ctx context.Context, src, dst string) error
	Name() string
}

// CommandRunner runs an external command and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// NewMirror returns the strategy for mode. Auto prefers rsync when it is on PATH.
func NewMirror(mode MirrorMode) (Mirror, error) {
	switch mode {
	case MirrorRsync:
		return NewRsyncMirror(), nil
	case MirrorNative:
		return NativeMirror{}, nil
	case MirrorAuto, "":
		if _, err := exec.LookPath("rsync"); err == nil {
			return NewRsyncMirror(), nil
		}
		return NativeMirror{}, nil
	default:
		return nil, ferrors.ValidationError("unknown mirror mode").
			WithContext("mode", string(mode)).
			Build()
	}
}

// RsyncMirror shells out to `rsync -a --delete`.
type RsyncMirror struct {
	Binary string
	run    CommandRunner
}

func NewRsyncMirror() *RsyncMirror {
	return &RsyncMirror{Binary: "rsync", run: execRunner}
}

func (m *RsyncMirror) Name() string { return "rsync" }

func (m *RsyncMirror) Mirror(ctx context.Context, src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	// The trailing separator makes rsync copy the contents of src, not src itself.
	source := strings.TrimRight(src, string(filepath.Separator)) + string(filepath.Separator)
	out, err := m.run(ctx, m.Binary, "-a", "--delete", source, dst)
	if err != nil {
		return fmt.Errorf("rsync %s -> %s: %w: %s", src, dst, err, bytes.TrimSpace(out))
	}
	return nil
}

// NativeMirror mirrors with a filesystem walk. Unchanged files (same size,
// mode and modification time) are left alone, like rsync's quick check.
type NativeMirror struct{}

func (NativeMirror) Name() string { return "native" }

func (NativeMirror) Mirror(ctx context.Context, src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("mirror source %s is not a directory", src)
	}
	if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return err
	}
	if err := copyTree(ctx, src, dst); err != nil {
		return err
	}
	return pruneTree(ctx, src, dst)
}

func copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		srcInfo, err := os.Lstat(path)
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			if err := removeIfNot(target, fs.ModeDir); err != nil {
				return err
			}
			return os.MkdirAll(target, srcInfo.Mode().Perm())
		case srcInfo.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			if err := os.RemoveAll(target); err != nil {
				return err
			}
			return os.Symlink(link, target)
		case srcInfo.Mode().IsRegular():
			if err := removeIfNot(target, 0); err != nil {
				return err
			}
			if unchanged(srcInfo, target) {
				return nil
			}
			if err := copyFile(path, target); err != nil {
				return err
			}
			return os.Chtimes(target, srcInfo.ModTime(), srcInfo.ModTime())
		default:
			// Sockets, devices and pipes have no place in a static site.
			return nil
		}
	})
}

// pruneTree deletes everything under dst that has no counterpart in src.
func pruneTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(dst, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(dst, path)
		if err != nil || rel == "." {
			return err
		}
		if _, err := os.Lstat(filepath.Join(src, rel)); err == nil {
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := os.RemoveAll(path); err != nil {
			return err
		}
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	})
}

// removeIfNot deletes target when it exists with a different type than want
// (fs.ModeDir for directories, 0 for regular files).
func removeIfNot(target string, want fs.FileMode) error {
	info, err := os.Lstat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Mode().Type() == want {
		return nil
	}
	return os.RemoveAll(target)
}

func unchanged(srcInfo fs.FileInfo, target string) bool {
	dstInfo, err := os.Lstat(target)
	if err != nil {
		return false
	}
	return dstInfo.Mode().IsRegular() &&
		dstInfo.Size() == srcInfo.Size() &&
		dstInfo.Mode().Perm() == srcInfo.Mode().Perm() &&
		dstInfo.ModTime().Equal(srcInfo.ModTime())
}
