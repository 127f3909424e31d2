package finalize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sitewatch/internal/foundation/errors"
)

func TestNewMirror(t *testing.T) {
	m, err := NewMirror(MirrorNative)
	require.NoError(t, err)
	assert.Equal(t, "native", m.Name())

	m, err = NewMirror(MirrorRsync)
	require.NoError(t, err)
	assert.Equal(t, "rsync", m.Name())

	m, err = NewMirror(MirrorAuto)
	require.NoError(t, err)
	assert.Contains(t, []string{"rsync", "native"}, m.Name())

	_, err = NewMirror("ftp")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestRsyncMirrorArguments(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "static")
	var gotName string
	var gotArgs []string
	m := &RsyncMirror{Binary: "rsync", run: func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		return nil, nil
	}}

	require.NoError(t, m.Mirror(context.Background(), "/srv/build/", dst))
	assert.Equal(t, "rsync", gotName)
	assert.Equal(t, []string{"-a", "--delete", "/srv/build/", dst}, gotArgs)
}

func TestRsyncMirrorFailureIncludesOutput(t *testing.T) {
	m := &RsyncMirror{Binary: "rsync", run: func(context.Context, string, ...string) ([]byte, error) {
		return []byte("rsync: permission denied\n"), errors.New("exit status 23")
	}}

	err := m.Mirror(context.Background(), "/srv/build", filepath.Join(t.TempDir(), "static"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Contains(t, err.Error(), "exit status 23")
}

func TestNativeMirrorCopiesAndPrunes(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")
	writeFile(t, filepath.Join(src, "a.txt"), "a")
	writeFile(t, filepath.Join(src, "sub", "b.txt"), "b")
	writeFile(t, filepath.Join(dst, "stale.txt"), "old")
	writeFile(t, filepath.Join(dst, "olddir", "c.txt"), "old")

	require.NoError(t, NativeMirror{}.Mirror(context.Background(), src, dst))

	assert.Equal(t, "a", readFile(t, filepath.Join(dst, "a.txt")))
	assert.Equal(t, "b", readFile(t, filepath.Join(dst, "sub", "b.txt")))
	assert.NoFileExists(t, filepath.Join(dst, "stale.txt"))
	assert.NoDirExists(t, filepath.Join(dst, "olddir"))
}

// snapshot maps every regular file under root to its content.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestNativeMirrorTwiceIsStable(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "static")
	writeFile(t, filepath.Join(src, "app.js"), "app")
	writeFile(t, filepath.Join(src, "static", "media", "logo.svg"), "<svg/>")
	writeFile(t, filepath.Join(dst, "stale.css"), "old")

	require.NoError(t, NativeMirror{}.Mirror(context.Background(), src, dst))
	first := snapshot(t, dst)
	require.NoError(t, NativeMirror{}.Mirror(context.Background(), src, dst))

	assert.Equal(t, map[string]string{"app.js": "app", "static/media/logo.svg": "<svg/>"}, first)
	assert.Equal(t, first, snapshot(t, dst))
	assert.Equal(t, snapshot(t, src), snapshot(t, dst))
}

func TestNativeMirrorReplacesTypeChanges(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")
	writeFile(t, filepath.Join(src, "thing", "inner.txt"), "dir now")
	writeFile(t, filepath.Join(src, "other"), "file now")
	writeFile(t, filepath.Join(dst, "thing"), "was a file")
	writeFile(t, filepath.Join(dst, "other", "x.txt"), "was a dir")

	require.NoError(t, NativeMirror{}.Mirror(context.Background(), src, dst))

	assert.Equal(t, "dir now", readFile(t, filepath.Join(dst, "thing", "inner.txt")))
	assert.Equal(t, "file now", readFile(t, filepath.Join(dst, "other")))
}

func TestNativeMirrorUpdatesChangedFiles(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")
	writeFile(t, filepath.Join(src, "app.js"), "v1")

	require.NoError(t, NativeMirror{}.Mirror(context.Background(), src, dst))
	writeFile(t, filepath.Join(src, "app.js"), "version2")
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(filepath.Join(src, "app.js"), later, later))

	require.NoError(t, NativeMirror{}.Mirror(context.Background(), src, dst))
	assert.Equal(t, "version2", readFile(t, filepath.Join(dst, "app.js")))
}

func TestNativeMirrorSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")
	writeFile(t, filepath.Join(src, "real.txt"), "r")
	require.NoError(t, os.Symlink("real.txt", filepath.Join(src, "link.txt")))

	require.NoError(t, NativeMirror{}.Mirror(context.Background(), src, dst))
	target, err := os.Readlink(filepath.Join(dst, "link.txt"))
	require.NoError(t, err)
	assert.Equal(t, "real.txt", target)
}

func TestNativeMirrorRejectsFileSource(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "file")
	writeFile(t, src, "x")
	err := NativeMirror{}.Mirror(context.Background(), src, filepath.Join(root, "dst"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "not a directory"))
}
