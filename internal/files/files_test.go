// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.tex"), "x")
	writeFile(t, filepath.Join(root, "fig", "a.PNG"), "x")
	writeFile(t, filepath.Join(root, "fig", "b.jpg"), "x")
	writeFile(t, filepath.Join(root, "notes.txt"), "x")

	got, err := Collect(root, []string{".png", "jpg"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "fig", "a.PNG"),
		filepath.Join(root, "fig", "b.jpg"),
	}, got)
}

func TestCollectMissingRoot(t *testing.T) {
	_, err := Collect(filepath.Join(t.TempDir(), "nope"), []string{".tex"})
	require.Error(t, err)
}

func TestReadTextDropsInvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.tex")
	require.NoError(t, os.WriteFile(path, []byte("ab\xffcd"), 0o644))

	got, err := ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, "abcd", got)
}

func TestCopyPreservesModTime(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	writeFile(t, src, "image")
	stamp := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, stamp, stamp))

	dst := filepath.Join(dir, "out", "figures", "src.png")
	require.NoError(t, Copy(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "image", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(stamp))
}

func TestCopySameFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.png")
	writeFile(t, src, "image")

	require.Error(t, Copy(src, src))

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "image", string(data), "source must not be truncated")
}

func TestCopyTree(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "template.tex"), "tpl")
	writeFile(t, filepath.Join(src, "Definitions", "mdpi.cls"), "cls")

	dst := filepath.Join(t.TempDir(), "out")
	require.NoError(t, CopyTree(src, dst))

	cls := filepath.Join("Definitions", "mdpi.cls")
	for rel, want := range map[string]string{"template.tex": "tpl", cls: "cls"} {
		data, err := os.ReadFile(filepath.Join(dst, rel))
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}
}

func TestWriteAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "refs.bib")
	require.NoError(t, WriteAtomic(path, []byte("@article{a,}\n")))
	require.NoError(t, WriteAtomic(path, []byte("@article{b,}\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "@article{b,}\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
	assert.True(t, IsDir(filepath.Dir(path)))
	assert.False(t, IsDir(path))
}
