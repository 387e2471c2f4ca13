package fsys

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFileLifecycle(t *testing.T) {
	dir := MustLocal(t.TempDir())
	file := dir.Join("sub", "file.txt")

	exists, err := file.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, dir.Join("sub").CreateDirectory())
	require.NoError(t, file.WriteText("hello\n"))

	isFile, err := file.IsFile()
	require.NoError(t, err)
	assert.True(t, isFile)

	isDir, err := file.IsDirectory()
	require.NoError(t, err)
	assert.False(t, isDir)

	text, err := file.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "hello\n", text)

	assert.Equal(t, "file.txt", file.Name())
	rel, err := file.RelativeTo(dir)
	require.NoError(t, err)
	assert.Equal(t, "sub/file.txt", rel)
}

func TestLocalCreateDirectory(t *testing.T) {
	dir := MustLocal(t.TempDir()).Join("x")

	require.NoError(t, dir.CreateDirectory())
	assert.Error(t, dir.CreateDirectory(), "second create must fail")
	assert.NoError(t, dir.MkdirAll(), "idempotent variant must succeed")
	assert.NoError(t, dir.Join("a", "b").MkdirAll())
}

func TestLocalListSorted(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(name), 0644))
	}

	children, err := MustLocal(root).List()
	require.NoError(t, err)

	var names []string
	for _, c := range children {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestLocalWriteKeepsPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not supported on windows")
	}
	file := MustLocal(t.TempDir()).Join("script.sh")
	require.NoError(t, file.WriteText("one"))

	mode, err := file.Permissions()
	require.NoError(t, err)
	assert.Equal(t, defaultFileMode, mode)

	require.NoError(t, file.SetPermissions(0700))
	require.NoError(t, file.WriteText("two"))

	mode, err = file.Permissions()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), mode)
}

func TestLocalCopyBytesTo(t *testing.T) {
	dir := MustLocal(t.TempDir())
	src := dir.Join("src.bin")
	dst := dir.Join("dst.bin")
	data := []byte{0x00, 0xff, 0x10, '\n'}
	require.NoError(t, os.WriteFile(src.Path(), data, 0644))

	require.NoError(t, src.CopyBytesTo(dst))

	got, err := dst.ReadBytes()
	require.NoError(t, err)
	assert.Equal(t, data, got)

	// no temporary files left behind
	children, err := dir.List()
	require.NoError(t, err)
	assert.Len(t, children, 2)
}

func TestLocalWriteToDirectoryFails(t *testing.T) {
	dir := MustLocal(t.TempDir())
	assert.Error(t, dir.WriteText("x"))
}

func TestScratch(t *testing.T) {
	scratch, err := NewScratch("fsys-test-*")
	require.NoError(t, err)

	root := scratch.Root()
	require.NoError(t, root.Join("f").WriteText("x"))

	path := root.Path()
	require.NoError(t, scratch.Close())
	require.NoError(t, scratch.Close())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestScratchRemovesReadOnlyDirectories(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not supported on windows")
	}
	scratch, err := NewScratch("fsys-test-*")
	require.NoError(t, err)

	locked := scratch.Root().Join("locked", "inner")
	require.NoError(t, locked.MkdirAll())
	require.NoError(t, locked.Join("f").WriteText("x"))
	require.NoError(t, locked.SetPermissions(0555))
	require.NoError(t, scratch.Root().Join("locked").SetPermissions(0555))

	path := scratch.Root().Path()
	require.NoError(t, scratch.Close())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
