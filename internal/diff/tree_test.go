package diff

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlhartme/sushi-sub000/internal/fsys"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestDirectoryMissingLeftRoot(t *testing.T) {
	base := t.TempDir()
	writeFiles(t, filepath.Join(base, "right"), map[string]string{"file": "home: mhm"})

	report, err := Directory(fsys.MustLocal(filepath.Join(base, "left")), fsys.MustLocal(filepath.Join(base, "right")), fsys.Filter{}, false)
	require.NoError(t, err)

	assert.Equal(t, "A file\n", report.Brief())
	assert.Equal(t, "### A file\n@@ -0,0 +1,1 @@\n+home: mhm\n", report.Full(DefaultOptions()))
}

func TestDirectoryEqualTrees(t *testing.T) {
	base := t.TempDir()
	files := map[string]string{"a": "1\n", "d/b": "2\n"}
	writeFiles(t, filepath.Join(base, "left"), files)
	writeFiles(t, filepath.Join(base, "right"), files)

	report, err := Directory(fsys.MustLocal(filepath.Join(base, "left")), fsys.MustLocal(filepath.Join(base, "right")), fsys.Filter{}, true)
	require.NoError(t, err)
	assert.True(t, report.Empty())
	assert.Equal(t, "", report.Brief())
}

func TestDirectoryMarkers(t *testing.T) {
	base := t.TempDir()
	left, right := filepath.Join(base, "left"), filepath.Join(base, "right")
	writeFiles(t, left, map[string]string{
		"same":       "x\n",
		"changed":    "1",
		"gone":       "bye\n",
		"olddir/f":   "f\n",
		"becomesdir": "plain\n",
	})
	writeFiles(t, right, map[string]string{
		"same":         "x\n",
		"changed":      "2",
		"new":          "hi\n",
		"becomesdir/f": "inside\n",
	})

	report, err := Directory(fsys.MustLocal(left), fsys.MustLocal(right), fsys.Filter{}, false)
	require.NoError(t, err)

	assert.Equal(t,
		"A becomesdir\n"+
			"A becomesdir/f\n"+
			"M changed\n"+
			"R gone\n"+
			"A new\n"+
			"R olddir\n"+
			"R olddir/f\n",
		report.Brief())

	stats := report.Stats()
	assert.Equal(t, 3, stats.Added)
	assert.Equal(t, 3, stats.Removed)
	assert.Equal(t, 1, stats.Modified)
	assert.Equal(t, 3, stats.Insertions)
	assert.Equal(t, 3, stats.Deletions)
}

func TestDirectoryBecameFileIsUnsupported(t *testing.T) {
	base := t.TempDir()
	left, right := filepath.Join(base, "left"), filepath.Join(base, "right")
	writeFiles(t, left, map[string]string{"x/f": "f"})
	writeFiles(t, right, map[string]string{"x": "file now"})

	_, err := Directory(fsys.MustLocal(left), fsys.MustLocal(right), fsys.Filter{}, false)
	require.Error(t, err)

	var diffErr *Error
	require.True(t, errors.As(err, &diffErr))
	assert.Equal(t, Unsupported, diffErr.Type)
	assert.Equal(t, "x", diffErr.Path)
}

func TestDirectoryModeChange(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not supported on windows")
	}
	base := t.TempDir()
	left, right := filepath.Join(base, "left"), filepath.Join(base, "right")
	writeFiles(t, left, map[string]string{"file": "same"})
	writeFiles(t, right, map[string]string{"file": "same"})
	require.NoError(t, os.Chmod(filepath.Join(left, "file"), 0700))
	require.NoError(t, os.Chmod(filepath.Join(right, "file"), 0655))

	report, err := Directory(fsys.MustLocal(left), fsys.MustLocal(right), fsys.Filter{}, true)
	require.NoError(t, err)
	assert.Equal(t, "m file\n", report.Brief())
	assert.Equal(t, "### m file\nmode -rwx------ -> -rw-r-xr-x\n", report.Full(DefaultOptions()))

	report, err = Directory(fsys.MustLocal(left), fsys.MustLocal(right), fsys.Filter{}, false)
	require.NoError(t, err)
	assert.True(t, report.Empty(), "modes are ignored unless requested")
}

func TestDirectoryFilter(t *testing.T) {
	base := t.TempDir()
	left, right := filepath.Join(base, "left"), filepath.Join(base, "right")
	writeFiles(t, left, map[string]string{"keep": "1"})
	writeFiles(t, right, map[string]string{"keep": "1", "skip.swp": "x"})

	report, err := Directory(fsys.MustLocal(left), fsys.MustLocal(right), fsys.Filter{Exclude: []string{"*.swp"}}, false)
	require.NoError(t, err)
	assert.True(t, report.Empty())
}
