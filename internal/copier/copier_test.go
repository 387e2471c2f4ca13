package copier

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlhartme/sushi-sub000/internal/fsys"
	"github.com/mlhartme/sushi-sub000/internal/subst"
	"github.com/mlhartme/sushi-sub000/internal/variables"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// listFiles returns all regular files below root as slash paths.
func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(files)
	return files
}

func relPaths(t *testing.T, root fsys.Entry, entries []fsys.Entry) []string {
	t.Helper()
	result := make([]string, len(entries))
	for i, e := range entries {
		rel, err := e.RelativeTo(root)
		require.NoError(t, err)
		result[i] = rel
	}
	return result
}

// valuesFork forks one context per value of name.
func valuesFork(name string, values ...string) ForkFunc {
	return func(ctx variables.Context) ([]variables.Context, error) {
		result := make([]variables.Context, len(values))
		for i, v := range values {
			result[i] = ctx.With(name, v)
		}
		return result, nil
	}
}

func TestCopySubstitutesContent(t *testing.T) {
	base := t.TempDir()
	src, dst := filepath.Join(base, "src"), filepath.Join(base, "dst")
	writeFiles(t, src, map[string]string{"file": "home: ${home}"})

	c, err := New(Options{
		Source:    fsys.MustLocal(src),
		Variables: variables.New(map[string]string{"home": "mhm"}),
		Content:   subst.Ant(),
	})
	require.NoError(t, err)

	destRoot := fsys.MustLocal(dst)
	entries, err := c.Directory(destRoot)
	require.NoError(t, err)

	assert.Equal(t, []string{"file"}, relPaths(t, destRoot, entries))
	assert.Equal(t, "home: mhm", readFile(t, filepath.Join(dst, "file")))
}

func TestCopyRoundTripWithoutSubstitution(t *testing.T) {
	base := t.TempDir()
	src, dst := filepath.Join(base, "src"), filepath.Join(base, "dst")
	files := map[string]string{
		"a.txt":        "literal ${x}\n",
		"dir/b.txt":    "b",
		"dir/sub/c.md": "__y__",
	}
	writeFiles(t, src, files)

	c, err := New(Options{Source: fsys.MustLocal(src)})
	require.NoError(t, err)

	destRoot := fsys.MustLocal(dst)
	entries, err := c.Directory(destRoot)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "dir", "dir/b.txt", "dir/sub", "dir/sub/c.md"}, relPaths(t, destRoot, entries))
	for rel, content := range files {
		assert.Equal(t, content, readFile(t, filepath.Join(dst, filepath.FromSlash(rel))))
	}
}

func TestCopyIsIdempotent(t *testing.T) {
	base := t.TempDir()
	src, dst := filepath.Join(base, "src"), filepath.Join(base, "dst")
	writeFiles(t, src, map[string]string{"${name}/file": "hello ${name}\n"})

	c, err := New(Options{
		Source:    fsys.MustLocal(src),
		Variables: variables.New(map[string]string{"name": "world"}),
		Path:      subst.Ant(),
		Content:   subst.Ant(),
	})
	require.NoError(t, err)

	first, err := c.Directory(fsys.MustLocal(dst))
	require.NoError(t, err)
	before := listFiles(t, dst)

	second, err := c.Directory(fsys.MustLocal(dst))
	require.NoError(t, err)

	assert.Len(t, second, len(first))
	assert.Equal(t, before, listFiles(t, dst))
	assert.Equal(t, "hello world\n", readFile(t, filepath.Join(dst, "world", "file")))
}

func TestCopyForkMultiplies(t *testing.T) {
	base := t.TempDir()
	src, dst := filepath.Join(base, "src"), filepath.Join(base, "dst")
	writeFiles(t, src, map[string]string{
		"LE:__lang__-__env__/conf": "__lang__/__env__",
	})

	table, err := NewDispatchTable(map[rune]ForkFunc{
		'L': valuesFork("lang", "de", "en"),
		'E': valuesFork("env", "dev", "prod"),
	}, nil)
	require.NoError(t, err)

	c, err := New(Options{
		Source:           fsys.MustLocal(src),
		Path:             subst.Underline(),
		Content:          subst.Underline(),
		ContextDelimiter: DefaultContextDelimiter,
		Dispatch:         table,
	})
	require.NoError(t, err)

	destRoot := fsys.MustLocal(dst)
	entries, err := c.Directory(destRoot)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"de-dev", "de-dev/conf",
		"de-prod", "de-prod/conf",
		"en-dev", "en-dev/conf",
		"en-prod", "en-prod/conf",
	}, relPaths(t, destRoot, entries))
	assert.Equal(t, "en/prod", readFile(t, filepath.Join(dst, "en-prod", "conf")))
}

func TestCopyForkTriggerIsCaseInsensitive(t *testing.T) {
	base := t.TempDir()
	src, dst := filepath.Join(base, "src"), filepath.Join(base, "dst")
	writeFiles(t, src, map[string]string{"l:${lang}.txt": "${lang}"})

	table, err := NewDispatchTable(map[rune]ForkFunc{'L': valuesFork("lang", "de", "fr")}, nil)
	require.NoError(t, err)

	c, err := New(Options{
		Source:           fsys.MustLocal(src),
		Path:             subst.Ant(),
		Content:          subst.Ant(),
		ContextDelimiter: ':',
		Dispatch:         table,
	})
	require.NoError(t, err)

	_, err = c.Directory(fsys.MustLocal(dst))
	require.NoError(t, err)
	assert.Equal(t, []string{"de.txt", "fr.txt"}, listFiles(t, dst))
}

func TestCopyWithoutDelimiterKeepsName(t *testing.T) {
	base := t.TempDir()
	src, dst := filepath.Join(base, "src"), filepath.Join(base, "dst")
	writeFiles(t, src, map[string]string{"a:b": "x"})

	c, err := New(Options{Source: fsys.MustLocal(src)})
	require.NoError(t, err)

	_, err = c.Directory(fsys.MustLocal(dst))
	require.NoError(t, err)
	assert.Equal(t, []string{"a:b"}, listFiles(t, dst))
}

func TestCopyGenerators(t *testing.T) {
	base := t.TempDir()
	src, dst := filepath.Join(base, "src"), filepath.Join(base, "dst")
	writeFiles(t, src, map[string]string{
		"@version":        "ignored ${undefined}",
		"@keep/template":  "never copied",
		"plain/${name}.t": "${name}",
	})

	table, err := NewDispatchTable(nil, map[string]Generator{
		"version": ContentGenerator(func(ctx variables.Context) (string, error) {
			name, err := ctx.Lookup("name")
			return name + " 1.0\n", err
		}),
		"keep": DirectoryGenerator(func(dest fsys.Entry, _ variables.Context) error {
			return dest.Join(".gitkeep").WriteText("")
		}),
	})
	require.NoError(t, err)

	c, err := New(Options{
		Source:     fsys.MustLocal(src),
		Variables:  variables.New(map[string]string{"name": "demo"}),
		Path:       subst.Ant(),
		Content:    subst.Ant(),
		CallPrefix: DefaultCallPrefix,
		Dispatch:   table,
	})
	require.NoError(t, err)

	destRoot := fsys.MustLocal(dst)
	entries, err := c.Directory(destRoot)
	require.NoError(t, err)

	assert.Equal(t, []string{"keep", "version", "plain", "plain/demo.t"}, relPaths(t, destRoot, entries))
	assert.Equal(t, []string{"keep/.gitkeep", "plain/demo.t", "version"}, listFiles(t, dst))
	assert.Equal(t, "demo 1.0\n", readFile(t, filepath.Join(dst, "version")))
}

func TestCopyBinaryIsVerbatim(t *testing.T) {
	base := t.TempDir()
	src, dst := filepath.Join(base, "src"), filepath.Join(base, "dst")
	writeFiles(t, src, map[string]string{
		"logo.png": "${not substituted}",
		"blob":     "a\x00${nope}",
	})

	c, err := New(Options{Source: fsys.MustLocal(src), Content: subst.Ant()})
	require.NoError(t, err)

	_, err = c.Directory(fsys.MustLocal(dst))
	require.NoError(t, err)
	assert.Equal(t, "${not substituted}", readFile(t, filepath.Join(dst, "logo.png")))
	assert.Equal(t, "a\x00${nope}", readFile(t, filepath.Join(dst, "blob")))
}

func TestCopyFilter(t *testing.T) {
	base := t.TempDir()
	src, dst := filepath.Join(base, "src"), filepath.Join(base, "dst")
	writeFiles(t, src, map[string]string{
		"keep.txt":       "k",
		"skip.swp":       "s",
		".git/HEAD":      "ref",
		"sub/other.txt":  "o",
		"sub/ignore.swp": "i",
	})

	c, err := New(Options{
		Source: fsys.MustLocal(src),
		Filter: fsys.Filter{Exclude: []string{"*.swp", ".git"}},
	})
	require.NoError(t, err)

	_, err = c.Directory(fsys.MustLocal(dst))
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.txt", "sub/other.txt"}, listFiles(t, dst))
}

func TestCopyPropagatesModes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not supported on windows")
	}
	base := t.TempDir()
	src, dst := filepath.Join(base, "src"), filepath.Join(base, "dst")
	writeFiles(t, src, map[string]string{"file": "x", "run.sh": "#!/bin/sh\n"})
	require.NoError(t, os.Chmod(filepath.Join(src, "file"), 0700))
	require.NoError(t, os.Chmod(filepath.Join(src, "run.sh"), 0755))

	c, err := New(Options{Source: fsys.MustLocal(src), Modes: true})
	require.NoError(t, err)

	_, err = c.Directory(fsys.MustLocal(dst))
	require.NoError(t, err)

	for name, want := range map[string]os.FileMode{"file": 0700, "run.sh": 0755} {
		info, err := os.Stat(filepath.Join(dst, name))
		require.NoError(t, err)
		assert.Equal(t, want, info.Mode().Perm(), name)
	}
}

func TestCopyReadOnlyDirectoryTwice(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not supported on windows")
	}
	base := t.TempDir()
	src, dst := filepath.Join(base, "src"), filepath.Join(base, "dst")
	writeFiles(t, src, map[string]string{"ro/file": "x", "ro/sub/deep": "y"})
	require.NoError(t, os.Chmod(filepath.Join(src, "ro", "sub"), 0555))
	require.NoError(t, os.Chmod(filepath.Join(src, "ro"), 0555))
	t.Cleanup(func() {
		for _, root := range []string{src, dst} {
			_ = os.Chmod(filepath.Join(root, "ro"), 0755)
			_ = os.Chmod(filepath.Join(root, "ro", "sub"), 0755)
		}
	})

	c, err := New(Options{Source: fsys.MustLocal(src), Modes: true})
	require.NoError(t, err)

	for run := 1; run <= 2; run++ {
		_, err = c.Directory(fsys.MustLocal(dst))
		require.NoError(t, err, "run %d", run)
	}

	for _, rel := range []string{"ro", "ro/sub"} {
		info, err := os.Stat(filepath.Join(dst, filepath.FromSlash(rel)))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0555), info.Mode().Perm(), rel)
	}
	assert.Equal(t, "y", readFile(t, filepath.Join(dst, "ro", "sub", "deep")))
}

func TestCopyErrors(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		ctx      map[string]string
		wantType CopyErrorType
		wantMsg  string
	}{
		{
			name:     "undefined variable in content",
			files:    map[string]string{"file": "${missing}"},
			wantType: SubstitutionFailed,
			wantMsg:  "missing",
		},
		{
			name:     "undefined variable in name",
			files:    map[string]string{"${missing}": "x"},
			wantType: SubstitutionFailed,
			wantMsg:  "missing",
		},
		{
			name:     "unknown context",
			files:    map[string]string{"Q:file": "x"},
			wantType: UnknownContext,
			wantMsg:  "unknown context Q",
		},
		{
			name:     "unknown call",
			files:    map[string]string{"@nothing": "x"},
			wantType: UnknownCall,
			wantMsg:  "unknown call nothing",
		},
		{
			name:     "call with wrong flavor",
			files:    map[string]string{"@dirgen": "x"},
			wantType: UnknownCall,
			wantMsg:  "cannot create a file",
		},
		{
			name:     "name substituted into a path",
			files:    map[string]string{"${p}": "x"},
			ctx:      map[string]string{"p": "a/b"},
			wantType: InvalidName,
			wantMsg:  "path separator",
		},
		{
			name:     "empty name",
			files:    map[string]string{"${p}": "x"},
			ctx:      map[string]string{"p": ""},
			wantType: InvalidName,
			wantMsg:  "empty name",
		},
		{
			name:     "failing fork hook",
			files:    map[string]string{"F:file": "x"},
			wantType: HookFailed,
			wantMsg:  "boom",
		},
	}

	table, err := NewDispatchTable(
		map[rune]ForkFunc{'F': func(variables.Context) ([]variables.Context, error) {
			return nil, errors.New("boom")
		}},
		map[string]Generator{"dirgen": DirectoryGenerator(func(fsys.Entry, variables.Context) error { return nil })},
	)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			src := filepath.Join(base, "src")
			writeFiles(t, src, tt.files)

			c, err := New(Options{
				Source:           fsys.MustLocal(src),
				Variables:        variables.New(tt.ctx),
				Path:             subst.Ant(),
				Content:          subst.Ant(),
				CallPrefix:       DefaultCallPrefix,
				ContextDelimiter: DefaultContextDelimiter,
				Dispatch:         table,
			})
			require.NoError(t, err)

			entries, err := c.Directory(fsys.MustLocal(filepath.Join(base, "dst")))
			require.Error(t, err)
			assert.Nil(t, entries)

			var copyErr *CopyError
			require.True(t, errors.As(err, &copyErr))
			assert.Equal(t, tt.wantType, copyErr.Type, copyErr.Error())
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.True(t, strings.HasPrefix(copyErr.Source, src), copyErr.Source)
		})
	}
}

func TestCopyErrorUnwrapsSubstitutionError(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "src")
	writeFiles(t, src, map[string]string{"file": "${open"})

	c, err := New(Options{Source: fsys.MustLocal(src), Content: subst.Ant()})
	require.NoError(t, err)

	_, err = c.Directory(fsys.MustLocal(filepath.Join(base, "dst")))
	var substErr *subst.Error
	require.True(t, errors.As(err, &substErr))
	assert.Equal(t, subst.MissingEndMarker, substErr.Type)
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(Options{})
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, InvalidOptions, cfgErr.Type)

	_, err = New(Options{Source: fsys.MustLocal(t.TempDir()), CallPrefix: ':', ContextDelimiter: ':'})
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, InvalidOptions, cfgErr.Type)
}

func TestIsBinaryContent(t *testing.T) {
	assert.False(t, isBinaryContent(nil))
	assert.False(t, isBinaryContent([]byte("plain text\n")))
	assert.True(t, isBinaryContent([]byte{'a', 0, 'b'}))

	late := append([]byte(strings.Repeat("x", sniffLen)), 0)
	assert.False(t, isBinaryContent(late), "only the first bytes are sniffed")
}

func TestHasBinaryExtension(t *testing.T) {
	exts := DefaultBinaryExtensions()
	assert.True(t, hasBinaryExtension("logo.PNG", exts))
	assert.True(t, hasBinaryExtension("lib.so", exts))
	assert.False(t, hasBinaryExtension("main.go", exts))
	assert.False(t, hasBinaryExtension("Makefile", exts))
}
