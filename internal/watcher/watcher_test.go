package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDue(t *testing.T) {
	w := &Watcher{debounce: time.Second, pending: map[string]time.Time{}}
	start := time.Now()

	assert.Nil(t, w.due(start))

	w.pending["b"] = start
	w.pending["a"] = start.Add(500 * time.Millisecond)

	assert.Nil(t, w.due(start.Add(time.Second)), "newest change is still settling")
	assert.Equal(t, []string{"a", "b"}, w.due(start.Add(2*time.Second)))
	assert.Empty(t, w.pending)
}

func TestRunDeliversChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "skip"), 0755))

	w, err := New(root, func(rel string) bool { return strings.HasPrefix(rel, "skip") }, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	batches := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(paths []string) { batches <- paths })
	}()

	require.NoError(t, os.WriteFile(filepath.Join(root, "skip", "ignored"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "file"), []byte("x"), 0644))

	select {
	case batch := <-batches:
		assert.Contains(t, batch, "sub/file")
		for _, rel := range batch {
			assert.False(t, strings.HasPrefix(rel, "skip"), rel)
		}
	case <-ctx.Done():
		t.Fatal("no change delivered")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestNewFailsForMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), nil, 0)
	assert.Error(t, err)
}
