package app

import (
	"context"
	"path"
	"slices"
	"time"

	"github.com/mlhartme/sushi-sub000/internal/config"
	"github.com/mlhartme/sushi-sub000/internal/debug"
	"github.com/mlhartme/sushi-sub000/internal/watcher"
)

// WatchOptions configures the watch workflow.
type WatchOptions struct {
	EngineOptions
	// Debounce is the quiet period before a re-copy; 0 selects the default.
	Debounce time.Duration
}

// WatchEvent reports one copy run of the watch workflow.
type WatchEvent struct {
	// Changed are the source paths that triggered the run; nil for the
	// initial run.
	Changed []string
	// Result is set when the run succeeded.
	Result *CopyResult
	// Err is set when the run failed.
	Err error
}

// Watch copies the source once and again after every batch of source
// changes, until ctx is done. Configuration and variables are reloaded for
// every run. A failing run is reported to onRun and watching continues;
// only a failure to set up watching is returned.
func Watch(ctx context.Context, opts WatchOptions, onRun func(WatchEvent)) error {
	debug.DebugSection("[app] Watch workflow start")

	engine, err := Prepare(opts.EngineOptions)
	if err != nil {
		return err
	}
	filter := engine.Filter
	special := config.SpecialFiles()
	w, err := watcher.New(engine.Source.Path(), func(rel string) bool {
		// config edits trigger a run although config files are never copied
		if slices.Contains(special, path.Base(rel)) {
			return false
		}
		return !filter.AcceptsDirectory(rel)
	}, opts.Debounce)
	if err != nil {
		return NewWatchError("failed to watch source", err)
	}
	defer w.Close()

	// edits made during the initial copy start another run
	result, err := engine.Copy(ctx)
	onRun(WatchEvent{Result: result, Err: err})

	err = w.Run(ctx, func(changed []string) {
		debug.Debug("[app] Source changed: %v", changed)
		result, err := Copy(ctx, opts.EngineOptions)
		onRun(WatchEvent{Changed: changed, Result: result, Err: err})
	})
	if err != nil {
		return NewWatchError("watch failed", err)
	}
	debug.Debug("[app] Watch workflow stopped")
	return nil
}
