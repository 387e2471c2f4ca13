package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlhartme/sushi-sub000/internal/app"
	"github.com/mlhartme/sushi-sub000/internal/watcher"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <src> <dest>",
	Short: "Copy again whenever the source changes",
	Long: `Copy the source into the destination, then copy again after every
change below the source directory until interrupted (Ctrl+C).

Changes are debounced; configuration and variables are reloaded for
every run. A failing run is reported and watching continues.

Examples:
  sushi watch ./template ./out
  sushi watch ./template ./out --set name=demo --debounce 1s`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

// Watch command flags
var (
	watchFlags    engineFlags
	watchDebounce time.Duration
)

func init() {
	watchFlags.register(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "Quiet period before copying again")
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts, err := watchFlags.options(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printProgress(fmt.Sprintf("Watching %s (Ctrl+C to stop)", args[0]))
	return app.Watch(ctx, app.WatchOptions{EngineOptions: opts, Debounce: watchDebounce}, reportWatchRun)
}

func reportWatchRun(e app.WatchEvent) {
	trigger := "initial copy"
	if e.Changed != nil {
		trigger = strings.Join(e.Changed, ", ")
	}
	if e.Err != nil {
		printErrorMsg(fmt.Sprintf("%s: %v", trigger, e.Err))
		return
	}
	printSuccess(fmt.Sprintf("%s: copied %d files and %d directories",
		trigger, e.Result.Files, e.Result.Directories))
}
