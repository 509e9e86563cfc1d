package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/glint/internal/log"
	"github.com/zjrosen/glint/internal/pubsub"
	"github.com/zjrosen/glint/internal/watcher"
)

var (
	watchVerbose  bool
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>...",
	Short: "Re-highlight HTML pages whenever they change",
	Long: `Highlight the given HTML pages in place, then keep watching them and
re-run whenever one is saved. Only pages with new, unhighlighted blocks are
rewritten, so glint's own writes do not trigger further work.

Examples:
  glint watch docs/index.html docs/api.html
  glint watch site/*.html --verbose`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "print log entries to stderr")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "quiet period before re-highlighting (0 = 300ms)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchVerbose {
		mirrorLogs(ctx, cmd.ErrOrStderr())
	}

	rt, err := newRuntime(cfg, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())

	out := cmd.ErrOrStderr()
	events := pubsub.NewBroker[pageEvent]()
	defer events.Close()
	go pubsub.Each(ctx, events.Subscribe(ctx), func(ev pubsub.Event[pageEvent]) {
		reportPageEvent(out, ev)
	})

	for _, path := range args {
		rehighlight(ctx, rt, path, events)
	}

	w, err := watcher.New(watchConfig(args, watchDebounce))
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Watching %d file(s). Press Ctrl+C to stop.\n", len(args))

	for {
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(out, "Stopped watching.")
			return nil
		case path := <-changes:
			rehighlight(ctx, rt, path, events)
		}
	}
}

// watchConfig starts from the watcher defaults; a positive debounce
// overrides the default quiet period.
func watchConfig(paths []string, debounce time.Duration) watcher.Config {
	wcfg := watcher.DefaultConfig(paths...)
	if debounce > 0 {
		wcfg.DebounceDur = debounce
	}
	return wcfg
}

// pageEvent is published after a watched page has been processed.
type pageEvent struct {
	Path      string
	Processed int
	Err       error
}

// rehighlight processes one page and publishes the outcome. Errors are
// logged and published; the watch keeps running.
func rehighlight(ctx context.Context, rt *runtime, path string, events pubsub.Publisher[pageEvent]) {
	report, err := processInPlace(ctx, rt, path)
	switch {
	case err != nil:
		log.ErrorErr(log.CatWatcher, "re-highlight failed", err, "path", path)
		events.Publish(pubsub.PageFailedEvent, pageEvent{Path: path, Err: err})
	case report.Changed():
		events.Publish(pubsub.PageHighlightedEvent, pageEvent{Path: path, Processed: report.Processed()})
	default:
		events.Publish(pubsub.PageUnchangedEvent, pageEvent{Path: path})
	}
}

func reportPageEvent(out io.Writer, ev pubsub.Event[pageEvent]) {
	switch ev.Type {
	case pubsub.PageFailedEvent:
		_, _ = fmt.Fprintf(out, "%s: %v\n", ev.Payload.Path, ev.Payload.Err)
	case pubsub.PageHighlightedEvent:
		_, _ = fmt.Fprintf(out, "%s: highlighted %d block(s)\n", ev.Payload.Path, ev.Payload.Processed)
	}
}
