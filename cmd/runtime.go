package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/zjrosen/glint/internal/blocks"
	"github.com/zjrosen/glint/internal/cachemanager"
	"github.com/zjrosen/glint/internal/config"
	"github.com/zjrosen/glint/internal/flags"
	"github.com/zjrosen/glint/internal/highlight"
	"github.com/zjrosen/glint/internal/log"
	"github.com/zjrosen/glint/internal/metrics"
	"github.com/zjrosen/glint/internal/page"
	"github.com/zjrosen/glint/internal/pubsub"
	"github.com/zjrosen/glint/internal/store"
	"github.com/zjrosen/glint/internal/tracing"
)

// runtime holds the components shared by commands, built from cfg.
type runtime struct {
	cfg       config.Config
	rules     highlight.RuleSet
	flags     *flags.Registry
	metrics   *metrics.Metrics
	tracing   *tracing.Provider
	store     *store.Store
	processor *blocks.Processor
}

type runtimeOptions struct {
	metrics bool // create a Prometheus registry (serve only)
}

// newRuntime compiles rules and wires caches, the persistent store, tracing
// and metrics according to config and feature flags.
func newRuntime(c config.Config, opts runtimeOptions) (*runtime, error) {
	rules, err := c.RuleSet()
	if err != nil {
		return nil, fmt.Errorf("invalid rule configuration: %w", err)
	}
	classes, err := c.ClassMap()
	if err != nil {
		return nil, fmt.Errorf("invalid class configuration: %w", err)
	}

	rt := &runtime{cfg: c, rules: rules, flags: flags.New(c.Flags)}
	for _, name := range rt.flags.Unknown() {
		log.Warn(log.CatConfig, "Unknown feature flag in config", "flag", name)
	}

	tracingCfg := c.Tracing
	if tracingCfg.Exporter == "file" && tracingCfg.FilePath == "" {
		tracingCfg.FilePath = config.DefaultTracesFilePath()
	}
	rt.tracing, err = tracing.NewProvider(tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}

	if opts.metrics {
		rt.metrics = metrics.New()
	}

	procOpts := []blocks.Option{
		blocks.WithClasses(classes),
		blocks.WithMetrics(rt.metrics),
		blocks.WithTracer(rt.tracing.Tracer()),
	}

	if c.Cache.Enabled {
		cache, err := newBlockCache(c.Cache)
		if err != nil {
			rt.Close(context.Background())
			return nil, err
		}
		procOpts = append(procOpts, blocks.WithCache(cache, c.Cache.TTL))
		if c.Cache.Sliding {
			procOpts = append(procOpts, blocks.WithSlidingTTL())
		}
	}

	if rt.flags.Enabled(flags.FlagPersistentCache) {
		path := c.Cache.Path
		if path == "" {
			path = config.DefaultStorePath()
		}
		rt.store, err = store.Open(path)
		if err != nil {
			rt.Close(context.Background())
			return nil, fmt.Errorf("opening render store: %w", err)
		}
		// Renders made under other rule sets can never be served again.
		if n, err := rt.store.PruneFingerprints(context.Background(), rules.Fingerprint()); err != nil {
			log.ErrorErr(log.CatStore, "Failed to prune stale renders", err, "path", path)
		} else if n > 0 {
			log.Info(log.CatStore, "Pruned renders from other rule sets", "count", n)
		}
		procOpts = append(procOpts, blocks.WithStore(rt.store))
	}

	rt.processor = blocks.NewProcessor(rules, procOpts...)
	log.Debug(log.CatConfig, "Runtime ready",
		"rules", rules.Len(),
		"fingerprint", rules.Fingerprint(),
		"cache", c.Cache.Enabled,
		"store", rt.store != nil,
		"tracing", rt.tracing.Enabled())
	return rt, nil
}

func newBlockCache(c config.CacheConfig) (cachemanager.CacheManager[string, string], error) {
	if c.Kind == config.CacheKindLRU {
		return cachemanager.NewLRUCacheManager[string, string]("blocks", c.Size)
	}
	return cachemanager.NewInMemoryCacheManager[string, string]("blocks", c.TTL, 2*c.TTL), nil
}

// pageOptions applies the parallel-blocks flag to the page config.
func (rt *runtime) pageOptions() page.Options {
	opts := page.Options{
		Selector:    rt.cfg.Page.Selector,
		MarkerAttr:  rt.cfg.Page.MarkerAttr,
		Concurrency: rt.cfg.Page.Concurrency,
	}
	if !rt.flags.Enabled(flags.FlagParallelBlocks) {
		opts.Concurrency = 1
	}
	return opts
}

// Close flushes traces and closes the store.
func (rt *runtime) Close(ctx context.Context) {
	if err := rt.tracing.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatTrace, "Failed to shut down tracing", err)
	}
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			log.ErrorErr(log.CatStore, "Failed to close render store", err)
		}
	}
}

// mirrorLogs copies log entries to w until ctx is done. When the debug log
// is off, logging is switched on with entries discarded so that only the
// mirror sees them.
func mirrorLogs(ctx context.Context, w io.Writer) {
	ch := log.Subscribe(ctx)
	if ch == nil {
		log.InitWriter(io.Discard)
		ch = log.Subscribe(ctx)
	}
	go pubsub.Each(ctx, ch, func(ev log.LogEvent) {
		_, _ = io.WriteString(w, ev.Payload)
	})
}

// readInput reads the named file, or stdin when name is empty or "-".
func readInput(name string) (string, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name) //nolint:gosec // G304: user-supplied input file
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}
