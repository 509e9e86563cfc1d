// Package blocks highlights individual code blocks exactly once.
//
// A block carries its own idempotence marker. Process checks the marker,
// renders (or fetches a cached render), then sets the marker, so running a
// document through twice never double-highlights anything.
package blocks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/zjrosen/glint/internal/cachemanager"
	"github.com/zjrosen/glint/internal/highlight"
	"github.com/zjrosen/glint/internal/log"
	"github.com/zjrosen/glint/internal/metrics"
	"github.com/zjrosen/glint/internal/render"
	"github.com/zjrosen/glint/internal/store"
	"github.com/zjrosen/glint/internal/tracing"
)

// Block is one code sample awaiting highlighting.
type Block struct {
	ID       string
	Language string
	Source   string

	// Highlighted is the idempotence marker. Process skips marked blocks
	// and marks every block it renders.
	Highlighted bool

	// HTML is the rendered markup once Highlighted is set.
	HTML string

	// Segments is populated only when the block was tokenized in this call;
	// cache and store hits leave it nil.
	Segments []highlight.Segment
}

// Result reports how Process satisfied a block.
type Result int

const (
	ResultSkipped  Result = iota // already marked
	ResultCached                 // served from the in-memory cache
	ResultStored                 // served from the persistent store
	ResultRendered               // tokenized and rendered
)

func (r Result) String() string {
	switch r {
	case ResultSkipped:
		return "skipped"
	case ResultCached:
		return "cached"
	case ResultStored:
		return "stored"
	case ResultRendered:
		return "rendered"
	default:
		return "unknown"
	}
}

// Store is the persistent render cache consulted after the memory cache.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, fingerprint, html string) error
}

// Processor renders blocks with a fixed rule set and class map.
type Processor struct {
	rules    highlight.RuleSet
	classes  render.ClassMap
	renderer render.Renderer
	cache    cachemanager.CacheManager[string, string]
	cacheTTL time.Duration
	sliding  bool
	store    Store
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	classSig string
	loader   *cachemanager.ReadThroughCache[string, string, *loadRequest]
}

// Option configures a Processor.
type Option func(*Processor)

// WithClasses overrides the default class map.
func WithClasses(classes render.ClassMap) Option {
	return func(p *Processor) { p.classes = classes }
}

// WithCache puts an in-memory cache in front of rendering.
func WithCache(cache cachemanager.CacheManager[string, string], ttl time.Duration) Option {
	return func(p *Processor) {
		p.cache = cache
		p.cacheTTL = ttl
	}
}

// WithSlidingTTL makes every cache hit push the entry's expiry out by the
// cache TTL again, so frequently requested blocks stay resident.
func WithSlidingTTL() Option {
	return func(p *Processor) { p.sliding = true }
}

// WithStore adds a persistent store behind the memory cache.
func WithStore(s Store) Option {
	return func(p *Processor) { p.store = s }
}

// WithMetrics records block outcomes and tokenize timings.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

// WithTracer opens a span per processed block.
func WithTracer(t trace.Tracer) Option {
	return func(p *Processor) { p.tracer = t }
}

// NewProcessor builds a processor for rules.
func NewProcessor(rules highlight.RuleSet, opts ...Option) *Processor {
	p := &Processor{
		rules:    rules,
		classes:  render.DefaultClassMap(),
		cacheTTL: cachemanager.DefaultExpiration,
	}
	for _, opt := range opts {
		opt(p)
	}
	var sig strings.Builder
	for _, c := range highlight.Categories() {
		sig.WriteString(c.String() + "=" + p.classes[c] + ";")
	}
	p.classSig = sig.String()
	p.renderer = render.HTMLRenderer{Classes: p.classes}
	p.loader = cachemanager.NewReadThroughCache(p.cache, p.load, p.cache == nil)
	return p
}

// Rules returns the processor's rule set.
func (p *Processor) Rules() highlight.RuleSet {
	return p.rules
}

// Classes returns the processor's class map.
func (p *Processor) Classes() render.ClassMap {
	return p.classes
}

// Tracer returns the tracer set with WithTracer, or nil.
func (p *Processor) Tracer() trace.Tracer {
	return p.tracer
}

// Key returns the cache key for source under this processor's rule set and
// class map. A changed rule set or class map yields different keys, so stale
// renders are never served.
func (p *Processor) Key(source string) string {
	sum := sha256.Sum256([]byte(p.classSig + "\x00" + source))
	return p.rules.Fingerprint() + ":" + hex.EncodeToString(sum[:])
}

type loadRequest struct {
	block  *Block
	result Result
}

// Process highlights b unless it is already marked.
func (p *Processor) Process(ctx context.Context, b *Block) (result Result, err error) {
	if err := ctx.Err(); err != nil {
		return ResultSkipped, err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	ctx, span := tracing.Start(ctx, p.tracer, tracing.SpanBlockProcess,
		attribute.String(tracing.AttrBlockID, b.ID),
		attribute.String(tracing.AttrBlockLanguage, b.Language),
		attribute.Int(tracing.AttrBlockBytes, len(b.Source)),
	)
	defer func() {
		span.SetAttributes(attribute.String(tracing.AttrBlockResult, result.String()))
		tracing.End(span, err)
	}()

	if b.Highlighted {
		p.metrics.ObserveBlock(ResultSkipped.String())
		log.Debug(log.CatBlocks, "block already highlighted", "id", b.ID)
		return ResultSkipped, nil
	}

	req := &loadRequest{block: b, result: ResultRendered}
	lookup := p.loader.Lookup
	if p.sliding {
		lookup = p.loader.LookupWithRefresh
	}
	html, hit, err := lookup(ctx, p.Key(b.Source), req, p.cacheTTL)
	if err != nil {
		log.ErrorErr(log.CatBlocks, "block processing failed", err, "id", b.ID)
		return ResultSkipped, fmt.Errorf("processing block %s: %w", b.ID, err)
	}
	if hit {
		req.result = ResultCached
	}

	b.HTML = html
	b.Highlighted = true

	p.metrics.ObserveBlock(req.result.String())
	log.Debug(log.CatBlocks, "block highlighted", "id", b.ID, "result", req.result, "bytes", len(b.Source))
	return req.result, nil
}

// load is the read-through loader: persistent store first, then render.
func (p *Processor) load(ctx context.Context, req *loadRequest) (string, error) {
	key := p.Key(req.block.Source)

	if p.store != nil {
		html, err := p.store.Get(ctx, key)
		switch {
		case err == nil:
			req.result = ResultStored
			return html, nil
		case errors.Is(err, store.ErrNotFound):
		default:
			// A broken store degrades to rendering; it never fails the block.
			log.ErrorErr(log.CatStore, "store read failed", err, "key", key)
		}
	}

	html := p.render(req.block)
	req.result = ResultRendered

	if p.store != nil {
		if err := p.store.Put(ctx, key, p.rules.Fingerprint(), html); err != nil {
			log.ErrorErr(log.CatStore, "store write failed", err, "key", key)
		}
	}
	return html, nil
}

func (p *Processor) render(b *Block) string {
	start := time.Now()
	segments := highlight.Tokenize(b.Source, p.rules)
	elapsed := time.Since(start)

	counts := make(map[string]int)
	for cat, n := range highlight.Counts(segments) {
		counts[cat.String()] = n
	}
	p.metrics.ObserveTokenize(elapsed, counts)
	log.Debug(log.CatTokenize, "tokenized", "id", b.ID, "segments", len(segments), "elapsed", elapsed)

	b.Segments = segments
	return p.renderer.Render(segments)
}

// ProcessAll processes blocks concurrently with at most concurrency in
// flight (GOMAXPROCS when <= 0). Results are in input order. Blocks must be
// distinct; the first error cancels the remaining work.
func (p *Processor) ProcessAll(ctx context.Context, blocks []*Block, concurrency int) ([]Result, error) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(blocks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, b := range blocks {
		g.Go(func() error {
			r, err := p.Process(gctx, b)
			results[i] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Summary tallies results by outcome.
func Summary(results []Result) map[Result]int {
	out := make(map[Result]int, 4)
	for _, r := range results {
		out[r]++
	}
	return out
}
