// Package page highlights the code blocks of an HTML document.
//
// Each matching element is one block. Its text is highlighted, its contents
// are replaced with the rendered markup, and a marker attribute is set so
// that running the output through Highlight again leaves it unchanged.
package page

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/glint/internal/blocks"
	"github.com/zjrosen/glint/internal/log"
	"github.com/zjrosen/glint/internal/tracing"
)

// Options controls which elements are treated as code blocks.
type Options struct {
	Selector    string // CSS selector for code elements
	MarkerAttr  string // set to "true" once an element is highlighted
	Concurrency int    // blocks in flight; <= 0 means GOMAXPROCS
}

// DefaultOptions returns the selector and marker used when config is silent.
func DefaultOptions() Options {
	return Options{
		Selector:   "pre code",
		MarkerAttr: "data-highlighted",
	}
}

const markerValue = "true"

// idPrefix starts generated element ids so they are valid HTML ids and
// recognizable in output.
const idPrefix = "glint-"

// Report describes what Highlight did to a document.
type Report struct {
	Found         int             // elements matching the selector
	AlreadyMarked int             // matching elements skipped because they carry the marker
	Results       []blocks.Result // one per unmarked element, in document order
	IDs           []string        // element ids, parallel to Results
}

// Processed is the number of elements that were highlighted in this run.
func (r *Report) Processed() int {
	return len(r.Results)
}

// Changed reports whether the document was modified.
func (r *Report) Changed() bool {
	return len(r.Results) > 0
}

// Summary tallies how each processed block was satisfied.
func (r *Report) Summary() map[blocks.Result]int {
	return blocks.Summary(r.Results)
}

// Highlight parses an HTML document from in, highlights every unmarked
// element matching opts.Selector with p, and returns the serialized result.
func Highlight(ctx context.Context, in io.Reader, p *blocks.Processor, opts Options) (report *Report, out string, err error) {
	if opts.Selector == "" || opts.MarkerAttr == "" {
		defaults := DefaultOptions()
		if opts.Selector == "" {
			opts.Selector = defaults.Selector
		}
		if opts.MarkerAttr == "" {
			opts.MarkerAttr = defaults.MarkerAttr
		}
	}

	ctx, span := tracing.Start(ctx, p.Tracer(), tracing.SpanPageHighlight,
		attribute.String(tracing.AttrFingerprint, p.Rules().Fingerprint()),
	)
	defer func() {
		if report != nil {
			span.SetAttributes(
				attribute.Int(tracing.AttrPageBlocks, report.Found),
				attribute.Bool(tracing.AttrPageChanged, report.Changed()),
			)
		}
		tracing.End(span, err)
	}()

	doc, err := goquery.NewDocumentFromReader(in)
	if err != nil {
		return nil, "", fmt.Errorf("parsing document: %w", err)
	}

	report = &Report{}
	var (
		pending []*goquery.Selection
		work    []*blocks.Block
	)
	doc.Find(opts.Selector).Each(func(_ int, s *goquery.Selection) {
		report.Found++
		if v, ok := s.Attr(opts.MarkerAttr); ok && v == markerValue {
			report.AlreadyMarked++
			return
		}

		id, ok := s.Attr("id")
		if !ok || id == "" {
			id = idPrefix + uuid.NewString()
		}
		pending = append(pending, s)
		work = append(work, &blocks.Block{
			ID:       id,
			Language: Language(s),
			Source:   s.Text(),
		})
	})

	log.Debug(log.CatPage, "collected blocks", "found", report.Found, "marked", report.AlreadyMarked, "pending", len(work))

	results, err := p.ProcessAll(ctx, work, opts.Concurrency)
	if err != nil {
		log.ErrorErr(log.CatPage, "highlighting page failed", err, "pending", len(work))
		return nil, "", err
	}

	for i, s := range pending {
		b := work[i]
		s.SetHtml(b.HTML)
		s.SetAttr("id", b.ID)
		s.SetAttr(opts.MarkerAttr, markerValue)
		report.IDs = append(report.IDs, b.ID)
	}
	report.Results = results

	out, err = doc.Html()
	if err != nil {
		return nil, "", fmt.Errorf("serializing document: %w", err)
	}

	log.Info(log.CatPage, "page highlighted", "found", report.Found, "processed", report.Processed(), "marked", report.AlreadyMarked)
	return report, out, nil
}

// Language returns the language named by a language-xxx or lang-xxx class
// on the element or, failing that, on its parent. Empty when none is set.
func Language(s *goquery.Selection) string {
	if lang := languageFromClass(s.AttrOr("class", "")); lang != "" {
		return lang
	}
	return languageFromClass(s.Parent().AttrOr("class", ""))
}

func languageFromClass(class string) string {
	for _, c := range strings.Fields(class) {
		if lang, ok := strings.CutPrefix(c, "language-"); ok && lang != "" {
			return lang
		}
		if lang, ok := strings.CutPrefix(c, "lang-"); ok && lang != "" {
			return lang
		}
	}
	return ""
}

// Check compares a document before and after highlighting. When they differ
// it returns a patch in the unified-diff-like text form of diffmatchpatch.
func Check(before, after string) (diff string, changed bool) {
	if before == after {
		return "", false
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, true)
	diffs = dmp.DiffCleanupSemantic(diffs)
	patches := dmp.PatchMake(before, diffs)
	return dmp.PatchToText(patches), true
}
