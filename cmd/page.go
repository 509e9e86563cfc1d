package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/glint/internal/log"
	"github.com/zjrosen/glint/internal/page"
)

// errStale is returned by --check when a page has unhighlighted blocks.
var errStale = errors.New("page has unhighlighted code blocks")

var (
	pageOut     string
	pageInPlace bool
	pageCheck   bool
)

var pageCmd = &cobra.Command{
	Use:   "page <file>",
	Short: "Highlight the code blocks of an HTML page",
	Long: `Highlight every code block of an HTML page that is not highlighted yet.

Blocks are found with page.selector (default "pre code"). Each processed
block gets the page.marker_attr attribute set to "true", so running glint
over its own output changes nothing.

Examples:
  glint page docs/index.html > out.html
  glint page docs/index.html --out site/index.html
  glint page docs/index.html --in-place
  glint page docs/index.html --check   # exit 1 and print a diff when stale`,
	Args: cobra.ExactArgs(1),
	RunE: runPage,
}

func init() {
	pageCmd.Flags().StringVarP(&pageOut, "out", "o", "", "write the result to this file instead of stdout")
	pageCmd.Flags().BoolVarP(&pageInPlace, "in-place", "i", false, "rewrite the input file")
	pageCmd.Flags().BoolVar(&pageCheck, "check", false, "report unhighlighted blocks without writing; exit non-zero when found")
	pageCmd.MarkFlagsMutuallyExclusive("out", "in-place", "check")
	rootCmd.AddCommand(pageCmd)
}

func runPage(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cfg, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	path := args[0]
	if pageInPlace {
		_, err := processInPlace(ctx, rt, path)
		return err
	}

	input, err := readInput(path)
	if err != nil {
		return err
	}

	report, out, err := page.Highlight(ctx, strings.NewReader(input), rt.processor, rt.pageOptions())
	if err != nil {
		return fmt.Errorf("highlighting %s: %w", path, err)
	}

	switch {
	case pageCheck:
		if !report.Changed() {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: up to date (%d blocks)\n", path, report.Found)
			return nil
		}
		diff, _ := page.Check(input, out)
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d of %d blocks need highlighting\n%s", path, report.Processed(), report.Found, diff)
		return errStale

	case pageOut != "":
		return writePage(pageOut, report, out)

	default:
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	}
}

// processInPlace highlights the page at path and rewrites it when any block
// was processed.
func processInPlace(ctx context.Context, rt *runtime, path string) (*page.Report, error) {
	input, err := readInput(path)
	if err != nil {
		return nil, err
	}
	report, out, err := page.Highlight(ctx, strings.NewReader(input), rt.processor, rt.pageOptions())
	if err != nil {
		return nil, fmt.Errorf("highlighting %s: %w", path, err)
	}
	if !report.Changed() {
		log.Debug(log.CatPage, "page already highlighted, not rewriting", "path", path)
		return report, nil
	}
	return report, writePage(path, report, out)
}

// writePage writes out to path, skipping the write when the page was
// already fully highlighted and path already holds it.
func writePage(path string, report *page.Report, out string) error {
	if !report.Changed() {
		if existing, err := os.ReadFile(path); err == nil && string(existing) == out { //nolint:gosec // G304: user-supplied output file
			log.Debug(log.CatPage, "page unchanged, not rewriting", "path", path)
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	info, err := os.Stat(path)
	mode := os.FileMode(0o644)
	if err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(out), mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Info(log.CatPage, "page written", "path", path, "processed", report.Processed(), "found", report.Found)
	return nil
}
