package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zjrosen/glint/internal/blocks"
	"github.com/zjrosen/glint/internal/highlight"
	"github.com/zjrosen/glint/internal/presentation"
	"github.com/zjrosen/glint/internal/render"
	"github.com/zjrosen/glint/internal/theme"
)

// Output formats for `glint highlight`.
const (
	formatHTML = "html"
	formatANSI = "ansi"
	formatJSON = "json"
)

var (
	hlFormat      string
	hlLineNumbers bool
	hlWidth       int
	hlTheme       string
	hlLanguage    string
	hlColor       string
)

var highlightCmd = &cobra.Command{
	Use:   "highlight [file]",
	Short: "Highlight a source file",
	Long: `Highlight a source file (or stdin) and print the result.

Formats:
  html  escaped text wrapped in <span class="..."> per category (default)
  ansi  colored terminal output using the configured theme
  json  the segment list with categories, offsets, lines and columns

Examples:
  glint highlight main.go
  cat main.go | glint highlight --format ansi --line-numbers
  glint highlight app.ts --format ansi --theme dracula --width 100
  glint highlight lib.py --format json | jq '.counts'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHighlight,
}

func init() {
	highlightCmd.Flags().StringVarP(&hlFormat, "format", "f", formatHTML, "output format: html, ansi, json")
	highlightCmd.Flags().BoolVarP(&hlLineNumbers, "line-numbers", "n", false, "prefix lines with numbers (ansi)")
	highlightCmd.Flags().IntVarP(&hlWidth, "width", "w", 0, "wrap lines at this many columns (ansi, 0 = no wrap)")
	highlightCmd.Flags().StringVarP(&hlTheme, "theme", "t", "", "theme preset for ansi output (overrides config)")
	highlightCmd.Flags().StringVarP(&hlLanguage, "language", "l", "", "language label recorded with the block")
	highlightCmd.Flags().StringVar(&hlColor, "color", "auto", "ansi colors: auto, always, never")
	rootCmd.AddCommand(highlightCmd)
}

func runHighlight(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	input, err := readInput(name)
	if err != nil {
		return err
	}

	rt, err := newRuntime(cfg, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())

	return writeHighlight(cmd.Context(), cmd.OutOrStdout(), rt, input)
}

func writeHighlight(ctx context.Context, w io.Writer, rt *runtime, input string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	switch hlFormat {
	case formatHTML:
		b := &blocks.Block{Language: hlLanguage, Source: input}
		if _, err := rt.processor.Process(ctx, b); err != nil {
			return err
		}
		_, err := io.WriteString(w, b.HTML)
		if err == nil && b.HTML != "" && !strings.HasSuffix(b.HTML, "\n") {
			_, err = io.WriteString(w, "\n")
		}
		return err

	case formatANSI:
		r, err := ansiRenderer(rt)
		if err != nil {
			return err
		}
		out := r.Render(highlight.Tokenize(input, rt.rules))
		_, err = fmt.Fprintln(w, strings.TrimSuffix(out, "\n"))
		return err

	case formatJSON:
		segments := highlight.Tokenize(input, rt.rules)
		return presentation.NewFormatter(w).FormatHighlight(presentation.FromSegments(input, segments, rt.rules))

	default:
		return fmt.Errorf("unknown format %q (valid: %s, %s, %s)", hlFormat, formatHTML, formatANSI, formatJSON)
	}
}

// ansiRenderer builds the terminal renderer from the configured theme, the
// --theme override and the layout flags.
func ansiRenderer(rt *runtime) (render.Renderer, error) {
	themeCfg := theme.Config{Preset: rt.cfg.Theme.Preset, Colors: rt.cfg.Theme.Colors}
	if hlTheme != "" {
		themeCfg.Preset = hlTheme
	}
	palette, err := theme.Resolve(themeCfg)
	if err != nil {
		return nil, err
	}
	if err := applyColorMode(hlColor); err != nil {
		return nil, err
	}

	var opts []render.ANSIOption
	if hlLineNumbers {
		opts = append(opts, render.WithLineNumbers())
	}
	if hlWidth > 0 {
		opts = append(opts, render.WithWrap(hlWidth))
	}
	return render.NewANSI(palette, opts...), nil
}

// applyColorMode forces the lipgloss color profile. "auto" keeps terminal
// detection, so piped output carries no escape codes.
func applyColorMode(mode string) error {
	switch mode {
	case "auto", "":
		lipgloss.SetColorProfile(termenv.NewOutput(os.Stdout).EnvColorProfile())
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	default:
		return fmt.Errorf("unknown color mode %q (valid: auto, always, never)", mode)
	}
	return nil
}
