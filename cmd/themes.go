package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/glint/internal/config"
	"github.com/zjrosen/glint/internal/highlight"
	"github.com/zjrosen/glint/internal/presentation"
	"github.com/zjrosen/glint/internal/render"
	"github.com/zjrosen/glint/internal/templates"
	"github.com/zjrosen/glint/internal/theme"
)

var (
	themesSet     string
	themesPreview bool
	themesSample  string
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List terminal color themes",
	Long: `List the built-in color presets used by 'glint highlight --format ansi'.

Examples:
  glint themes
  glint themes --preview
  glint themes --preview --sample python
  glint themes --set dracula   # write theme.preset to the config file`,
	Args: cobra.NoArgs,
	RunE: runThemes,
}

func init() {
	themesCmd.Flags().StringVar(&themesSet, "set", "", "save this preset as theme.preset in the config file")
	themesCmd.Flags().BoolVar(&themesPreview, "preview", false, "render a code sample with each preset")
	themesCmd.Flags().StringVar(&themesSample, "sample", templates.DefaultSample,
		"sample language for --preview: "+strings.Join(templates.SampleNames(), ", "))
	rootCmd.AddCommand(themesCmd)
}

func runThemes(cmd *cobra.Command, _ []string) error {
	if themesSet != "" {
		if _, ok := theme.Presets[themesSet]; !ok {
			return fmt.Errorf("unknown theme preset: %s", themesSet)
		}
		path := configFilePath()
		if err := config.SaveThemePreset(path, themesSet); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Theme set to %s in %s\n", themesSet, path)
		return nil
	}

	names := theme.Names()
	w := cmd.OutOrStdout()
	if !themesPreview {
		return presentation.NewFormatter(w).FormatThemes(names, func(name string) string {
			return theme.Presets[name].Description
		})
	}

	sample, err := templates.Sample(themesSample)
	if err != nil {
		return err
	}
	segments := highlight.Tokenize(sample, highlight.DefaultRuleSet())
	for _, name := range names {
		palette, err := theme.Resolve(theme.Config{Preset: name})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "%s\n%s\n\n", name, render.NewANSI(palette).Render(segments))
	}
	return nil
}
