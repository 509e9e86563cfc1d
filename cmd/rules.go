package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/glint/internal/config"
	"github.com/zjrosen/glint/internal/presentation"
)

var (
	rulesFormat string
	rulesSave   bool
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the active highlighting rules",
	Long: `Show the active rule table in priority order.

The table comes from the rules: section of the config file, or the built-in
table when that section is empty.

Examples:
  glint rules
  glint rules --format yaml > rules.yaml
  glint rules --format json | jq '.[].category'
  glint rules --save      # copy the active table into the config file to edit it`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().StringVarP(&rulesFormat, "format", "f", "table", "output format: table, yaml, json")
	rulesCmd.Flags().BoolVar(&rulesSave, "save", false, "write the active rules into the config file")
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, _ []string) error {
	rules, err := cfg.RuleSet()
	if err != nil {
		return err
	}
	dtos := presentation.FromRuleSet(rules)

	if rulesSave {
		path := configFilePath()
		ruleConfigs := make([]config.RuleConfig, len(dtos))
		for i, d := range dtos {
			ruleConfigs[i] = config.RuleConfig{Pattern: d.Pattern, Category: d.Category}
		}
		if err := config.SaveRules(path, ruleConfigs); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d rules to %s\n", len(ruleConfigs), path)
		return nil
	}

	f := presentation.NewFormatter(cmd.OutOrStdout())
	switch rulesFormat {
	case "table":
		return f.FormatRulesTable(dtos)
	case "yaml":
		return f.FormatRulesYAML(dtos)
	case "json":
		return f.FormatRules(dtos)
	default:
		return fmt.Errorf("unknown format %q (valid: table, yaml, json)", rulesFormat)
	}
}
