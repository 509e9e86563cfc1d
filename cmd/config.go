package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/glint/internal/config"
	"github.com/zjrosen/glint/internal/paths"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create and check configuration files",
	// Skip validation so a broken config can still be inspected or replaced.
	PersistentPreRunE: setupLogging,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Long: `Write a commented default configuration file.

The path defaults to .glint/config.yaml in the current directory; a
directory argument gets a .glint/config.yaml of its own. An existing file
is left alone unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := ""
		if len(args) > 0 {
			target = args[0]
		}
		path := paths.ResolveConfigFile(target)
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the loaded configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		rules, _ := cfg.RuleSet()
		source := configFilePath()
		if _, err := os.Stat(source); err != nil {
			source = "defaults (no config file)"
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d rules, fingerprint %s)\n", source, rules.Len(), rules.Fingerprint())
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
