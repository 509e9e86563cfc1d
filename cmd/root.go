package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/glint/internal/config"
	"github.com/zjrosen/glint/internal/log"
	"github.com/zjrosen/glint/internal/paths"
)

var (
	version    = "dev"
	cfgFile    string
	debugFlag  bool
	cfg        config.Config
	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "glint",
	Short: "Rule-based syntax highlighting for code samples",
	Long: `glint highlights source code with an ordered table of regular-expression
rules. Each rule claims spans of text for one category (comment, string,
number, keyword, type, literal, decorator, class); later rules never look
inside spans that earlier rules claimed.

Output can be HTML spans, ANSI-colored terminal text or JSON segments, and
whole HTML pages can be processed in place without ever highlighting a block
twice.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setupAndValidate,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logCleanup != nil {
			logCleanup()
			logCleanup = nil
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .glint/config.yaml, then ~/.config/glint/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log (also enabled by GLINT_DEBUG)")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("theme.preset", defaults.Theme.Preset)
	viper.SetDefault("cache.enabled", defaults.Cache.Enabled)
	viper.SetDefault("cache.kind", defaults.Cache.Kind)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL)
	viper.SetDefault("cache.size", defaults.Cache.Size)
	viper.SetDefault("cache.sliding", defaults.Cache.Sliding)
	viper.SetDefault("page.selector", defaults.Page.Selector)
	viper.SetDefault("page.marker_attr", defaults.Page.MarkerAttr)
	viper.SetDefault("page.concurrency", defaults.Page.Concurrency)
	viper.SetDefault("server.host", defaults.Server.Host)
	viper.SetDefault("server.port", defaults.Server.Port)
	viper.SetDefault("server.max_body_bytes", defaults.Server.MaxBodyBytes)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.path", defaults.Log.Path)

	// GLINT_SERVER_PORT=9000 overrides server.port, and so on.
	viper.SetEnvPrefix("glint")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Config lookup order:
	// 1. --config (a file, a project dir or a .glint dir)
	// 2. .glint/config.yaml (current directory, following .glint/redirect)
	// 3. ~/.config/glint/config.yaml (user config)
	switch {
	case cfgFile != "":
		viper.SetConfigFile(paths.ResolveConfigFile(cfgFile))
	case fileExists(paths.ResolveConfigFile(".")):
		viper.SetConfigFile(paths.ResolveConfigFile("."))
	case fileExists(paths.UserConfigFile()):
		viper.SetConfigFile(paths.UserConfigFile())
	}

	// A missing config file is fine: glint runs on defaults and never
	// writes one unless asked to with 'glint config init'.
	if viper.ConfigFileUsed() != "" {
		if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "glint: reading config %s: %v\n", viper.ConfigFileUsed(), err)
		}
	}

	cfg = config.Defaults()
	_ = viper.Unmarshal(&cfg)
}

// setupAndValidate runs before every subcommand except `config`, which must
// work even when the current configuration is broken.
func setupAndValidate(cmd *cobra.Command, args []string) error {
	if err := setupLogging(cmd, args); err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// setupLogging initializes the debug log when --debug or GLINT_DEBUG is set.
func setupLogging(_ *cobra.Command, _ []string) error {
	debug := os.Getenv("GLINT_DEBUG") != "" || debugFlag
	if debug {
		logPath := cfg.Log.Path
		if logPath == "" {
			logPath = "glint-debug.log"
		}
		cleanup, err := log.Init(logPath)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		logCleanup = cleanup

		level, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("invalid log configuration: %w", err)
		}
		log.SetMinLevel(level)
		log.Info(log.CatConfig, "glint starting", "version", version, "config", viper.ConfigFileUsed(), "logPath", logPath)
	}
	return nil
}

// configFilePath is where commands that edit config write to: the loaded
// file, or .glint/config.yaml when none was loaded.
func configFilePath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return paths.ResolveConfigFile(".")
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
