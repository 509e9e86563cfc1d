package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/glint/internal/config"
	"github.com/zjrosen/glint/internal/store"
)

var cachePruneOlderThan time.Duration

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and prune the persistent render store",
	Long: `Manage the SQLite store used when the persistent-cache flag is enabled.

The store lives at cache.path (default: ~/.cache/glint/renders.db).`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many renders are stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(func(ctx context.Context, s *store.Store) error {
			n, err := s.Count(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d renders\n", s.Path(), n)
			return nil
		})
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove stale renders",
	Long: `Remove renders made under a different rule table, plus any not
refreshed within --older-than (when given).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rules, err := cfg.RuleSet()
		if err != nil {
			return err
		}
		return withStore(func(ctx context.Context, s *store.Store) error {
			stale, err := s.PruneFingerprints(ctx, rules.Fingerprint())
			if err != nil {
				return err
			}
			var old int64
			if cachePruneOlderThan > 0 {
				if old, err = s.Prune(ctx, cachePruneOlderThan); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %d stale and %d old renders\n", stale, old)
			return nil
		})
	},
}

func init() {
	cachePruneCmd.Flags().DurationVar(&cachePruneOlderThan, "older-than", 0, "also remove renders older than this (e.g. 720h)")
	cacheCmd.AddCommand(cacheStatsCmd, cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}

func withStore(fn func(context.Context, *store.Store) error) error {
	path := cfg.Cache.Path
	if path == "" {
		path = config.DefaultStorePath()
	}
	s, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("opening render store: %w", err)
	}
	defer func() { _ = s.Close() }()
	return fn(context.Background(), s)
}
