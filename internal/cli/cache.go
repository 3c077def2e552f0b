package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/paneflow/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached resize and render",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cache.Backend(c.Config.Cache.Backend) == cache.BackendNone {
				printInfo("Caching is disabled")
				return nil
			}

			cc, err := cache.Open(cmd.Context(), c.Config.CacheOptions())
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				return fmt.Errorf("cache backend %q cannot be cleared", c.Config.Cache.Backend)
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared cache")
			printDetail("Location: %s", cacheLocation(c.Config.CacheOptions()))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(c.Config.CacheOptions()))
			return nil
		},
	}
}

func cacheLocation(cfg cache.Config) string {
	switch cfg.Backend {
	case cache.BackendRedis:
		return cfg.RedisURL
	case cache.BackendNone:
		return "(disabled)"
	default:
		return cfg.Dir
	}
}
