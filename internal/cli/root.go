package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/layerdefs/pkg/buildinfo"
	"github.com/matzehuels/layerdefs/pkg/config"
	"github.com/matzehuels/layerdefs/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Store flags are persistent so every command shares one configuration:
// defaults, then layerdefs.toml (or --config), then LAYERDEFS_* variables,
// then flags.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Layerdefs inspects and persists map layer definitions",
		Long:         `Layerdefs loads map documents (analysis graphs plus layer definitions), reports how layers depend on each other, draws the dependency structure and saves layers to a store.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			if cfg.Verbose {
				c.SetLogLevel(LogDebug)
			}
			observability.SetLayerHooks(logLayerHooks{c.Logger})
			observability.SetStoreHooks(logStoreHooks{c.Logger})
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	f := root.PersistentFlags()
	f.StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultFile+" when present)")
	f.BoolP("verbose", "v", false, "enable verbose logging")
	f.String("store", "", "store backend: null, file, redis or mongo")
	f.String("dir", "", "directory of the file store")
	f.String("redis-addr", "", "redis address")
	f.String("redis-password", "", "redis password")
	f.Int("redis-db", 0, "redis database")
	f.String("mongo-uri", "", "mongodb connection URI")
	f.String("mongo-database", "", "mongodb database")
	f.String("mongo-collection", "", "mongodb collection")
	f.Int("retries", 0, "attempts per store operation")
	f.Bool("dedupe", true, "skip writes whose payload did not change")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.dependentsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.saveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.completionCommand())

	return root
}
