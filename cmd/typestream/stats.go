package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/typestream/internal/cli/config"
	"github.com/conduit-lang/typestream/internal/compiler/cache"
)

var statsVerbose bool

func init() {
	statsCmd.Flags().BoolVar(&statsVerbose, "verbose", false, "Log store operations")
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report on the unit store",
	Long:  "Open the configured unit store and list its indexed units",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := zap.NewNop()
		if statsVerbose || cfg.Log.Verbose {
			logger, err = zap.NewDevelopment()
			if err != nil {
				logger = zap.NewNop()
			}
		}
		defer logger.Sync()

		store, err := cache.Open(config.CacheDir(), logger)
		if err != nil {
			return fmt.Errorf("failed to open unit store: %w", err)
		}
		defer store.Close()

		entries, err := store.Entries()
		if err != nil {
			return err
		}

		header := color.New(color.FgCyan, color.Bold)
		header.Printf("unit store %s\n", config.CacheDir())
		if len(entries) == 0 {
			fmt.Println("  no units indexed")
			return nil
		}

		var totalBytes int64
		kinds := make(map[cache.UnitKind]int)
		for _, e := range entries {
			totalBytes += e.Size
			kinds[e.Kind]++
			fmt.Printf("  %-40s %-9s %7d bytes  %s\n",
				e.Name, e.Kind, e.Size, e.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		fmt.Println()
		fmt.Printf("  units: %d (%d type, %d predicate, %d summary)\n",
			len(entries), kinds[cache.UnitType], kinds[cache.UnitPredicate], kinds[cache.UnitSummary])
		fmt.Printf("  total: %d bytes\n", totalBytes)
		return nil
	},
}
