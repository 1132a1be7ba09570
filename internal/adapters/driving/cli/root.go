// Package cli wires the cobra command tree. Commands construct the
// adapters and services they need; nothing here holds document state.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/facet/internal/adapters/driven/config/file"
	"github.com/custodia-labs/facet/internal/core/ports/driven"
	"github.com/custodia-labs/facet/internal/core/ports/driving"
	"github.com/custodia-labs/facet/internal/core/services"
	"github.com/custodia-labs/facet/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose   bool
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "facet",
	Short: "Live surface editing for structured documents",
	Long: `Facet keeps structured text documents and interactive surfaces in
sync. The document on disk stays the single source of truth; every
connected surface renders a projection of it and can send edits back.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "", "config directory (default ~/.facet)")
}

// Execute runs the CLI. It is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadSettings opens the config store and reads settings through the
// settings service.
func loadSettings() (driving.SettingsService, driven.ConfigStore, error) {
	store, err := configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}
	return services.NewSettingsService(store), store, nil
}
