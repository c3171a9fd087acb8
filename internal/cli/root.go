// Package cli implements the searchretriever command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchretriever/internal/config"
	logpkg "github.com/kailas-cloud/searchretriever/internal/logger"
)

var (
	cfgFile string
	envName string
	cfg     config.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "searchretriever",
	Short: "Hybrid vector + semantic retrieval over Azure AI Search",
	Long: `searchretriever turns a free-text question into a short list of normalized
records from an Azure AI Search index. Credentials come from Azure Key Vault,
a secrets directory or the config file.

Example usage:
  searchretriever serve                                # HTTP API on :8080
  searchretriever query "What is the refund policy?"   # print records as JSON
  searchretriever query -p 4 "q1" "q2" "q3"            # several queries in parallel`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}

		if envName == "" {
			envName = config.GetEnv()
		}

		var err error
		if cfgFile != "" {
			cfg, err = config.LoadFile(cfgFile)
		} else {
			cfg, err = config.Load(envName)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err = logpkg.NewLogger(envName, cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/<env>.yaml)")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "environment: local, dev, docker, prod (default from $ENV)")
}
