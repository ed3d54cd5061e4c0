// Command schemacheck validates the published catalog's structured data
// and carries a few operator helpers for the schema API.
package main

import (
	"fmt"
	"os"

	"olgish-cakes/internal/config"
	"olgish-cakes/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "schemacheck",
	Short: "Structured data tooling for the Olgish Cakes catalog",
	Long: `schemacheck builds every product schema the API would serve and reports
the ones search engines would reject.

Available subcommands:
  validate - Validate every catalog schema and check MPN uniqueness
  token    - Issue an API token
  migrate  - Show or apply database migrations`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load before reading configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(validateCmd, tokenCmd, migrateCmd)
}

// loadConfig applies the env file, when present, underneath the process environment
func loadConfig() *config.Config {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "warning: could not read %s: %v\n", envFile, err)
		}
	}
	return config.Load()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		return nil, err
	}
	if !verbose {
		log = log.WithOptions(zap.IncreaseLevel(zapcore.InfoLevel))
	}
	return log, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
