// Package cmd defines the statement-engine command line interface.
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/crednx/statement-engine/internal/dialect"
	"github.com/crednx/statement-engine/internal/logger"
)

var (
	verbose      bool
	dialectsFile string

	log      = logger.New(zerolog.InfoLevel)
	registry *dialect.Registry
)

var rootCmd = &cobra.Command{
	Use:   "statement-engine",
	Short: "Parse bank statement PDFs into reconciled transaction data",
	Long: `statement-engine converts bank statement PDFs into structured,
balance-validated transaction data.

Statements are parsed through per-institution dialects (HDFC and ICICI
built in, more loadable from a YAML file) and every transaction is
checked against the balance equation:

  previous balance + deposits - withdrawals = balance

Output formats: CSV, JSON, XLSX.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log = logger.New(level)

		registry = dialect.NewRegistry()
		if dialectsFile != "" {
			if err := registry.LoadFile(dialectsFile); err != nil {
				return err
			}
			log.Debug().Str("file", dialectsFile).Msg("loaded extra dialects")
		}
		return nil
	},
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dialectsFile, "dialects", "", "YAML file with additional dialect definitions")
}
