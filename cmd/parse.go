package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crednx/statement-engine/internal/dialect"
	"github.com/crednx/statement-engine/internal/extractor"
	"github.com/crednx/statement-engine/internal/models"
	"github.com/crednx/statement-engine/internal/parser"
	"github.com/crednx/statement-engine/internal/writer"
)

var (
	bankFlag   string
	outputFlag string
	formatFlag string
	reportFlag bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <statement.pdf|statement.txt> [more files ...]",
	Short: "Parse statement files and write transaction data",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 && outputFlag != "" {
			return fmt.Errorf("--output cannot be combined with multiple input files")
		}
		for _, input := range args {
			if err := parseOne(input); err != nil {
				return err
			}
		}
		return nil
	},
}

func parseOne(input string) error {
	text, err := statementText(input)
	if err != nil {
		return err
	}

	d, err := selectDialect(text)
	if err != nil {
		return err
	}

	engine := parser.NewEngine(log)
	result, err := engine.Parse(text, d)
	if err != nil {
		return err
	}

	output := outputFlag
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + formatFlag
	}
	if err := writeResult(output, result); err != nil {
		return err
	}

	log.Info().
		Str("input", input).
		Str("output", output).
		Int("transactions", len(result.Transactions)).
		Int("mismatches", len(result.Mismatches)).
		Msg("statement converted")

	if reportFlag {
		fmt.Println(parser.FormatReport(result.Transactions, result.Mismatches, result.BankName))
	}
	return nil
}

// statementText loads the input: PDFs go through text extraction, plain
// text files (pre-extracted statements) are read as-is.
func statementText(input string) (string, error) {
	if strings.EqualFold(filepath.Ext(input), ".pdf") {
		return extractor.ExtractStatementText(input)
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", input, err)
	}
	return string(data), nil
}

func selectDialect(text string) (*dialect.Dialect, error) {
	if bankFlag != "" {
		return registry.Get(strings.ToLower(bankFlag))
	}
	return registry.Detect(text)
}

func writeResult(path string, result *models.Result) error {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "csv":
		w := &writer.CSVWriter{}
		return w.WriteToFile(path, result)
	case "json":
		w := &writer.JSONWriter{}
		return w.WriteToFile(path, result)
	case "xlsx":
		w := &writer.XLSXWriter{}
		return w.WriteToFile(path, result)
	default:
		return fmt.Errorf("unsupported output format %q (use csv, json, or xlsx)", filepath.Ext(path))
	}
}

func init() {
	parseCmd.Flags().StringVarP(&bankFlag, "bank", "b", "", "dialect key (auto-detected when omitted)")
	parseCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "output file path (defaults to input name with format extension)")
	parseCmd.Flags().StringVarP(&formatFlag, "format", "f", "csv", "output format: csv, json, or xlsx")
	parseCmd.Flags().BoolVar(&reportFlag, "report", false, "print the balance validation report")
	rootCmd.AddCommand(parseCmd)
}
