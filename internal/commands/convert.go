package commands

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ratetrack/ratetrack/internal/config"
	"github.com/ratetrack/ratetrack/internal/extractor"
	"github.com/ratetrack/ratetrack/internal/logging"
	"github.com/ratetrack/ratetrack/internal/models"
	"github.com/ratetrack/ratetrack/internal/parser"
	"github.com/ratetrack/ratetrack/internal/rules"
	"github.com/ratetrack/ratetrack/internal/summary"
	"github.com/ratetrack/ratetrack/internal/writer"
)

const defaultWorkbook = "ratetrack.xlsx"

func newConvertCommand() *cobra.Command {
	var (
		parserName string
		password   string
		rulesPath  string
		outputPath string
		lang       string
		alsoCSV    bool
	)

	cmd := &cobra.Command{
		Use:   "convert [flags] <statement.pdf>...",
		Short: "Parse statement PDFs and append them to the tracking workbook",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.Setup(logging.DefaultConfig())

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if rulesPath == "" {
				rulesPath = cfg.RulesPath
			}
			if outputPath == "" {
				outputPath = cfg.OutputPath
			}
			if outputPath == "" {
				outputPath = defaultWorkbook
			}
			if lang == "" {
				lang = cfg.Language
			}

			var table []rules.Rule
			if rulesPath != "" {
				table, err = rules.LoadFile(rulesPath)
				if err != nil {
					return err
				}
				logger.Info("loaded category rules", "path", rulesPath, "count", len(table))
			}

			registry := parser.NewRegistry()
			for _, inputPath := range args {
				if err := convertFile(cmd, registry, inputPath, parserName, password, outputPath, lang, alsoCSV, table, logger); err != nil {
					return fmt.Errorf("processing %s: %w", inputPath, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&parserName, "parser", "", "statement format: bt, cec (auto-detected if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "password for encrypted statements (prompted if needed)")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "path to the category rules file (pattern,category per line)")
	cmd.Flags().StringVar(&outputPath, "output", "", "workbook to append statement sheets to (default "+defaultWorkbook+")")
	cmd.Flags().StringVar(&lang, "lang", "", "output header language: en, ro")
	cmd.Flags().BoolVar(&alsoCSV, "csv", false, "additionally write a CSV next to each input file")

	return cmd
}

func convertFile(cmd *cobra.Command, registry *parser.Registry, inputPath, parserName, password, outputPath, lang string, alsoCSV bool, table []rules.Rule, logger *slog.Logger) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	text, err := extractor.ExtractTextCombined(inputPath, password)
	if errors.Is(err, extractor.ErrEncrypted) && password == "" {
		// Encrypted statement: ask for the password and try again.
		pw, promptErr := promptPassword(cmd, inputPath)
		if promptErr != nil {
			return promptErr
		}
		text, err = extractor.ExtractTextCombined(inputPath, pw)
	}
	if err != nil {
		return err
	}

	selected, txns, err := registry.Parse(text, parserName)
	if err != nil {
		if errors.Is(err, parser.ErrUnrecognizedDocument) {
			return fmt.Errorf("%w; pass --parser (one of: bt, cec)", err)
		}
		return err
	}
	logger.Info("parsed statement", "file", inputPath, "parser", selected.Name(), "transactions", len(txns))

	out := make([]models.Transaction, len(txns))
	copy(out, txns)
	for i := range out {
		out[i].Category = rules.Categorize(out[i].Store, table)
	}

	sum := summary.Aggregate(txns)

	xw := &writer.XLSXWriter{Lang: lang}
	sheet := writer.SheetNameForFile(inputPath)
	if err := xw.WriteWorkbook(outputPath, sheet, selected.Columns(), out, sum, table); err != nil {
		return fmt.Errorf("workbook write failed: %w", err)
	}

	if alsoCSV {
		csvPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".csv"
		cw := &writer.CSVWriter{Lang: lang}
		if err := cw.WriteToFile(csvPath, selected.Columns(), out); err != nil {
			return fmt.Errorf("CSV write failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  CSV: %s\n", csvPath)
	}

	printSummary(cmd, inputPath, outputPath, sheet, sum)
	return nil
}

func printSummary(cmd *cobra.Command, inputPath, outputPath, sheet string, sum summary.Summary) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s -> %s [%s]\n", inputPath, outputPath, sheet)
	fmt.Fprintln(w, "Installments finishing in N months:")
	for _, b := range sum.SortedBuckets() {
		fmt.Fprintf(w, "  %3d months: %10.2f\n", b.MonthsRemaining, b.Sum)
	}
	fmt.Fprintf(w, "Other spend:               %10.2f\n", sum.NonInstallmentTotal)
	fmt.Fprintf(w, "Newly opened installments: %10.2f\n", sum.NewlyOpenedTotal)
}

// promptPassword implements the second phase of the encrypted-statement
// flow: attempt the read, ask for the secret, retry.
func promptPassword(cmd *cobra.Command, inputPath string) (string, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "Password for %s: ", inputPath)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
