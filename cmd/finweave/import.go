package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/finweave/finweave/internal/cli"
	"github.com/finweave/finweave/internal/common"
	"github.com/finweave/finweave/internal/detect"
	"github.com/finweave/finweave/internal/ingest"
	"github.com/finweave/finweave/internal/model"
	"github.com/finweave/finweave/internal/schema"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from CSV or XLSX files",
		Long: `Import financial spreadsheets. Each file runs through structure detection;
when detection is confident the rows normalize straight through, otherwise
the suggested column mapping is surfaced for confirmation first.

Examples:
  finweave import ~/Downloads/bank_export.csv
  finweave import --sheet "Q1" ~/Downloads/budget_2024.xlsx
  finweave import --yes exports/*.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("sheet", "", "XLSX sheet name (default: first sheet)")
	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	cmd.Flags().BoolP("yes", "y", false, "Accept suggested mappings without prompting")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	assumeYes, _ := cmd.Flags().GetBool("yes")
	sheetName, _ := cmd.Flags().GetString("sheet")
	ctx := cmd.Context()

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	files, err := expandGlobs(args)
	if err != nil {
		return err
	}

	var imported, dropped int
	for _, filePath := range files {
		table, err := readTable(filePath, sheetName)
		if err != nil {
			common.LogError(err, "Failed to read file", common.Fields{"file": filePath})
			continue
		}

		result, err := detect.Detect(table)
		if err != nil {
			common.LogError(err, "Detection failed", common.Fields{"file": filePath})
			continue
		}

		mappings := result.SuggestedMappings
		if result.NeedsUserConfirmation && !assumeYes {
			// Hard gate: ambiguous detection never normalizes silently.
			prompter := cli.NewMappingPrompter(os.Stdin, os.Stdout)
			mappings, err = prompter.ConfirmMappings(ctx, result)
			if err != nil {
				return err
			}
		} else if result.NeedsUserConfirmation {
			slog.Warn("Accepting low-confidence mapping without confirmation",
				"file", filePath)
		}

		bar := progressbar.Default(int64(len(table.Rows)), filepath.Base(filePath))
		normalized := detect.Normalize(table, mappings, result.Structure, func(int) {
			_ = bar.Add(1)
		})
		_ = bar.Finish()
		dropped += normalized.Dropped

		if len(normalized.Transactions) == 0 {
			slog.Warn("No usable rows in file", "file", filePath, "dropped", normalized.Dropped)
			continue
		}

		if !dryRun {
			if err := store.SaveTransactions(ctx, workspace(), normalized.Transactions); err != nil {
				return fmt.Errorf("failed to save transactions from %s: %w", filePath, err)
			}
			if err := registerDataset(ctx, store, table, sheetName); err != nil {
				return err
			}
		}
		imported += len(normalized.Transactions)

		common.LogInfo("Imported file", common.Fields{
			"file":     filepath.Base(filePath),
			"rows":     len(normalized.Transactions),
			"dropped":  normalized.Dropped,
			"language": result.Structure.Language,
			"layout":   result.Structure.Type,
		})
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"imported %d transactions (%d rows dropped)", imported, dropped)))
	return nil
}

// registerDataset records the upload's identity so auto-link can associate
// it with a proposed table later.
func registerDataset(ctx context.Context, store datasetSaver, table model.RawTable, sheetName string) error {
	name := strings.TrimSuffix(filepath.Base(table.FileName), filepath.Ext(table.FileName))
	if sheetName == "" {
		sheetName = name
	}
	dataset := &model.LinkedDataset{
		ID:            uuid.NewString(),
		Name:          name,
		SheetName:     sheetName,
		DetectedTable: string(schema.DetectTableType(sheetName, table.Headers)),
		Columns:       table.Headers,
	}
	if err := store.SaveDataset(ctx, workspace(), dataset); err != nil {
		return fmt.Errorf("failed to record dataset %s: %w", name, err)
	}
	return nil
}

type datasetSaver interface {
	SaveDataset(ctx context.Context, workspace string, dataset *model.LinkedDataset) error
}

func readTable(filePath, sheetName string) (model.RawTable, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		table, err := ingest.ReadXLSX(f, filePath, sheetName)
		if err != nil && sheetName != "" {
			if names, listErr := listSheets(filePath); listErr == nil {
				return table, fmt.Errorf("%w (sheets in %s: %s)",
					err, filepath.Base(filePath), strings.Join(names, ", "))
			}
		}
		return table, err
	default:
		return ingest.ReadCSV(f, filePath)
	}
}

func listSheets(filePath string) ([]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ingest.SheetNames(f)
}

func expandGlobs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			files = append(files, matches...)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}
