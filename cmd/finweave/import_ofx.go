package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finweave/finweave/internal/cli"
	"github.com/finweave/finweave/internal/detect"
	"github.com/finweave/finweave/internal/ingest"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX bank exports",
		Long: `Import OFX or QFX files exported from your bank. Statements decode into
the same detection pipeline as spreadsheet uploads.

Examples:
  finweave import-ofx ~/Downloads/checking_jan.qfx
  finweave import-ofx ~/Downloads/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
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

	var imported int
	for _, filePath := range files {
		f, err := os.Open(filePath)
		if err != nil {
			slog.Error("Failed to open file", "file", filePath, "error", err)
			continue
		}

		table, err := ingest.ReadOFX(f, filePath)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", filePath, "error", err)
			continue
		}

		// OFX tables carry fixed headers, so detection always resolves.
		result, err := detect.Detect(table)
		if err != nil {
			slog.Error("Detection failed", "file", filePath, "error", err)
			continue
		}

		normalized := detect.Normalize(table, result.SuggestedMappings, result.Structure, nil)
		if len(normalized.Transactions) == 0 {
			slog.Warn("No usable transactions in file", "file", filePath)
			continue
		}

		if !dryRun {
			if err := store.SaveTransactions(ctx, workspace(), normalized.Transactions); err != nil {
				return fmt.Errorf("failed to save transactions from %s: %w", filePath, err)
			}
			if err := registerDataset(ctx, store, table, ""); err != nil {
				return err
			}
		}
		imported += len(normalized.Transactions)

		slog.Info("Imported OFX file",
			"file", filepath.Base(filePath),
			"transactions", len(normalized.Transactions),
			"dropped", normalized.Dropped)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("imported %d transactions", imported)))
	return nil
}
