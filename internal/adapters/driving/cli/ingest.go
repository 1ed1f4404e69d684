package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finsight-labs/finrag/internal/core/ports/driving"
)

var (
	ingestBank string
	ingestYear int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [paths...]",
	Short: "Ingest annual-report PDFs into the index",
	Long: `Runs the batch build pipeline over the given PDF files or
directories. Directories are scanned for *.pdf files. Bank and year are
inferred from file names like HDFC_2023.pdf unless overridden with
--bank and --year.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestBank, "bank", "", "bank tag for all documents (overrides filename inference)")
	ingestCmd.Flags().IntVar(&ingestYear, "year", 0, "year tag for all documents (overrides filename inference)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	paths, err := collectPDFs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("no PDF files found")
	}

	reqs := make([]driving.IngestRequest, len(paths))
	for i, path := range paths {
		reqs[i] = driving.IngestRequest{
			Path: path,
			Bank: ingestBank,
			Year: ingestYear,
		}
	}

	report, err := ingestService.Ingest(cmd.Context(), reqs)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Documents processed: %d\n", report.DocumentsProcessed)
	cmd.Printf("Chunks indexed:      %d\n", report.ChunksIndexed)

	for _, failure := range report.DocumentFailures {
		cmd.Printf("Skipped %s: %s\n", failure.Path, failure.Reason)
	}
	if n := len(report.ChunkFailures); n > 0 {
		cmd.Printf("Chunk failures: %d\n", n)
	}

	if report.Failed() {
		return errors.New("batch completed with failures")
	}
	return nil
}

// collectPDFs expands directories into their *.pdf files and passes
// plain file paths through.
func collectPDFs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			// Let the ingest service report it as a document failure.
			paths = append(paths, arg)
			continue
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
				paths = append(paths, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return paths, nil
}
