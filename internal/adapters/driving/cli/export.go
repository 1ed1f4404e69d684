package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finsight-labs/finrag/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export chunk records as JSON files",
	Long: `Writes one JSON file per ingested document (named <bank>_<year>.json)
containing the document's chunk records, ready for downstream
vectorisation tooling.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "output directory")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	if chunkStore == nil {
		return errors.New("chunk store not configured")
	}

	ctx := cmd.Context()
	docs, err := chunkStore.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}
	if len(docs) == 0 {
		cmd.Println("Nothing to export.")
		return nil
	}

	for i := range docs {
		chunks, err := chunkStore.GetChunks(ctx, docs[i].ID)
		if err != nil {
			return fmt.Errorf("loading chunks for %s: %w", docs[i].ID, err)
		}
		path, err := export.WriteDocumentRecords(exportOut, &docs[i], chunks)
		if err != nil {
			return fmt.Errorf("exporting %s: %w", docs[i].ID, err)
		}
		cmd.Printf("Wrote %s (%d records)\n", path, len(chunks))
	}
	return nil
}
