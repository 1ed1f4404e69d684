package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finsight-labs/finrag/internal/core/domain"
)

var (
	queryTopK int
	queryBank string
	queryYear int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Retrieve the most relevant chunks for a question",
	Long: `Embeds the query text and returns the top-k most similar chunks
from the index, most relevant first. Use --bank and --year to restrict
results to a single report before scoring.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of chunks to return (default from config)")
	queryCmd.Flags().StringVar(&queryBank, "bank", "", "restrict results to this bank")
	queryCmd.Flags().IntVar(&queryYear, "year", 0, "restrict results to this year")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if retrieverService == nil {
		return errors.New("retriever service not configured")
	}

	k := queryTopK
	if k <= 0 {
		k = appConfig.Retrieval.TopK
	}
	filter := domain.Filter{Bank: queryBank, Year: queryYear}

	results, err := retrieverService.Query(cmd.Context(), args[0], filter, k)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputResultsJSON(cmd, results)
	}
	return outputResultsText(cmd, results)
}

// queryResult is the JSON output shape for one retrieved chunk.
type queryResult struct {
	Score float64       `json:"score"`
	Chunk domain.Record `json:"chunk"`
}

func outputResultsJSON(cmd *cobra.Command, results []domain.ScoredChunk) error {
	out := make([]queryResult, len(results))
	for i, r := range results {
		out[i] = queryResult{Score: r.Score, Chunk: r.Chunk.ToRecord()}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResultsText(cmd *cobra.Command, results []domain.ScoredChunk) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i, r := range results {
		cmd.Printf("[%d] %s %d, page %d (%.3f)", i+1, r.Chunk.Bank, r.Chunk.Year, r.Chunk.Page, r.Score)
		if r.Chunk.Kind == domain.KindTable {
			cmd.Printf(" [table %s]", r.Chunk.TableID)
		}
		cmd.Println()
		cmd.Printf("    %s\n\n", r.Chunk.Text)
	}
	return nil
}
