package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finsight-labs/finrag/internal/core/domain"
)

var (
	askTopK int
	askBank string
	askYear int
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question grounded on the indexed reports",
	Long: `Retrieves the most relevant chunks for the question and asks the
configured language model to answer using only those excerpts. Requires
llm.enabled in the configuration.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of grounding chunks (default from config)")
	askCmd.Flags().StringVar(&askBank, "bank", "", "restrict grounding to this bank")
	askCmd.Flags().IntVar(&askYear, "year", 0, "restrict grounding to this year")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	k := askTopK
	if k <= 0 {
		k = appConfig.Retrieval.TopK
	}
	filter := domain.Filter{Bank: askBank, Year: askYear}

	answer, err := answerService.Ask(cmd.Context(), args[0], filter, k)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)

	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, src := range answer.Sources {
			cmd.Printf("  [%d] %s %d, page %d (%.3f)\n",
				i+1, src.Chunk.Bank, src.Chunk.Year, src.Chunk.Page, src.Score)
		}
	}
	return nil
}
