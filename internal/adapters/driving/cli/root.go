// Package cli implements the finrag command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/finsight-labs/finrag/internal/config"
	"github.com/finsight-labs/finrag/internal/core/ports/driven"
	"github.com/finsight-labs/finrag/internal/core/ports/driving"
	"github.com/finsight-labs/finrag/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services are injected by main before Execute.
var (
	ingestService    driving.Ingestor
	retrieverService driving.Retriever
	answerService    driving.Answerer
	chunkStore       driven.ChunkStore
	appConfig        = config.Default()
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "finrag",
	Short: "Retrieval pipeline for financial annual reports",
	Long: `finrag ingests annual-report PDFs, reconstructs their tables,
chunks and embeds the content, and answers filtered similarity
queries over the resulting index.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Services bundles everything the commands need.
type Services struct {
	Ingestor   driving.Ingestor
	Retriever  driving.Retriever
	Answerer   driving.Answerer
	ChunkStore driven.ChunkStore
	Config     config.Config
}

// SetServices injects the wired services. Call before Execute.
func SetServices(s Services) {
	ingestService = s.Ingestor
	retrieverService = s.Retriever
	answerService = s.Answerer
	chunkStore = s.ChunkStore
	appConfig = s.Config
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
