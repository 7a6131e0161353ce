package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/askdex/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "askdex",
	Short: "Hybrid question answering over structured tables and documents",
	Long: `askdex answers natural-language questions against a mixed corpus:
relational warehouse tables and embedded document fragments. Each question
is routed to SQL synthesis, retrieval-augmented answering, or both, and the
outcomes are merged into one response with provenance.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.Commit, version.Date),
}
