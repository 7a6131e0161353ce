package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/askdex/internal/config"
	logpkg "github.com/kailas-cloud/askdex/internal/logger"
)

var askK int

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question and exit",
	Long: `Runs the full pipeline for a single question without starting the
HTTP server: routes it, queries the warehouse and/or the document store,
and prints the merged answer with its sources.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askK, "fragments", "k", 0, "number of document fragments to retrieve")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question must not be empty")
	}

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	k := askK
	if k <= 0 {
		k = cfg.Retrieval.DefaultK
	}
	if k > cfg.Retrieval.MaxK {
		return fmt.Errorf("k must not exceed %d", cfg.Retrieval.MaxK)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	res := p.ask.Ask(ctx, question, k)

	cmd.Println(res.MergedText)
	cmd.Printf("\nRoute: %s (confidence %.1f) - %s\n",
		res.Decision.Route, res.Decision.Confidence, res.Decision.Reasoning)

	if res.RAG != nil && len(res.RAG.Sources) > 0 {
		cmd.Println("\n---\nSources:")
		for i, src := range res.RAG.Sources {
			cmd.Printf("[%d] source=%s, fragment=%d, score=%.4f\n",
				i+1, src.SourceID, src.Index, src.Similarity)
		}
	}
	return nil
}
