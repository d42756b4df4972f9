package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"ai-query-router/internal/config"
	"ai-query-router/pkg/llm/factory"
	"ai-query-router/pkg/router"
)

// Offline pipeline simulation: runs a batch of queries through the
// routing engine without the HTTP server, database or event bus.
// Useful for eyeballing a scoring config change before deploying it.
func main() {
	withModel := flag.Bool("model", false, "consult the configured LLM for ambiguous queries")
	flag.Parse()

	cfg := config.Load()

	scoringCfg, err := router.LoadScoringConfig(cfg.Router.ScoringConfigPath)
	if err != nil {
		log.Printf("Warn: scoring config load failed (%v), using fallback", err)
	}

	opts := []router.EngineOption{}
	if *withModel {
		llmProvider, err := factory.NewLLMProvider(
			cfg.Ai.LLMProvider,
			cfg.Ai.LLMModel,
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.GeminiAPIKey,
		)
		if err != nil {
			log.Fatalf("Failed to initialize LLM Provider: %v", err)
		}
		classifier := router.NewClassifier(llmProvider, cfg.Ai.LLMModel, cfg.Ai.Timeout, nil)
		opts = append(opts, router.WithClassifier(classifier))
		fmt.Printf("Model classification enabled: %s (%s)\n", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	} else {
		fmt.Println("Model classification disabled (pass -model to enable)")
	}

	engine := router.NewEngine(scoringCfg, opts...)

	queries := flag.Args()
	if len(queries) == 0 {
		queries = []string{
			"What were the main findings of the Q3 report?",
			"Plot monthly sales trend for product X",
			"Calculate the average churn rate across all regions in the dataset",
			"tell me about the data",
			"I'm testing what's going on, don't you know?",
			"",
		}
	}

	fmt.Println("=== Query Routing Simulation ===")
	for _, q := range queries {
		start := time.Now()
		decision, err := engine.Route(context.Background(), q)
		elapsed := time.Since(start)

		fmt.Printf("\nQUERY: %q\n", q)
		if err != nil {
			fmt.Printf("  error: %v\n", err)
			continue
		}
		fmt.Printf("  path:       %s\n", decision.ChosenPath)
		fmt.Printf("  confidence: %.2f\n", decision.Confidence)
		fmt.Printf("  reasoning:  %s\n", decision.Reasoning)
		fmt.Printf("  scores:     analytical=%.2f retrieval=%.2f\n",
			decision.Details.Heuristics.AnalyticalScore,
			decision.Details.Heuristics.RetrievalScore)
		fmt.Printf("  took:       %s\n", elapsed)
	}
}
