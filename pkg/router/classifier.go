package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-query-router/internal/pkg/logger"
	"ai-query-router/pkg/llm"
)

// QueryClassifier is the boundary the orchestrator calls. A nil result
// means "no usable model signal" and is an expected state, never an
// error.
type QueryClassifier interface {
	Classify(ctx context.Context, q PreprocessedQuery, heuristics HeuristicOutput) *ModelClassification
}

// Classifier asks an external chat model to classify a query into one
// of the three routing classes. Every failure mode (transport, timeout,
// malformed JSON, out-of-schema values) is swallowed and reported as a
// nil classification: fail-open, not fail-fatal.
type Classifier struct {
	provider llm.LLMProvider
	model    string
	timeout  time.Duration
	logger   logger.ILogger
}

func NewClassifier(provider llm.LLMProvider, model string, timeout time.Duration, log logger.ILogger) *Classifier {
	if log == nil {
		log = logger.NopLogger{}
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Classifier{
		provider: provider,
		model:    model,
		timeout:  timeout,
		logger:   log,
	}
}

var _ QueryClassifier = &Classifier{}

// Classify builds the structured instruction payload, invokes the
// model with low temperature, and defensively parses the answer.
func (c *Classifier) Classify(ctx context.Context, q PreprocessedQuery, heuristics HeuristicOutput) *ModelClassification {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	systemPrompt, err := c.buildSystemPrompt(q, heuristics)
	if err != nil {
		c.logger.Warn("classifier", "Failed to build classification prompt", map[string]interface{}{"error": err.Error()})
		return nil
	}

	history := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: "Classify the query now. Respond with JSON only."},
	}

	response, err := c.provider.Chat(ctx, history,
		llm.WithTemperature(0.0),
		llm.WithModel(c.model),
	)
	if err != nil {
		c.logger.Warn("classifier", "Model classification call failed", map[string]interface{}{"error": err.Error()})
		return nil
	}

	classification, err := parseClassification(response)
	if err != nil {
		c.logger.Warn("classifier", "Model response rejected", map[string]interface{}{
			"error":    err.Error(),
			"response": truncate(response, 200),
		})
		return nil
	}

	c.logger.Info("classifier", "Query classified", map[string]interface{}{
		"classification": classification.Classification,
		"confidence":     classification.Confidence,
	})
	return classification
}

// buildSystemPrompt embeds the normalized query, the heuristic
// snapshot, the three-class taxonomy and a handful of worked examples.
func (c *Classifier) buildSystemPrompt(q PreprocessedQuery, heuristics HeuristicOutput) (string, error) {
	heurJSON, err := json.Marshal(heuristics)
	if err != nil {
		return "", fmt.Errorf("marshal heuristics: %w", err)
	}

	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a query routing classifier. Your ONLY job is to decide which processing path should handle a user query.\n")
	prompt.WriteString("You do NOT answer the query. You only classify it.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<user_query>\n")
	prompt.WriteString(q.NormalizedQuery)
	prompt.WriteString("\n</user_query>\n\n")

	prompt.WriteString("<heuristic_signals>\n")
	prompt.Write(heurJSON)
	prompt.WriteString("\n</heuristic_signals>\n\n")

	prompt.WriteString("<classification_definitions>\n")
	prompt.WriteString("Choose ONE classification that best matches the query:\n\n")
	prompt.WriteString("direct_retrieval: The user wants facts or passages that already exist in documents (lookups, summaries, definitions, report contents).\n")
	prompt.WriteString("analytical_task: The user wants computation, aggregation, code execution, trend analysis, or a chart built from data.\n")
	prompt.WriteString("clarification_needed: The query is too vague, ambiguous, or underspecified to route safely.\n")
	prompt.WriteString("</classification_definitions>\n\n")

	prompt.WriteString("<examples>\n")
	for _, ex := range classifierExamples {
		exHeur, err := json.Marshal(ex.heuristics)
		if err != nil {
			return "", fmt.Errorf("marshal example heuristics: %w", err)
		}
		prompt.WriteString("Query: ")
		prompt.WriteString(ex.query)
		prompt.WriteString("\nHeuristics: ")
		prompt.Write(exHeur)
		prompt.WriteString("\nAnswer: ")
		prompt.WriteString(ex.answer)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("</examples>\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"classification\": \"direct_retrieval|analytical_task|clarification_needed\",\n")
	prompt.WriteString("  \"confidence\": 0.95,\n")
	prompt.WriteString("  \"reasoning\": \"Brief explanation\"\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String(), nil
}

// classifierExamples are the few-shot pairs embedded into every
// classification prompt.
var classifierExamples = []struct {
	query      string
	heuristics HeuristicOutput
	answer     string
}{
	{
		query:      "what were the main findings of the q3 report?",
		heuristics: HeuristicOutput{IsRetrievalIntent: true, AnalyticalScore: 0.1, RetrievalScore: 0.8},
		answer:     `{"classification": "direct_retrieval", "confidence": 0.95, "reasoning": "Asks for existing report content, no computation needed."}`,
	},
	{
		query:      "plot monthly sales trend for product x",
		heuristics: HeuristicOutput{IsAnalyticalIntent: true, RequestsVisualization: true, AnalyticalScore: 0.85, RetrievalScore: 0.1},
		answer:     `{"classification": "analytical_task", "confidence": 0.95, "reasoning": "Requires aggregating sales data and rendering a chart."}`,
	},
	{
		query:      "calculate the average churn rate across all regions in the dataset",
		heuristics: HeuristicOutput{IsAnalyticalIntent: true, MentionsDataset: true, AnalyticalScore: 0.9, RetrievalScore: 0.15},
		answer:     `{"classification": "analytical_task", "confidence": 0.9, "reasoning": "Explicit computation over a dataset."}`,
	},
	{
		query:      "tell me about the data",
		heuristics: HeuristicOutput{MentionsDataset: true, AnalyticalScore: 0.3, RetrievalScore: 0.3},
		answer:     `{"classification": "clarification_needed", "confidence": 0.85, "reasoning": "Which data and what about it is unspecified."}`,
	},
	{
		query:      "summarize the onboarding documentation",
		heuristics: HeuristicOutput{IsRetrievalIntent: true, AnalyticalScore: 0.1, RetrievalScore: 0.75},
		answer:     `{"classification": "direct_retrieval", "confidence": 0.9, "reasoning": "Summary of existing documents is a retrieval task."}`,
	},
}

// parseClassification extracts and validates the JSON answer. Markdown
// code fences around the JSON are tolerated.
func parseClassification(response string) (*ModelClassification, error) {
	content := stripCodeFence(response)
	jsonContent := extractJSON(content)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var out ModelClassification
	if err := json.Unmarshal([]byte(jsonContent), &out); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	out.Classification = strings.ToLower(strings.TrimSpace(out.Classification))
	switch out.Classification {
	case ClassDirectRetrieval, ClassAnalyticalTask, ClassClarificationNeeded:
	default:
		return nil, fmt.Errorf("unknown classification %q", out.Classification)
	}

	if out.Confidence < 0 || out.Confidence > 1 {
		return nil, fmt.Errorf("confidence %v out of range [0,1]", out.Confidence)
	}

	return &out, nil
}

// stripCodeFence removes a surrounding markdown fence (``` or
// ```json) if present.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "JSON", or empty)
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// extractJSON returns the outermost brace-delimited region.
func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
