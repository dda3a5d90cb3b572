package flashgen

import (
	"context"
	"fmt"
	"time"

	"ai-flashcards-be/internal/constant"
	"ai-flashcards-be/pkg/llm"
)

const (
	// MaxCardsPerGeneration caps how many proposals a single generation may
	// return, regardless of how many the model produces.
	MaxCardsPerGeneration = 30

	generationTemperature = 0.7
	generationMaxTokens   = 4096
)

// Card is a single generated flashcard proposal.
type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Result carries the parsed cards together with call metadata the caller
// persists alongside the generation record.
type Result struct {
	Cards      []Card
	Model      string
	DurationMs int64
}

// Generator turns raw study text into flashcard proposals via an LLM call.
type Generator struct {
	llmProvider llm.LLMProvider
}

func NewGenerator(llmProvider llm.LLMProvider) *Generator {
	return &Generator{llmProvider: llmProvider}
}

// Generate performs a single LLM call and parses the structured reply.
// The model is asked for JSON output; replies that still wrap the object
// in prose or markdown fences are tolerated by the parser.
func (g *Generator) Generate(ctx context.Context, sourceText string) (*Result, error) {
	prompt := fmt.Sprintf(constant.FlashcardGenerationPrompt,
		MaxCardsPerGeneration, FrontMaxLength, BackMaxLength, sourceText)

	start := time.Now()
	response, err := g.llmProvider.Generate(ctx, prompt,
		llm.WithTemperature(generationTemperature),
		llm.WithMaxTokens(generationMaxTokens),
		llm.WithJSONOutput(),
	)
	if err != nil {
		return nil, fmt.Errorf("llm generation failed: %w", err)
	}

	cards, err := ParseCards(response)
	if err != nil {
		return nil, err
	}

	return &Result{
		Cards:      cards,
		Model:      g.llmProvider.ModelName(),
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}
