package constant

const (
	ChatMessageRoleUser   = "user"
	ChatMessageRoleSystem = "system"

	// FlashcardGenerationPrompt instructs the model to produce spaced-repetition
	// flashcards from arbitrary study text. The reply must be a single JSON
	// object so it can be parsed without any post-processing heuristics.
	FlashcardGenerationPrompt = `You are an expert educator creating spaced-repetition flashcards from study material.

RULES:
1. Read the source text below and extract the most important facts, definitions and relationships.
2. Produce between 3 and %d flashcards. Fewer high-quality cards beat many shallow ones.
3. Each card has a "front" (question or term, max %d characters) and a "back" (answer or definition, max %d characters).
4. Questions must be answerable from the source text alone. Do not use external knowledge.
5. Avoid yes/no questions. Prefer "what", "why" and "how" phrasings.
6. Write fronts and backs in the same language as the source text.

OUTPUT FORMAT:
Respond with ONLY a JSON object in exactly this shape, no prose before or after:
{"cards": [{"front": "...", "back": "..."}]}

SOURCE TEXT:
%s`
)
