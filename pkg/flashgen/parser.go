package flashgen

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// FrontMaxLength and BackMaxLength bound individual card fields.
	// Cards exceeding them are dropped rather than truncated so the user
	// never reviews silently mangled content.
	FrontMaxLength = 200
	BackMaxLength  = 500
)

type cardsEnvelope struct {
	Cards []Card `json:"cards"`
}

// ParseCards extracts flashcards from a raw model reply.
// It tolerates prose and markdown fences around the JSON object, drops
// cards with empty or over-length fields, and caps the result at
// MaxCardsPerGeneration. An error is returned only when no usable card
// survives.
func ParseCards(response string) ([]Card, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON object found in model response")
	}

	var envelope cardsEnvelope
	if err := json.Unmarshal([]byte(jsonContent), &envelope); err != nil {
		return nil, fmt.Errorf("model response unmarshal failed: %w", err)
	}

	valid := make([]Card, 0, len(envelope.Cards))
	for _, card := range envelope.Cards {
		front := strings.TrimSpace(card.Front)
		back := strings.TrimSpace(card.Back)
		if front == "" || back == "" {
			continue
		}
		if utf8.RuneCountInString(front) > FrontMaxLength || utf8.RuneCountInString(back) > BackMaxLength {
			continue
		}
		valid = append(valid, Card{Front: front, Back: back})
		if len(valid) == MaxCardsPerGeneration {
			break
		}
	}

	if len(valid) == 0 {
		return nil, fmt.Errorf("model response contained no usable cards")
	}

	return valid, nil
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
