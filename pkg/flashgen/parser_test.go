package flashgen

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestParseCards_PlainJSON(t *testing.T) {
	cards, err := ParseCards(`{"cards":[{"front":"What is Go?","back":"A programming language."}]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	if cards[0].Front != "What is Go?" || cards[0].Back != "A programming language." {
		t.Errorf("unexpected card content: %+v", cards[0])
	}
}

func TestParseCards_MarkdownFences(t *testing.T) {
	response := "Here are your cards:\n```json\n{\"cards\":[{\"front\":\"Q\",\"back\":\"A\"}]}\n```\nEnjoy!"
	cards, err := ParseCards(response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 1 || cards[0].Front != "Q" {
		t.Fatalf("expected fenced JSON to parse, got %+v", cards)
	}
}

func TestParseCards_TrimsWhitespace(t *testing.T) {
	cards, err := ParseCards(`{"cards":[{"front":"  Q  ","back":"  A  "}]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cards[0].Front != "Q" || cards[0].Back != "A" {
		t.Errorf("expected trimmed fields, got %+v", cards[0])
	}
}

func TestParseCards_DropsInvalidCards(t *testing.T) {
	longFront := strings.Repeat("x", FrontMaxLength+1)
	longBack := strings.Repeat("y", BackMaxLength+1)
	response := fmt.Sprintf(`{"cards":[
		{"front":"","back":"missing front"},
		{"front":"missing back","back":"   "},
		{"front":%q,"back":"too long front"},
		{"front":"too long back","back":%q},
		{"front":"keep","back":"this one"}
	]}`, longFront, longBack)

	cards, err := ParseCards(response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 1 || cards[0].Front != "keep" {
		t.Fatalf("expected only the valid card to survive, got %+v", cards)
	}
}

func TestParseCards_BoundaryLengthsKept(t *testing.T) {
	response := fmt.Sprintf(`{"cards":[{"front":%q,"back":%q}]}`,
		strings.Repeat("f", FrontMaxLength), strings.Repeat("b", BackMaxLength))
	cards, err := ParseCards(response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected exact-limit card to be kept, got %d cards", len(cards))
	}
}

func TestParseCards_CapsAtMax(t *testing.T) {
	many := make([]Card, MaxCardsPerGeneration+10)
	for i := range many {
		many[i] = Card{Front: fmt.Sprintf("Q%d", i), Back: fmt.Sprintf("A%d", i)}
	}
	raw, err := json.Marshal(cardsEnvelope{Cards: many})
	if err != nil {
		t.Fatal(err)
	}

	cards, err := ParseCards(string(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != MaxCardsPerGeneration {
		t.Errorf("expected cap of %d, got %d", MaxCardsPerGeneration, len(cards))
	}
}

func TestParseCards_NoJSON(t *testing.T) {
	if _, err := ParseCards("the model refused to answer"); err == nil {
		t.Error("expected an error when no JSON object is present")
	}
}

func TestParseCards_EmptyCards(t *testing.T) {
	if _, err := ParseCards(`{"cards":[]}`); err == nil {
		t.Error("expected an error for an empty cards array")
	}
	if _, err := ParseCards(`{"cards":[{"front":"","back":""}]}`); err == nil {
		t.Error("expected an error when every card is invalid")
	}
}

func TestParseCards_MalformedJSON(t *testing.T) {
	if _, err := ParseCards(`{"cards": [ {"front": "Q" `); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}
