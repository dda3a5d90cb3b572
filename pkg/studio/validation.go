package studio

import (
	"fmt"
	"strings"
)

// Length bounds shared by the client-side checks and the API contract.
const (
	SourceTextMinLength = 1000
	SourceTextMaxLength = 10000

	FrontMinLength = 1
	FrontMaxLength = 200
	BackMinLength  = 1
	BackMaxLength  = 500
)

// FieldKind identifies which side of a flashcard a value belongs to.
type FieldKind string

const (
	FieldFront FieldKind = "front"
	FieldBack  FieldKind = "back"
)

// SourceTextState is derived entirely from the raw text and recomputed on
// every edit.
type SourceTextState struct {
	Text            string
	CharCount       int
	IsValid         bool
	ValidationError string
}

// ValidateSourceText trims the input and checks it against the source length
// bounds. CharCount always reflects the trimmed length.
func ValidateSourceText(text string) SourceTextState {
	trimmed := strings.TrimSpace(text)
	count := len([]rune(trimmed))

	state := SourceTextState{
		Text:      text,
		CharCount: count,
	}

	switch {
	case count == 0:
		state.ValidationError = "Source text is required"
	case count < SourceTextMinLength:
		state.ValidationError = fmt.Sprintf(
			"Source text must be at least %d characters (currently %d)",
			SourceTextMinLength, count,
		)
	case count > SourceTextMaxLength:
		state.ValidationError = fmt.Sprintf(
			"Source text must be at most %d characters (currently %d)",
			SourceTextMaxLength, count,
		)
	default:
		state.IsValid = true
	}

	return state
}

// ValidateProposalField checks a single card field against its bounds.
// An empty return value means the field is valid.
func ValidateProposalField(value string, kind FieldKind) string {
	trimmed := strings.TrimSpace(value)
	count := len([]rune(trimmed))

	label := "Front"
	max := FrontMaxLength
	if kind == FieldBack {
		label = "Back"
		max = BackMaxLength
	}

	if count == 0 {
		return fmt.Sprintf("%s text is required", label)
	}
	if count > max {
		return fmt.Sprintf("%s text must be at most %d characters (currently %d)", label, max, count)
	}

	return ""
}
