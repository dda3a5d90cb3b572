package studio

import (
	"strings"
	"testing"
)

func TestValidateSourceText(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		wantValid     bool
		wantCount     int
		wantInMessage []string
	}{
		{
			name:          "empty",
			text:          "",
			wantValid:     false,
			wantCount:     0,
			wantInMessage: []string{"required"},
		},
		{
			name:          "whitespace only",
			text:          "   \n\t  ",
			wantValid:     false,
			wantCount:     0,
			wantInMessage: []string{"required"},
		},
		{
			name:          "too short names bound and count",
			text:          strings.Repeat("a", 500),
			wantValid:     false,
			wantCount:     500,
			wantInMessage: []string{"1000", "500"},
		},
		{
			name:      "exactly at minimum",
			text:      strings.Repeat("a", 1000),
			wantValid: true,
			wantCount: 1000,
		},
		{
			name:      "exactly at maximum",
			text:      strings.Repeat("a", 10000),
			wantValid: true,
			wantCount: 10000,
		},
		{
			name:          "over maximum names bound and count",
			text:          strings.Repeat("a", 10001),
			wantValid:     false,
			wantCount:     10001,
			wantInMessage: []string{"10000", "10001"},
		},
		{
			name:      "surrounding whitespace is trimmed before counting",
			text:      "  " + strings.Repeat("a", 1000) + "  ",
			wantValid: true,
			wantCount: 1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateSourceText(tt.text)

			if got.IsValid != tt.wantValid {
				t.Errorf("IsValid = %v, want %v", got.IsValid, tt.wantValid)
			}
			if got.CharCount != tt.wantCount {
				t.Errorf("CharCount = %d, want %d", got.CharCount, tt.wantCount)
			}
			if tt.wantValid && got.ValidationError != "" {
				t.Errorf("ValidationError = %q, want empty", got.ValidationError)
			}
			for _, fragment := range tt.wantInMessage {
				if !strings.Contains(got.ValidationError, fragment) {
					t.Errorf("ValidationError = %q, want it to mention %q", got.ValidationError, fragment)
				}
			}
		})
	}
}

func TestValidateProposalField(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		kind      FieldKind
		wantValid bool
		fragment  string
	}{
		{"valid front", "What is Go?", FieldFront, true, ""},
		{"empty front", "", FieldFront, false, "Front text is required"},
		{"whitespace front", "   ", FieldFront, false, "Front text is required"},
		{"front over max", strings.Repeat("x", 201), FieldFront, false, "200"},
		{"front at max", strings.Repeat("x", 200), FieldFront, true, ""},
		{"empty back", "", FieldBack, false, "Back text is required"},
		{"back over max", strings.Repeat("x", 501), FieldBack, false, "500"},
		{"back at max", strings.Repeat("x", 500), FieldBack, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateProposalField(tt.value, tt.kind)

			if tt.wantValid && got != "" {
				t.Errorf("got %q, want no error", got)
			}
			if !tt.wantValid {
				if got == "" {
					t.Fatal("got no error, want one")
				}
				if !strings.Contains(got, tt.fragment) {
					t.Errorf("got %q, want it to mention %q", got, tt.fragment)
				}
			}
		})
	}
}
