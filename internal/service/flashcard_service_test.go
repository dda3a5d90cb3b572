package service

import (
	"testing"

	"ai-flashcards-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBatchSources(t *testing.T) {
	genId := uuid.New()
	otherId := uuid.New()

	tests := []struct {
		name    string
		items   []dto.CreateFlashcardItem
		wantErr error
		wantGen *uuid.UUID
	}{
		{
			name: "manual only",
			items: []dto.CreateFlashcardItem{
				{Front: "Q", Back: "A", Source: "manual"},
			},
		},
		{
			name: "manual with generation id",
			items: []dto.CreateFlashcardItem{
				{Front: "Q", Back: "A", Source: "manual", GenerationId: &genId},
			},
			wantErr: ErrManualWithGeneration,
		},
		{
			name: "ai without generation id",
			items: []dto.CreateFlashcardItem{
				{Front: "Q", Back: "A", Source: "ai-full"},
			},
			wantErr: ErrMissingGenerationId,
		},
		{
			name: "ai uniform generation",
			items: []dto.CreateFlashcardItem{
				{Front: "Q1", Back: "A1", Source: "ai-full", GenerationId: &genId},
				{Front: "Q2", Back: "A2", Source: "ai-edited", GenerationId: &genId},
			},
			wantGen: &genId,
		},
		{
			name: "mixed generation ids",
			items: []dto.CreateFlashcardItem{
				{Front: "Q1", Back: "A1", Source: "ai-full", GenerationId: &genId},
				{Front: "Q2", Back: "A2", Source: "ai-full", GenerationId: &otherId},
			},
			wantErr: ErrMixedGenerationIds,
		},
		{
			name: "manual and ai mixed batch",
			items: []dto.CreateFlashcardItem{
				{Front: "Q1", Back: "A1", Source: "manual"},
				{Front: "Q2", Back: "A2", Source: "ai-full", GenerationId: &genId},
			},
			wantGen: &genId,
		},
		{
			name: "unknown source",
			items: []dto.CreateFlashcardItem{
				{Front: "Q", Back: "A", Source: "imported"},
			},
			wantErr: ErrInvalidSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := validateBatchSources(tt.items)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.wantGen == nil {
				assert.Nil(t, gen)
			} else {
				require.NotNil(t, gen)
				assert.Equal(t, *tt.wantGen, *gen)
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in        string
		wantField string
		wantDesc  bool
	}{
		{"created_at", "created_at", false},
		{"-created_at", "created_at", true},
		{"updated_at", "updated_at", false},
		{"front", "front", false},
		{"-front", "front", true},
		{"", "created_at", true},
		{"back; drop table flashcards", "created_at", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			field, desc := parseSort(tt.in)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}
