package mapper

import (
	"encoding/json"
	"time"

	"ai-flashcards-be/internal/entity"
	"ai-flashcards-be/internal/model"
)

type GenerationMapper struct{}

func NewGenerationMapper() *GenerationMapper {
	return &GenerationMapper{}
}

func (m *GenerationMapper) ToEntity(g *model.Generation) *entity.Generation {
	if g == nil {
		return nil
	}

	var updatedAt *time.Time
	if !g.UpdatedAt.IsZero() {
		t := g.UpdatedAt
		updatedAt = &t
	}

	var proposals []entity.GenerationProposal
	if len(g.Proposals) > 0 {
		// Column is written by us, a decode failure means corrupt data.
		// Surface an empty slice rather than fail the whole read.
		_ = json.Unmarshal(g.Proposals, &proposals)
	}

	return &entity.Generation{
		Id:                    g.Id,
		UserId:                g.UserId,
		Model:                 g.Model,
		GeneratedCount:        g.GeneratedCount,
		AcceptedUneditedCount: g.AcceptedUneditedCount,
		AcceptedEditedCount:   g.AcceptedEditedCount,
		GeneratedDurationMs:   g.GeneratedDurationMs,
		SourceTextHash:        g.SourceTextHash,
		SourceTextLength:      g.SourceTextLength,
		Proposals:             proposals,
		CreatedAt:             g.CreatedAt,
		UpdatedAt:             updatedAt,
	}
}

func (m *GenerationMapper) ToModel(g *entity.Generation) *model.Generation {
	if g == nil {
		return nil
	}

	var updatedAt time.Time
	if g.UpdatedAt != nil {
		updatedAt = *g.UpdatedAt
	}

	proposalsJson, _ := json.Marshal(g.Proposals)

	return &model.Generation{
		Id:                    g.Id,
		UserId:                g.UserId,
		Model:                 g.Model,
		GeneratedCount:        g.GeneratedCount,
		AcceptedUneditedCount: g.AcceptedUneditedCount,
		AcceptedEditedCount:   g.AcceptedEditedCount,
		GeneratedDurationMs:   g.GeneratedDurationMs,
		SourceTextHash:        g.SourceTextHash,
		SourceTextLength:      g.SourceTextLength,
		Proposals:             proposalsJson,
		CreatedAt:             g.CreatedAt,
		UpdatedAt:             updatedAt,
	}
}

func (m *GenerationMapper) ToEntities(generations []*model.Generation) []*entity.Generation {
	entities := make([]*entity.Generation, len(generations))
	for i, g := range generations {
		entities[i] = m.ToEntity(g)
	}
	return entities
}
