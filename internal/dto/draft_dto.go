package dto

type SaveDraftRequest struct {
	SourceText string `json:"source_text" validate:"required,max=10000"`
}

type ShowDraftResponse struct {
	SourceText string `json:"source_text"`
}
