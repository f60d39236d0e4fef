package dto

type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	Model  string `json:"model"`
}

type GenerateResponse struct {
	Text string `json:"text"`
}
