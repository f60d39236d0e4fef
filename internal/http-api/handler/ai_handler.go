package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"langleague/internal/ai"
	"langleague/internal/http-api/dto"
)

type AIHandler struct {
	client *ai.GeminiClient
}

func NewAIHandler(client *ai.GeminiClient) *AIHandler {
	return &AIHandler{client: client}
}

func (h *AIHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate", h.Generate)
}

func (h *AIHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	text, err := h.client.GenerateContent(ctx, req.Prompt, req.Model)
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrEmptyPrompt):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ai.ErrMissingAPIKey):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, dto.GenerateResponse{Text: text})
}
