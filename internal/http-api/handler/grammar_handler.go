package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"langleague/internal/http-api/models"
	"langleague/internal/http-api/service"
)

type GrammarHandler struct {
	grammarService service.GrammarService
}

func NewGrammarHandler(grammarService service.GrammarService) *GrammarHandler {
	return &GrammarHandler{grammarService: grammarService}
}

func (h *GrammarHandler) RegisterRoutes(rg, adminRg *gin.RouterGroup) {
	rg.GET("/chapter/:chapterId", h.GetByChapter)
	rg.GET("/:id", h.GetByID)
	adminRg.POST("", h.Create)
	adminRg.PUT("/:id", h.Update)
	adminRg.DELETE("/:id", h.Delete)
}

func (h *GrammarHandler) GetByChapter(c *gin.Context) {
	chapterID, err := strconv.ParseInt(c.Param("chapterId"), 10, 64)
	if err != nil || chapterID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	grammar, err := h.grammarService.GetByChapter(ctx, chapterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grammar)
}

func (h *GrammarHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid grammar id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	grammar, err := h.grammarService.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grammar)
}

func (h *GrammarHandler) Create(c *gin.Context) {
	var grammar models.Grammar
	if err := c.ShouldBindJSON(&grammar); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.grammarService.Create(ctx, &grammar); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, grammar)
}

func (h *GrammarHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid grammar id"})
		return
	}
	var grammar models.Grammar
	if err := c.ShouldBindJSON(&grammar); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	grammar.ID = id

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.grammarService.Update(ctx, &grammar); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grammar)
}

func (h *GrammarHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid grammar id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.grammarService.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "grammar deleted"})
}
