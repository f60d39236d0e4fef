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

type VocabularyHandler struct {
	vocabService service.VocabularyService
}

func NewVocabularyHandler(vocabService service.VocabularyService) *VocabularyHandler {
	return &VocabularyHandler{vocabService: vocabService}
}

func (h *VocabularyHandler) RegisterRoutes(rg, adminRg *gin.RouterGroup) {
	rg.GET("/chapter/:chapterId", h.GetByChapter)
	rg.GET("/:id", h.GetByID)
	adminRg.POST("", h.Create)
	adminRg.PUT("/:id", h.Update)
	adminRg.DELETE("/:id", h.Delete)
}

func (h *VocabularyHandler) GetByChapter(c *gin.Context) {
	chapterID, err := strconv.ParseInt(c.Param("chapterId"), 10, 64)
	if err != nil || chapterID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	vocab, err := h.vocabService.GetByChapter(ctx, chapterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vocab)
}

func (h *VocabularyHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vocabulary id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	vocab, err := h.vocabService.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vocab)
}

func (h *VocabularyHandler) Create(c *gin.Context) {
	var vocab models.Vocabulary
	if err := c.ShouldBindJSON(&vocab); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.vocabService.Create(ctx, &vocab); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vocab)
}

func (h *VocabularyHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vocabulary id"})
		return
	}
	var vocab models.Vocabulary
	if err := c.ShouldBindJSON(&vocab); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vocab.ID = id

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.vocabService.Update(ctx, &vocab); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vocab)
}

func (h *VocabularyHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vocabulary id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.vocabService.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vocabulary deleted"})
}
