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

type ChapterHandler struct {
	chapterService service.ChapterService
}

func NewChapterHandler(chapterService service.ChapterService) *ChapterHandler {
	return &ChapterHandler{chapterService: chapterService}
}

func (h *ChapterHandler) RegisterRoutes(rg, adminRg *gin.RouterGroup) {
	rg.GET("/book/:bookId", h.GetByBook)
	rg.GET("/:id", h.GetByID)
	adminRg.POST("", h.Create)
	adminRg.PUT("/:id", h.Update)
	adminRg.DELETE("/:id", h.Delete)
}

func (h *ChapterHandler) GetByBook(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	chapters, err := h.chapterService.GetByBook(ctx, bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapters)
}

func (h *ChapterHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	chapter, err := h.chapterService.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

func (h *ChapterHandler) Create(c *gin.Context) {
	var chapter models.Chapter
	if err := c.ShouldBindJSON(&chapter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.chapterService.Create(ctx, &chapter); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chapter)
}

func (h *ChapterHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}
	var chapter models.Chapter
	if err := c.ShouldBindJSON(&chapter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chapter.ID = id

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.chapterService.Update(ctx, &chapter); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

func (h *ChapterHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.chapterService.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "chapter deleted"})
}
