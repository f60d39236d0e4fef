package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"langleague/internal/http-api/dto"
	"langleague/internal/http-api/middleware"
	"langleague/internal/http-api/models"
	"langleague/internal/http-api/service"
)

type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// RegisterRoutes registers the chapter-progress routes
func (h *ProgressHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/complete/:chapterId", h.MarkAsCompleted)
	rg.POST("/percent/:chapterId", h.UpdateProgress)
	rg.GET("/book/:bookId/completion", h.GetBookCompletion)
	rg.GET("/my-chapters", h.GetMyChapters)
	rg.GET("/my-chapters/in-progress", h.GetMyInProgressChapters)
	rg.GET("/my-chapters/completed", h.GetMyCompletedChapters)
	rg.GET("/:id", h.FindOne)
	rg.PUT("/:id", h.Update)
	rg.PATCH("/:id", h.PartialUpdate)
	rg.DELETE("/:id", h.Delete)
}

func (h *ProgressHandler) MarkAsCompleted(c *gin.Context) {
	chapterID, err := strconv.ParseInt(c.Param("chapterId"), 10, 64)
	if err != nil || chapterID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}
	login := middleware.CurrentLogin(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.progressService.MarkAsCompleted(ctx, login, chapterID, login); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "chapter marked as completed"})
}

func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	chapterID, err := strconv.ParseInt(c.Param("chapterId"), 10, 64)
	if err != nil || chapterID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}
	var req dto.UpdatePercentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	login := middleware.CurrentLogin(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.progressService.UpdateProgress(ctx, login, chapterID, login, req.Percent); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "progress updated"})
}

func (h *ProgressHandler) GetBookCompletion(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	login := middleware.CurrentLogin(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	pct, err := h.progressService.GetBookCompletionPercentage(ctx, bookID, login)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BookCompletionResponse{BookID: bookID, Completion: pct})
}

func (h *ProgressHandler) GetMyChapters(c *gin.Context) {
	h.listMyChapters(c, h.progressService.GetMyChapters)
}

func (h *ProgressHandler) GetMyInProgressChapters(c *gin.Context) {
	h.listMyChapters(c, h.progressService.GetMyInProgressChapters)
}

func (h *ProgressHandler) GetMyCompletedChapters(c *gin.Context) {
	h.listMyChapters(c, h.progressService.GetMyCompletedChapters)
}

func (h *ProgressHandler) listMyChapters(c *gin.Context, list func(context.Context, string) ([]dto.MyChapterResponse, error)) {
	login := middleware.CurrentLogin(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	chapters, err := list(ctx, login)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapters)
}

func (h *ProgressHandler) FindOne(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid progress id"})
		return
	}
	login := middleware.CurrentLogin(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	progress, err := h.progressService.FindOne(ctx, login, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progressResponse(progress))
}

func (h *ProgressHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid progress id"})
		return
	}
	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	login := middleware.CurrentLogin(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	progress, err := h.progressService.Update(ctx, login, id, service.UpdateProgressInput{
		Completed: req.Completed,
		Percent:   req.Percent,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progressResponse(progress))
}

func (h *ProgressHandler) PartialUpdate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid progress id"})
		return
	}
	var req dto.PatchProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	login := middleware.CurrentLogin(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	progress, err := h.progressService.PartialUpdate(ctx, login, id, service.PatchProgressInput{
		Completed: req.Completed,
		Percent:   req.Percent,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progressResponse(progress))
}

func (h *ProgressHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid progress id"})
		return
	}
	login := middleware.CurrentLogin(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.progressService.Delete(ctx, login, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "progress deleted"})
}

func progressResponse(p *models.ChapterProgress) dto.ProgressResponse {
	return dto.ProgressResponse{
		ID:           p.ID,
		ChapterID:    p.ChapterID,
		Completed:    p.Completed,
		Percent:      p.Percent,
		LastAccessed: p.LastAccessed,
		Version:      p.Version,
	}
}
