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

type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

func (h *ExerciseHandler) RegisterRoutes(rg, adminRg *gin.RouterGroup) {
	rg.GET("/chapter/:chapterId", h.GetByChapter)
	rg.GET("/:id", h.GetByID)
	adminRg.POST("", h.Create)
	adminRg.PUT("/:id", h.Update)
	adminRg.DELETE("/:id", h.Delete)
}

func (h *ExerciseHandler) GetByChapter(c *gin.Context) {
	chapterID, err := strconv.ParseInt(c.Param("chapterId"), 10, 64)
	if err != nil || chapterID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	exercises, err := h.exerciseService.GetByChapter(ctx, chapterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

func (h *ExerciseHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exercise id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	exercise, err := h.exerciseService.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) Create(c *gin.Context) {
	var exercise models.Exercise
	if err := c.ShouldBindJSON(&exercise); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.exerciseService.Create(ctx, &exercise); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

func (h *ExerciseHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exercise id"})
		return
	}
	var exercise models.Exercise
	if err := c.ShouldBindJSON(&exercise); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	exercise.ID = id

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.exerciseService.Update(ctx, &exercise); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exercise id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.exerciseService.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "exercise deleted"})
}
