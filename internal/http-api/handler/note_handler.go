package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"langleague/internal/http-api/middleware"
	"langleague/internal/http-api/service"
)

type NoteHandler struct {
	noteService service.NoteService
}

func NewNoteHandler(noteService service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

func (h *NoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/unit/:unitId", h.GetMyNotesForUnit)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *NoteHandler) GetMyNotesForUnit(c *gin.Context) {
	unitID, err := strconv.ParseInt(c.Param("unitId"), 10, 64)
	if err != nil || unitID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit id"})
		return
	}
	login := middleware.CurrentLogin(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	notes, err := h.noteService.GetMyNotesForUnit(ctx, login, unitID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (h *NoteHandler) Create(c *gin.Context) {
	var req struct {
		UnitID  int64  `json:"unit_id" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	login := middleware.CurrentLogin(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	note, err := h.noteService.Create(ctx, login, req.UnitID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *NoteHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note id"})
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	login := middleware.CurrentLogin(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	note, err := h.noteService.Update(ctx, login, id, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *NoteHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note id"})
		return
	}
	login := middleware.CurrentLogin(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.noteService.Delete(ctx, login, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "note deleted"})
}
