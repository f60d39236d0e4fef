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

type UnitHandler struct {
	unitService service.UnitService
}

func NewUnitHandler(unitService service.UnitService) *UnitHandler {
	return &UnitHandler{unitService: unitService}
}

func (h *UnitHandler) RegisterRoutes(rg, adminRg *gin.RouterGroup) {
	rg.GET("/book/:bookId", h.GetByBook)
	rg.GET("/:id", h.GetByID)
	adminRg.POST("", h.Create)
	adminRg.PUT("/:id", h.Update)
	adminRg.DELETE("/:id", h.Delete)
}

func (h *UnitHandler) GetByBook(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	units, err := h.unitService.GetByBook(ctx, bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, units)
}

func (h *UnitHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	unit, err := h.unitService.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

func (h *UnitHandler) Create(c *gin.Context) {
	var unit models.Unit
	if err := c.ShouldBindJSON(&unit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.unitService.Create(ctx, &unit); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, unit)
}

func (h *UnitHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit id"})
		return
	}
	var unit models.Unit
	if err := c.ShouldBindJSON(&unit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	unit.ID = id

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.unitService.Update(ctx, &unit); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

func (h *UnitHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.unitService.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unit deleted"})
}
