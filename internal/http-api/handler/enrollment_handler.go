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

type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

func (h *EnrollmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.GetMyEnrollments)
	rg.POST("/book/:bookId", h.Enroll)
	rg.PATCH("/:id/status", h.UpdateStatus)
	rg.DELETE("/:id", h.Withdraw)
}

func (h *EnrollmentHandler) GetMyEnrollments(c *gin.Context) {
	login := middleware.CurrentLogin(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	enrollments, err := h.enrollmentService.GetMyEnrollments(ctx, login)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollments)
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	login := middleware.CurrentLogin(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	enrollment, err := h.enrollmentService.Enroll(ctx, login, bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

func (h *EnrollmentHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid enrollment id"})
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	login := middleware.CurrentLogin(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	enrollment, err := h.enrollmentService.UpdateStatus(ctx, login, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

func (h *EnrollmentHandler) Withdraw(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid enrollment id"})
		return
	}
	login := middleware.CurrentLogin(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.enrollmentService.Withdraw(ctx, login, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "enrollment withdrawn"})
}
