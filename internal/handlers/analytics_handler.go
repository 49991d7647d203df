package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"training-service/internal/models"
	"training-service/internal/service"
)

type AnalyticsHandler struct {
	Service *service.AnalyticsService
}

func NewAnalyticsHandler(s *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{Service: s}
}

func (h *AnalyticsHandler) ByLesson(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	records, err := h.Service.ByLesson(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if records == nil {
		records = []models.AnalyticsRecord{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *AnalyticsHandler) LessonProgress(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	progress, err := h.Service.LessonProgress(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *AnalyticsHandler) ByTrainee(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	records, err := h.Service.ByTrainee(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if records == nil {
		records = []models.AnalyticsRecord{}
	}
	c.JSON(http.StatusOK, records)
}
