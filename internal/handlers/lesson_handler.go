package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"training-service/internal/models"
	"training-service/internal/service"
)

type LessonHandler struct {
	Lessons     *service.LessonService
	Assignments *service.AssignmentService
}

func NewLessonHandler(lessons *service.LessonService, assignments *service.AssignmentService) *LessonHandler {
	return &LessonHandler{Lessons: lessons, Assignments: assignments}
}

func (h *LessonHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var input service.LessonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lesson, err := h.Lessons.Create(c.Request.Context(), p, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

func (h *LessonHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	lessons, err := h.Lessons.List(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	if lessons == nil {
		lessons = []models.Lesson{}
	}
	c.JSON(http.StatusOK, lessons)
}

func (h *LessonHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	detail, err := h.Lessons.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *LessonHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var input service.LessonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lesson, err := h.Lessons.Update(c.Request.Context(), p, c.Param("id"), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

func (h *LessonHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.Lessons.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "lesson deleted"})
}

// Assign binds the lesson to a trainee.
func (h *LessonHandler) Assign(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var input struct {
		TraineeID string `json:"traineeID" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	assignment, err := h.Assignments.Assign(c.Request.Context(), p, c.Param("id"), input.TraineeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// UpdateStatus advances the caller's assignment for this lesson.
func (h *LessonHandler) UpdateStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var input struct {
		Status models.AssignmentStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	assignment, err := h.Assignments.UpdateStatus(c.Request.Context(), p, c.Param("id"), input.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// Unassign removes a trainee's assignment for this lesson.
func (h *LessonHandler) Unassign(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.Assignments.Unassign(c.Request.Context(), p, c.Param("id"), c.Param("traineeId")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "assignment removed"})
}

// MyLessons lists the trainee's assignments merged with lesson content.
func (h *LessonHandler) MyLessons(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	views, err := h.Assignments.MyLessons(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
