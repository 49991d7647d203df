package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"training-service/internal/models"
	"training-service/internal/service"
)

type QuestionHandler struct {
	Questions *service.QuestionService
	Answers   *service.AnswerService
}

func NewQuestionHandler(questions *service.QuestionService, answers *service.AnswerService) *QuestionHandler {
	return &QuestionHandler{Questions: questions, Answers: answers}
}

func (h *QuestionHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var input service.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	question, err := h.Questions.Create(c.Request.Context(), p, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *QuestionHandler) ListByLesson(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	questions, err := h.Questions.ListByLesson(c.Request.Context(), p, c.Param("lessonId"))
	if err != nil {
		writeError(c, err)
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var input service.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	question, err := h.Questions.Update(c.Request.Context(), p, c.Param("id"), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.Questions.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "question deleted"})
}

// Answer grades one submission against its question.
func (h *QuestionHandler) Answer(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var sub models.AnswerSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Answers.Evaluate(c.Request.Context(), p, sub)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
