package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"training-service/internal/access"
	"training-service/internal/apperr"
	"training-service/internal/models"
)

// Aggregator receives exactly one Record call per accepted submission.
type Aggregator interface {
	Record(ctx context.Context, key models.AnalyticsKey, isCorrect bool, responseTime float64) error
}

// AnswerService grades one submitted answer against its question, contingent
// on the trainee's assignment being InProgress.
type AnswerService struct {
	Questions   QuestionStore
	Assignments AssignmentStore
	Analytics   Aggregator
}

func NewAnswerService(questions QuestionStore, assignments AssignmentStore, analytics Aggregator) *AnswerService {
	return &AnswerService{Questions: questions, Assignments: assignments, Analytics: analytics}
}

// Evaluate checks the preconditions in order (question exists, assignment
// held, assignment InProgress), derives correctness, and feeds the aggregate
// before returning. A refused submission never reaches the aggregator.
func (s *AnswerService) Evaluate(ctx context.Context, p models.Principal, sub models.AnswerSubmission) (*models.AnswerResult, error) {
	if p.Role != models.RoleTrainee {
		return nil, apperr.Forbidden("only trainees can answer questions")
	}
	if sub.ResponseTime < 0 {
		return nil, apperr.InvalidState("responseTime cannot be negative")
	}

	question, err := s.Questions.FindByID(ctx, sub.QuestionID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("question not found")
		}
		return nil, apperr.Internal("failed to look up question", err)
	}

	assignment, err := s.Assignments.FindByLessonAndTrainee(ctx, question.LessonID, p.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.Forbidden("you can only answer questions for lessons assigned to you")
		}
		return nil, apperr.Internal("failed to look up assignment", err)
	}
	if !access.CanActOnAssignment(p, assignment) {
		return nil, apperr.Forbidden("this assignment does not belong to you")
	}
	if assignment.Status != models.StatusInProgress {
		return nil, apperr.InvalidState("you can only answer questions for lessons in progress")
	}

	isCorrect := question.IsCorrect(sub.SelectedAnswer)

	key := models.AnalyticsKey{
		TrainerID: question.TrainerID,
		TraineeID: p.ID,
		LessonID:  question.LessonID,
	}
	if err := s.Analytics.Record(ctx, key, isCorrect, sub.ResponseTime); err != nil {
		return nil, apperr.Internal("failed to record analytics", err)
	}

	return &models.AnswerResult{
		QuestionID:     question.ID,
		IsCorrect:      isCorrect,
		SelectedAnswer: sub.SelectedAnswer,
		CorrectAnswer:  question.CorrectAnswer,
		ResponseTime:   sub.ResponseTime,
	}, nil
}
