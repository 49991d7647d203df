package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"training-service/internal/access"
	"training-service/internal/apperr"
	"training-service/internal/models"
)

// QuestionService manages the question set embedded in a lesson's catalog
// entry. Authoring is restricted to the lesson owner; reading follows the
// lesson's visibility.
type QuestionService struct {
	Questions   QuestionStore
	Lessons     LessonStore
	Assignments AssignmentStore
	now         nowFunc
}

func NewQuestionService(questions QuestionStore, lessons LessonStore, assignments AssignmentStore) *QuestionService {
	return &QuestionService{Questions: questions, Lessons: lessons, Assignments: assignments, now: defaultNow}
}

type QuestionInput struct {
	LessonID      string            `json:"lessonID" binding:"required"`
	QuestionText  string            `json:"questionText" binding:"required"`
	Options       map[string]string `json:"options" binding:"required"`
	CorrectAnswer string            `json:"correctAnswer" binding:"required"`
	TimeLimit     int               `json:"timeLimit"`
}

func (s *QuestionService) Create(ctx context.Context, p models.Principal, input QuestionInput) (*models.Question, error) {
	if p.Role != models.RoleTrainer {
		return nil, apperr.Forbidden("only trainers can create questions")
	}

	lesson, err := s.Lessons.FindByID(ctx, input.LessonID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("lesson not found")
		}
		return nil, apperr.Internal("failed to look up lesson", err)
	}
	if !access.CanManageLesson(p, lesson) {
		return nil, apperr.Forbidden("you can only add questions to your own lessons")
	}

	question := &models.Question{
		LessonID:      input.LessonID,
		TrainerID:     p.ID,
		QuestionText:  input.QuestionText,
		Options:       input.Options,
		CorrectAnswer: input.CorrectAnswer,
		TimeLimit:     input.TimeLimit,
		CreatedAt:     s.now(),
	}
	if err := question.Validate(); err != nil {
		return nil, err
	}
	if err := s.Questions.Create(ctx, question); err != nil {
		return nil, apperr.Internal("failed to create question", err)
	}
	return question, nil
}

// ListByLesson returns the lesson's question sequence, visible to the owning
// trainer and to trainees assigned to the lesson.
func (s *QuestionService) ListByLesson(ctx context.Context, p models.Principal, lessonID string) ([]models.Question, error) {
	lesson, err := s.Lessons.FindByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("lesson not found")
		}
		return nil, apperr.Internal("failed to look up lesson", err)
	}

	var assignment *models.Assignment
	if p.Role == models.RoleTrainee {
		assignment, err = s.Assignments.FindByLessonAndTrainee(ctx, lessonID, p.ID)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.Internal("failed to look up assignment", err)
		}
	}
	if !access.CanViewLesson(p, lesson, assignment) {
		return nil, apperr.Forbidden("you can only view questions for lessons available to you")
	}

	questions, err := s.Questions.FindByLesson(ctx, lessonID)
	if err != nil {
		return nil, apperr.Internal("failed to load questions", err)
	}
	return questions, nil
}

func (s *QuestionService) Update(ctx context.Context, p models.Principal, id string, input QuestionInput) (*models.Question, error) {
	question, _, err := s.findOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	updated := &models.Question{
		ID:            question.ID,
		LessonID:      question.LessonID,
		TrainerID:     question.TrainerID,
		QuestionText:  input.QuestionText,
		Options:       input.Options,
		CorrectAnswer: input.CorrectAnswer,
		TimeLimit:     input.TimeLimit,
		CreatedAt:     question.CreatedAt,
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if err := s.Questions.Update(ctx, id, updated); err != nil {
		return nil, apperr.Internal("failed to update question", err)
	}
	return updated, nil
}

func (s *QuestionService) Delete(ctx context.Context, p models.Principal, id string) error {
	if _, _, err := s.findOwned(ctx, p, id); err != nil {
		return err
	}
	if err := s.Questions.Delete(ctx, id); err != nil {
		return apperr.Internal("failed to delete question", err)
	}
	return nil
}

func (s *QuestionService) findOwned(ctx context.Context, p models.Principal, id string) (*models.Question, *models.Lesson, error) {
	question, err := s.Questions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, apperr.NotFound("question not found")
		}
		return nil, nil, apperr.Internal("failed to look up question", err)
	}

	lesson, err := s.Lessons.FindByID(ctx, question.LessonID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, apperr.NotFound("lesson not found")
		}
		return nil, nil, apperr.Internal("failed to look up lesson", err)
	}
	if !access.CanManageLesson(p, lesson) {
		return nil, nil, apperr.Forbidden("you can only manage questions of your own lessons")
	}
	return question, lesson, nil
}
