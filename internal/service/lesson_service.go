package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"training-service/internal/access"
	"training-service/internal/apperr"
	"training-service/internal/models"
)

type LessonStore interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
	FindByCreator(ctx context.Context, trainerID string) ([]models.Lesson, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Lesson, error)
	Update(ctx context.Context, id string, lesson *models.Lesson) error
	Delete(ctx context.Context, id string) error
}

type QuestionStore interface {
	Create(ctx context.Context, question *models.Question) error
	FindByID(ctx context.Context, id string) (*models.Question, error)
	FindByLesson(ctx context.Context, lessonID string) ([]models.Question, error)
	Update(ctx context.Context, id string, question *models.Question) error
	Delete(ctx context.Context, id string) error
	DeleteByLesson(ctx context.Context, lessonID string) error
}

// LessonService is the lesson catalog: CRUD over lessons and their question
// sets, with ownership enforced through the access predicates.
type LessonService struct {
	Lessons     LessonStore
	Questions   QuestionStore
	Assignments AssignmentStore
	now         nowFunc
}

func NewLessonService(lessons LessonStore, questions QuestionStore, assignments AssignmentStore) *LessonService {
	return &LessonService{Lessons: lessons, Questions: questions, Assignments: assignments, now: defaultNow}
}

type LessonInput struct {
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	ContentType models.ContentType `json:"contentType" binding:"required"`
	TextContent string             `json:"textContent"`
	VideoURL    string             `json:"videoURL"`
}

func (s *LessonService) Create(ctx context.Context, p models.Principal, input LessonInput) (*models.Lesson, error) {
	if p.Role != models.RoleTrainer {
		return nil, apperr.Forbidden("only trainers can create lessons")
	}

	lesson := &models.Lesson{
		Title:       input.Title,
		Description: input.Description,
		ContentType: input.ContentType,
		TextContent: input.TextContent,
		VideoURL:    input.VideoURL,
		CreatedBy:   p.ID,
		CreatedAt:   s.now(),
	}
	if err := lesson.Validate(); err != nil {
		return nil, err
	}
	if err := s.Lessons.Create(ctx, lesson); err != nil {
		return nil, apperr.Internal("failed to create lesson", err)
	}
	return lesson, nil
}

// List returns the lessons visible to the principal: a trainer sees the
// lessons they authored, a trainee the lessons assigned to them.
func (s *LessonService) List(ctx context.Context, p models.Principal) ([]models.Lesson, error) {
	if p.Role == models.RoleTrainer {
		lessons, err := s.Lessons.FindByCreator(ctx, p.ID)
		if err != nil {
			return nil, apperr.Internal("failed to list lessons", err)
		}
		return lessons, nil
	}

	assignments, err := s.Assignments.FindByTrainee(ctx, p.ID)
	if err != nil {
		return nil, apperr.Internal("failed to list assignments", err)
	}
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.LessonID)
	}
	lessons, err := s.Lessons.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("failed to list lessons", err)
	}
	return lessons, nil
}

// Get returns one lesson with its ordered question sequence. Visible to the
// owning trainer and to trainees holding an assignment for it.
func (s *LessonService) Get(ctx context.Context, p models.Principal, id string) (*models.LessonDetail, error) {
	lesson, err := s.findLesson(ctx, id)
	if err != nil {
		return nil, err
	}

	var assignment *models.Assignment
	if p.Role == models.RoleTrainee {
		assignment, err = s.Assignments.FindByLessonAndTrainee(ctx, id, p.ID)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.Internal("failed to look up assignment", err)
		}
	}
	if !access.CanViewLesson(p, lesson, assignment) {
		return nil, apperr.Forbidden("you do not have access to this lesson")
	}

	questions, err := s.Questions.FindByLesson(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to load questions", err)
	}
	return &models.LessonDetail{Lesson: *lesson, Questions: questions}, nil
}

// Update replaces the mutable lesson fields. The owner is immutable and only
// the owner may update.
func (s *LessonService) Update(ctx context.Context, p models.Principal, id string, input LessonInput) (*models.Lesson, error) {
	lesson, err := s.findLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanManageLesson(p, lesson) {
		return nil, apperr.Forbidden("you can only update your own lessons")
	}

	now := s.now()
	updated := &models.Lesson{
		ID:          lesson.ID,
		Title:       input.Title,
		Description: input.Description,
		ContentType: input.ContentType,
		TextContent: input.TextContent,
		VideoURL:    input.VideoURL,
		CreatedBy:   lesson.CreatedBy,
		CreatedAt:   lesson.CreatedAt,
		UpdatedAt:   &now,
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if err := s.Lessons.Update(ctx, id, updated); err != nil {
		return nil, apperr.Internal("failed to update lesson", err)
	}
	return updated, nil
}

// Delete removes a lesson and cascades to its questions and assignments.
func (s *LessonService) Delete(ctx context.Context, p models.Principal, id string) error {
	lesson, err := s.findLesson(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanManageLesson(p, lesson) {
		return apperr.Forbidden("you can only delete your own lessons")
	}

	if err := s.Questions.DeleteByLesson(ctx, id); err != nil {
		return apperr.Internal("failed to delete lesson questions", err)
	}
	if err := s.Assignments.DeleteByLesson(ctx, id); err != nil {
		return apperr.Internal("failed to delete lesson assignments", err)
	}
	if err := s.Lessons.Delete(ctx, id); err != nil {
		return apperr.Internal("failed to delete lesson", err)
	}
	return nil
}

func (s *LessonService) findLesson(ctx context.Context, id string) (*models.Lesson, error) {
	lesson, err := s.Lessons.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("lesson not found")
		}
		return nil, apperr.Internal("failed to look up lesson", err)
	}
	return lesson, nil
}
