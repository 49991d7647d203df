package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"training-service/internal/access"
	"training-service/internal/apperr"
	"training-service/internal/models"
)

type AnalyticsStore interface {
	RecordAnswer(ctx context.Context, key models.AnalyticsKey, isCorrect bool, responseTime float64) error
	FindByLesson(ctx context.Context, lessonID string) ([]models.AnalyticsRecord, error)
	FindByTraineeAndTrainer(ctx context.Context, traineeID, trainerID string) ([]models.AnalyticsRecord, error)
}

// AnalyticsService maintains one aggregate per (trainer, trainee, lesson)
// and answers the reporting queries over aggregates and assignments.
type AnalyticsService struct {
	Analytics   AnalyticsStore
	Lessons     LessonStore
	Assignments AssignmentStore
	Users       UserStore
}

func NewAnalyticsService(analytics AnalyticsStore, lessons LessonStore, assignments AssignmentStore, users UserStore) *AnalyticsService {
	return &AnalyticsService{Analytics: analytics, Lessons: lessons, Assignments: assignments, Users: users}
}

// Record folds one evaluated answer into the aggregate for the key. The
// store applies it as a single atomic upsert; Record is not idempotent and
// must be called exactly once per accepted submission.
func (s *AnalyticsService) Record(ctx context.Context, key models.AnalyticsKey, isCorrect bool, responseTime float64) error {
	if err := s.Analytics.RecordAnswer(ctx, key, isCorrect, responseTime); err != nil {
		return apperr.Internal("failed to update analytics", err)
	}
	return nil
}

// ByLesson returns every aggregate for the lesson. Only the owning trainer
// may read them.
func (s *AnalyticsService) ByLesson(ctx context.Context, p models.Principal, lessonID string) ([]models.AnalyticsRecord, error) {
	if err := s.requireOwnedLesson(ctx, p, lessonID); err != nil {
		return nil, err
	}

	records, err := s.Analytics.FindByLesson(ctx, lessonID)
	if err != nil {
		return nil, apperr.Internal("failed to load analytics", err)
	}
	return records, nil
}

// ByTrainee returns the trainee's aggregates scoped to the requesting
// trainer's own records.
func (s *AnalyticsService) ByTrainee(ctx context.Context, p models.Principal, traineeID string) ([]models.AnalyticsRecord, error) {
	if p.Role != models.RoleTrainer {
		return nil, apperr.Forbidden("only trainers can view analytics")
	}
	if _, err := s.Users.FindTrainee(ctx, traineeID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("trainee not found")
		}
		return nil, apperr.Internal("failed to look up trainee", err)
	}

	records, err := s.Analytics.FindByTraineeAndTrainer(ctx, traineeID, p.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load analytics", err)
	}
	return records, nil
}

// LessonProgress scans the lesson's assignments and returns the completion
// distribution. Only the owning trainer may read it.
func (s *AnalyticsService) LessonProgress(ctx context.Context, p models.Principal, lessonID string) (*models.LessonProgress, error) {
	if err := s.requireOwnedLesson(ctx, p, lessonID); err != nil {
		return nil, err
	}

	assignments, err := s.Assignments.FindByLesson(ctx, lessonID)
	if err != nil {
		return nil, apperr.Internal("failed to load assignments", err)
	}
	progress := models.ComputeLessonProgress(assignments)
	return &progress, nil
}

func (s *AnalyticsService) requireOwnedLesson(ctx context.Context, p models.Principal, lessonID string) error {
	if p.Role != models.RoleTrainer {
		return apperr.Forbidden("only trainers can view analytics")
	}
	lesson, err := s.Lessons.FindByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.NotFound("lesson not found")
		}
		return apperr.Internal("failed to look up lesson", err)
	}
	if !access.CanManageLesson(p, lesson) {
		return apperr.Forbidden("you can only view analytics for your own lessons")
	}
	return nil
}
