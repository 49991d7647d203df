package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"training-service/internal/access"
	"training-service/internal/apperr"
	"training-service/internal/models"
)

type AssignmentStore interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	FindByLessonAndTrainee(ctx context.Context, lessonID, traineeID string) (*models.Assignment, error)
	FindByLesson(ctx context.Context, lessonID string) ([]models.Assignment, error)
	FindByTrainee(ctx context.Context, traineeID string) ([]models.Assignment, error)
	UpdateStatus(ctx context.Context, id string, status models.AssignmentStatus, now time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
	DeleteByLesson(ctx context.Context, lessonID string) error
}

// AssignmentService is the assignment lifecycle state machine:
// Assigned -> InProgress -> Completed, never backward.
type AssignmentService struct {
	Assignments AssignmentStore
	Lessons     LessonStore
	Users       UserStore
	now         nowFunc
}

func NewAssignmentService(assignments AssignmentStore, lessons LessonStore, users UserStore) *AssignmentService {
	return &AssignmentService{Assignments: assignments, Lessons: lessons, Users: users, now: defaultNow}
}

// Assign creates the one assignment binding a lesson to a trainee. Fails with
// Conflict when the pair is already bound, NotFound when lesson or trainee is
// missing, Forbidden when the caller does not own the lesson.
func (s *AssignmentService) Assign(ctx context.Context, p models.Principal, lessonID, traineeID string) (*models.Assignment, error) {
	if p.Role != models.RoleTrainer {
		return nil, apperr.Forbidden("only trainers can assign lessons")
	}

	lesson, err := s.Lessons.FindByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("lesson not found")
		}
		return nil, apperr.Internal("failed to look up lesson", err)
	}
	if !access.CanManageLesson(p, lesson) {
		return nil, apperr.Forbidden("you can only assign your own lessons")
	}

	if _, err := s.Users.FindTrainee(ctx, traineeID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("trainee not found")
		}
		return nil, apperr.Internal("failed to look up trainee", err)
	}

	if _, err := s.Assignments.FindByLessonAndTrainee(ctx, lessonID, traineeID); err == nil {
		return nil, apperr.Conflict("lesson already assigned to this trainee")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.Internal("failed to check existing assignment", err)
	}

	assignment := &models.Assignment{
		LessonID:   lessonID,
		TraineeID:  traineeID,
		TrainerID:  p.ID,
		Status:     models.StatusAssigned,
		AssignedAt: s.now(),
	}
	if err := s.Assignments.Create(ctx, assignment); err != nil {
		// The unique (lessonID, traineeID) index closes the check-then-insert
		// window under concurrent assigns.
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("lesson already assigned to this trainee")
		}
		return nil, apperr.Internal("failed to create assignment", err)
	}
	return assignment, nil
}

// UpdateStatus moves the caller's assignment for the lesson to newStatus.
// Transitions are monotonic; startedAt and completedAt are written at most
// once, by the store's conditional update.
func (s *AssignmentService) UpdateStatus(ctx context.Context, p models.Principal, lessonID string, newStatus models.AssignmentStatus) (*models.Assignment, error) {
	if p.Role != models.RoleTrainee {
		return nil, apperr.Forbidden("only trainees can update lesson status")
	}
	if !newStatus.Valid() {
		return nil, apperr.InvalidState("status must be Assigned, InProgress or Completed")
	}

	assignment, err := s.Assignments.FindByLessonAndTrainee(ctx, lessonID, p.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("assigned lesson not found")
		}
		return nil, apperr.Internal("failed to look up assignment", err)
	}
	if !access.CanActOnAssignment(p, assignment) {
		return nil, apperr.Forbidden("this assignment does not belong to you")
	}
	if !assignment.Status.CanTransitionTo(newStatus) {
		return nil, apperr.InvalidState("status cannot move backward")
	}

	matched, err := s.Assignments.UpdateStatus(ctx, assignment.ID, newStatus, s.now())
	if err != nil {
		return nil, apperr.Internal("failed to update status", err)
	}
	if !matched {
		// A concurrent write advanced the assignment past newStatus, or the
		// assignment was unassigned between lookup and update.
		if _, err := s.Assignments.FindByID(ctx, assignment.ID); errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("assigned lesson not found")
		}
		return nil, apperr.InvalidState("status cannot move backward")
	}

	updated, err := s.Assignments.FindByID(ctx, assignment.ID)
	if err != nil {
		return nil, apperr.Internal("failed to reload assignment", err)
	}
	return updated, nil
}

// Unassign removes the trainee's assignment for the lesson. Only the trainer
// who owns the lesson behind it may.
func (s *AssignmentService) Unassign(ctx context.Context, p models.Principal, lessonID, traineeID string) error {
	assignment, err := s.Assignments.FindByLessonAndTrainee(ctx, lessonID, traineeID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.NotFound("assignment not found")
		}
		return apperr.Internal("failed to look up assignment", err)
	}
	if p.Role != models.RoleTrainer || !access.CanActOnAssignment(p, assignment) {
		return apperr.Forbidden("you can only unassign your own lessons")
	}

	if err := s.Assignments.Delete(ctx, assignment.ID); err != nil {
		return apperr.Internal("failed to delete assignment", err)
	}
	return nil
}

// MyLessons returns the trainee's assignments merged with their lessons and
// the coarse progress figure.
func (s *AssignmentService) MyLessons(ctx context.Context, p models.Principal) ([]models.TraineeLessonView, error) {
	if p.Role != models.RoleTrainee {
		return nil, apperr.Forbidden("only trainees can list their assigned lessons")
	}

	assignments, err := s.Assignments.FindByTrainee(ctx, p.ID)
	if err != nil {
		return nil, apperr.Internal("failed to list assignments", err)
	}

	views := make([]models.TraineeLessonView, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		lesson, err := s.Lessons.FindByID(ctx, a.LessonID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue // lesson deleted mid-scan, cascade will catch up
			}
			return nil, apperr.Internal("failed to load lesson", err)
		}

		trainerName := "Unknown Trainer"
		if trainer, err := s.Users.FindByID(ctx, a.TrainerID); err == nil {
			trainerName = trainer.FullName()
		}
		views = append(views, models.MergeTraineeView(a, lesson, trainerName))
	}
	return views, nil
}
