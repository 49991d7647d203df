// Package access holds the policy predicates consulted by every use-case.
// They are pure functions over the principal and the entity; no operation
// bypasses them.
package access

import "training-service/internal/models"

// CanManageLesson reports whether the principal may create questions for,
// update, delete, assign or read analytics of the lesson. Only the owning
// trainer may.
func CanManageLesson(p models.Principal, lesson *models.Lesson) bool {
	return p.Role == models.RoleTrainer && p.ID == lesson.CreatedBy
}

// CanViewLesson reports whether the principal may read the lesson and its
// questions: the owning trainer, or a trainee holding an assignment for it.
// assignment may be nil when the caller holds none.
func CanViewLesson(p models.Principal, lesson *models.Lesson, assignment *models.Assignment) bool {
	if CanManageLesson(p, lesson) {
		return true
	}
	if p.Role != models.RoleTrainee || assignment == nil {
		return false
	}
	return assignment.TraineeID == p.ID && assignment.LessonID == lesson.ID
}

// CanActOnAssignment reports whether the principal may touch the assignment:
// the trainee it belongs to (status updates, answers) or the trainer who
// created it (unassign, analytics reads).
func CanActOnAssignment(p models.Principal, assignment *models.Assignment) bool {
	switch p.Role {
	case models.RoleTrainee:
		return p.ID == assignment.TraineeID
	case models.RoleTrainer:
		return p.ID == assignment.TrainerID
	default:
		return false
	}
}
