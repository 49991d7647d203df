package access

import (
	"testing"

	"training-service/internal/models"
)

var (
	owner    = models.Principal{ID: "trainer-1", Role: models.RoleTrainer}
	rival    = models.Principal{ID: "trainer-2", Role: models.RoleTrainer}
	trainee  = models.Principal{ID: "trainee-1", Role: models.RoleTrainee}
	stranger = models.Principal{ID: "trainee-2", Role: models.RoleTrainee}

	lesson = &models.Lesson{ID: "lesson-1", CreatedBy: "trainer-1"}
)

func TestCanManageLesson(t *testing.T) {
	if !CanManageLesson(owner, lesson) {
		t.Error("Expected owning trainer to manage own lesson")
	}
	if CanManageLesson(rival, lesson) {
		t.Error("Expected other trainer to be denied")
	}
	if CanManageLesson(trainee, lesson) {
		t.Error("Expected trainee to be denied, even if ids matched")
	}
}

func TestCanViewLesson(t *testing.T) {
	assignment := &models.Assignment{LessonID: "lesson-1", TraineeID: "trainee-1", TrainerID: "trainer-1"}

	testCases := []struct {
		name       string
		p          models.Principal
		assignment *models.Assignment
		allowed    bool
	}{
		{"owner without assignment", owner, nil, true},
		{"other trainer", rival, nil, false},
		{"assigned trainee", trainee, assignment, true},
		{"trainee without assignment", trainee, nil, false},
		{"stranger with someone else's assignment", stranger, assignment, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanViewLesson(tc.p, lesson, tc.assignment); got != tc.allowed {
				t.Errorf("Expected %v, got %v", tc.allowed, got)
			}
		})
	}

	other := &models.Assignment{LessonID: "lesson-9", TraineeID: "trainee-1", TrainerID: "trainer-1"}
	if CanViewLesson(trainee, lesson, other) {
		t.Error("Expected assignment for a different lesson to be rejected")
	}
}

func TestCanActOnAssignment(t *testing.T) {
	assignment := &models.Assignment{LessonID: "lesson-1", TraineeID: "trainee-1", TrainerID: "trainer-1"}

	if !CanActOnAssignment(trainee, assignment) {
		t.Error("Expected owning trainee to act on own assignment")
	}
	if CanActOnAssignment(stranger, assignment) {
		t.Error("Expected other trainee to be denied")
	}
	if !CanActOnAssignment(owner, assignment) {
		t.Error("Expected assigning trainer to act on the assignment")
	}
	if CanActOnAssignment(rival, assignment) {
		t.Error("Expected other trainer to be denied")
	}
	if CanActOnAssignment(models.Principal{ID: "trainee-1", Role: "Admin"}, assignment) {
		t.Error("Expected unknown role to be denied")
	}
}
