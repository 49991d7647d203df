package service

import (
	"context"
	"testing"

	"training-service/internal/apperr"
	"training-service/internal/models"
)

func newQuestionFixture() (*QuestionService, *fakeQuestionStore, *fakeLessonStore, *fakeAssignmentStore) {
	questions := newFakeQuestionStore()
	lessons := newFakeLessonStore()
	assignments := newFakeAssignmentStore()
	svc := NewQuestionService(questions, lessons, assignments)
	return svc, questions, lessons, assignments
}

func questionInput(lessonID string) QuestionInput {
	return QuestionInput{
		LessonID:      lessonID,
		QuestionText:  "What speed does the basic plan offer?",
		Options:       map[string]string{"A": "100 mbps", "B": "500 mbps"},
		CorrectAnswer: "B",
		TimeLimit:     30,
	}
}

func TestCreateQuestion(t *testing.T) {
	svc, _, lessons, _ := newQuestionFixture()
	lessons.add("lesson-1", "trainer-1")
	owner := models.Principal{ID: "trainer-1", Role: models.RoleTrainer}

	q, err := svc.Create(context.Background(), owner, questionInput("lesson-1"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if q.ID == "" || q.TrainerID != "trainer-1" || q.LessonID != "lesson-1" {
		t.Errorf("Expected a stored question owned by trainer-1, got %+v", q)
	}
}

func TestCreateQuestionRefusals(t *testing.T) {
	svc, _, lessons, _ := newQuestionFixture()
	lessons.add("lesson-1", "trainer-1")

	testCases := []struct {
		name  string
		p     models.Principal
		input QuestionInput
		kind  apperr.Kind
	}{
		{"trainee caller", models.Principal{ID: "trainee-1", Role: models.RoleTrainee}, questionInput("lesson-1"), apperr.KindForbidden},
		{"unknown lesson", models.Principal{ID: "trainer-1", Role: models.RoleTrainer}, questionInput("lesson-9"), apperr.KindNotFound},
		{"not the owner", models.Principal{ID: "trainer-2", Role: models.RoleTrainer}, questionInput("lesson-1"), apperr.KindForbidden},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.p, tc.input)
			if apperr.KindOf(err) != tc.kind {
				t.Errorf("Expected %s, got %v", tc.kind, err)
			}
		})
	}

	owner := models.Principal{ID: "trainer-1", Role: models.RoleTrainer}
	bad := questionInput("lesson-1")
	bad.CorrectAnswer = "Z"
	if _, err := svc.Create(context.Background(), owner, bad); apperr.KindOf(err) != apperr.KindInvalidState {
		t.Errorf("Expected invalid_state for correct answer outside options, got %v", err)
	}
}

func TestListQuestionsByLesson(t *testing.T) {
	svc, questions, lessons, assignments := newQuestionFixture()
	lessons.add("lesson-1", "trainer-1")
	questions.add("q1", "lesson-1", "trainer-1", "A")
	assignments.add("a1", "lesson-1", "trainee-1", "trainer-1", models.StatusInProgress)

	owner := models.Principal{ID: "trainer-1", Role: models.RoleTrainer}
	if got, err := svc.ListByLesson(context.Background(), owner, "lesson-1"); err != nil || len(got) != 1 {
		t.Errorf("Expected owner to list 1 question, got %d (%v)", len(got), err)
	}

	trainee := models.Principal{ID: "trainee-1", Role: models.RoleTrainee}
	if _, err := svc.ListByLesson(context.Background(), trainee, "lesson-1"); err != nil {
		t.Errorf("Expected assigned trainee to list questions, got %v", err)
	}

	stranger := models.Principal{ID: "trainee-2", Role: models.RoleTrainee}
	if _, err := svc.ListByLesson(context.Background(), stranger, "lesson-1"); apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("Expected forbidden for unassigned trainee, got %v", err)
	}
}

func TestUpdateQuestion(t *testing.T) {
	svc, questions, lessons, _ := newQuestionFixture()
	lessons.add("lesson-1", "trainer-1")
	questions.add("q1", "lesson-1", "trainer-1", "A")
	owner := models.Principal{ID: "trainer-1", Role: models.RoleTrainer}

	input := questionInput("lesson-1")
	updated, err := svc.Update(context.Background(), owner, "q1", input)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.CorrectAnswer != "B" {
		t.Errorf("Expected updated correct answer B, got %q", updated.CorrectAnswer)
	}
	if updated.LessonID != "lesson-1" || updated.TrainerID != "trainer-1" {
		t.Error("Expected lesson and trainer bindings to be immutable")
	}

	rival := models.Principal{ID: "trainer-2", Role: models.RoleTrainer}
	if _, err := svc.Update(context.Background(), rival, "q1", input); apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("Expected forbidden for non-owner, got %v", err)
	}
}

func TestDeleteQuestion(t *testing.T) {
	svc, questions, lessons, _ := newQuestionFixture()
	lessons.add("lesson-1", "trainer-1")
	questions.add("q1", "lesson-1", "trainer-1", "A")

	rival := models.Principal{ID: "trainer-2", Role: models.RoleTrainer}
	if err := svc.Delete(context.Background(), rival, "q1"); apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("Expected forbidden for non-owner, got %v", err)
	}

	owner := models.Principal{ID: "trainer-1", Role: models.RoleTrainer}
	if err := svc.Delete(context.Background(), owner, "q1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(questions.questions) != 0 {
		t.Error("Expected question to be removed")
	}
	if err := svc.Delete(context.Background(), owner, "q1"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("Expected not_found for missing question, got %v", err)
	}
}
