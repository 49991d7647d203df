package models

import (
	"time"

	"training-service/internal/apperr"
)

type Question struct {
	ID            string            `bson:"_id,omitempty" json:"id"`
	LessonID      string            `bson:"lessonID" json:"lessonID"`
	TrainerID     string            `bson:"trainerID" json:"trainerID"`
	QuestionText  string            `bson:"questionText" json:"questionText"`
	Options       map[string]string `bson:"options" json:"options"`
	CorrectAnswer string            `bson:"correctAnswer" json:"correctAnswer"`
	TimeLimit     int               `bson:"timeLimit,omitempty" json:"timeLimit,omitempty"`
	CreatedAt     time.Time         `bson:"createdAt" json:"createdAt"`
}

// Validate enforces the option-set invariant: the correct-answer key must be
// one of the option keys.
func (q *Question) Validate() error {
	if q.QuestionText == "" {
		return apperr.InvalidState("question text is required")
	}
	if len(q.Options) < 2 {
		return apperr.InvalidState("question requires at least two options")
	}
	if _, ok := q.Options[q.CorrectAnswer]; !ok {
		return apperr.InvalidState("correctAnswer must be one of the option keys")
	}
	if q.TimeLimit < 0 {
		return apperr.InvalidState("timeLimit cannot be negative")
	}
	return nil
}

// IsCorrect reports whether the selected option key matches the correct one.
func (q *Question) IsCorrect(selected string) bool {
	return selected == q.CorrectAnswer
}
