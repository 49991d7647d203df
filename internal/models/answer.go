package models

// AnswerSubmission is one trainee answer to one question.
type AnswerSubmission struct {
	QuestionID     string  `json:"questionID" binding:"required"`
	SelectedAnswer string  `json:"selectedAnswer" binding:"required"`
	ResponseTime   float64 `json:"responseTime"`
}

// AnswerResult is the immutable outcome of evaluating one submission.
type AnswerResult struct {
	QuestionID     string  `json:"questionID"`
	IsCorrect      bool    `json:"isCorrect"`
	SelectedAnswer string  `json:"selectedAnswer"`
	CorrectAnswer  string  `json:"correctAnswer"`
	ResponseTime   float64 `json:"responseTime"`
}
