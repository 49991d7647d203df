package models

import "time"

// AnalyticsRecord is the running aggregate of one trainee's performance on
// one lesson, from the perspective of the trainer who assigned it. One record
// exists per (trainerID, traineeID, lessonID) triple; it is created lazily on
// the first evaluated answer and updated atomically thereafter.
type AnalyticsRecord struct {
	ID              string     `bson:"_id,omitempty" json:"id"`
	TrainerID       string     `bson:"trainerID" json:"trainerID"`
	TraineeID       string     `bson:"traineeID" json:"traineeID"`
	LessonID        string     `bson:"lessonID" json:"lessonID"`
	TotalQuestions  int        `bson:"totalQuestions" json:"totalQuestions"`
	CorrectAnswers  int        `bson:"correctAnswers" json:"correctAnswers"`
	AvgResponseTime float64    `bson:"avgResponseTime" json:"avgResponseTime"`
	Attempts        int        `bson:"attempts" json:"attempts"`
	GeneratedAt     time.Time  `bson:"generatedAt" json:"generatedAt"`
	UpdatedAt       *time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// AnalyticsKey identifies one aggregate record.
type AnalyticsKey struct {
	TrainerID string
	TraineeID string
	LessonID  string
}

// NextAverage folds one more response time into a running mean. oldCount is
// the number of responses already averaged. The result equals the arithmetic
// mean over the full history to floating-point tolerance.
func NextAverage(oldAvg float64, oldCount int, responseTime float64) float64 {
	if oldCount <= 0 {
		return responseTime
	}
	return (oldAvg*float64(oldCount) + responseTime) / float64(oldCount+1)
}

// LessonProgress is the completion distribution over every assignment of one
// lesson.
type LessonProgress struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	InProgress     int     `json:"inProgress"`
	NotStarted     int     `json:"notStarted"`
	CompletionRate float64 `json:"completionRate"`
}

// ComputeLessonProgress counts assignments per status. The completion rate is
// completed/total*100 and defined as 0 for an empty assignment set.
func ComputeLessonProgress(assignments []Assignment) LessonProgress {
	p := LessonProgress{Total: len(assignments)}
	for _, a := range assignments {
		switch a.Status {
		case StatusCompleted:
			p.Completed++
		case StatusInProgress:
			p.InProgress++
		case StatusAssigned:
			p.NotStarted++
		}
	}
	if p.Total > 0 {
		p.CompletionRate = float64(p.Completed) / float64(p.Total) * 100
	}
	return p
}
