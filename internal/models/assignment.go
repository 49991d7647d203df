package models

import "time"

type AssignmentStatus string

const (
	StatusAssigned   AssignmentStatus = "Assigned"
	StatusInProgress AssignmentStatus = "InProgress"
	StatusCompleted  AssignmentStatus = "Completed"
)

// statusRank orders the lifecycle: Assigned < InProgress < Completed.
var statusRank = map[AssignmentStatus]int{
	StatusAssigned:   0,
	StatusInProgress: 1,
	StatusCompleted:  2,
}

func (s AssignmentStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Rank returns the monotonic position of a status; -1 for unknown values.
func (s AssignmentStatus) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

// CanTransitionTo reports whether moving from s to next is allowed. Status
// never moves backward; re-asserting the current status is accepted as a
// no-op write.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.Rank() >= s.Rank()
}

// Predecessors returns every status a transition into s may start from,
// including s itself. Used as the conditional-update filter that keeps
// transitions for one assignment serialized in the store.
func (s AssignmentStatus) Predecessors() []AssignmentStatus {
	var prior []AssignmentStatus
	for _, st := range []AssignmentStatus{StatusAssigned, StatusInProgress, StatusCompleted} {
		if st.Rank() <= s.Rank() {
			prior = append(prior, st)
		}
	}
	return prior
}

// Assignment binds one lesson to one trainee. Exactly one assignment exists
// per (lessonID, traineeID) pair at a time.
type Assignment struct {
	ID          string           `bson:"_id,omitempty" json:"id"`
	LessonID    string           `bson:"lessonID" json:"lessonID"`
	TraineeID   string           `bson:"traineeID" json:"traineeID"`
	TrainerID   string           `bson:"trainerID" json:"trainerID"`
	Status      AssignmentStatus `bson:"status" json:"status"`
	AssignedAt  time.Time        `bson:"assignedAt" json:"assignedAt"`
	StartedAt   *time.Time       `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	CompletedAt *time.Time       `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// ProgressPercent maps an assignment status onto the coarse progress figure
// shown to trainees: 0 for Assigned, 50 for InProgress, 100 for Completed.
func ProgressPercent(status AssignmentStatus) float64 {
	switch status {
	case StatusCompleted:
		return 100
	case StatusInProgress:
		return 50
	default:
		return 0
	}
}

// TraineeLessonView merges an assignment with its lesson for the trainee's
// lesson list.
type TraineeLessonView struct {
	AssignmentID string           `json:"id"`
	LessonID     string           `json:"lessonId"`
	Title        string           `json:"title"`
	Description  string           `json:"description,omitempty"`
	ContentType  ContentType      `json:"contentType"`
	Status       AssignmentStatus `json:"status"`
	AssignedBy   string           `json:"assignedBy"`
	StartedAt    *time.Time       `json:"startedAt,omitempty"`
	CompletedAt  *time.Time       `json:"completedAt,omitempty"`
	Progress     float64          `json:"progress"`
}

// MergeTraineeView builds the combined read model for one assignment.
func MergeTraineeView(a *Assignment, l *Lesson, trainerName string) TraineeLessonView {
	return TraineeLessonView{
		AssignmentID: a.ID,
		LessonID:     l.ID,
		Title:        l.Title,
		Description:  l.Description,
		ContentType:  l.ContentType,
		Status:       a.Status,
		AssignedBy:   trainerName,
		StartedAt:    a.StartedAt,
		CompletedAt:  a.CompletedAt,
		Progress:     ProgressPercent(a.Status),
	}
}
