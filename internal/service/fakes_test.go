package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"training-service/internal/models"
)

// In-memory stores backing the service tests. They mirror the repository
// contracts, including mongo.ErrNoDocuments for misses and the conditional
// status update.

type fakeUserStore struct {
	users map[string]*models.User
	seq   int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.seq++
	user.ID = fmt.Sprintf("user-%d", f.seq)
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return u, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserStore) FindTrainee(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok || u.Role != models.RoleTrainee {
		return nil, mongo.ErrNoDocuments
	}
	return u, nil
}

func (f *fakeUserStore) add(id string, role models.Role, first, last string) *models.User {
	u := &models.User{ID: id, Role: role, FirstName: first, LastName: last, Email: id + "@test.local"}
	f.users[id] = u
	return u
}

type fakeLessonStore struct {
	lessons map[string]*models.Lesson
	seq     int
}

func newFakeLessonStore() *fakeLessonStore {
	return &fakeLessonStore{lessons: make(map[string]*models.Lesson)}
}

func (f *fakeLessonStore) Create(_ context.Context, lesson *models.Lesson) error {
	f.seq++
	lesson.ID = fmt.Sprintf("lesson-%d", f.seq)
	f.lessons[lesson.ID] = lesson
	return nil
}

func (f *fakeLessonStore) FindByID(_ context.Context, id string) (*models.Lesson, error) {
	l, ok := f.lessons[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return l, nil
}

func (f *fakeLessonStore) FindByCreator(_ context.Context, trainerID string) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, l := range f.lessons {
		if l.CreatedBy == trainerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeLessonStore) FindByIDs(_ context.Context, ids []string) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, id := range ids {
		if l, ok := f.lessons[id]; ok {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeLessonStore) Update(_ context.Context, id string, lesson *models.Lesson) error {
	if _, ok := f.lessons[id]; !ok {
		return mongo.ErrNoDocuments
	}
	f.lessons[id] = lesson
	return nil
}

func (f *fakeLessonStore) Delete(_ context.Context, id string) error {
	delete(f.lessons, id)
	return nil
}

func (f *fakeLessonStore) add(id, trainerID string) *models.Lesson {
	l := &models.Lesson{ID: id, Title: "Lesson " + id, ContentType: models.ContentText, TextContent: "body", CreatedBy: trainerID}
	f.lessons[id] = l
	return l
}

type fakeQuestionStore struct {
	questions map[string]*models.Question
	seq       int
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{questions: make(map[string]*models.Question)}
}

func (f *fakeQuestionStore) Create(_ context.Context, question *models.Question) error {
	f.seq++
	question.ID = fmt.Sprintf("question-%d", f.seq)
	f.questions[question.ID] = question
	return nil
}

func (f *fakeQuestionStore) FindByID(_ context.Context, id string) (*models.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return q, nil
}

func (f *fakeQuestionStore) FindByLesson(_ context.Context, lessonID string) ([]models.Question, error) {
	var out []models.Question
	for _, q := range f.questions {
		if q.LessonID == lessonID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeQuestionStore) Update(_ context.Context, id string, question *models.Question) error {
	if _, ok := f.questions[id]; !ok {
		return mongo.ErrNoDocuments
	}
	f.questions[id] = question
	return nil
}

func (f *fakeQuestionStore) Delete(_ context.Context, id string) error {
	delete(f.questions, id)
	return nil
}

func (f *fakeQuestionStore) DeleteByLesson(_ context.Context, lessonID string) error {
	for id, q := range f.questions {
		if q.LessonID == lessonID {
			delete(f.questions, id)
		}
	}
	return nil
}

func (f *fakeQuestionStore) add(id, lessonID, trainerID, correct string) *models.Question {
	q := &models.Question{
		ID:            id,
		LessonID:      lessonID,
		TrainerID:     trainerID,
		QuestionText:  "Q " + id,
		Options:       map[string]string{"A": "first", "B": "second"},
		CorrectAnswer: correct,
	}
	f.questions[id] = q
	return q
}

type fakeAssignmentStore struct {
	assignments map[string]*models.Assignment
	seq         int
}

func newFakeAssignmentStore() *fakeAssignmentStore {
	return &fakeAssignmentStore{assignments: make(map[string]*models.Assignment)}
}

func (f *fakeAssignmentStore) Create(_ context.Context, assignment *models.Assignment) error {
	f.seq++
	assignment.ID = fmt.Sprintf("assignment-%d", f.seq)
	f.assignments[assignment.ID] = assignment
	return nil
}

func (f *fakeAssignmentStore) FindByID(_ context.Context, id string) (*models.Assignment, error) {
	a, ok := f.assignments[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return a, nil
}

func (f *fakeAssignmentStore) FindByLessonAndTrainee(_ context.Context, lessonID, traineeID string) (*models.Assignment, error) {
	for _, a := range f.assignments {
		if a.LessonID == lessonID && a.TraineeID == traineeID {
			return a, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeAssignmentStore) FindByLesson(_ context.Context, lessonID string) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range f.assignments {
		if a.LessonID == lessonID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentStore) FindByTrainee(_ context.Context, traineeID string) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range f.assignments {
		if a.TraineeID == traineeID {
			out = append(out, *a)
		}
	}
	return out, nil
}

// UpdateStatus mirrors the conditional write: it matches only when the stored
// status is a predecessor of the new one, and writes the timestamps at most
// once.
func (f *fakeAssignmentStore) UpdateStatus(_ context.Context, id string, status models.AssignmentStatus, now time.Time) (bool, error) {
	a, ok := f.assignments[id]
	if !ok {
		return false, nil
	}
	if !a.Status.CanTransitionTo(status) {
		return false, nil
	}
	a.Status = status
	if status == models.StatusInProgress && a.StartedAt == nil {
		t := now
		a.StartedAt = &t
	}
	if status == models.StatusCompleted && a.CompletedAt == nil {
		t := now
		a.CompletedAt = &t
	}
	return true, nil
}

func (f *fakeAssignmentStore) Delete(_ context.Context, id string) error {
	delete(f.assignments, id)
	return nil
}

func (f *fakeAssignmentStore) DeleteByLesson(_ context.Context, lessonID string) error {
	for id, a := range f.assignments {
		if a.LessonID == lessonID {
			delete(f.assignments, id)
		}
	}
	return nil
}

func (f *fakeAssignmentStore) add(id, lessonID, traineeID, trainerID string, status models.AssignmentStatus) *models.Assignment {
	a := &models.Assignment{ID: id, LessonID: lessonID, TraineeID: traineeID, TrainerID: trainerID, Status: status}
	f.assignments[id] = a
	return a
}

// recordCall captures one Aggregator.Record invocation.
type recordCall struct {
	key          models.AnalyticsKey
	isCorrect    bool
	responseTime float64
}

type fakeAggregator struct {
	calls []recordCall
	err   error
}

func (f *fakeAggregator) Record(_ context.Context, key models.AnalyticsKey, isCorrect bool, responseTime float64) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, recordCall{key: key, isCorrect: isCorrect, responseTime: responseTime})
	return nil
}

// fakeAnalyticsStore folds answers in memory with the same incremental-mean
// rule as the pipeline upsert.
type fakeAnalyticsStore struct {
	records map[models.AnalyticsKey]*models.AnalyticsRecord
}

func newFakeAnalyticsStore() *fakeAnalyticsStore {
	return &fakeAnalyticsStore{records: make(map[models.AnalyticsKey]*models.AnalyticsRecord)}
}

func (f *fakeAnalyticsStore) RecordAnswer(_ context.Context, key models.AnalyticsKey, isCorrect bool, responseTime float64) error {
	rec, ok := f.records[key]
	if !ok {
		rec = &models.AnalyticsRecord{TrainerID: key.TrainerID, TraineeID: key.TraineeID, LessonID: key.LessonID}
		f.records[key] = rec
	}
	rec.AvgResponseTime = models.NextAverage(rec.AvgResponseTime, rec.TotalQuestions, responseTime)
	rec.TotalQuestions++
	rec.Attempts++
	if isCorrect {
		rec.CorrectAnswers++
	}
	return nil
}

func (f *fakeAnalyticsStore) FindByLesson(_ context.Context, lessonID string) ([]models.AnalyticsRecord, error) {
	var out []models.AnalyticsRecord
	for _, r := range f.records {
		if r.LessonID == lessonID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeAnalyticsStore) FindByTraineeAndTrainer(_ context.Context, traineeID, trainerID string) ([]models.AnalyticsRecord, error) {
	var out []models.AnalyticsRecord
	for _, r := range f.records {
		if r.TraineeID == traineeID && r.TrainerID == trainerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeChatStore struct {
	sessions map[string]*models.ChatSession
	seq      int
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{sessions: make(map[string]*models.ChatSession)}
}

func (f *fakeChatStore) Create(_ context.Context, session *models.ChatSession) error {
	f.seq++
	session.ID = fmt.Sprintf("chat-%d", f.seq)
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeChatStore) FindByID(_ context.Context, id string) (*models.ChatSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return s, nil
}

func (f *fakeChatStore) AppendExchange(_ context.Context, id string, messages []models.ChatMessage, collected map[string]bool) error {
	s, ok := f.sessions[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	s.Messages = append(s.Messages, messages...)
	s.CollectedInfo = collected
	return nil
}

func (f *fakeChatStore) End(_ context.Context, id string) error {
	s, ok := f.sessions[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	s.IsActive = false
	return nil
}
