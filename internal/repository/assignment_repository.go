package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"training-service/internal/models"
)

type AssignmentRepository struct {
	Col *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{Col: db.Collection("assignedLessons")}
}

// EnsureIndexes creates the unique (lessonID, traineeID) index that enforces
// the one-assignment-per-pair invariant under concurrent assigns.
func (r *AssignmentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "lessonID", Value: 1}, {Key: "traineeID", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.Col.InsertOne(ctx, assignment)
	return err
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	var a models.Assignment
	if err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentRepository) FindByLessonAndTrainee(ctx context.Context, lessonID, traineeID string) (*models.Assignment, error) {
	var a models.Assignment
	filter := bson.M{"lessonID": lessonID, "traineeID": traineeID}
	if err := r.Col.FindOne(ctx, filter).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentRepository) FindByLesson(ctx context.Context, lessonID string) ([]models.Assignment, error) {
	return r.find(ctx, bson.M{"lessonID": lessonID})
}

func (r *AssignmentRepository) FindByTrainee(ctx context.Context, traineeID string) ([]models.Assignment, error) {
	return r.find(ctx, bson.M{"traineeID": traineeID})
}

// UpdateStatus applies one lifecycle transition as a single conditional
// pipeline update. The filter admits only statuses the new status may legally
// follow, so a stale backward write matches nothing; startedAt and
// completedAt are first-write-wins via $ifNull. Returns whether a document
// matched.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id string, status models.AssignmentStatus, now time.Time) (bool, error) {
	set := bson.M{"status": status}
	if status == models.StatusInProgress {
		set["startedAt"] = bson.M{"$ifNull": bson.A{"$startedAt", now}}
	}
	if status == models.StatusCompleted {
		set["completedAt"] = bson.M{"$ifNull": bson.A{"$completedAt", now}}
	}

	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": status.Predecessors()},
	}
	pipeline := mongo.Pipeline{{{Key: "$set", Value: set}}}

	res, err := r.Col.UpdateOne(ctx, filter, pipeline)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByLesson removes every assignment of a lesson; used by the lesson
// delete cascade.
func (r *AssignmentRepository) DeleteByLesson(ctx context.Context, lessonID string) error {
	_, err := r.Col.DeleteMany(ctx, bson.M{"lessonID": lessonID})
	return err
}

func (r *AssignmentRepository) find(ctx context.Context, filter bson.M) ([]models.Assignment, error) {
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var assignments []models.Assignment
	for cur.Next(ctx) {
		var a models.Assignment
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, cur.Err()
}
