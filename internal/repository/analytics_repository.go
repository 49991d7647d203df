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

type AnalyticsRepository struct {
	Col *mongo.Collection
}

func NewAnalyticsRepository(db *mongo.Database) *AnalyticsRepository {
	return &AnalyticsRepository{Col: db.Collection("analytics")}
}

// EnsureIndexes creates the unique key index so at most one aggregate exists
// per (trainer, trainee, lesson) triple and concurrent first-answer upserts
// collapse onto the same document.
func (r *AnalyticsRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "trainerID", Value: 1},
			{Key: "traineeID", Value: 1},
			{Key: "lessonID", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// RecordAnswer folds one evaluated answer into the aggregate for the
// (trainer, trainee, lesson) key as a single upserting pipeline update.
// Counts and the running mean are recomputed server-side from the stored
// values, so concurrent submissions for the same key serialize on the
// document instead of racing through a read-modify-write cycle.
func (r *AnalyticsRepository) RecordAnswer(ctx context.Context, key models.AnalyticsKey, isCorrect bool, responseTime float64) error {
	correct := 0
	if isCorrect {
		correct = 1
	}
	now := time.Now().UTC()

	oldTotal := bson.M{"$ifNull": bson.A{"$totalQuestions", 0}}
	set := bson.M{
		"_id": bson.M{"$ifNull": bson.A{"$_id", primitive.NewObjectID().Hex()}},
		// Mean over the full history, expressed in terms of the stored
		// pre-update count and average.
		"avgResponseTime": bson.M{"$cond": bson.A{
			bson.M{"$gt": bson.A{oldTotal, 0}},
			bson.M{"$divide": bson.A{
				bson.M{"$add": bson.A{
					bson.M{"$multiply": bson.A{"$avgResponseTime", "$totalQuestions"}},
					responseTime,
				}},
				bson.M{"$add": bson.A{"$totalQuestions", 1}},
			}},
			responseTime,
		}},
		"totalQuestions": bson.M{"$add": bson.A{oldTotal, 1}},
		"correctAnswers": bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$correctAnswers", 0}}, correct}},
		"attempts":       bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$attempts", 0}}, 1}},
		"generatedAt":    bson.M{"$ifNull": bson.A{"$generatedAt", now}},
		"updatedAt":      now,
	}

	filter := bson.M{
		"trainerID": key.TrainerID,
		"traineeID": key.TraineeID,
		"lessonID":  key.LessonID,
	}
	pipeline := mongo.Pipeline{{{Key: "$set", Value: set}}}

	_, err := r.Col.UpdateOne(ctx, filter, pipeline, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// Two first answers for the key raced on the insert branch; the loser's
		// write did not apply, so replaying it as an update counts it once.
		_, err = r.Col.UpdateOne(ctx, filter, pipeline)
	}
	return err
}

func (r *AnalyticsRepository) FindByLesson(ctx context.Context, lessonID string) ([]models.AnalyticsRecord, error) {
	return r.find(ctx, bson.M{"lessonID": lessonID})
}

// FindByTraineeAndTrainer returns the trainee's records scoped to one
// trainer. A trainer never sees another trainer's aggregates.
func (r *AnalyticsRepository) FindByTraineeAndTrainer(ctx context.Context, traineeID, trainerID string) ([]models.AnalyticsRecord, error) {
	return r.find(ctx, bson.M{"traineeID": traineeID, "trainerID": trainerID})
}

func (r *AnalyticsRepository) find(ctx context.Context, filter bson.M) ([]models.AnalyticsRecord, error) {
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var records []models.AnalyticsRecord
	for cur.Next(ctx) {
		var rec models.AnalyticsRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, cur.Err()
}
