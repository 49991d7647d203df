package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"training-service/internal/models"
)

type LessonRepository struct {
	Col *mongo.Collection
}

func NewLessonRepository(db *mongo.Database) *LessonRepository {
	return &LessonRepository{Col: db.Collection("lessons")}
}

func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.Col.InsertOne(ctx, lesson)
	return err
}

func (r *LessonRepository) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) FindByCreator(ctx context.Context, trainerID string) ([]models.Lesson, error) {
	return r.find(ctx, bson.M{"createdBy": trainerID})
}

func (r *LessonRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Lesson, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// Update replaces the mutable lesson fields. The owner (createdBy) is never
// part of the update document.
func (r *LessonRepository) Update(ctx context.Context, id string, lesson *models.Lesson) error {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"title":       lesson.Title,
		"description": lesson.Description,
		"contentType": lesson.ContentType,
		"textContent": lesson.TextContent,
		"videoURL":    lesson.VideoURL,
		"updatedAt":   now,
	}}
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *LessonRepository) find(ctx context.Context, filter bson.M) ([]models.Lesson, error) {
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var lessons []models.Lesson
	for cur.Next(ctx) {
		var l models.Lesson
		if err := cur.Decode(&l); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, cur.Err()
}
