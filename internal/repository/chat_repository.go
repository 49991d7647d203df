package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"training-service/internal/models"
)

type ChatRepository struct {
	Col *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{Col: db.Collection("chatSessions")}
}

func (r *ChatRepository) Create(ctx context.Context, session *models.ChatSession) error {
	if session.ID == "" {
		session.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.Col.InsertOne(ctx, session)
	return err
}

func (r *ChatRepository) FindByID(ctx context.Context, id string) (*models.ChatSession, error) {
	var session models.ChatSession
	if err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

// AppendExchange pushes the trainee message and the simulator reply in one
// write and refreshes the collected-info map.
func (r *ChatRepository) AppendExchange(ctx context.Context, id string, messages []models.ChatMessage, collected map[string]bool) error {
	update := bson.M{
		"$push": bson.M{"messages": bson.M{"$each": messages}},
		"$set": bson.M{
			"collectedInfo": collected,
			"updatedAt":     time.Now().UTC(),
		},
	}
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *ChatRepository) End(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}}
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
