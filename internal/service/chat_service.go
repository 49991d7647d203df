package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"training-service/internal/apperr"
	"training-service/internal/chatsim"
	"training-service/internal/models"
)

type ChatStore interface {
	Create(ctx context.Context, session *models.ChatSession) error
	FindByID(ctx context.Context, id string) (*models.ChatSession, error)
	AppendExchange(ctx context.Context, id string, messages []models.ChatMessage, collected map[string]bool) error
	End(ctx context.Context, id string) error
}

// Responder produces the customer side of a practice conversation. The core
// never generates text itself; the scripted simulator is the default
// implementation.
type Responder interface {
	Opening(characterType string) string
	Reply(characterType, message string, collected map[string]bool) string
}

type ChatService struct {
	Sessions  ChatStore
	Responder Responder
	now       nowFunc
}

func NewChatService(sessions ChatStore, responder Responder) *ChatService {
	return &ChatService{Sessions: sessions, Responder: responder, now: defaultNow}
}

// Start opens a practice session with a scripted character.
func (s *ChatService) Start(ctx context.Context, p models.Principal, characterType string) (*models.ChatSession, error) {
	if p.Role != models.RoleTrainee {
		return nil, apperr.Forbidden("only trainees can use the chatbot")
	}
	if !chatsim.Known(characterType) {
		return nil, apperr.NotFound("unknown character type")
	}

	now := s.now()
	session := &models.ChatSession{
		TraineeID:     p.ID,
		CharacterType: characterType,
		Messages: []models.ChatMessage{{
			Role:      models.ChatRoleAssistant,
			Content:   s.Responder.Opening(characterType),
			Timestamp: now,
		}},
		CollectedInfo: chatsim.NewCollectedInfo(),
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Sessions.Create(ctx, session); err != nil {
		return nil, apperr.Internal("failed to create chat session", err)
	}
	return session, nil
}

// Message records the trainee's message, obtains the scripted reply, and
// persists both in one write.
func (s *ChatService) Message(ctx context.Context, p models.Principal, sessionID, content string) (*models.ChatReply, error) {
	session, err := s.findOwn(ctx, p, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return nil, apperr.InvalidState("chat session has ended")
	}

	collected := session.CollectedInfo
	if collected == nil {
		collected = chatsim.NewCollectedInfo()
	}
	reply := s.Responder.Reply(session.CharacterType, content, collected)

	now := s.now()
	exchange := []models.ChatMessage{
		{Role: models.ChatRoleUser, Content: content, Timestamp: now},
		{Role: models.ChatRoleAssistant, Content: reply, Timestamp: now},
	}
	if err := s.Sessions.AppendExchange(ctx, sessionID, exchange, collected); err != nil {
		return nil, apperr.Internal("failed to save chat messages", err)
	}

	return &models.ChatReply{Message: reply, CollectedInfo: collected}, nil
}

// End closes the session.
func (s *ChatService) End(ctx context.Context, p models.Principal, sessionID string) error {
	session, err := s.findOwn(ctx, p, sessionID)
	if err != nil {
		return err
	}
	if !session.IsActive {
		return apperr.InvalidState("chat session has already ended")
	}
	if err := s.Sessions.End(ctx, sessionID); err != nil {
		return apperr.Internal("failed to end chat session", err)
	}
	return nil
}

func (s *ChatService) findOwn(ctx context.Context, p models.Principal, sessionID string) (*models.ChatSession, error) {
	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("chat session not found")
		}
		return nil, apperr.Internal("failed to look up chat session", err)
	}
	if session.TraineeID != p.ID {
		return nil, apperr.Forbidden("this chat session does not belong to you")
	}
	return session, nil
}
