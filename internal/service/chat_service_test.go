package service

import (
	"context"
	"testing"

	"training-service/internal/apperr"
	"training-service/internal/chatsim"
	"training-service/internal/models"
)

func newChatFixture() (*ChatService, *fakeChatStore) {
	sessions := newFakeChatStore()
	svc := NewChatService(sessions, chatsim.NewScripted())
	return svc, sessions
}

var chatTrainee = models.Principal{ID: "trainee-1", Role: models.RoleTrainee}

func TestStartChat(t *testing.T) {
	svc, _ := newChatFixture()

	session, err := svc.Start(context.Background(), chatTrainee, "happy_customer")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !session.IsActive {
		t.Error("Expected a new session to be active")
	}
	if len(session.Messages) != 1 || session.Messages[0].Role != models.ChatRoleAssistant {
		t.Fatalf("Expected one opening assistant message, got %+v", session.Messages)
	}
	if session.Messages[0].Content == "" {
		t.Error("Expected a non-empty opening line")
	}
	for topic, done := range session.CollectedInfo {
		if done {
			t.Errorf("Expected topic %s to start uncovered", topic)
		}
	}
}

func TestStartChatRefusals(t *testing.T) {
	svc, _ := newChatFixture()

	trainer := models.Principal{ID: "trainer-1", Role: models.RoleTrainer}
	if _, err := svc.Start(context.Background(), trainer, "happy_customer"); apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("Expected forbidden for trainer, got %v", err)
	}
	if _, err := svc.Start(context.Background(), chatTrainee, "confused_customer"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("Expected not_found for unknown character, got %v", err)
	}
}

func TestChatMessage(t *testing.T) {
	svc, sessions := newChatFixture()
	session, err := svc.Start(context.Background(), chatTrainee, "angry_customer")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	reply, err := svc.Message(context.Background(), chatTrainee, session.ID, "The price is 29 euros per month.")
	if err != nil {
		t.Fatalf("Message failed: %v", err)
	}
	if reply.Message == "" {
		t.Error("Expected a scripted reply")
	}
	if !reply.CollectedInfo[chatsim.TopicPrice] {
		t.Error("Expected the price topic to be marked covered")
	}

	stored := sessions.sessions[session.ID]
	if len(stored.Messages) != 3 {
		t.Fatalf("Expected opening plus one exchange (3 messages), got %d", len(stored.Messages))
	}
	if stored.Messages[1].Role != models.ChatRoleUser || stored.Messages[2].Role != models.ChatRoleAssistant {
		t.Error("Expected the exchange to be stored as user then assistant")
	}
	if !stored.CollectedInfo[chatsim.TopicPrice] {
		t.Error("Expected the covered topic to be persisted")
	}
}

func TestChatMessageOwnership(t *testing.T) {
	svc, _ := newChatFixture()
	session, err := svc.Start(context.Background(), chatTrainee, "happy_customer")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	other := models.Principal{ID: "trainee-2", Role: models.RoleTrainee}
	if _, err := svc.Message(context.Background(), other, session.ID, "hello"); apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("Expected forbidden for another trainee, got %v", err)
	}
	if _, err := svc.Message(context.Background(), chatTrainee, "chat-99", "hello"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("Expected not_found for unknown session, got %v", err)
	}
}

func TestEndChat(t *testing.T) {
	svc, sessions := newChatFixture()
	session, err := svc.Start(context.Background(), chatTrainee, "happy_customer")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := svc.End(context.Background(), chatTrainee, session.ID); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if sessions.sessions[session.ID].IsActive {
		t.Error("Expected the session to be inactive")
	}

	if err := svc.End(context.Background(), chatTrainee, session.ID); apperr.KindOf(err) != apperr.KindInvalidState {
		t.Errorf("Expected invalid_state for double end, got %v", err)
	}
	if _, err := svc.Message(context.Background(), chatTrainee, session.ID, "hello?"); apperr.KindOf(err) != apperr.KindInvalidState {
		t.Errorf("Expected invalid_state for message after end, got %v", err)
	}
}
