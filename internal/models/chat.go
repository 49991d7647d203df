package models

import "time"

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role      ChatRole  `bson:"role" json:"role"`
	Content   string    `bson:"content" json:"content"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// ChatSession is one practice conversation between a trainee and a scripted
// customer character. CollectedInfo tracks which sales topics the trainee has
// covered so far.
type ChatSession struct {
	ID            string          `bson:"_id,omitempty" json:"id"`
	TraineeID     string          `bson:"traineeID" json:"traineeID"`
	CharacterType string          `bson:"characterType" json:"characterType"`
	Messages      []ChatMessage   `bson:"messages" json:"messages"`
	CollectedInfo map[string]bool `bson:"collectedInfo" json:"collectedInfo"`
	IsActive      bool            `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// ChatReply is what the simulator returns for one trainee message.
type ChatReply struct {
	Message       string          `json:"message"`
	CollectedInfo map[string]bool `json:"collectedInfo,omitempty"`
}
