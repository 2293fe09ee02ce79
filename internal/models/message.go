package models

import (
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID string             `bson:"conversation_id" json:"conversation_id"`
	SenderID       string             `bson:"sender_id" json:"sender_id"`
	RecipientID    string             `bson:"recipient_id" json:"recipient_id"`
	Body           string             `bson:"body" json:"body"`
	Read           bool               `bson:"read" json:"read"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// Conversation is one row of the inbox: the other participant and the latest message.
type Conversation struct {
	ConversationID string          `bson:"_id" json:"conversation_id"`
	LastMessage    Message         `bson:"last_message" json:"last_message"`
	Unread         int64           `bson:"unread" json:"unread"`
	OtherUserID    string          `bson:"-" json:"other_user_id"`
	Other          *ProfileSummary `bson:"-" json:"other,omitempty"`
}

// ConversationID is stable for a pair of users regardless of who writes first.
func ConversationID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, ":")
}
