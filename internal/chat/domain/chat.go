package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat document in the chats collection. A private chat always has exactly
// 2 members; a group chat self-destructs when its member set empties.
type Chat struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	IsGroup     bool                 `bson:"is_group"`
	Members     []primitive.ObjectID `bson:"members"`
	LastMessage *primitive.ObjectID  `bson:"last_message,omitempty"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

// ChatMember member entry populated with user display fields
type ChatMember struct {
	ID     string `bson:"_id" json:"_id"`
	Name   string `bson:"name" json:"name"`
	Email  string `bson:"email" json:"email"`
	Avatar string `bson:"avatar" json:"avatar,omitempty"`
}

// LastMessagePreview populated last-message pointer, used for list previews.
// Nil on the response when the pointer is unset or dangling.
type LastMessagePreview struct {
	ID         string    `bson:"_id" json:"_id"`
	Content    string    `bson:"content" json:"content"`
	SenderID   string    `bson:"sender_id" json:"senderId"`
	SenderName string    `bson:"sender_name" json:"senderName,omitempty"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
}

// ChatResponse caller-facing projection of a chat
type ChatResponse struct {
	ID          string              `json:"_id"`
	Name        string              `json:"name"`
	IsGroup     bool                `json:"isGroup"`
	Members     []ChatMember        `json:"members"`
	LastMessage *LastMessagePreview `json:"lastMessage,omitempty"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// MemberIDs project members back to hex ids
func (c *ChatResponse) MemberIDs() []string {
	ids := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		ids = append(ids, m.ID)
	}
	return ids
}

// MemberName find a member display name, fallback when absent
func (c *ChatResponse) MemberName(userID, fallback string) string {
	for _, m := range c.Members {
		if m.ID == userID {
			return m.Name
		}
	}
	return fallback
}
