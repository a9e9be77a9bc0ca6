package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageType definition message type
type MessageType string

const (
	// MessageTypeText plain or markdown-formatted text
	MessageTypeText MessageType = "text"
	// MessageTypeImage image attachment
	MessageTypeImage MessageType = "image"
	// MessageTypeFile generic file attachment
	MessageTypeFile MessageType = "file"
	// MessageTypeVideo video attachment
	MessageTypeVideo MessageType = "video"
	// MessageTypeAudio audio attachment
	MessageTypeAudio MessageType = "audio"
	// MessageTypeSystem synthesized membership-change record
	MessageTypeSystem MessageType = "system"
)

// Valid check type against the fixed enum
func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeFile,
		MessageTypeVideo, MessageTypeAudio, MessageTypeSystem:
		return true
	}
	return false
}

// HasAttachment report whether the type carries file metadata
func (t MessageType) HasAttachment() bool {
	return t != MessageTypeText && t != MessageTypeSystem
}

// FileMetadata descriptor returned by the file collaborator
type FileMetadata struct {
	OriginalName string `bson:"original_name" json:"originalName"`
	FileName     string `bson:"file_name" json:"fileName"`
	FileSize     int64  `bson:"file_size" json:"fileSize"`
	MimeType     string `bson:"mime_type" json:"mimeType"`
	URL          string `bson:"url" json:"url"`
}

// Message document in the messages collection. Immutable once created
// except for deletion.
type Message struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	ChatID       primitive.ObjectID `bson:"chat_id"`
	SenderID     primitive.ObjectID `bson:"sender_id"`
	Content      string             `bson:"content"`
	Type         MessageType        `bson:"type"`
	FileMetadata *FileMetadata      `bson:"file_metadata,omitempty"`
	IsFormatted  bool               `bson:"is_formatted"`
	Timestamp    time.Time          `bson:"timestamp"`
}

// MessageSender sender display fields populated from the users collection
type MessageSender struct {
	ID     string `bson:"_id" json:"_id"`
	Name   string `bson:"name" json:"name"`
	Email  string `bson:"email" json:"email"`
	Avatar string `bson:"avatar" json:"avatar,omitempty"`
}

// ChatRef minimal parent-chat fields carried on an enriched message.
// Nil when the chat has been deleted (orphaned messages stay readable).
type ChatRef struct {
	ID      string `bson:"_id" json:"_id"`
	Name    string `bson:"name" json:"name"`
	IsGroup bool   `bson:"is_group" json:"isGroup"`
}

// MessageResponse enriched caller-facing projection of a message
type MessageResponse struct {
	ID           string        `json:"_id"`
	ChatID       string        `json:"chatId"`
	Chat         *ChatRef      `json:"chat,omitempty"`
	Sender       MessageSender `json:"sender"`
	Content      string        `json:"content"`
	Type         MessageType   `json:"type"`
	FileMetadata *FileMetadata `json:"fileMetadata,omitempty"`
	IsFormatted  bool          `json:"isFormatted"`
	Timestamp    time.Time     `json:"timestamp"`
}
