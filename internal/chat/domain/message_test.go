package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageType_Valid(t *testing.T) {
	for _, mt := range []MessageType{
		MessageTypeText, MessageTypeImage, MessageTypeFile,
		MessageTypeVideo, MessageTypeAudio, MessageTypeSystem,
	} {
		assert.True(t, mt.Valid(), string(mt))
	}

	assert.False(t, MessageType("carrier-pigeon").Valid())
	assert.False(t, MessageType("").Valid())
}

func TestMessageType_HasAttachment(t *testing.T) {
	assert.False(t, MessageTypeText.HasAttachment())
	assert.False(t, MessageTypeSystem.HasAttachment())
	assert.True(t, MessageTypeImage.HasAttachment())
	assert.True(t, MessageTypeFile.HasAttachment())
	assert.True(t, MessageTypeVideo.HasAttachment())
	assert.True(t, MessageTypeAudio.HasAttachment())
}

func TestChatResponse_MemberHelpers(t *testing.T) {
	chat := ChatResponse{
		Members: []ChatMember{
			{ID: "a", Name: "Alice"},
			{ID: "b", Name: "Bob"},
		},
	}

	assert.Equal(t, []string{"a", "b"}, chat.MemberIDs())
	assert.Equal(t, "Bob", chat.MemberName("b", "fallback"))
	assert.Equal(t, "fallback", chat.MemberName("c", "fallback"))
}
