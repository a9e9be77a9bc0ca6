package domain

// Event websocket event name
type Event string

// Inbound events.
const (
	// EventJoinRoom websocket event joinRoom
	EventJoinRoom Event = "joinRoom"
	// EventLeaveRoom websocket event leaveRoom
	EventLeaveRoom Event = "leaveRoom"
	// EventSendMessage websocket event sendMessage
	EventSendMessage Event = "sendMessage"
	// EventCreatePrivateChat websocket event createPrivateChat
	EventCreatePrivateChat Event = "createPrivateChat"
	// EventCreateGroup websocket event createGroup
	EventCreateGroup Event = "createGroup"
	// EventAddUserToGroup websocket event addUserToGroup
	EventAddUserToGroup Event = "addUserToGroup"
	// EventRemoveUserFromGroup websocket event removeUserFromGroup
	EventRemoveUserFromGroup Event = "removeUserFromGroup"
	// EventTyping websocket event typing
	EventTyping Event = "typing"
)

// Outbound events.
const (
	// EventRoomJoined ack to the joining connection
	EventRoomJoined Event = "roomJoined"
	// EventUserJoined notify the rest of the room
	EventUserJoined Event = "userJoined"
	// EventUserLeft notify the remainder of the room
	EventUserLeft Event = "userLeft"
	// EventNewMessage room-wide message broadcast, sender included
	EventNewMessage Event = "newMessage"
	// EventMessageSent private ack to the sender connection
	EventMessageSent Event = "messageSent"
	// EventMessageError caller-visible send failure
	EventMessageError Event = "messageError"
	// EventPrivateChatCreated ack plus targeted notify for private chats
	EventPrivateChatCreated Event = "privateChatCreated"
	// EventNewGroup targeted notify to each other participant
	EventNewGroup Event = "newGroup"
	// EventGroupCreated private ack to the creator
	EventGroupCreated Event = "groupCreated"
	// EventGroupError caller-visible group failure
	EventGroupError Event = "groupError"
	// EventUserAddedToGroup room-wide membership-change broadcast
	EventUserAddedToGroup Event = "userAddedToGroup"
	// EventAddedToGroup targeted notify to the added user
	EventAddedToGroup Event = "addedToGroup"
	// EventUserRemovedFromGroup room-wide membership-change broadcast
	EventUserRemovedFromGroup Event = "userRemovedFromGroup"
	// EventRemovedFromGroup targeted notify to the removed user
	EventRemovedFromGroup Event = "removedFromGroup"
	// EventUserTyping typing relay, sender excluded
	EventUserTyping Event = "userTyping"
	// EventError generic caller-visible failure
	EventError Event = "error"
)

// WSRequest websocket request, one flat shape for every inbound event
type WSRequest struct {
	Event        string        `json:"event"`
	ChatID       string        `json:"chatId"`
	UserID       string        `json:"userId"`
	UserID1      string        `json:"userId1"`
	UserID2      string        `json:"userId2"`
	SenderID     string        `json:"senderId"`
	Content      string        `json:"content"`
	Type         string        `json:"type"`
	FileMetadata *FileMetadata `json:"fileMetadata,omitempty"`
	Name         string        `json:"name"`
	Participants []string      `json:"participants"`
	CreatedBy    string        `json:"createdBy"`
	AddedBy      string        `json:"addedBy"`
	RemovedBy    string        `json:"removedBy"`
	Username     string        `json:"username"`
	IsTyping     bool          `json:"isTyping"`
}

// WSEvent websocket outbound envelope
type WSEvent struct {
	Event   Event       `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// RoomNotice payload of roomJoined, userJoined, userLeft and removedFromGroup
type RoomNotice struct {
	ChatID string `json:"chatId"`
	UserID string `json:"userId,omitempty"`
}

// TypingNotice payload of userTyping
type TypingNotice struct {
	ChatID   string `json:"chatId"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

// GroupChange payload of userAddedToGroup and userRemovedFromGroup.
// UserName is the display name of the affected user; the synthesized system
// message travels separately as a newMessage broadcast.
type GroupChange struct {
	ChatID    string        `json:"chatId"`
	UserID    string        `json:"userId"`
	AddedBy   string        `json:"addedBy,omitempty"`
	RemovedBy string        `json:"removedBy,omitempty"`
	UserName  string        `json:"userName"`
	Group     *ChatResponse `json:"group"`
}

// ErrorNotice payload of error, messageError and groupError
type ErrorNotice struct {
	Message string `json:"message"`
}
