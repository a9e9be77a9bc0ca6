package app

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"chat_backend_service/internal/chat/domain"
	"chat_backend_service/pkg/logger"
)

// Gateway fan-out side of the chat service. One Gateway serves every
// connection; per-connection state lives in the hub and the presence
// registry. Failures are reported to the caller as error events, the
// connection itself is never torn down here.
type Gateway struct {
	hub       *RoomHub
	presence  *PresenceRegistry
	chatUC    ChatUseCase
	messageUC MessageUseCase
}

// NewGateway create new websocket gateway
func NewGateway(hub *RoomHub, presence *PresenceRegistry, chatUC ChatUseCase, messageUC MessageUseCase) *Gateway {
	return &Gateway{
		hub:       hub,
		presence:  presence,
		chatUC:    chatUC,
		messageUC: messageUC,
	}
}

// OnConnect bind the authenticated user to conn
func (g *Gateway) OnConnect(userID string, conn Conn) {
	g.presence.Register(userID, conn)
}

// OnDisconnect drop conn from every room and from presence. A presence
// entry already taken over by a newer connection is left in place.
func (g *Gateway) OnDisconnect(conn Conn) {
	g.hub.DropConn(conn)
	g.presence.UnregisterConn(conn)
}

// Dispatch route one inbound request. userID is the authenticated user of
// the connection; request fields may override it where the protocol allows.
func (g *Gateway) Dispatch(ctx context.Context, conn Conn, userID string, req *domain.WSRequest) {
	switch domain.Event(req.Event) {
	case domain.EventJoinRoom:
		g.handleJoinRoom(conn, userID, req)
	case domain.EventLeaveRoom:
		g.handleLeaveRoom(conn, userID, req)
	case domain.EventSendMessage:
		g.handleSendMessage(ctx, conn, userID, req)
	case domain.EventCreatePrivateChat:
		g.handleCreatePrivateChat(ctx, conn, userID, req)
	case domain.EventCreateGroup:
		g.handleCreateGroup(ctx, conn, userID, req)
	case domain.EventAddUserToGroup:
		g.handleAddUserToGroup(ctx, conn, userID, req)
	case domain.EventRemoveUserFromGroup:
		g.handleRemoveUserFromGroup(ctx, conn, req)
	case domain.EventTyping:
		g.handleTyping(conn, userID, req)
	default:
		g.send(conn, domain.EventError, domain.ErrorNotice{Message: "unknown event: " + req.Event})
	}
}

// handleJoinRoom subscribe the connection to a room. Chat membership is not
// checked here; only sendMessage enforces it.
func (g *Gateway) handleJoinRoom(conn Conn, userID string, req *domain.WSRequest) {
	if !validChatID(req.ChatID) {
		g.send(conn, domain.EventError, domain.ErrorNotice{Message: "invalid chat ID"})
		return
	}
	joiner := orDefault(req.UserID, userID)

	g.hub.Join(req.ChatID, conn)
	g.presence.Register(joiner, conn)

	g.send(conn, domain.EventRoomJoined, domain.RoomNotice{ChatID: req.ChatID})
	g.hub.BroadcastExcept(req.ChatID, conn, domain.WSEvent{
		Event:   domain.EventUserJoined,
		Payload: domain.RoomNotice{ChatID: req.ChatID, UserID: joiner},
	})
}

func (g *Gateway) handleLeaveRoom(conn Conn, userID string, req *domain.WSRequest) {
	if !validChatID(req.ChatID) {
		g.send(conn, domain.EventError, domain.ErrorNotice{Message: "invalid chat ID"})
		return
	}
	leaver := orDefault(req.UserID, userID)

	g.hub.Leave(req.ChatID, conn)
	g.hub.Broadcast(req.ChatID, domain.WSEvent{
		Event:   domain.EventUserLeft,
		Payload: domain.RoomNotice{ChatID: req.ChatID, UserID: leaver},
	})
}

// handleSendMessage persist first, fan out after. The room sees newMessage
// before the last-message pointer moves; the sender's ack comes last.
func (g *Gateway) handleSendMessage(ctx context.Context, conn Conn, userID string, req *domain.WSRequest) {
	if !validChatID(req.ChatID) {
		g.send(conn, domain.EventMessageError, domain.ErrorNotice{Message: "invalid chat ID"})
		return
	}
	if !g.hub.InRoom(req.ChatID, conn) {
		g.send(conn, domain.EventMessageError, domain.ErrorNotice{Message: "not in chat room"})
		return
	}
	senderID := orDefault(req.SenderID, userID)

	msgType := domain.MessageType(req.Type)
	if req.Type == "" {
		msgType = domain.MessageTypeText
	}

	msg, err := g.messageUC.SaveMessage(ctx, req.ChatID, senderID, req.Content, msgType, req.FileMetadata)
	if err != nil {
		g.send(conn, domain.EventMessageError, domain.ErrorNotice{Message: err.Error()})
		return
	}

	g.hub.Broadcast(req.ChatID, domain.WSEvent{Event: domain.EventNewMessage, Payload: msg})

	if err := g.messageUC.UpdateLastMessage(ctx, req.ChatID, msg.ID); err != nil {
		logger.Log.Warn("last message pointer not updated",
			zap.String("chat_id", req.ChatID), zap.Error(err))
	}

	g.send(conn, domain.EventMessageSent, msg)
}

func (g *Gateway) handleCreatePrivateChat(ctx context.Context, conn Conn, userID string, req *domain.WSRequest) {
	chat, err := g.chatUC.CreatePrivateChat(ctx, req.UserID1, req.UserID2)
	if err != nil {
		g.send(conn, domain.EventError, domain.ErrorNotice{Message: err.Error()})
		return
	}

	g.send(conn, domain.EventPrivateChatCreated, chat)
	for _, memberID := range chat.MemberIDs() {
		if memberID == userID {
			continue
		}
		if other, ok := g.presence.Lookup(memberID); ok && other != conn {
			g.sendEvent(other, domain.WSEvent{Event: domain.EventPrivateChatCreated, Payload: chat})
		}
	}
}

// handleCreateGroup ack goes to the creator, newGroup to each other
// participant that is online.
func (g *Gateway) handleCreateGroup(ctx context.Context, conn Conn, userID string, req *domain.WSRequest) {
	createdBy := orDefault(req.CreatedBy, userID)

	chat, err := g.chatUC.CreateGroup(ctx, req.Name, req.Participants, createdBy)
	if err != nil {
		g.send(conn, domain.EventGroupError, domain.ErrorNotice{Message: err.Error()})
		return
	}

	for _, memberID := range chat.MemberIDs() {
		if memberID == createdBy {
			continue
		}
		if other, ok := g.presence.Lookup(memberID); ok {
			g.sendEvent(other, domain.WSEvent{Event: domain.EventNewGroup, Payload: chat})
		}
	}

	g.send(conn, domain.EventGroupCreated, chat)
}

func (g *Gateway) handleAddUserToGroup(ctx context.Context, conn Conn, userID string, req *domain.WSRequest) {
	addedBy := orDefault(req.AddedBy, userID)

	change, err := g.chatUC.AddUserToGroup(ctx, req.ChatID, req.UserID, addedBy)
	if err != nil {
		g.send(conn, domain.EventGroupError, domain.ErrorNotice{Message: err.Error()})
		return
	}

	g.hub.Broadcast(req.ChatID, domain.WSEvent{
		Event: domain.EventUserAddedToGroup,
		Payload: domain.GroupChange{
			ChatID:   req.ChatID,
			UserID:   req.UserID,
			AddedBy:  addedBy,
			UserName: change.UserName,
			Group:    change.Chat,
		},
	})
	if change.SystemMessage != nil {
		g.hub.Broadcast(req.ChatID, domain.WSEvent{Event: domain.EventNewMessage, Payload: change.SystemMessage})
	}

	if added, ok := g.presence.Lookup(req.UserID); ok {
		g.sendEvent(added, domain.WSEvent{Event: domain.EventAddedToGroup, Payload: change.Chat})
	}
}

func (g *Gateway) handleRemoveUserFromGroup(ctx context.Context, conn Conn, req *domain.WSRequest) {
	change, err := g.chatUC.RemoveUserFromGroup(ctx, req.ChatID, req.UserID, req.RemovedBy)
	if err != nil {
		g.send(conn, domain.EventGroupError, domain.ErrorNotice{Message: err.Error()})
		return
	}

	if change.Chat != nil {
		g.hub.Broadcast(req.ChatID, domain.WSEvent{
			Event: domain.EventUserRemovedFromGroup,
			Payload: domain.GroupChange{
				ChatID:    req.ChatID,
				UserID:    req.UserID,
				RemovedBy: req.RemovedBy,
				UserName:  change.UserName,
				Group:     change.Chat,
			},
		})
		if change.SystemMessage != nil {
			g.hub.Broadcast(req.ChatID, domain.WSEvent{Event: domain.EventNewMessage, Payload: change.SystemMessage})
		}
	}

	if removed, ok := g.presence.Lookup(req.UserID); ok {
		g.hub.Leave(req.ChatID, removed)
		g.sendEvent(removed, domain.WSEvent{Event: domain.EventRemovedFromGroup, Payload: domain.RoomNotice{ChatID: req.ChatID}})
	}
}

// handleTyping pure relay, nothing is persisted
func (g *Gateway) handleTyping(conn Conn, userID string, req *domain.WSRequest) {
	if !validChatID(req.ChatID) {
		g.send(conn, domain.EventError, domain.ErrorNotice{Message: "invalid chat ID"})
		return
	}
	g.hub.BroadcastExcept(req.ChatID, conn, domain.WSEvent{
		Event: domain.EventUserTyping,
		Payload: domain.TypingNotice{
			ChatID:   req.ChatID,
			UserID:   orDefault(req.UserID, userID),
			Username: req.Username,
			IsTyping: req.IsTyping,
		},
	})
}

func (g *Gateway) send(conn Conn, event domain.Event, payload interface{}) {
	g.sendEvent(conn, domain.WSEvent{Event: event, Payload: payload})
}

func (g *Gateway) sendEvent(conn Conn, event domain.WSEvent) {
	if err := conn.WriteJSON(event); err != nil {
		logger.Log.Warn("websocket write failed",
			zap.String("event", string(event.Event)), zap.Error(err))
	}
}

func validChatID(chatID string) bool {
	_, err := primitive.ObjectIDFromHex(chatID)
	return err == nil
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
