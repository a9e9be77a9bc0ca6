package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chat_backend_service/internal/chat/domain"
)

func TestRoomHub_BroadcastReachesEverySubscriber(t *testing.T) {
	hub := NewRoomHub()
	a := &fakeConn{}
	b := &fakeConn{}
	c := &fakeConn{}

	hub.Join("room1", a)
	hub.Join("room1", b)
	hub.Join("room2", c)

	hub.Broadcast("room1", domain.WSEvent{Event: domain.EventNewMessage})

	assert.Len(t, a.recorded(), 1)
	assert.Len(t, b.recorded(), 1)
	assert.Empty(t, c.recorded())
}

func TestRoomHub_BroadcastExceptSkipsSender(t *testing.T) {
	hub := NewRoomHub()
	sender := &fakeConn{}
	other := &fakeConn{}

	hub.Join("room1", sender)
	hub.Join("room1", other)

	hub.BroadcastExcept("room1", sender, domain.WSEvent{Event: domain.EventUserTyping})

	assert.Empty(t, sender.recorded())
	assert.Len(t, other.recorded(), 1)
}

func TestRoomHub_JoinIsIdempotent(t *testing.T) {
	hub := NewRoomHub()
	conn := &fakeConn{}

	hub.Join("room1", conn)
	hub.Join("room1", conn)

	assert.Equal(t, 1, hub.RoomSize("room1"))

	hub.Broadcast("room1", domain.WSEvent{Event: domain.EventNewMessage})
	assert.Len(t, conn.recorded(), 1)
}

func TestRoomHub_LeaveAndDropConn(t *testing.T) {
	hub := NewRoomHub()
	conn := &fakeConn{}

	hub.Join("room1", conn)
	hub.Join("room2", conn)

	hub.Leave("room1", conn)
	assert.False(t, hub.InRoom("room1", conn))
	assert.True(t, hub.InRoom("room2", conn))

	hub.DropConn(conn)
	assert.False(t, hub.InRoom("room2", conn))
	assert.Equal(t, 0, hub.RoomSize("room2"))
}

func TestRoomHub_LeaveUnknownRoomIsNoop(t *testing.T) {
	hub := NewRoomHub()
	conn := &fakeConn{}

	hub.Leave("nowhere", conn)
	hub.DropConn(conn)
}

func TestRoomHub_FailedWriteDoesNotStopFanout(t *testing.T) {
	hub := NewRoomHub()
	broken := &fakeConn{fail: true}
	healthy := &fakeConn{}

	hub.Join("room1", broken)
	hub.Join("room1", healthy)

	hub.Broadcast("room1", domain.WSEvent{Event: domain.EventNewMessage})

	assert.Len(t, healthy.recorded(), 1)
}
