package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceRegistry_LastRegistrationWins(t *testing.T) {
	p := NewPresenceRegistry()
	first := &fakeConn{}
	second := &fakeConn{}

	p.Register("u1", first)
	p.Register("u1", second)

	got, ok := p.Lookup("u1")
	assert.True(t, ok)
	assert.Same(t, second, got.(*fakeConn))
}

func TestPresenceRegistry_UnregisterStaleConn(t *testing.T) {
	p := NewPresenceRegistry()
	first := &fakeConn{}
	second := &fakeConn{}

	p.Register("u1", first)
	p.Register("u1", second)

	// the replaced connection disconnecting must not evict the new one
	p.UnregisterConn(first)
	assert.True(t, p.Online("u1"))

	p.UnregisterConn(second)
	assert.False(t, p.Online("u1"))
}

func TestPresenceRegistry_Lookup_Unknown(t *testing.T) {
	p := NewPresenceRegistry()

	_, ok := p.Lookup("nobody")
	assert.False(t, ok)
	assert.False(t, p.Online("nobody"))
}
