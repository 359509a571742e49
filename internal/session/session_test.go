package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStore_LoginFlag(t *testing.T) {
	s := NewStore(time.Hour)
	id := NewID()

	assert.False(t, s.IsLoggedIn(id))

	s.Set(id, FlagLoggedIn, "true")
	assert.True(t, s.IsLoggedIn(id))
	assert.False(t, s.IsLoggedIn(NewID()), "flags are scoped to one session")

	s.Remove(id, FlagLoggedIn)
	assert.False(t, s.IsLoggedIn(id))
}

func TestStore_OnlyTrueCounts(t *testing.T) {
	s := NewStore(time.Hour)
	s.Set("abc", FlagLoggedIn, "1")
	assert.False(t, s.IsLoggedIn("abc"))
	assert.False(t, s.IsLoggedIn(""))
}

func TestStore_Expiry(t *testing.T) {
	s := NewStore(50 * time.Millisecond)
	s.Set("abc", FlagLoggedIn, "true")

	// Reads refresh the expiry, so wait without polling.
	time.Sleep(150 * time.Millisecond)
	assert.False(t, s.IsLoggedIn("abc"))
}

func TestNewID_IsUUID(t *testing.T) {
	_, err := uuid.Parse(NewID())
	assert.NoError(t, err)
}
