package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenStore(t *testing.T) {
	s := NewTokenStore()

	t.Run("empty store has no token", func(t *testing.T) {
		token, ok := s.Get()
		assert.False(t, ok)
		assert.Empty(t, token)
	})

	t.Run("set then get", func(t *testing.T) {
		s.Set("tok1")
		token, ok := s.Get()
		assert.True(t, ok)
		assert.Equal(t, "tok1", token)
	})

	t.Run("last write wins", func(t *testing.T) {
		s.Set("tok1")
		s.Set("tok2")
		token, _ := s.Get()
		assert.Equal(t, "tok2", token)
	})

	t.Run("clear removes token", func(t *testing.T) {
		s.Set("tok1")
		s.Clear()
		_, ok := s.Get()
		assert.False(t, ok)
	})
}
