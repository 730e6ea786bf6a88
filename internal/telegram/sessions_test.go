package telegram

import (
	"testing"
	"time"

	"kiwi-nutriplanner/internal/nutrition"
)

func TestSessions(t *testing.T) {
	t.Run("PutAndGet", func(t *testing.T) {
		sessions := NewSessions(time.Minute)

		if _, ok := sessions.Get(1); ok {
			t.Fatal("Expected no session for a fresh chat")
		}

		sessions.Put(1, &Session{Profile: nutrition.UserProfile{Age: 30}})
		s, ok := sessions.Get(1)
		if !ok {
			t.Fatal("Expected the stored session back")
		}
		if s.Profile.Age != 30 {
			t.Errorf("Expected the same session, got %+v", s.Profile)
		}

		if _, ok := sessions.Get(2); ok {
			t.Error("Chat ids must not collide")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		sessions := NewSessions(time.Minute)
		sessions.Put(1, &Session{})
		sessions.Delete(1)
		if _, ok := sessions.Get(1); ok {
			t.Error("Expected the session to be gone after Delete")
		}
	})

	t.Run("Expiry", func(t *testing.T) {
		sessions := NewSessions(20 * time.Millisecond)
		sessions.Put(1, &Session{})

		time.Sleep(50 * time.Millisecond)

		if _, ok := sessions.Get(1); ok {
			t.Error("Expected the session to expire")
		}
	})
}
