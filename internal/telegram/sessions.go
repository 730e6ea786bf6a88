package telegram

import (
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"kiwi-nutriplanner/internal/nutrition"
	"kiwi-nutriplanner/internal/planner"
)

// Session is one chat's planning state. Webhook updates for the same chat can
// arrive concurrently, so callers must hold the mutex while touching the
// planner.
type Session struct {
	mu      sync.Mutex
	Profile nutrition.UserProfile
	Planner *planner.Planner
}

// Lock locks the session for the duration of one command.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// Sessions is a TTL store of per-chat sessions. An idle chat expires and the
// user starts over with /profile; approved plans survive in the database.
type Sessions struct {
	cache *gocache.Cache
}

// NewSessions creates a session store where entries expire after ttl.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{cache: gocache.New(ttl, ttl)}
}

// Get returns the session for a chat and refreshes its TTL.
func (s *Sessions) Get(chatID int64) (*Session, bool) {
	key := strconv.FormatInt(chatID, 10)
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	session := v.(*Session)
	s.cache.SetDefault(key, session)
	return session, true
}

// Put stores or replaces a chat's session.
func (s *Sessions) Put(chatID int64, session *Session) {
	s.cache.SetDefault(strconv.FormatInt(chatID, 10), session)
}

// Delete removes a chat's session.
func (s *Sessions) Delete(chatID int64) {
	s.cache.Delete(strconv.FormatInt(chatID, 10))
}
