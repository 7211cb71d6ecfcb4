package memory

import (
	"time"

	"persona-chat-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionStateRepository keeps per-user conversation state in memory with a
// sliding expiration. State lost to expiry is acceptable: durable history
// lives in the chat documents.
type SessionStateRepository struct {
	cache *cache.Cache
}

func NewSessionStateRepository() *SessionStateRepository {
	// Default expiration 1 hour, purge sweep every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionStateRepository{
		cache: c,
	}
}

// GetOrCreate returns the session state for uid, creating it on first use.
func (r *SessionStateRepository) GetOrCreate(uid string) *store.SessionState {
	if x, found := r.cache.Get(uid); found {
		r.cache.Set(uid, x, cache.DefaultExpiration) // slide the TTL
		return x.(*store.SessionState)
	}
	st := store.NewSessionState()
	if err := r.cache.Add(uid, st, cache.DefaultExpiration); err != nil {
		// Lost the race to another request; use the winner's state.
		if x, found := r.cache.Get(uid); found {
			return x.(*store.SessionState)
		}
	}
	return st
}

func (r *SessionStateRepository) Get(uid string) (*store.SessionState, bool) {
	if x, found := r.cache.Get(uid); found {
		return x.(*store.SessionState), true
	}
	return nil, false
}

func (r *SessionStateRepository) Delete(uid string) {
	r.cache.Delete(uid)
}
