package memory

import (
	"time"

	"mindloop-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository is the process-local registry of active generation
// sessions. It owns all session state exclusively; there is no ambient
// global map. Sessions refresh their expiry on every Save, so only
// abandoned entries age out.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Default expiration of 24 hours with a purge sweep every 10 minutes.
	// A running session saves every tick and never comes close to expiry.
	c := cache.New(24*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.GenerationSession) {
	r.cache.Set(session.ID(), session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.GenerationSession, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.GenerationSession), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
