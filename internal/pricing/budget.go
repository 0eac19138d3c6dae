// internal/pricing/budget.go
package pricing

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"aucta-logistics/internal/models"
)

// SessionStore owns the API call budget bookkeeping for every live
// route-calculation session. It is constructed per engine instance and
// passed by handle, never kept as module-level state.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*models.Session)}
}

// Open creates a session with the given hard cap and returns its ID.
func (s *SessionStore) Open(hardCap int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.sessions[id] = &models.Session{
		ID:             id,
		HardCap:        hardCap,
		CallsByService: make(map[models.ServiceType]int),
		StartedAt:      time.Now().UTC(),
	}
	return id
}

// Discard drops a session after the caller has retrieved its report.
func (s *SessionStore) Discard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// CapReached reports whether the session has consumed its hard cap.
// Unknown sessions are treated as capped so a lost ID can never spend.
func (s *SessionStore) CapReached(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return true
	}
	return sess.Calls >= sess.HardCap
}

// RecordCall counts one successful live provider call.
func (s *SessionStore) RecordCall(id string, service models.ServiceType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	sess.Calls++
	sess.CallsByService[service]++
}

// RecordLookup counts one cache lookup and whether it was a fresh hit.
func (s *SessionStore) RecordLookup(id string, hit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	sess.CacheLookups++
	if hit {
		sess.CacheHits++
	}
}

// RecordStalePart registers a past-TTL cache hit as a data-freshness
// warning on the session. Duplicates are collapsed.
func (s *SessionStore) RecordStalePart(id string, part string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	for _, existing := range sess.StaleParts {
		if existing == part {
			return
		}
	}
	sess.StaleParts = append(sess.StaleParts, part)
}

// StaleParts returns a copy of the session's stale part list.
func (s *SessionStore) StaleParts(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	out := make([]string, len(sess.StaleParts))
	copy(out, sess.StaleParts)
	return out
}

// Report builds the session-scoped cost report exposed to the caller.
func (s *SessionStore) Report(id string) models.SessionReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return models.SessionReport{SessionID: id}
	}

	byService := make(map[models.ServiceType]int, len(sess.CallsByService))
	for k, v := range sess.CallsByService {
		byService[k] = v
	}
	stale := make([]string, len(sess.StaleParts))
	copy(stale, sess.StaleParts)
	sort.Strings(stale)

	hitRate := 0.0
	if sess.CacheLookups > 0 {
		hitRate = float64(sess.CacheHits) / float64(sess.CacheLookups)
	}

	remaining := sess.HardCap - sess.Calls
	if remaining < 0 {
		remaining = 0
	}

	return models.SessionReport{
		SessionID:      sess.ID,
		TotalCalls:     sess.Calls,
		HardCap:        sess.HardCap,
		RemainingCalls: remaining,
		CallsByService: byService,
		StaleParts:     stale,
		CacheHitRate:   hitRate,
	}
}
