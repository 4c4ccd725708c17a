package interview

import (
	"log"
	"sync"
	"time"
)

// Registry is the concurrency-safe map of live sessions. It owns existence
// and lifetime only; interview logic stays in Session.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	idleTimeout time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewRegistry creates a registry whose janitor closes sessions idle longer
// than idleTimeout. A non-positive timeout disables reaping.
func NewRegistry(idleTimeout time.Duration) *Registry {
	return &Registry{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		stop:        make(chan struct{}),
	}
}

// Put registers a session under its ID.
func (r *Registry) Put(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[s.ID]; exists {
		return ErrDuplicateSession
	}
	r.sessions[s.ID] = s
	return nil
}

// Get looks up a session by ID.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Destroy removes the session and cancels any work it still owns.
func (r *Registry) Destroy(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// StartJanitor reaps idle sessions every interval until Stop is called.
func (r *Registry) StartJanitor(interval time.Duration) {
	if r.idleTimeout <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.reapIdle()
			case <-r.stop:
				return
			}
		}
	}()
}

func (r *Registry) reapIdle() {
	cutoff := time.Now().Add(-r.idleTimeout)

	r.mu.RLock()
	var stale []string
	for id, s := range r.sessions {
		if s.LastActive().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	for _, id := range stale {
		log.Printf("[registry] reaping idle session %s", id)
		if err := r.Destroy(id); err != nil {
			log.Printf("[registry] reap %s: %v", id, err)
		}
	}
}

// Stop shuts the janitor down and closes every remaining session.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })

	r.mu.Lock()
	remaining := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		remaining = append(remaining, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range remaining {
		s.Close()
	}
}
