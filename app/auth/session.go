package auth

import (
	"sync"

	"quill/app/models"
)

// Phase is the session's resolution state.
type Phase int

const (
	// Resolving means the first session check has not completed yet.
	Resolving Phase = iota
	Anonymous
	Authenticated
)

// State is a snapshot of the session: who is acting and whether they
// hold the admin capability. Identity and IsAdmin are meaningful only
// when Phase is Authenticated.
type State struct {
	Phase    Phase
	Identity models.Identity
	IsAdmin  bool
}

// Session owns the identity for one browsing session. It starts
// Resolving, becomes Anonymous or Authenticated after the first check,
// and re-resolves on sign-in and sign-out.
type Session struct {
	backend Backend

	mu    sync.RWMutex
	state State
}

func NewSession(backend Backend) *Session {
	return &Session{backend: backend}
}

// Resolve completes the initial session check. A fresh session has no
// persisted identity, so an unresolved session becomes Anonymous;
// an already-authenticated session is left alone.
func (s *Session) Resolve() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase == Resolving {
		s.state = State{Phase: Anonymous}
	}
}

// SignIn verifies the credentials and, on success, transitions to
// Authenticated with the admin capability derived from the profile
// lookup. On failure the session stays Anonymous and the caller
// decides whether to retry.
func (s *Session) SignIn(email, password string) error {
	identity, err := s.backend.Authenticate(email, password)
	if err != nil {
		s.mu.Lock()
		s.state = State{Phase: Anonymous}
		s.mu.Unlock()
		return err
	}

	isAdmin := false
	if profile, err := s.backend.ProfileFor(identity.ID); err == nil {
		isAdmin = profile.IsAdmin
	}

	s.mu.Lock()
	s.state = State{Phase: Authenticated, Identity: identity, IsAdmin: isAdmin}
	s.mu.Unlock()
	return nil
}

// SignOut transitions to Anonymous regardless of prior state.
func (s *Session) SignOut() {
	s.mu.Lock()
	s.state = State{Phase: Anonymous}
	s.mu.Unlock()
}

// Current returns the session state. It never blocks.
func (s *Session) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
