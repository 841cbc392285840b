package auth

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
)

// NewToken returns a 32-byte random token in URL-safe base64, used as
// the session cookie value.
func NewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

// TokenStore maps cookie tokens to live sessions. Sessions expire with
// the process; there is no persistence and no sliding TTL.
type TokenStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewTokenStore() *TokenStore {
	return &TokenStore{sessions: make(map[string]*Session)}
}

func (t *TokenStore) Put(token string, session *Session) {
	t.mu.Lock()
	t.sessions[token] = session
	t.mu.Unlock()
}

// Get returns the session for a token, or nil.
func (t *TokenStore) Get(token string) *Session {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sessions[token]
}

func (t *TokenStore) Drop(token string) {
	t.mu.Lock()
	delete(t.sessions, token)
	t.mu.Unlock()
}
