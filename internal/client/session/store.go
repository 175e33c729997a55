// Package session holds the single authentication record of the running
// client. The Store is also the token source of the gateway client, so a
// replaced session is what the very next request carries.
package session

import (
	"errors"
	"sync"

	"github.com/dmitrijs2005/itemgate/internal/client/models"
)

var ErrEmptyToken = errors.New("session token is empty")

// Store keeps at most one session. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	current *models.Session
}

func NewStore() *Store {
	return &Store{}
}

// Replace installs s as the current session, discarding the previous one.
// Sessions are never merged.
func (st *Store) Replace(s models.Session) error {
	if s.Token == "" {
		return ErrEmptyToken
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.current = &s
	return nil
}

// Clear destroys the session; subsequent requests carry no token.
func (st *Store) Clear() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.current = nil
}

// Current returns a copy of the session and whether one exists.
func (st *Store) Current() (models.Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if !st.current.Valid() {
		return models.Session{}, false
	}
	return *st.current, true
}

func (st *Store) Active() bool {
	_, ok := st.Current()
	return ok
}

// Token implements client.TokenSource.
func (st *Store) Token() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.current == nil {
		return ""
	}
	return st.current.Token
}

// MarkMfaRegistered mirrors a successful key registration into the current
// session. It reports false when there is no session to update.
func (st *Store) MarkMfaRegistered() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.current.Valid() {
		return false
	}
	st.current.IsMfaRegistered = true
	return true
}
