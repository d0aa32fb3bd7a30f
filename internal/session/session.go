// Package session owns the authentication state: the bearer token issued by
// the backend and the branch the register is logged into. One Session value
// is injected into both the gateway transport (which reads the token on
// every request and clears it on a 401) and the local handler layer, so
// there is exactly one writer path for auth state.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/platanadas/pos-client/internal/storage"
)

// SnapshotName is the storage key the session persists under, separate from
// the order-state snapshot.
const SnapshotName = "platanadas-auth"

type snapshot struct {
	Token    string `json:"token"`
	BranchID string `json:"sucursal_id"`
}

// Session is a concurrency-safe auth-state container.
type Session struct {
	mu       sync.RWMutex
	token    string
	branchID string
	store    storage.Store
}

// New returns an unauthenticated session that persists itself to store.
// Store may be nil in tests.
func New(store storage.Store) *Session {
	return &Session{store: store}
}

// Restore loads a previously persisted session, if any.
func (s *Session) Restore() error {
	if s.store == nil {
		return nil
	}
	var snap snapshot
	if err := s.store.Load(SnapshotName, &snap); err != nil {
		if err == storage.ErrNotFound {
			return nil
		}
		return err
	}
	s.mu.Lock()
	s.token = snap.Token
	s.branchID = snap.BranchID
	s.mu.Unlock()
	return nil
}

// Login stores the token and branch id and persists them.
func (s *Session) Login(token, branchID string) {
	s.mu.Lock()
	s.token = token
	s.branchID = branchID
	s.mu.Unlock()
	s.persist()
}

// Logout clears the auth state and its persisted snapshot. Called both from
// the UI flow and automatically when the backend answers 401.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.branchID = ""
	s.mu.Unlock()
	if s.store != nil {
		_ = s.store.Delete(SnapshotName)
	}
}

func (s *Session) persist() {
	if s.store == nil {
		return
	}
	s.mu.RLock()
	snap := snapshot{Token: s.token, BranchID: s.branchID}
	s.mu.RUnlock()
	_ = s.store.Save(SnapshotName, snap)
}

// Token returns the current bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// BranchID returns the branch the register is logged into.
func (s *Session) BranchID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.branchID
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// TokenExpiry returns the expiry claim of the held token. The backend signs
// its tokens; the client only inspects the claims (unverified parse) to know
// when to prompt for a fresh login. Returns false for no token, an opaque
// token, or a token without an expiry.
func (s *Session) TokenExpiry() (time.Time, bool) {
	tok := s.Token()
	if tok == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(tok, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the held token carries an expiry in the past.
func (s *Session) Expired(now time.Time) bool {
	exp, ok := s.TokenExpiry()
	if !ok {
		return false
	}
	return exp.Before(now)
}
