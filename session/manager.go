// Package session holds the single in-memory authentication state for the
// coordinator. Decode failures and reissue failures both degrade to guest;
// they are never returned to callers as errors.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"tekcit/entity"
	"tekcit/log"
)

type AuthGateway interface {
	Reissue(ctx context.Context) (accessToken string, err error)
}

type Manager struct {
	mu      sync.RWMutex
	current entity.Session

	auth AuthGateway
}

func NewManager(auth AuthGateway) *Manager {
	return &Manager{auth: auth}
}

// Bootstrap reissues the access token using the HTTP-only refresh
// credential held by the backend. Any failure leaves the manager in the
// guest state; that is not an error condition.
func (m *Manager) Bootstrap(ctx context.Context) {
	token, err := m.auth.Reissue(ctx)
	if err != nil {
		log.FromContext(ctx).WithError(err).Debug("token reissue failed, staying guest")
		m.Clear()
		return
	}
	m.SetAccessToken(token)
}

// SetAccessToken replaces the in-memory token and re-derives identity from
// its claims. A malformed token is treated exactly like no token.
func (m *Manager) SetAccessToken(token string) {
	if token == "" {
		m.Clear()
		return
	}

	session, err := decodeSession(token)
	if err != nil {
		m.Clear()
		return
	}

	m.mu.Lock()
	m.current = session
	m.mu.Unlock()
}

func (m *Manager) Clear() {
	m.mu.Lock()
	m.current = entity.Session{}
	m.mu.Unlock()
}

// Current returns a snapshot of the session. A zero value means guest.
func (m *Manager) Current() entity.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.AccessToken
}

func (m *Manager) LoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.LoggedIn()
}

// decodeSession extracts identity claims without verifying the signature.
// The coordinator is not the token's audience verifier; it only mirrors
// what the backend issued.
func decodeSession(token string) (entity.Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return entity.Session{}, fmt.Errorf("could not parse access token: %w", err)
	}

	session := entity.Session{AccessToken: token}

	if sub, err := claims.GetSubject(); err == nil {
		session.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Time
	}
	if role, ok := claims["role"].(string); ok {
		session.Role = role
	}
	if name, ok := claims["name"].(string); ok {
		session.DisplayName = name
	}
	if userID, ok := claims["userId"].(float64); ok {
		session.UserID = int64(userID)
	}

	return session, nil
}
