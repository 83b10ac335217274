package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tekcit/session"
)

type authGatewayStub struct {
	token string
	err   error
}

func (s authGatewayStub) Reissue(ctx context.Context) (string, error) {
	return s.token, s.err
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestBootstrap_DecodesIdentityClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{
		"sub":    "user-7",
		"role":   "USER",
		"name":   "김철수",
		"userId": float64(7),
		"exp":    exp.Unix(),
	})

	m := session.NewManager(authGatewayStub{token: token})
	m.Bootstrap(context.Background())

	current := m.Current()
	assert.True(t, current.LoggedIn())
	assert.Equal(t, "user-7", current.Subject)
	assert.Equal(t, "USER", current.Role)
	assert.Equal(t, "김철수", current.DisplayName)
	assert.Equal(t, int64(7), current.UserID)
	assert.Equal(t, exp.Unix(), current.ExpiresAt.Unix())
}

func TestBootstrap_ReissueFailureMeansGuest(t *testing.T) {
	m := session.NewManager(authGatewayStub{err: errors.New("401")})
	m.Bootstrap(context.Background())

	assert.False(t, m.LoggedIn())
	assert.Zero(t, m.Current())
}

func TestSetAccessToken_MalformedTokenMeansGuest(t *testing.T) {
	m := session.NewManager(authGatewayStub{})

	m.SetAccessToken("not-a-jwt")
	assert.False(t, m.LoggedIn())

	m.SetAccessToken(signedToken(t, jwt.MapClaims{"sub": "user-1"}))
	require.True(t, m.LoggedIn())

	// replacing a good token with garbage also clears identity
	m.SetAccessToken("still-not-a-jwt")
	assert.False(t, m.LoggedIn())
}

func TestSetAccessToken_EmptyClears(t *testing.T) {
	m := session.NewManager(authGatewayStub{})
	m.SetAccessToken(signedToken(t, jwt.MapClaims{"sub": "user-1"}))
	require.True(t, m.LoggedIn())

	m.SetAccessToken("")
	assert.False(t, m.LoggedIn())
}

func TestTransport_AttachesBearerWhenLoggedIn(t *testing.T) {
	var gotAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer backend.Close()

	m := session.NewManager(authGatewayStub{})
	client := &http.Client{Transport: session.Transport{Manager: m}}

	resp, err := client.Get(backend.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, gotAuth, "guest requests carry no Authorization header")

	token := signedToken(t, jwt.MapClaims{"sub": "user-1"})
	m.SetAccessToken(token)

	resp, err = client.Get(backend.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "Bearer "+token, gotAuth)
}
