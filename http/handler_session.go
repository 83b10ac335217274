package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tekcit/entity"
)

type sessionResponse struct {
	LoggedIn    bool       `json:"logged_in"`
	Subject     string     `json:"subject,omitempty"`
	UserID      int64      `json:"user_id,omitempty"`
	Role        string     `json:"role,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func newSessionResponse(session entity.Session) sessionResponse {
	resp := sessionResponse{
		LoggedIn:    session.LoggedIn(),
		Subject:     session.Subject,
		UserID:      session.UserID,
		Role:        session.Role,
		DisplayName: session.DisplayName,
	}
	if !session.ExpiresAt.IsZero() {
		resp.ExpiresAt = &session.ExpiresAt
	}
	return resp
}

// PostSessionBootstrap runs the token reissue. A guest outcome is a normal
// 200, not an error; the UI just renders the logged-out state.
func (s *Server) PostSessionBootstrap(c echo.Context) error {
	s.sessions.Bootstrap(c.Request().Context())
	return c.JSON(http.StatusOK, newSessionResponse(s.sessions.Current()))
}

func (s *Server) GetSession(c echo.Context) error {
	return c.JSON(http.StatusOK, newSessionResponse(s.sessions.Current()))
}

func (s *Server) DeleteSession(c echo.Context) error {
	s.sessions.Clear()
	return c.NoContent(http.StatusNoContent)
}
