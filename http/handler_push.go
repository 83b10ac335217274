package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type pushRegisterRequest struct {
	Token string `json:"token"`
}

func (s *Server) PostPushRegister(c echo.Context) error {
	var request pushRegisterRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	if request.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}

	if err := s.push.RegisterToken(c.Request().Context(), request.Token); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "could not register push token")
	}

	return c.NoContent(http.StatusNoContent)
}
