package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"tekcit/cache"
	"tekcit/entity"
)

// GetFestival is a cached read-through: festival listings are near-static,
// so the staleness window is minutes rather than seconds.
func (s *Server) GetFestival(c echo.Context) error {
	festivalID := c.Param("festival_id")

	value, err := s.queries.GetOrFetch(
		c.Request().Context(),
		cache.Key("festivalDetail", festivalID),
		s.festivalTTL,
		func(ctx context.Context) (any, error) {
			return s.festivals.Detail(ctx, festivalID)
		},
	)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "could not load festival")
	}

	return c.JSON(http.StatusOK, value.(entity.Festival))
}
