package gateway

import (
	"context"
	"fmt"

	"tekcit/entity"
)

type FestivalClient struct {
	clients *Clients
}

func NewFestivalClient(clients *Clients) FestivalClient {
	return FestivalClient{clients: clients}
}

func (c FestivalClient) Detail(ctx context.Context, festivalID string) (entity.Festival, error) {
	var festival entity.Festival
	if err := c.clients.getJSON(ctx, "/api/festivals/"+festivalID, nil, &festival); err != nil {
		return entity.Festival{}, fmt.Errorf("could not fetch festival detail: %w", err)
	}
	return festival, nil
}
