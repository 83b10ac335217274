package gateway

import (
	"context"
	"fmt"
)

type PushClient struct {
	clients *Clients
}

func NewPushClient(clients *Clients) PushClient {
	return PushClient{clients: clients}
}

type registerTokenRequest struct {
	Token string `json:"token"`
}

// RegisterToken hands the browser's messaging token to the backend so it
// can address this device. Delivery and rendering of notifications stay
// entirely with the browser.
func (c PushClient) RegisterToken(ctx context.Context, token string) error {
	if err := c.clients.postJSON(ctx, "/api/push/register", registerTokenRequest{Token: token}, nil); err != nil {
		return fmt.Errorf("could not register push token: %w", err)
	}
	return nil
}
