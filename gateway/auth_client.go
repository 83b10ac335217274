package gateway

import (
	"context"
	"fmt"
)

type AuthClient struct {
	clients *Clients
}

func NewAuthClient(clients *Clients) AuthClient {
	return AuthClient{clients: clients}
}

type reissueResponse struct {
	AccessToken string `json:"accessToken"`
}

// Reissue exchanges the HTTP-only refresh credential for a fresh access
// token. A failure here simply means "not logged in"; the caller decides
// what to do with that.
func (c AuthClient) Reissue(ctx context.Context) (string, error) {
	var resp reissueResponse
	if err := c.clients.postJSON(ctx, "/api/auth/users/reissue", nil, &resp); err != nil {
		return "", fmt.Errorf("could not reissue access token: %w", err)
	}
	return resp.AccessToken, nil
}
