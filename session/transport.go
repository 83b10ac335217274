package session

import "net/http"

// Transport attaches "Authorization: Bearer <token>" to every outgoing
// request while a token is present. Gateway clients get it injected; no
// caller deals with auth headers directly.
type Transport struct {
	Manager *Manager
	Base    http.RoundTripper
}

func (t Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	token := t.Manager.AccessToken()
	if token == "" {
		return base.RoundTrip(req)
	}

	// RoundTrippers must not mutate the original request
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)
	return base.RoundTrip(clone)
}
