package gateway

import (
	"context"
	"sync"
)

type AuthMock struct {
	mock sync.Mutex

	Token        string
	Err          error
	ReissueCalls int
}

func (m *AuthMock) Reissue(ctx context.Context) (string, error) {
	m.mock.Lock()
	defer m.mock.Unlock()

	m.ReissueCalls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Token, nil
}
