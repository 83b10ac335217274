package gateway

import (
	"context"
	"sync"

	"tekcit/entity"
)

type FestivalMock struct {
	mock sync.Mutex

	Festivals   map[string]entity.Festival
	DetailCalls int
}

func (m *FestivalMock) Detail(ctx context.Context, festivalID string) (entity.Festival, error) {
	m.mock.Lock()
	defer m.mock.Unlock()

	m.DetailCalls++
	if festival, ok := m.Festivals[festivalID]; ok {
		return festival, nil
	}
	return entity.Festival{ID: festivalID, Name: "mocked-festival"}, nil
}

type PushMock struct {
	mock sync.Mutex

	RegisteredTokens []string
	RegisterErr      error
}

func (m *PushMock) RegisterToken(ctx context.Context, token string) error {
	m.mock.Lock()
	defer m.mock.Unlock()

	if m.RegisterErr != nil {
		return m.RegisterErr
	}
	m.RegisteredTokens = append(m.RegisteredTokens, token)
	return nil
}
