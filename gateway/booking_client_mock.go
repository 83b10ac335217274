package gateway

import (
	"context"
	"sync"
)

// BookingMock scripts queue responses and records the best-effort signals
// it receives.
type BookingMock struct {
	mock sync.Mutex

	// EnterResponses are served in order; the last one repeats once the
	// script runs out.
	EnterResponses []EnterResponse
	EnterErr       error

	EnterCalls   int
	ReleaseCalls []string
	ExitCalls    []string
	ReleaseErr   error
	ExitErr      error
}

func (m *BookingMock) Enter(ctx context.Context, festivalID, reservationDate string) (EnterResponse, error) {
	m.mock.Lock()
	defer m.mock.Unlock()

	m.EnterCalls++
	if m.EnterErr != nil {
		return EnterResponse{}, m.EnterErr
	}

	if len(m.EnterResponses) == 0 {
		return EnterResponse{}, nil
	}

	resp := m.EnterResponses[0]
	if len(m.EnterResponses) > 1 {
		m.EnterResponses = m.EnterResponses[1:]
	}
	return resp, nil
}

func (m *BookingMock) Release(ctx context.Context, festivalID, reservationDate string) error {
	m.mock.Lock()
	defer m.mock.Unlock()

	m.ReleaseCalls = append(m.ReleaseCalls, festivalID+"/"+reservationDate)
	return m.ReleaseErr
}

func (m *BookingMock) Exit(ctx context.Context, festivalID, reservationDate string) error {
	m.mock.Lock()
	defer m.mock.Unlock()

	m.ExitCalls = append(m.ExitCalls, festivalID+"/"+reservationDate)
	return m.ExitErr
}

func (m *BookingMock) Released() []string {
	m.mock.Lock()
	defer m.mock.Unlock()
	return append([]string(nil), m.ReleaseCalls...)
}

func (m *BookingMock) Exited() []string {
	m.mock.Lock()
	defer m.mock.Unlock()
	return append([]string(nil), m.ExitCalls...)
}
