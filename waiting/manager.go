// Package waiting drives the client side of the booking admission queue.
// The backend owns ordering and the admission decision; this manager only
// requests a slot, relays the current position, and politely signals when
// the user leaves.
package waiting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tekcit/entity"
	"tekcit/gateway"
	"tekcit/log"
	"tekcit/metrics"
	"tekcit/retry"
)

type BookingGateway interface {
	Enter(ctx context.Context, festivalID, reservationDate string) (gateway.EnterResponse, error)
}

type EventBus interface {
	Publish(ctx context.Context, event any) error
}

var (
	ErrNotWaiting = errors.New("no waiting ticket for this festival and date")
)

// errStillWaiting keeps the poll loop going; it never leaves the manager.
var errStillWaiting = errors.New("still waiting")

type ticketState struct {
	ticket     entity.WaitingTicket
	inFlight   bool
	cancelPoll context.CancelFunc
}

type Manager struct {
	mu      sync.Mutex
	tickets map[string]*ticketState

	booking BookingGateway
	bus     EventBus

	pollInterval  time.Duration
	signalTimeout time.Duration

	rootCtx context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup
}

func NewManager(booking BookingGateway, bus EventBus, pollInterval time.Duration) *Manager {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	rootCtx, stop := context.WithCancel(context.Background())

	return &Manager{
		tickets:       map[string]*ticketState{},
		booking:       booking,
		bus:           bus,
		pollInterval:  pollInterval,
		signalTimeout: 3 * time.Second,
		rootCtx:       rootCtx,
		stop:          stop,
	}
}

// Stop cancels every poll loop and waits for in-flight signal dispatches.
func (m *Manager) Stop() {
	m.stop()
	m.wg.Wait()
}

func key(festivalID, reservationDate string) string {
	return festivalID + "/" + reservationDate
}

// Enter requests a queue slot. With a ticket already entering or waiting it
// returns the current snapshot instead of issuing a duplicate request.
// immediateEntry or a zero waiting number admits on the spot; otherwise the
// ticket waits and a poll loop keeps the position fresh.
func (m *Manager) Enter(ctx context.Context, festivalID, reservationDate string) (entity.WaitingTicket, error) {
	k := key(festivalID, reservationDate)

	m.mu.Lock()
	state, ok := m.tickets[k]
	if !ok {
		state = &ticketState{
			ticket: entity.WaitingTicket{
				FestivalID:      festivalID,
				ReservationDate: reservationDate,
				Status:          entity.WaitingStatusIdle,
			},
		}
		m.tickets[k] = state
	}

	// at most one outstanding enter/poll request per pair
	if state.inFlight || state.ticket.Status == entity.WaitingStatusWaiting || state.ticket.Status == entity.WaitingStatusAdmitted {
		ticket := state.ticket
		m.mu.Unlock()
		return ticket, nil
	}

	state.inFlight = true
	state.ticket.Status = entity.WaitingStatusEntering
	m.mu.Unlock()

	resp, err := m.booking.Enter(ctx, festivalID, reservationDate)

	m.mu.Lock()
	defer m.mu.Unlock()
	state.inFlight = false

	if err != nil {
		state.ticket.Status = entity.WaitingStatusIdle
		return entity.WaitingTicket{}, fmt.Errorf("queue entry failed: %w", err)
	}

	metrics.QueueEnters.Inc()
	m.applyLocked(state, resp)

	if state.ticket.Status == entity.WaitingStatusWaiting && state.cancelPoll == nil {
		m.startPollLocked(k, state)
	}

	return state.ticket, nil
}

// applyLocked folds one enter/poll response into the state machine.
func (m *Manager) applyLocked(state *ticketState, resp gateway.EnterResponse) {
	state.ticket.UserID = resp.UserID
	state.ticket.Message = resp.Message
	state.ticket.UpdatedAt = time.Now()

	if resp.ImmediateEntry || resp.WaitingNumber == 0 {
		// an admitted user never sees a waiting number
		state.ticket.WaitingNumber = 0
		state.ticket.ImmediateEntry = resp.ImmediateEntry
		state.ticket.Status = entity.WaitingStatusAdmitted
		metrics.QueueAdmissions.Inc()

		if state.cancelPoll != nil {
			state.cancelPoll()
			state.cancelPoll = nil
		}
		return
	}

	state.ticket.WaitingNumber = resp.WaitingNumber
	state.ticket.ImmediateEntry = false
	state.ticket.Status = entity.WaitingStatusWaiting
}

func (m *Manager) startPollLocked(k string, state *ticketState) {
	pollCtx, cancel := context.WithCancel(m.rootCtx)
	state.cancelPoll = cancel

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()

		_ = retry.Do(pollCtx, retry.Policy{Interval: m.pollInterval}, func(ctx context.Context) error {
			return m.poll(ctx, k)
		})
	}()
}

func (m *Manager) poll(ctx context.Context, k string) error {
	m.mu.Lock()
	state, ok := m.tickets[k]
	if !ok || state.ticket.Status != entity.WaitingStatusWaiting || state.inFlight {
		m.mu.Unlock()
		return nil
	}
	state.inFlight = true
	festivalID, date := state.ticket.FestivalID, state.ticket.ReservationDate
	m.mu.Unlock()

	resp, err := m.booking.Enter(ctx, festivalID, date)

	m.mu.Lock()
	defer m.mu.Unlock()
	state.inFlight = false

	// an exit or release may have landed while the request was in flight;
	// a late response must not resurrect a ticket that already left
	if state.ticket.Status != entity.WaitingStatusWaiting {
		return nil
	}

	if err != nil {
		// transient poll failure keeps the last known position
		log.FromContext(ctx).WithError(err).Debug("waiting queue poll failed")
		return errStillWaiting
	}

	m.applyLocked(state, resp)

	if state.ticket.Status == entity.WaitingStatusWaiting {
		return errStillWaiting
	}
	return nil
}

// Tickets returns a snapshot of every ticket the manager knows about.
func (m *Manager) Tickets() []entity.WaitingTicket {
	m.mu.Lock()
	defer m.mu.Unlock()

	tickets := make([]entity.WaitingTicket, 0, len(m.tickets))
	for _, state := range m.tickets {
		tickets = append(tickets, state.ticket)
	}
	return tickets
}

// Status returns the current snapshot for the pair.
func (m *Manager) Status(festivalID, reservationDate string) (entity.WaitingTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.tickets[key(festivalID, reservationDate)]
	if !ok {
		return entity.WaitingTicket{}, ErrNotWaiting
	}
	return state.ticket, nil
}

// Release marks an admitted ticket as left and dispatches exactly one
// best-effort release signal. It never blocks on, retries, or reports the
// signal's outcome.
func (m *Manager) Release(festivalID, reservationDate string) error {
	m.mu.Lock()
	state, ok := m.tickets[key(festivalID, reservationDate)]
	if !ok || state.ticket.Status != entity.WaitingStatusAdmitted {
		m.mu.Unlock()
		return ErrNotWaiting
	}

	state.ticket.Status = entity.WaitingStatusReleased
	state.ticket.UpdatedAt = time.Now()
	userID := state.ticket.UserID
	if state.cancelPoll != nil {
		state.cancelPoll()
		state.cancelPoll = nil
	}
	m.mu.Unlock()

	m.dispatch("release", entity.WaitingReleased{
		Header:          entity.NewEventHeader(),
		FestivalID:      festivalID,
		ReservationDate: reservationDate,
		UserID:          userID,
	})
	return nil
}

// Exit is the voluntary leave from the Waiting state, with the same
// dispatch-and-discard semantics as Release.
func (m *Manager) Exit(festivalID, reservationDate string) error {
	m.mu.Lock()
	state, ok := m.tickets[key(festivalID, reservationDate)]
	if !ok || state.ticket.Status != entity.WaitingStatusWaiting {
		m.mu.Unlock()
		return ErrNotWaiting
	}

	state.ticket.Status = entity.WaitingStatusExited
	state.ticket.UpdatedAt = time.Now()
	userID := state.ticket.UserID
	if state.cancelPoll != nil {
		state.cancelPoll()
		state.cancelPoll = nil
	}
	m.mu.Unlock()

	m.dispatch("exit", entity.WaitingExited{
		Header:          entity.NewEventHeader(),
		FestivalID:      festivalID,
		ReservationDate: reservationDate,
		UserID:          userID,
	})
	return nil
}

// dispatch publishes a leave signal on a detached, time-bounded context.
// The caller's navigation must never be gated on this, so there is no
// result channel and no retry; a failed publish is logged and dropped.
func (m *Manager) dispatch(name string, event any) {
	metrics.SignalsDispatched.WithLabelValues(name).Inc()

	ctx, cancel := context.WithTimeout(context.Background(), m.signalTimeout)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()

		if err := m.bus.Publish(ctx, event); err != nil {
			log.FromContext(ctx).WithError(err).WithField("signal", name).
				Warn("leave signal publish failed, dropping")
		}
	}()
}
