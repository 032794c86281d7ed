package reservation

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"caritas/internal/domain"
	"caritas/internal/dto"
	apperrors "caritas/internal/errors"
)

type Gateway interface {
	Reservations(ctx context.Context) (*dto.ReservationsResponse, error)
	Reservation(ctx context.Context, id string) (*domain.DetailedReservation, error)
	UpdateReservationState(ctx context.Context, id string, state domain.State) error
}

// FinalizeFunc replaces the default finalize transition (a remote update to
// INACTIVE) for reservations of the confirmed list.
type FinalizeFunc func(ctx context.Context, id string) error

type Option func(*Lifecycle)

func WithFinalizer(fn FinalizeFunc) Option {
	return func(l *Lifecycle) {
		l.finalize = fn
	}
}

type Action string

const (
	ActionDetails  Action = "details"
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionFinalize Action = "finalize"
)

// Actions lists what staff can do with r, derived from its state.
func Actions(r domain.Reservation) []Action {
	switch r.State.List() {
	case domain.ListPending:
		return []Action{ActionDetails, ActionAccept, ActionReject}
	case domain.ListConfirmed:
		return []Action{ActionDetails, ActionFinalize}
	default:
		return nil
	}
}

type Snapshot struct {
	Active    domain.List
	Pending   []domain.Reservation
	Confirmed []domain.Reservation
	InFlight  []string
	DetailID  string
}

func (s Snapshot) IsInFlight(id string) bool {
	i := sort.SearchStrings(s.InFlight, id)
	return i < len(s.InFlight) && s.InFlight[i] == id
}

// Lifecycle owns the reservations shown in the admin console. Every entry
// carries its own state; the pending and confirmed lists are views over the
// one collection. Local state only changes after the remote API accepted a
// transition, and the lock is never held while the API is being called.
//
// Each applied transition bumps gen and records it in changed. A Load keeps
// the local state of ids changed after its fetch started, and a Load older
// than the last applied one is discarded.
type Lifecycle struct {
	gateway  Gateway
	finalize FinalizeFunc
	logger   *zap.Logger

	mu        sync.Mutex
	entries   map[string]*domain.Reservation
	order     []string
	confirmed []string
	inFlight  map[string]struct{}
	active    domain.List
	detailID  string
	loaded    bool

	gen         uint64
	changed     map[string]uint64
	loadSeq     uint64
	appliedLoad uint64
}

func NewLifecycle(gateway Gateway, logger *zap.Logger, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		gateway:  gateway,
		logger:   logger,
		entries:  map[string]*domain.Reservation{},
		inFlight: map[string]struct{}{},
		changed:  map[string]uint64{},
		active:   domain.ListPending,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load replaces the collection with the API's current pending and active
// reservations. Roster and service edits made locally survive for ids that
// are still present, as do transitions applied while the fetch was running.
// On failure the previous collection is kept.
func (l *Lifecycle) Load(ctx context.Context) error {
	l.mu.Lock()
	l.loadSeq++
	seq, since := l.loadSeq, l.gen
	l.mu.Unlock()

	resp, err := l.gateway.Reservations(ctx)
	if err != nil {
		l.logger.Error("loading reservations failed", zap.Error(err))
		return err
	}

	entries := make(map[string]*domain.Reservation, len(resp.PendingReservation)+len(resp.ActiveReservations))
	var order, confirmed []string

	add := func(item dto.ReservationItem, state domain.State) {
		r, err := dto.ToReservation(item, state)
		if err != nil {
			l.logger.Warn("skipping malformed reservation",
				zap.String("reservationId", item.ReservationID),
				zap.Error(err))
			return
		}
		if _, dup := entries[r.ID]; dup {
			// active wins over pending: it is the later state
			l.logger.Warn("reservation listed twice", zap.String("reservationId", r.ID))
			if state == domain.StateActive && entries[r.ID].State != state {
				entries[r.ID].State = state
				confirmed = append(confirmed, r.ID)
			}
			return
		}
		entries[r.ID] = &r
		order = append(order, r.ID)
		if state == domain.StateActive {
			confirmed = append(confirmed, r.ID)
		}
	}

	for _, item := range resp.PendingReservation {
		add(item, domain.StatePending)
	}
	for _, item := range resp.ActiveReservations {
		add(item, domain.StateActive)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if seq < l.appliedLoad {
		l.logger.Debug("discarding stale reservations load", zap.Uint64("seq", seq))
		return nil
	}
	l.appliedLoad = seq

	for id, gen := range l.changed {
		if gen <= since {
			delete(l.changed, id)
			continue
		}
		prev, known := l.entries[id]
		r, listed := entries[id]
		if !known || !listed || r.State == prev.State {
			continue
		}
		r.State = prev.State
		confirmed = remove(confirmed, id)
		if r.State == domain.StateActive {
			confirmed = prepend(confirmed, id)
		}
	}

	for id, r := range entries {
		if prev, ok := l.entries[id]; ok {
			if prev.Names != nil {
				r.Names = append([]string(nil), prev.Names...)
				r.People = prev.People
			}
			if prev.Services != nil {
				r.Services = append([]domain.ServiceAssignment(nil), prev.Services...)
			}
		}
	}

	l.entries = entries
	l.order = order
	l.confirmed = confirmed
	l.loaded = true
	if l.detailID != "" {
		if r, ok := l.entries[l.detailID]; !ok || r.State.IsTerminal() {
			l.detailID = ""
		}
	}

	l.logger.Info("reservations loaded",
		zap.Int("pending", len(order)-len(confirmed)),
		zap.Int("confirmed", len(confirmed)))
	return nil
}

// EnsureLoaded loads the collection once; later calls are no-ops.
func (l *Lifecycle) EnsureLoaded(ctx context.Context) error {
	l.mu.Lock()
	loaded := l.loaded
	l.mu.Unlock()

	if loaded {
		return nil
	}
	return l.Load(ctx)
}

func (l *Lifecycle) Pending() []domain.Reservation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pendingLocked()
}

func (l *Lifecycle) Confirmed() []domain.Reservation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.confirmedLocked()
}

func (l *Lifecycle) pendingLocked() []domain.Reservation {
	out := make([]domain.Reservation, 0, len(l.order))
	for _, id := range l.order {
		if r := l.entries[id]; r.State == domain.StatePending {
			out = append(out, r.Clone())
		}
	}
	return out
}

func (l *Lifecycle) confirmedLocked() []domain.Reservation {
	out := make([]domain.Reservation, 0, len(l.confirmed))
	for _, id := range l.confirmed {
		if r, ok := l.entries[id]; ok && r.State == domain.StateActive {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Accept moves a pending reservation to the confirmed list once the API has
// set it ACTIVE. The confirmed list becomes the active view and the
// reservation is selected for the detail panel.
func (l *Lifecycle) Accept(ctx context.Context, id string) error {
	return l.transition(ctx, id, domain.StatePending, ActionAccept,
		func(ctx context.Context) error {
			return l.gateway.UpdateReservationState(ctx, id, domain.StateActive)
		},
		func(r *domain.Reservation) {
			r.State = domain.StateActive
			l.confirmed = prepend(remove(l.confirmed, id), id)
			l.active = domain.ListConfirmed
			l.detailID = id
		})
}

// Reject cancels a pending reservation. It never reaches the confirmed list.
func (l *Lifecycle) Reject(ctx context.Context, id string) error {
	return l.transition(ctx, id, domain.StatePending, ActionReject,
		func(ctx context.Context) error {
			return l.gateway.UpdateReservationState(ctx, id, domain.StateCancelled)
		},
		func(r *domain.Reservation) {
			r.State = domain.StateCancelled
			if l.detailID == id {
				l.detailID = ""
			}
		})
}

// Finalize closes a confirmed reservation with the configured finalizer, or a
// remote update to INACTIVE when there is none.
func (l *Lifecycle) Finalize(ctx context.Context, id string) error {
	return l.FinalizeWith(ctx, id, l.finalize)
}

// FinalizeWith is Finalize with a per-call finalizer; nil falls back to the
// configured one.
func (l *Lifecycle) FinalizeWith(ctx context.Context, id string, fn FinalizeFunc) error {
	if fn == nil {
		fn = l.finalize
	}
	if fn == nil {
		fn = func(ctx context.Context, id string) error {
			return l.gateway.UpdateReservationState(ctx, id, domain.StateInactive)
		}
	}

	return l.transition(ctx, id, domain.StateActive, ActionFinalize,
		func(ctx context.Context) error {
			return fn(ctx, id)
		},
		func(r *domain.Reservation) {
			r.State = domain.StateInactive
			l.confirmed = remove(l.confirmed, id)
			if l.detailID == id {
				l.detailID = ""
			}
		})
}

func (l *Lifecycle) transition(ctx context.Context, id string, from domain.State, action Action, remote func(ctx context.Context) error, apply func(r *domain.Reservation)) error {
	logger := l.logger.With(zap.String("reservationId", id), zap.String("action", string(action)))

	l.mu.Lock()
	if err := l.claimLocked(id, from); err != nil {
		l.mu.Unlock()
		logger.Debug("transition ignored", zap.Error(err))
		return err
	}
	l.mu.Unlock()

	err := remote(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.inFlight, id)

	if err != nil {
		logger.Error("transition failed", zap.Error(err))
		return err
	}

	r, ok := l.entries[id]
	if !ok {
		// a reload dropped the entry while the call was running
		logger.Warn("transition applied to a reservation no longer listed")
		return nil
	}
	apply(r)
	l.gen++
	l.changed[id] = l.gen
	logger.Info("transition applied", zap.String("state", string(r.State)))
	return nil
}

func (l *Lifecycle) claimLocked(id string, from domain.State) error {
	r, ok := l.entries[id]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("reservation %s not found", id))
	}
	if r.State != from {
		return apperrors.NewConflictError(fmt.Sprintf("reservation %s is not in the %s list", id, from.List()))
	}
	if _, busy := l.inFlight[id]; busy {
		return apperrors.NewConflictError(fmt.Sprintf("reservation %s already has an operation in progress", id))
	}
	l.inFlight[id] = struct{}{}
	return nil
}

func (l *Lifecycle) SelectList(which string) error {
	list, ok := domain.ParseList(which)
	if !ok {
		return apperrors.NewValidationError("unknown list", apperrors.ValidationDetail{
			Field:   "list",
			Message: "list must be pending or confirmed",
		})
	}

	l.mu.Lock()
	l.active = list
	l.mu.Unlock()
	return nil
}

// SelectDetail points the detail panel at id; an empty id clears it.
func (l *Lifecycle) SelectDetail(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id == "" {
		l.detailID = ""
		return nil
	}
	r, ok := l.entries[id]
	if !ok || r.State.IsTerminal() {
		return apperrors.NewNotFoundError(fmt.Sprintf("reservation %s not found", id))
	}
	l.detailID = id
	return nil
}

func (l *Lifecycle) DetailID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.detailID
}

// Detail fetches the full record of the selected reservation from the API.
func (l *Lifecycle) Detail(ctx context.Context) (*domain.DetailedReservation, error) {
	id := l.DetailID()
	if id == "" {
		return nil, apperrors.NewNotFoundError("no reservation selected")
	}
	return l.gateway.Reservation(ctx, id)
}

// OpenDetail selects id and fetches its full record.
func (l *Lifecycle) OpenDetail(ctx context.Context, id string) (*domain.DetailedReservation, error) {
	if err := l.SelectDetail(id); err != nil {
		return nil, err
	}
	return l.gateway.Reservation(ctx, id)
}

func (l *Lifecycle) Reservation(id string) (domain.Reservation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.entries[id]
	if !ok || r.State.IsTerminal() {
		return domain.Reservation{}, false
	}
	return r.Clone(), true
}

// Replace stores an edited reservation. The stored state is kept whatever
// state r carries: only transitions change it.
func (l *Lifecycle) Replace(r domain.Reservation) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur, ok := l.entries[r.ID]
	if !ok || cur.State.IsTerminal() {
		return apperrors.NewNotFoundError(fmt.Sprintf("reservation %s not found", r.ID))
	}

	next := r.Clone()
	next.State = cur.State
	*cur = next
	return nil
}

func (l *Lifecycle) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	inFlight := make([]string, 0, len(l.inFlight))
	for id := range l.inFlight {
		inFlight = append(inFlight, id)
	}
	sort.Strings(inFlight)

	return Snapshot{
		Active:    l.active,
		Pending:   l.pendingLocked(),
		Confirmed: l.confirmedLocked(),
		InFlight:  inFlight,
		DetailID:  l.detailID,
	}
}

func remove(ids []string, id string) []string {
	out := ids[:0:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

func prepend(ids []string, id string) []string {
	return append([]string{id}, ids...)
}
