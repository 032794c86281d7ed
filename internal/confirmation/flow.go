package confirmation

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"caritas/internal/domain"
	"caritas/internal/dto"
	apperrors "caritas/internal/errors"
)

type FetchPhase string

const (
	FetchLoading FetchPhase = "loading"
	FetchReady   FetchPhase = "ready"
	FetchError   FetchPhase = "error"
	FetchNoID    FetchPhase = "no-id"
)

type AcceptPhase string

const (
	AcceptIdle      AcceptPhase = "idle"
	AcceptAccepting AcceptPhase = "accepting"
	AcceptAccepted  AcceptPhase = "accepted"
	AcceptError     AcceptPhase = "accept-error"
)

const (
	MsgNotAvailable = "data not available"
	MsgLoading      = "Cargando..."
	MsgAcceptFailed = "No se pudo aceptar la reserva."
	RedirectAdmin   = "/admin"
)

type Gateway interface {
	ServiceReservationDetails(ctx context.Context, id string) (*domain.ServiceReservationDetails, error)
	ConfirmServiceReservation(ctx context.Context, id string) error
}

// Flow is the confirmation page for one service reservation reference. The
// fetch and accept phases move independently.
type Flow struct {
	ref     string
	gateway Gateway
	logger  *zap.Logger

	mu       sync.Mutex
	fetch    FetchPhase
	accept   AcceptPhase
	fetching bool
	details  *domain.ServiceReservationDetails
	message  string
}

// NewFlow starts in no-id when ref is empty; such a flow never calls the API.
func NewFlow(ref string, gateway Gateway, logger *zap.Logger) *Flow {
	f := &Flow{
		ref:     ref,
		gateway: gateway,
		logger:  logger.With(zap.String("serviceReservationId", ref)),
		fetch:   FetchLoading,
		accept:  AcceptIdle,
	}
	if ref == "" {
		f.fetch = FetchNoID
	}
	return f
}

// Load fetches the service reservation details. A concurrent Load while one
// is running returns immediately.
func (f *Flow) Load(ctx context.Context) error {
	f.mu.Lock()
	if f.fetch == FetchNoID || f.fetching {
		f.mu.Unlock()
		return nil
	}
	f.fetching = true
	f.fetch = FetchLoading
	f.mu.Unlock()

	details, err := f.gateway.ServiceReservationDetails(ctx, f.ref)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetching = false

	if err != nil {
		f.logger.Error("fetching service reservation details failed", zap.Error(err))
		f.fetch = FetchError
		f.details = nil
		return err
	}

	f.fetch = FetchReady
	f.details = details
	return nil
}

// EnsureLoaded loads when nothing was fetched yet or the last fetch failed.
func (f *Flow) EnsureLoaded(ctx context.Context) error {
	f.mu.Lock()
	need := !f.fetching && (f.fetch == FetchLoading || f.fetch == FetchError)
	f.mu.Unlock()

	if !need {
		return nil
	}
	return f.Load(ctx)
}

// Confirm accepts the service reservation. It needs loaded details and is
// refused while a confirmation is running or after one succeeded. A failed
// confirmation can be retried.
func (f *Flow) Confirm(ctx context.Context) error {
	f.mu.Lock()
	switch {
	case f.fetch == FetchNoID:
		f.mu.Unlock()
		return apperrors.NewNotFoundError(MsgNotAvailable)
	case f.fetch != FetchReady:
		f.mu.Unlock()
		return apperrors.NewConflictError("service reservation details are not loaded")
	case f.accept == AcceptAccepting:
		f.mu.Unlock()
		return apperrors.NewConflictError("confirmation already in progress")
	case f.accept == AcceptAccepted:
		f.mu.Unlock()
		return apperrors.NewConflictError("service reservation already confirmed")
	}
	f.accept = AcceptAccepting
	f.message = ""
	f.mu.Unlock()

	err := f.gateway.ConfirmServiceReservation(ctx, f.ref)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.logger.Error("confirming service reservation failed", zap.Error(err))
		f.accept = AcceptError
		f.message = apperrors.UserMessage(err, MsgAcceptFailed)
		return err
	}

	f.logger.Info("service reservation confirmed")
	f.accept = AcceptAccepted
	return nil
}

func (f *Flow) busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetching || f.accept == AcceptAccepting
}

func (f *Flow) failed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetch == FetchError && !f.fetching && f.accept != AcceptAccepting && f.accept != AcceptAccepted
}

type View struct {
	ID       string                            `json:"id,omitempty"`
	Fetch    FetchPhase                        `json:"fetch"`
	Accept   AcceptPhase                       `json:"accept"`
	Details  *dto.ServiceReservationDetailsDTO `json:"details,omitempty"`
	Message  string                            `json:"message,omitempty"`
	Redirect string                            `json:"redirect,omitempty"`
}

func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{
		ID:     f.ref,
		Fetch:  f.fetch,
		Accept: f.accept,
	}

	switch f.fetch {
	case FetchNoID, FetchError:
		v.Message = MsgNotAvailable
	case FetchLoading:
		v.Message = MsgLoading
	case FetchReady:
		v.Details = toDetailsDTO(f.details)
	}

	switch f.accept {
	case AcceptError:
		v.Message = f.message
	case AcceptAccepted:
		v.Redirect = RedirectAdmin
	}
	return v
}

func toDetailsDTO(d *domain.ServiceReservationDetails) *dto.ServiceReservationDetailsDTO {
	if d == nil {
		return nil
	}
	return &dto.ServiceReservationDetailsDTO{
		OrderDate:  d.OrderDate,
		Count:      d.Count,
		HostelName: d.HostelName,
		Place:      d.Place,
		FromHostel: d.FromHostel,
		PickupTime: d.PickupTime,
	}
}
