package reservation

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"caritas/internal/commons"
	"caritas/internal/domain"
	"caritas/internal/dto"
	"caritas/internal/editor"
	apperrors "caritas/internal/errors"
)

const (
	msgLoadFailed   = "No se pudieron cargar las reservas."
	msgDetailFailed = "No se pudo cargar el detalle de la reserva."
	msgAcceptFailed = "No se pudo aceptar la reserva."
	msgRejectFailed = "No se pudo rechazar la reserva."
	msgFinishFailed = "No se pudo finalizar la reserva."
	msgNotAvailable = "data not available"
)

type Manager interface {
	Load(ctx context.Context) error
	EnsureLoaded(ctx context.Context) error
	Accept(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	Finalize(ctx context.Context, id string) error
	SelectList(which string) error
	OpenDetail(ctx context.Context, id string) (*domain.DetailedReservation, error)
	Reservation(id string) (domain.Reservation, bool)
	Replace(r domain.Reservation) error
	Snapshot() Snapshot
}

type Controller struct {
	lifecycle Manager
	catalog   editor.Catalog
	logger    *zap.Logger
}

func NewController(lifecycle Manager, catalog editor.Catalog, logger *zap.Logger) *Controller {
	return &Controller{
		lifecycle: lifecycle,
		catalog:   catalog,
		logger:    logger,
	}
}

// Routes mounts the reservation endpoints; the caller decides the prefix.
func (c *Controller) Routes(r chi.Router) {
	r.Get("/", c.HandleList)
	r.Put("/list", c.HandleSelectList)
	r.Get("/{id}", c.HandleDetail)
	r.Post("/{id}/accept", c.HandleTransition(ActionAccept))
	r.Post("/{id}/reject", c.HandleTransition(ActionReject))
	r.Post("/{id}/finalize", c.HandleTransition(ActionFinalize))
	r.Get("/{id}/editor", c.HandleEditor)
	r.Put("/{id}/editor", c.HandleSaveEditor)
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var err error
	if r.URL.Query().Get("refresh") == "true" {
		err = c.lifecycle.Load(r.Context())
	} else {
		err = c.lifecycle.EnsureLoaded(r.Context())
	}
	if err != nil {
		commons.WriteError(w, traceID, err, msgLoadFailed, logger)
		return
	}

	if list := r.URL.Query().Get("list"); list != "" {
		if err := c.lifecycle.SelectList(list); err != nil {
			commons.WriteError(w, traceID, err, "", logger)
			return
		}
	}

	c.writeList(w, traceID, c.lifecycle.Snapshot())
}

func (c *Controller) HandleSelectList(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.SelectListRequest
	if err := commons.DecodeJSON(w, r, &req); err != nil {
		commons.WriteDecodeError(w, traceID, err, logger)
		return
	}

	if err := commons.ValidateStruct(req); err != nil {
		commons.WriteError(w, traceID, err, "", logger)
		return
	}

	if err := c.lifecycle.SelectList(req.List); err != nil {
		commons.WriteError(w, traceID, err, "", logger)
		return
	}

	c.writeList(w, traceID, c.lifecycle.Snapshot())
}

func (c *Controller) writeList(w http.ResponseWriter, traceID string, snap Snapshot) {
	source := snap.Pending
	if snap.Active == domain.ListConfirmed {
		source = snap.Confirmed
	}

	items := make([]dto.ReservationView, len(source))
	for i, res := range source {
		items[i] = toReservationView(res, snap.IsInFlight(res.ID))
	}

	commons.WriteJSON(w, http.StatusOK, dto.ReservationListResponse{
		TraceID:        traceID,
		Active:         string(snap.Active),
		PendingCount:   len(snap.Pending),
		ConfirmedCount: len(snap.Confirmed),
		Items:          items,
		DetailID:       snap.DetailID,
	}, c.logger)
}

func (c *Controller) HandleTransition(action Action) http.HandlerFunc {
	var (
		run      func(ctx context.Context, id string) error
		state    domain.State
		fallback string
	)
	switch action {
	case ActionAccept:
		run, state, fallback = c.lifecycle.Accept, domain.StateActive, msgAcceptFailed
	case ActionReject:
		run, state, fallback = c.lifecycle.Reject, domain.StateCancelled, msgRejectFailed
	default:
		run, state, fallback = c.lifecycle.Finalize, domain.StateInactive, msgFinishFailed
	}

	return func(w http.ResponseWriter, r *http.Request) {
		traceID := commons.TraceID(r.Context())
		id := chi.URLParam(r, "id")
		logger := c.logger.With(
			zap.String("traceId", traceID),
			zap.String("reservationId", id),
			zap.String("action", string(action)))

		if err := run(r.Context(), id); err != nil {
			commons.WriteError(w, traceID, err, fallback, logger)
			return
		}

		snap := c.lifecycle.Snapshot()
		commons.WriteJSON(w, http.StatusOK, dto.TransitionResponse{
			TraceID:       traceID,
			ReservationID: id,
			Action:        string(action),
			State:         string(state),
			Active:        string(snap.Active),
			DetailID:      snap.DetailID,
			Timestamp:     time.Now().UTC(),
		}, logger)
	}
}

func (c *Controller) HandleDetail(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	id := chi.URLParam(r, "id")
	logger := c.logger.With(zap.String("traceId", traceID), zap.String("reservationId", id))

	detail, err := c.lifecycle.OpenDetail(r.Context(), id)
	if err != nil {
		if _, ok := apperrors.IsRemoteError(err); ok {
			logger.Warn("reservation detail unavailable", zap.Error(err))
		}
		commons.WriteError(w, traceID, err, msgDetailFailed, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toDetailedView(traceID, detail), logger)
}

func (c *Controller) HandleEditor(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	id := chi.URLParam(r, "id")

	res, ok := c.lifecycle.Reservation(id)
	if !ok {
		commons.WriteError(w, traceID, apperrors.NewNotFoundError(msgNotAvailable), "", c.logger)
		return
	}

	c.writeEditor(w, traceID, editor.New(res, c.catalog))
}

// HandleSaveEditor replaces the roster and service rows of a reservation.
// The change stays in the console; the API is not called.
func (c *Controller) HandleSaveEditor(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	id := chi.URLParam(r, "id")
	logger := c.logger.With(zap.String("traceId", traceID), zap.String("reservationId", id))

	var req dto.EditorRequest
	if err := commons.DecodeJSON(w, r, &req); err != nil {
		commons.WriteDecodeError(w, traceID, err, logger)
		return
	}

	if err := commons.ValidateStruct(req); err != nil {
		commons.WriteError(w, traceID, err, "", logger)
		return
	}

	res, ok := c.lifecycle.Reservation(id)
	if !ok {
		commons.WriteError(w, traceID, apperrors.NewNotFoundError(msgNotAvailable), "", logger)
		return
	}

	draft := editor.New(res, c.catalog)
	draft.Apply(req.Names, fromAssignmentDTOs(req.Services))

	saved, err := draft.Save()
	if err != nil {
		commons.WriteError(w, traceID, err, "", logger)
		return
	}
	if err := c.lifecycle.Replace(saved); err != nil {
		commons.WriteError(w, traceID, err, "", logger)
		return
	}

	logger.Info("reservation roster saved",
		zap.Int("people", saved.People),
		zap.Int("services", len(saved.Services)))

	c.writeEditor(w, traceID, editor.New(saved, c.catalog))
}

func (c *Controller) writeEditor(w http.ResponseWriter, traceID string, e *editor.Editor) {
	commons.WriteJSON(w, http.StatusOK, dto.EditorView{
		TraceID:       traceID,
		ReservationID: e.ReservationID(),
		Names:         e.Names(),
		Services:      toAssignmentDTOs(e.Services()),
	}, c.logger)
}
