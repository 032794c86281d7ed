package confirmation

import (
	"net/http"

	"go.uber.org/zap"

	"caritas/internal/commons"
)

type Controller struct {
	registry *Registry
	logger   *zap.Logger
}

func NewController(registry *Registry, logger *zap.Logger) *Controller {
	return &Controller{
		registry: registry,
		logger:   logger,
	}
}

type viewResponse struct {
	TraceID string `json:"traceId"`
	View
}

// HandleView renders the confirmation page state. Fetch failures are part of
// the view, not an HTTP error.
func (c *Controller) HandleView(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	ref := r.URL.Query().Get("id")
	flow := c.registry.Flow(ref)

	_ = flow.EnsureLoaded(r.Context())
	c.registry.Settle(ref)

	commons.WriteJSON(w, http.StatusOK, viewResponse{TraceID: traceID, View: flow.View()}, c.logger)
}

// HandleConfirm accepts the service reservation and sends staff back to the
// admin shell.
func (c *Controller) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	ref := r.URL.Query().Get("id")
	logger := c.logger.With(zap.String("traceId", traceID), zap.String("serviceReservationId", ref))

	flow := c.registry.Flow(ref)
	if err := flow.EnsureLoaded(r.Context()); err != nil {
		c.registry.Settle(ref)
		commons.WriteError(w, traceID, err, MsgNotAvailable, logger)
		return
	}

	if err := flow.Confirm(r.Context()); err != nil {
		commons.WriteError(w, traceID, err, MsgAcceptFailed, logger)
		return
	}

	http.Redirect(w, r, RedirectAdmin, http.StatusSeeOther)
}
