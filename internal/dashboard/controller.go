package dashboard

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"caritas/internal/commons"
	"caritas/internal/dto"
)

type Loader interface {
	Aggregate(ctx context.Context) (*Dashboard, error)
}

type Controller struct {
	loader Loader
	logger *zap.Logger
}

func NewController(loader Loader, logger *zap.Logger) *Controller {
	return &Controller{
		loader: loader,
		logger: logger,
	}
}

func (c *Controller) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	d, err := c.loader.Aggregate(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("dashboard request abandoned")
			return
		}
		commons.WriteError(w, traceID, err, "", logger)
		return
	}

	resp := dto.DashboardResponse{
		TraceID:             traceID,
		MonthlyReservations: d.MonthlyReservations,
		MonthlyPersons:      d.MonthlyPersons,
		States:              d.States,
		ServiceUsage:        d.ServiceUsage,
	}
	if len(d.Errors) > 0 {
		resp.Errors = make(map[string]string, len(d.Errors))
		for ds, e := range d.Errors {
			resp.Errors[string(ds)] = e.Error()
		}
	}

	commons.WriteJSON(w, http.StatusOK, resp, logger)
}
