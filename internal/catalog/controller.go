package catalog

import (
	"net/http"

	"go.uber.org/zap"

	"caritas/internal/commons"
)

type serviceResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type catalogResponse struct {
	TraceID  string            `json:"traceId"`
	Services []serviceResponse `json:"services"`
}

type Controller struct {
	catalog Catalog
	logger  *zap.Logger
}

func NewController(catalog Catalog, logger *zap.Logger) *Controller {
	return &Controller{
		catalog: catalog,
		logger:  logger,
	}
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	all := c.catalog.All()
	services := make([]serviceResponse, len(all))
	for i, s := range all {
		services[i] = serviceResponse{ID: s.ID, Name: s.Name}
	}

	commons.WriteJSON(w, http.StatusOK, catalogResponse{
		TraceID:  commons.TraceID(r.Context()),
		Services: services,
	}, c.logger)
}
