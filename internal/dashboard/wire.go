package dashboard

import (
	"go.uber.org/zap"
)

func NewModule(gateway Gateway, logger *zap.Logger) *Controller {
	return NewController(NewAggregator(gateway, logger), logger)
}
