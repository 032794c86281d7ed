package confirmation

import (
	"go.uber.org/zap"
)

func NewModule(gateway Gateway, logger *zap.Logger) *Controller {
	return NewController(NewRegistry(gateway, logger), logger)
}
