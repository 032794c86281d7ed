package reservation

import (
	"go.uber.org/zap"

	"caritas/internal/editor"
)

func NewModule(gateway Gateway, catalog editor.Catalog, logger *zap.Logger, opts ...Option) *Controller {
	lifecycle := NewLifecycle(gateway, logger, opts...)
	return NewController(lifecycle, catalog, logger)
}
