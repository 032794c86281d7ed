package auth

import (
	"go.uber.org/zap"
)

func NewModule(gateway Gateway, sessions Sessions, secureCookie bool, logger *zap.Logger) *Controller {
	uc := NewLoginUseCase(gateway, sessions, logger)
	return NewController(uc, secureCookie, logger)
}
