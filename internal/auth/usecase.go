package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"caritas/internal/commons"
	"caritas/internal/dto"
	apperrors "caritas/internal/errors"
)

const msgInvalidCredentials = "Correo o contraseña incorrectos"

type Gateway interface {
	Login(ctx context.Context, email, password string) (*dto.LoginResponse, error)
}

type Sessions interface {
	Create(token string) (Session, error)
	Delete(id string) error
}

type credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginUseCase struct {
	gateway  Gateway
	sessions Sessions
	logger   *zap.Logger
}

func NewLoginUseCase(gateway Gateway, sessions Sessions, logger *zap.Logger) *LoginUseCase {
	return &LoginUseCase{
		gateway:  gateway,
		sessions: sessions,
		logger:   logger,
	}
}

// Login exchanges credentials for a token and opens a session holding it. A
// rejection comes back as an UnauthorizedError carrying the server message,
// or the generic credentials message when the server sent none.
func (uc *LoginUseCase) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)

	if err := commons.ValidateStruct(credentials{Email: email, Password: password}); err != nil {
		return Session{}, err
	}

	resp, err := uc.gateway.Login(ctx, email, password)
	if err != nil {
		if re, ok := apperrors.IsRemoteError(err); ok && re.Transport {
			uc.logger.Error("login request failed", zap.Error(err))
			return Session{}, err
		}
		uc.logger.Info("login rejected", zap.String("email", email), zap.Error(err))
		return Session{}, apperrors.NewUnauthorizedError(apperrors.UserMessage(err, msgInvalidCredentials))
	}

	if resp == nil || resp.Token == "" {
		uc.logger.Warn("login response without token", zap.String("email", email))
		return Session{}, apperrors.NewUnauthorizedError(msgInvalidCredentials)
	}

	sess, err := uc.sessions.Create(resp.Token)
	if err != nil {
		return Session{}, apperrors.NewInternalError("saving session", err)
	}

	uc.logger.Info("login succeeded", zap.String("email", email))
	return sess, nil
}

func (uc *LoginUseCase) Logout(sessionID string) error {
	if err := uc.sessions.Delete(sessionID); err != nil {
		return apperrors.NewInternalError("closing session", err)
	}
	return nil
}
