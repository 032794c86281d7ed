package auth

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"caritas/internal/commons"
	"caritas/internal/dto"
	apperrors "caritas/internal/errors"
)

const adminPath = "/admin"

type Authenticator interface {
	Login(ctx context.Context, email, password string) (Session, error)
	Logout(sessionID string) error
}

type Controller struct {
	auth         Authenticator
	secureCookie bool
	logger       *zap.Logger
}

func NewController(auth Authenticator, secureCookie bool, logger *zap.Logger) *Controller {
	return &Controller{
		auth:         auth,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

type loginResponse struct {
	TraceID   string `json:"traceId"`
	Redirect  string `json:"redirect"`
	CSRFToken string `json:"csrfToken"`
}

type statusResponse struct {
	Authenticated bool   `json:"authenticated"`
	Redirect      string `json:"redirect,omitempty"`
	CSRFToken     string `json:"csrfToken,omitempty"`
}

// HandleStatus serves the landing route: where the caller should go next and,
// for a logged-in browser, the CSRF token its unsafe requests must carry.
func (c *Controller) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var resp statusResponse
	if sess, ok := SessionFromContext(r.Context()); ok {
		resp = statusResponse{Authenticated: true, Redirect: adminPath, CSRFToken: sess.CSRF}
	}
	commons.WriteJSON(w, http.StatusOK, resp, c.logger)
}

func (c *Controller) HandleLogin(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.LoginRequest
	if err := commons.DecodeJSON(w, r, &req); err != nil {
		commons.WriteDecodeError(w, traceID, err, logger)
		return
	}

	sess, err := c.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		commons.WriteError(w, traceID, err, msgInvalidCredentials, logger)
		return
	}

	c.setSessionCookie(w, sess.ID)
	commons.WriteJSON(w, http.StatusOK, loginResponse{
		TraceID:   traceID,
		Redirect:  adminPath,
		CSRFToken: sess.CSRF,
	}, logger)
}

// HandleLogout closes the caller's session. It sits behind RequireSession.
func (c *Controller) HandleLogout(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	sess, ok := SessionFromContext(r.Context())
	if !ok {
		commons.WriteError(w, traceID, apperrors.NewUnauthorizedError("login required"), "", c.logger)
		return
	}

	if err := c.auth.Logout(sess.ID); err != nil {
		commons.WriteError(w, traceID, err, "", c.logger)
		return
	}

	c.expireSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) setSessionCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

func (c *Controller) expireSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}
