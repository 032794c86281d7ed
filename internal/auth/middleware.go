package auth

import (
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"

	"caritas/internal/commons"
	apperrors "caritas/internal/errors"
)

const (
	SessionCookie = "caritas_session"
	CSRFHeader    = "X-CSRF-Token"
)

type SessionSource interface {
	Get(id string) (Session, bool)
}

// LoadSession attaches the caller's session to the request context when the
// session cookie names a live one. It never rejects a request.
func LoadSession(sessions SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(SessionCookie); err == nil {
				if sess, ok := sessions.Get(c.Value); ok {
					r = r.WithContext(WithSession(r.Context(), sess))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession answers 401 to callers without a session, and 403 to unsafe
// requests whose X-CSRF-Token header does not match their session.
func RequireSession(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := commons.TraceID(r.Context())

			sess, ok := SessionFromContext(r.Context())
			if !ok {
				commons.WriteError(w, traceID, apperrors.NewUnauthorizedError("login required"), "", logger)
				return
			}

			if !safeMethod(r.Method) {
				got := r.Header.Get(CSRFHeader)
				if subtle.ConstantTimeCompare([]byte(got), []byte(sess.CSRF)) != 1 {
					logger.Warn("csrf check failed",
						zap.String("traceId", traceID),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path))
					commons.WriteError(w, traceID, apperrors.NewForbiddenError("missing or invalid CSRF token"), "", logger)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
