package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"caritas/internal/auth"
	"caritas/internal/catalog"
	"caritas/internal/commons"
	"caritas/internal/confirmation"
	"caritas/internal/dashboard"
	"caritas/internal/reservation"
)

type Controllers struct {
	Auth         *auth.Controller
	Reservations *reservation.Controller
	Catalog      *catalog.Controller
	Dashboard    *dashboard.Controller
	Confirmation *confirmation.Controller
}

type adminIndexResponse struct {
	Sections map[string]string `json:"sections"`
}

// NewRouter mounts the console. Sessions come from the caritas_session
// cookie; /admin, /logout and the confirmation POST need one, and their
// unsafe requests must also echo the session's CSRF token.
func NewRouter(ctrls Controllers, sessions auth.SessionSource, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(Trace(logger))
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(auth.LoadSession(sessions))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		commons.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	})

	r.Get("/", ctrls.Auth.HandleStatus)
	r.Post("/login", ctrls.Auth.HandleLogin)

	// Deep link sent to staff. Viewing is public; the remote API still checks
	// the token of whoever is logged in.
	r.Get("/confirm-reservation", ctrls.Confirmation.HandleView)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(logger))

		r.Post("/logout", ctrls.Auth.HandleLogout)
		r.Post("/confirm-reservation", ctrls.Confirmation.HandleConfirm)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				commons.WriteJSON(w, http.StatusOK, adminIndexResponse{Sections: map[string]string{
					"dashboard":    "/admin/dashboard",
					"reservations": "/admin/reservations",
					"catalog":      "/admin/catalog",
				}}, logger)
			})
			r.Get("/dashboard", ctrls.Dashboard.HandleDashboard)
			r.Get("/catalog", ctrls.Catalog.HandleList)
			r.Route("/reservations", ctrls.Reservations.Routes)
		})
	})

	return r
}
